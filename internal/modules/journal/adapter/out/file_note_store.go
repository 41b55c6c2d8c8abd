package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"daybook/internal/modules/journal/domain"
	journalout "daybook/internal/modules/journal/port/out"
	"daybook/internal/platform/jsonfile"
	"daybook/internal/platform/logger"
)

type FileNoteStore struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

func NewFileNoteStore(path string, log *logger.Logger) journalout.NoteStore {
	return &FileNoteStore{path: path, log: logger.OrNop(log).WithComponent("note-store")}
}

func (s *FileNoteStore) Bootstrap(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if jsonfile.Exists(s.path) {
		return nil
	}
	if err := jsonfile.Write(s.path, domain.Document{}); err != nil {
		return fmt.Errorf("create notes document: %w", err)
	}
	s.log.Infow("created empty notes document", "path", s.path)
	return nil
}

// Load decodes only periodKey. A value there that is not a day-to-text
// object reads as empty; other periods are never decoded.
func (s *FileNoteStore) Load(_ context.Context, periodKey string) (domain.DayTexts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sections, err := s.read()
	if err != nil {
		return nil, err
	}
	texts := domain.DayTexts{}
	if _, err := sections.Decode(periodKey, &texts); err != nil {
		s.log.Warnw("notes period is malformed, treating as empty", "period", periodKey, "error", err)
		return domain.DayTexts{}, nil
	}
	if texts == nil {
		texts = domain.DayTexts{}
	}
	return texts, nil
}

// Save replaces periodKey and writes every other period back as it was read.
func (s *FileNoteStore) Save(_ context.Context, periodKey string, days []domain.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sections, err := s.read()
	if err != nil {
		return err
	}
	if err := sections.Set(periodKey, domain.TextsOf(days)); err != nil {
		return err
	}
	if err := jsonfile.Write(s.path, sections); err != nil {
		return fmt.Errorf("write notes document: %w", err)
	}
	return nil
}

func (s *FileNoteStore) Periods(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sections, err := s.read()
	if err != nil {
		return nil, err
	}
	return sections.Keys(), nil
}

// read splits the document at its top level. Absent files and files that
// are not a JSON object both read as empty; a later Save then overwrites
// whatever was unreadable.
func (s *FileNoteStore) read() (jsonfile.Sections, error) {
	sections, err := jsonfile.ReadSections(s.path)
	switch {
	case err == nil:
		return sections, nil
	case errors.Is(err, os.ErrNotExist):
		return jsonfile.Sections{}, nil
	case errors.Is(err, jsonfile.ErrMalformed):
		s.log.Warnw("notes document is malformed, treating as empty", "path", s.path, "error", err)
		return jsonfile.Sections{}, nil
	default:
		return nil, fmt.Errorf("read notes document: %w", err)
	}
}
