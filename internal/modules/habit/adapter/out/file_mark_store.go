package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"daybook/internal/modules/habit/domain"
	habitout "daybook/internal/modules/habit/port/out"
	"daybook/internal/platform/jsonfile"
	"daybook/internal/platform/logger"
)

type FileMarkStore struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

func NewFileMarkStore(path string, log *logger.Logger) habitout.MarkStore {
	return &FileMarkStore{path: path, log: logger.OrNop(log).WithComponent("mark-store")}
}

func (s *FileMarkStore) Bootstrap(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if jsonfile.Exists(s.path) {
		return nil
	}
	if err := jsonfile.Write(s.path, domain.Document{}); err != nil {
		return fmt.Errorf("create habits document: %w", err)
	}
	s.log.Infow("created empty habits document", "path", s.path)
	return nil
}

func (s *FileMarkStore) Load(_ context.Context, periodKey string) (domain.PeriodMarks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sections, err := s.read()
	if err != nil {
		return nil, err
	}
	marks := domain.PeriodMarks{}
	if _, err := sections.Decode(periodKey, &marks); err != nil {
		s.log.Warnw("habits period is malformed, treating as empty", "period", periodKey, "error", err)
		return domain.PeriodMarks{}, nil
	}
	if marks == nil {
		marks = domain.PeriodMarks{}
	}
	return marks, nil
}

// Save replaces the period's habit mapping with marks. Habits on disk that
// marks does not mention are dropped from that period; other periods are
// written back as they were read.
func (s *FileMarkStore) Save(_ context.Context, periodKey string, marks []domain.HabitMark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sections, err := s.read()
	if err != nil {
		return err
	}
	if err := sections.Set(periodKey, domain.MarksOf(marks)); err != nil {
		return err
	}
	if err := jsonfile.Write(s.path, sections); err != nil {
		return fmt.Errorf("write habits document: %w", err)
	}
	return nil
}

func (s *FileMarkStore) Periods(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sections, err := s.read()
	if err != nil {
		return nil, err
	}
	return sections.Keys(), nil
}

func (s *FileMarkStore) read() (jsonfile.Sections, error) {
	sections, err := jsonfile.ReadSections(s.path)
	switch {
	case err == nil:
		return sections, nil
	case errors.Is(err, os.ErrNotExist):
		return jsonfile.Sections{}, nil
	case errors.Is(err, jsonfile.ErrMalformed):
		s.log.Warnw("habits document is malformed, treating as empty", "path", s.path, "error", err)
		return jsonfile.Sections{}, nil
	default:
		return nil, fmt.Errorf("read habits document: %w", err)
	}
}
