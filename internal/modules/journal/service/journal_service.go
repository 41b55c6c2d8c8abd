package service

import (
	"context"
	"fmt"
	"sync"

	"daybook/internal/modules/journal/domain"
	journalout "daybook/internal/modules/journal/port/out"
	apperrors "daybook/internal/platform/errors"
	"daybook/internal/platform/logger"
	"daybook/internal/platform/period"
)

// JournalService owns the day records of the current period. Every edit is
// canonicalized, stored in memory, then written through to the NoteStore.
type JournalService struct {
	resolver *period.Resolver
	store    journalout.NoteStore
	maxLen   int
	log      *logger.Logger

	mu      sync.Mutex
	current period.Period
	key     string
	days    []domain.DayRecord
}

func NewJournalService(resolver *period.Resolver, store journalout.NoteStore, maxLen int, log *logger.Logger) *JournalService {
	if maxLen <= 0 {
		maxLen = domain.DefaultMaxTextLength
	}
	return &JournalService{resolver: resolver, store: store, maxLen: maxLen, log: logger.OrNop(log).WithComponent("journal")}
}

func (s *JournalService) Bootstrap(ctx context.Context) error {
	return s.store.Bootstrap(ctx)
}

// Open (re)builds the records for the current period from the store.
func (s *JournalService) Open(ctx context.Context) (string, []domain.DayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.open(ctx); err != nil {
		return "", nil, err
	}
	return s.key, s.snapshot(), nil
}

// Current returns the open period, opening it on first use or after the
// month has rolled over.
func (s *JournalService) Current(ctx context.Context) (string, []domain.DayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(ctx); err != nil {
		return "", nil, err
	}
	return s.key, s.snapshot(), nil
}

// SetText canonicalizes raw, stores it on the day record and rewrites the
// current period. On a write failure the in-memory record keeps the new text
// and the error is returned.
//
// A non-empty periodKey names the period the caller is editing. When the
// month has rolled past it the edit is dropped with ErrPeriodChanged and the
// new period is left open, so stale text never lands in the new month.
func (s *JournalService) SetText(ctx context.Context, periodKey string, day int, raw string) (string, domain.DayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(ctx); err != nil {
		return "", domain.DayRecord{}, err
	}
	if periodKey != "" && periodKey != s.key {
		s.log.Infow("dropped edit for a closed period", "period", periodKey, "current", s.key, "day", day)
		return s.key, domain.DayRecord{}, fmt.Errorf("%w: editing %s, current is %s", apperrors.ErrPeriodChanged, periodKey, s.key)
	}
	if !s.current.Contains(day) {
		return s.key, domain.DayRecord{}, fmt.Errorf("%w: day %d not in %s", apperrors.ErrDayOutOfRange, day, s.key)
	}
	s.days[day-1].Text = domain.Canonicalize(raw, s.maxLen)
	record := s.days[day-1]
	if err := s.store.Save(ctx, s.key, s.days); err != nil {
		s.log.Errorw("save notes failed", "period", s.key, "day", day, "error", err)
		return s.key, record, err
	}
	s.log.Debugw("notes saved", "period", s.key, "day", day)
	return s.key, record, nil
}

// Period loads any period by key without touching the open one.
func (s *JournalService) Period(ctx context.Context, key string) (string, []domain.DayRecord, error) {
	p, err := s.resolver.Parse(key)
	if err != nil {
		return "", nil, err
	}
	canonicalKey := p.Key(s.resolver.Separator())
	texts, err := s.store.Load(ctx, canonicalKey)
	if err != nil {
		return "", nil, err
	}
	days := domain.NewDays(p.Days())
	domain.Apply(days, texts)
	return canonicalKey, days, nil
}

func (s *JournalService) Periods(ctx context.Context) ([]string, error) {
	keys, err := s.store.Periods(ctx)
	if err != nil {
		return nil, err
	}
	s.resolver.SortKeys(keys)
	return keys, nil
}

func (s *JournalService) CurrentKey() string { return s.resolver.CurrentKey() }
func (s *JournalService) Today() int         { return s.resolver.Today() }
func (s *JournalService) MaxTextLength() int { return s.maxLen }

func (s *JournalService) ensureOpen(ctx context.Context) error {
	if s.days != nil && s.key == s.resolver.CurrentKey() {
		return nil
	}
	return s.open(ctx)
}

func (s *JournalService) open(ctx context.Context) error {
	current := s.resolver.Current()
	key := current.Key(s.resolver.Separator())
	texts, err := s.store.Load(ctx, key)
	if err != nil {
		return err
	}
	days := domain.NewDays(current.Days())
	domain.Apply(days, texts)
	s.current, s.key, s.days = current, key, days
	s.log.Debugw("period opened", "period", key, "days", len(days))
	return nil
}

func (s *JournalService) snapshot() []domain.DayRecord {
	out := make([]domain.DayRecord, len(s.days))
	copy(out, s.days)
	return out
}
