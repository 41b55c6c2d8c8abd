package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"daybook/internal/modules/habit/domain"
	habitout "daybook/internal/modules/habit/port/out"
	apperrors "daybook/internal/platform/errors"
	"daybook/internal/platform/logger"
	"daybook/internal/platform/period"
)

// HabitService owns the habit grid of the current period. Marks are kept
// habit-major and the whole period is written through on every change.
type HabitService struct {
	resolver *period.Resolver
	store    habitout.MarkStore
	habits   []string
	log      *logger.Logger

	mu    sync.Mutex
	key   string
	days  int
	marks []domain.HabitMark
}

func NewHabitService(resolver *period.Resolver, store habitout.MarkStore, habits []string, log *logger.Logger) (*HabitService, error) {
	if err := domain.ValidateNames(habits, 0); err != nil {
		return nil, err
	}
	names := append([]string(nil), habits...)
	return &HabitService{resolver: resolver, store: store, habits: names, log: logger.OrNop(log).WithComponent("habits")}, nil
}

func (s *HabitService) Bootstrap(ctx context.Context) error {
	return s.store.Bootstrap(ctx)
}

func (s *HabitService) Open(ctx context.Context) (string, []domain.HabitMark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.open(ctx); err != nil {
		return "", nil, err
	}
	return s.key, s.snapshot(), nil
}

func (s *HabitService) Current(ctx context.Context) (string, []domain.HabitMark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(ctx); err != nil {
		return "", nil, err
	}
	return s.key, s.snapshot(), nil
}

// Set stores checked for (habit, day) in the current period. habit may be a
// configured name, matched case-insensitively, or its 1-based position.
func (s *HabitService) Set(ctx context.Context, habit string, day int, checked bool) (string, domain.HabitMark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.locate(ctx, habit, day)
	if err != nil {
		return s.key, domain.HabitMark{}, err
	}
	s.marks[idx].Checked = checked
	return s.persist(ctx, idx)
}

func (s *HabitService) Toggle(ctx context.Context, habit string, day int) (string, domain.HabitMark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.locate(ctx, habit, day)
	if err != nil {
		return s.key, domain.HabitMark{}, err
	}
	s.marks[idx].Checked = !s.marks[idx].Checked
	return s.persist(ctx, idx)
}

// Period loads any period read-only. Habits found on disk that are no longer
// configured are listed after the configured ones.
func (s *HabitService) Period(ctx context.Context, key string) (string, []string, []domain.HabitMark, error) {
	p, err := s.resolver.Parse(key)
	if err != nil {
		return "", nil, nil, err
	}
	canonicalKey := p.Key(s.resolver.Separator())
	saved, err := s.store.Load(ctx, canonicalKey)
	if err != nil {
		return "", nil, nil, err
	}
	names := append([]string(nil), s.habits...)
	var extras []string
	for name := range saved {
		if !slices.Contains(names, name) {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	names = append(names, extras...)

	marks := domain.NewMarks(names, p.Days())
	domain.ApplyMarks(marks, saved)
	return canonicalKey, names, marks, nil
}

func (s *HabitService) Periods(ctx context.Context) ([]string, error) {
	keys, err := s.store.Periods(ctx)
	if err != nil {
		return nil, err
	}
	s.resolver.SortKeys(keys)
	return keys, nil
}

func (s *HabitService) Names() []string {
	return append([]string(nil), s.habits...)
}

// Resolve maps user input to a configured habit name.
func (s *HabitService) Resolve(habit string) (string, error) {
	for _, name := range s.habits {
		if name == habit {
			return name, nil
		}
	}
	for _, name := range s.habits {
		if strings.EqualFold(name, strings.TrimSpace(habit)) {
			return name, nil
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(habit)); err == nil && n >= 1 && n <= len(s.habits) {
		return s.habits[n-1], nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownHabit, habit)
}

func (s *HabitService) CurrentKey() string { return s.resolver.CurrentKey() }
func (s *HabitService) Today() int         { return s.resolver.Today() }

func (s *HabitService) locate(ctx context.Context, habit string, day int) (int, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return -1, err
	}
	name, err := s.Resolve(habit)
	if err != nil {
		return -1, err
	}
	idx := domain.Index(s.habits, s.days, name, day)
	if idx < 0 {
		return -1, fmt.Errorf("%w: day %d not in %s", apperrors.ErrDayOutOfRange, day, s.key)
	}
	return idx, nil
}

func (s *HabitService) persist(ctx context.Context, idx int) (string, domain.HabitMark, error) {
	mark := s.marks[idx]
	if err := s.store.Save(ctx, s.key, s.marks); err != nil {
		s.log.Errorw("save habits failed", "period", s.key, "habit", mark.Habit, "day", mark.Day, "error", err)
		return s.key, mark, err
	}
	s.log.Debugw("habits saved", "period", s.key, "habit", mark.Habit, "day", mark.Day, "checked", mark.Checked)
	return s.key, mark, nil
}

func (s *HabitService) ensureOpen(ctx context.Context) error {
	if s.marks != nil && s.key == s.resolver.CurrentKey() {
		return nil
	}
	return s.open(ctx)
}

func (s *HabitService) open(ctx context.Context) error {
	key := s.resolver.CurrentKey()
	saved, err := s.store.Load(ctx, key)
	if err != nil {
		return err
	}
	days := s.resolver.DaysInCurrentPeriod()
	marks := domain.NewMarks(s.habits, days)
	domain.ApplyMarks(marks, saved)
	s.key, s.days, s.marks = key, days, marks
	s.log.Debugw("period opened", "period", key, "habits", len(s.habits), "days", days)
	return nil
}

func (s *HabitService) snapshot() []domain.HabitMark {
	out := make([]domain.HabitMark, len(s.marks))
	copy(out, s.marks)
	return out
}
