package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"daybook/internal/modules/insight/domain"
	insightout "daybook/internal/modules/insight/port/out"
	apperrors "daybook/internal/platform/errors"
	"daybook/internal/platform/logger"
	"daybook/internal/platform/period"
	"daybook/internal/platform/tx"
)

// InsightService projects the JSON documents into the sqlite index and
// answers search and statistics queries from it. The documents remain the
// source of truth; the index can always be rebuilt.
type InsightService struct {
	resolver *period.Resolver
	index    insightout.Index
	txm      tx.Manager
	notes    insightout.NoteSource
	marks    insightout.MarkSource
	log      *logger.Logger
}

func NewInsightService(resolver *period.Resolver, index insightout.Index, txm tx.Manager, notes insightout.NoteSource, marks insightout.MarkSource, log *logger.Logger) *InsightService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &InsightService{resolver: resolver, index: index, txm: txm, notes: notes, marks: marks, log: logger.OrNop(log).WithComponent("insight")}
}

func (s *InsightService) Rebuild(ctx context.Context) (domain.RebuildSummary, error) {
	keys, err := s.allPeriods(ctx)
	if err != nil {
		return domain.RebuildSummary{}, err
	}
	summary := domain.RebuildSummary{Periods: len(keys)}
	err = s.txm.Within(ctx, func(ctx context.Context) error {
		if err := s.index.Reset(ctx); err != nil {
			return err
		}
		for _, key := range keys {
			notes, marks, err := s.project(ctx, key)
			if err != nil {
				return err
			}
			summary.Notes += notes
			summary.Marks += marks
		}
		return nil
	})
	if err != nil {
		return domain.RebuildSummary{}, fmt.Errorf("rebuild index: %w", err)
	}
	s.log.Infow("index rebuilt", "periods", summary.Periods, "notes", summary.Notes, "marks", summary.Marks)
	return summary, nil
}

// Search returns notes containing query, oldest first. limit <= 0 returns
// every match.
func (s *InsightService) Search(ctx context.Context, query string, limit int) ([]domain.Note, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", apperrors.ErrInvalidInput)
	}
	hits, err := s.index.SearchNotes(ctx, query)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(hits, func(i, j int) bool { return s.noteLess(hits[i], hits[j]) })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Stats refreshes one period in the index, then summarizes it. An empty key
// selects the current period.
func (s *InsightService) Stats(ctx context.Context, key string) (domain.PeriodStats, error) {
	p, err := s.resolver.Parse(key)
	if err != nil {
		return domain.PeriodStats{}, err
	}
	canonicalKey := p.Key(s.resolver.Separator())

	var stats domain.PeriodStats
	err = s.txm.Within(ctx, func(ctx context.Context) error {
		if err := s.index.ResetPeriod(ctx, canonicalKey); err != nil {
			return err
		}
		noteSheet, err := s.notes.Sheet(ctx, canonicalKey)
		if err != nil {
			return err
		}
		markSheet, err := s.marks.Sheet(ctx, canonicalKey)
		if err != nil {
			return err
		}
		if err := s.upsert(ctx, noteSheet, markSheet); err != nil {
			return err
		}
		noted, err := s.index.NotedDays(ctx, canonicalKey)
		if err != nil {
			return err
		}
		counts, err := s.index.HabitCounts(ctx, canonicalKey)
		if err != nil {
			return err
		}
		stats = domain.PeriodStats{Key: canonicalKey, Days: p.Days(), NotedDays: noted}
		for _, habit := range markSheet.Habits {
			stats.Habits = append(stats.Habits, domain.HabitStat{Habit: habit, Checked: counts[habit], Days: p.Days()})
		}
		return nil
	})
	if err != nil {
		return domain.PeriodStats{}, err
	}
	return stats, nil
}

func (s *InsightService) project(ctx context.Context, key string) (int, int, error) {
	noteSheet, err := s.notes.Sheet(ctx, key)
	if err != nil {
		return 0, 0, err
	}
	markSheet, err := s.marks.Sheet(ctx, key)
	if err != nil {
		return 0, 0, err
	}
	if err := s.upsert(ctx, noteSheet, markSheet); err != nil {
		return 0, 0, err
	}
	return len(noteSheet.Notes), len(markSheet.Marks), nil
}

func (s *InsightService) upsert(ctx context.Context, notes domain.NoteSheet, marks domain.MarkSheet) error {
	for _, n := range notes.Notes {
		if err := s.index.UpsertNote(ctx, n); err != nil {
			return err
		}
	}
	for _, m := range marks.Marks {
		if err := s.index.UpsertMark(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// allPeriods merges the keys of both documents. Keys that do not parse are
// skipped with a warning; they cannot be mapped to a calendar month.
func (s *InsightService) allPeriods(ctx context.Context) ([]string, error) {
	noteKeys, err := s.notes.Periods(ctx)
	if err != nil {
		return nil, err
	}
	markKeys, err := s.marks.Periods(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var keys []string
	for _, key := range append(noteKeys, markKeys...) {
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, err := s.resolver.Parse(key); err != nil {
			s.log.Warnw("skipping unrecognized period", "period", key)
			continue
		}
		keys = append(keys, key)
	}
	s.resolver.SortKeys(keys)
	return keys, nil
}

func (s *InsightService) noteLess(a, b domain.Note) bool {
	if a.Period != b.Period {
		pa, errA := period.Parse(a.Period, s.resolver.Separator())
		pb, errB := period.Parse(b.Period, s.resolver.Separator())
		if errA == nil && errB == nil {
			return pa.Before(pb)
		}
		return a.Period < b.Period
	}
	return a.Day < b.Day
}
