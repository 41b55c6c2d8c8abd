package out

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"daybook/internal/modules/insight/domain"
)

func newIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	index, err := NewSQLiteIndex(filepath.Join(t.TempDir(), ".daybook", "index.db"))
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func TestUpsertAndQuery(t *testing.T) {
	t.Parallel()
	index := newIndex(t)
	ctx := context.Background()

	for _, n := range []domain.Note{
		{Period: "October-2025", Day: 5, Text: "hello world"},
		{Period: "October-2025", Day: 6, Text: "rain"},
		{Period: "September-2025", Day: 1, Text: "world tour"},
	} {
		if err := index.UpsertNote(ctx, n); err != nil {
			t.Fatalf("upsert note: %v", err)
		}
	}
	if err := index.UpsertNote(ctx, domain.Note{Period: "October-2025", Day: 6, Text: "sunny"}); err != nil {
		t.Fatalf("update note: %v", err)
	}
	for _, m := range []domain.Mark{
		{Period: "October-2025", Habit: "run", Day: 1, Checked: true},
		{Period: "October-2025", Habit: "run", Day: 2, Checked: true},
		{Period: "October-2025", Habit: "read", Day: 1, Checked: false},
	} {
		if err := index.UpsertMark(ctx, m); err != nil {
			t.Fatalf("upsert mark: %v", err)
		}
	}

	hits, err := index.SearchNotes(ctx, "world")
	if err != nil || len(hits) != 2 {
		t.Fatalf("search = %+v, %v", hits, err)
	}
	if hits, _ := index.SearchNotes(ctx, "rain"); len(hits) != 0 {
		t.Fatalf("upsert should replace text, got %+v", hits)
	}

	noted, err := index.NotedDays(ctx, "October-2025")
	if err != nil || noted != 2 {
		t.Fatalf("noted days = %d, %v", noted, err)
	}
	counts, err := index.HabitCounts(ctx, "October-2025")
	if err != nil {
		t.Fatalf("habit counts: %v", err)
	}
	if counts["run"] != 2 || counts["read"] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestResetPeriodLeavesOthers(t *testing.T) {
	t.Parallel()
	index := newIndex(t)
	ctx := context.Background()
	_ = index.UpsertNote(ctx, domain.Note{Period: "October-2025", Day: 1, Text: "a"})
	_ = index.UpsertNote(ctx, domain.Note{Period: "September-2025", Day: 1, Text: "b"})

	if err := index.ResetPeriod(ctx, "October-2025"); err != nil {
		t.Fatalf("reset period: %v", err)
	}
	if n, _ := index.NotedDays(ctx, "October-2025"); n != 0 {
		t.Fatalf("October should be empty, got %d", n)
	}
	if n, _ := index.NotedDays(ctx, "September-2025"); n != 1 {
		t.Fatalf("September should survive, got %d", n)
	}
}

func TestWithinRollsBackIndexWrites(t *testing.T) {
	t.Parallel()
	index := newIndex(t)
	ctx := context.Background()
	_ = index.UpsertNote(ctx, domain.Note{Period: "October-2025", Day: 1, Text: "kept"})

	boom := errors.New("boom")
	err := index.Within(ctx, func(ctx context.Context) error {
		if err := index.Reset(ctx); err != nil {
			return err
		}
		if err := index.UpsertNote(ctx, domain.Note{Period: "October-2025", Day: 2, Text: "lost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	hits, err := index.SearchNotes(ctx, "")
	if err != nil || len(hits) != 1 || hits[0].Text != "kept" {
		t.Fatalf("rollback failed: %+v, %v", hits, err)
	}
}
