package usecase_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	habitout "daybook/internal/modules/habit/adapter/out"
	habitservice "daybook/internal/modules/habit/service"
	habitusecase "daybook/internal/modules/habit/usecase"
	insightout "daybook/internal/modules/insight/adapter/out"
	"daybook/internal/modules/insight/dto"
	"daybook/internal/modules/insight/service"
	"daybook/internal/modules/insight/usecase"
	journalout "daybook/internal/modules/journal/adapter/out"
	journaldto "daybook/internal/modules/journal/dto"
	journalin "daybook/internal/modules/journal/port/in"
	journalservice "daybook/internal/modules/journal/service"
	journalusecase "daybook/internal/modules/journal/usecase"
	"daybook/internal/platform/clock"
	apperrors "daybook/internal/platform/errors"
	"daybook/internal/platform/period"

	_ "modernc.org/sqlite"
)

type movableClock struct{ now time.Time }

func (c *movableClock) Now() time.Time { return c.now }

type fixture struct {
	clock   *movableClock
	journal journalin.Usecase
	habits  *habitservice.HabitService
	insight *usecase.Interactor
	dbPath  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	clk := &movableClock{now: time.Date(2025, time.September, 20, 10, 0, 0, 0, time.UTC)}
	resolver := period.NewResolver(clk, "-")

	journalUC := journalusecase.NewInteractor(journalservice.NewJournalService(resolver, journalout.NewFileNoteStore(filepath.Join(dir, "notes.json"), nil), 62, nil))
	habitSvc, err := habitservice.NewHabitService(resolver, habitout.NewFileMarkStore(filepath.Join(dir, "habits.json"), nil), []string{"run", "read"}, nil)
	if err != nil {
		t.Fatalf("new habit service: %v", err)
	}
	habitUC := habitusecase.NewInteractor(habitSvc)

	dbPath := filepath.Join(dir, ".daybook", "index.db")
	index, err := insightout.NewSQLiteIndex(dbPath)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	t.Cleanup(func() { _ = index.Close() })
	svc := service.NewInsightService(resolver, index, index,
		insightout.NewJournalSourceAdapter(journalUC),
		insightout.NewHabitSourceAdapter(habitUC),
		nil,
	)
	return fixture{clock: clk, journal: journalUC, habits: habitSvc, insight: usecase.NewInteractor(svc).(*usecase.Interactor), dbPath: dbPath}
}

func (f fixture) note(t *testing.T, day int, text string) {
	t.Helper()
	if _, err := f.journal.SetText(context.Background(), journaldto.SetTextInput{Day: day, Text: text}); err != nil {
		t.Fatalf("set text: %v", err)
	}
}

func TestReindexSearchAndStatsAcrossPeriods(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.note(t, 3, "Went running by the river")
	f.note(t, 20, "Read two chapters")
	if _, _, err := f.habits.Set(ctx, "run", 3, true); err != nil {
		t.Fatalf("set habit: %v", err)
	}

	f.clock.now = time.Date(2025, time.October, 2, 9, 0, 0, 0, time.UTC)
	f.note(t, 1, "River walk, no running")
	if _, _, err := f.habits.Toggle(ctx, "read", 1); err != nil {
		t.Fatalf("toggle habit: %v", err)
	}

	out, err := f.insight.Reindex(ctx)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if out.Periods != 2 || out.Notes != 3 || out.Marks != 2*30+2*31 {
		t.Fatalf("unexpected reindex summary: %+v", out)
	}

	hits, err := f.insight.Search(ctx, dto.SearchInput{Query: "RIVER"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 || hits[0].Period != "September-2025" || hits[1].Period != "October-2025" {
		t.Fatalf("expected chronological hits, got %+v", hits)
	}
	limited, err := f.insight.Search(ctx, dto.SearchInput{Query: "river", Limit: 1})
	if err != nil || len(limited) != 1 || limited[0].Day != 3 {
		t.Fatalf("limit not applied: %+v %v", limited, err)
	}

	stats, err := f.insight.Stats(ctx, "September-2025")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Days != 30 || stats.NotedDays != 2 || len(stats.Habits) != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Habits[0].Habit != "run" || stats.Habits[0].Checked != 1 || stats.Habits[1].Checked != 0 {
		t.Fatalf("unexpected habit stats: %+v", stats.Habits)
	}
	if stats.Habits[0].Rate != 1.0/30 {
		t.Fatalf("unexpected rate: %v", stats.Habits[0].Rate)
	}

	db, err := sql.Open("sqlite", f.dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	var notes int
	if err := db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&notes); err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if notes != 3 {
		t.Fatalf("expected 3 indexed notes, got %d", notes)
	}
}

func TestStatsRefreshesCurrentPeriodWithoutReindex(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.note(t, 1, "first")
	if _, _, err := f.habits.Set(ctx, "read", 1, true); err != nil {
		t.Fatalf("set habit: %v", err)
	}

	stats, err := f.insight.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Key != "September-2025" || stats.NotedDays != 1 || stats.Habits[1].Checked != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	f.note(t, 1, "")
	stats, err = f.insight.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.NotedDays != 0 {
		t.Fatalf("cleared note should leave no noted days, got %d", stats.NotedDays)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	if _, err := f.insight.Search(context.Background(), dto.SearchInput{Query: "  "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

var _ clock.Clock = (*movableClock)(nil)
