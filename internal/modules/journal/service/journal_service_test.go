package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	journalout "daybook/internal/modules/journal/adapter/out"
	"daybook/internal/modules/journal/domain"
	"daybook/internal/modules/journal/service"
	apperrors "daybook/internal/platform/errors"
	"daybook/internal/platform/period"
)

type movableClock struct{ now time.Time }

func (c *movableClock) Now() time.Time { return c.now }

type failingStore struct {
	saves int
}

func (f *failingStore) Bootstrap(context.Context) error { return nil }
func (f *failingStore) Load(context.Context, string) (domain.DayTexts, error) {
	return domain.DayTexts{}, nil
}
func (f *failingStore) Save(context.Context, string, []domain.DayRecord) error {
	f.saves++
	return errors.New("permission denied")
}
func (f *failingStore) Periods(context.Context) ([]string, error) { return nil, nil }

func october(day int) *movableClock {
	return &movableClock{now: time.Date(2025, time.October, day, 12, 0, 0, 0, time.UTC)}
}

func TestHelloWorldScenarioSurvivesReload(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.json")
	resolver := period.NewResolver(october(5), "-")
	svc := service.NewJournalService(resolver, journalout.NewFileNoteStore(path, nil), 62, nil)

	key, record, err := svc.SetText(context.Background(), "", 5, "Hello World")
	if err != nil {
		t.Fatalf("set text: %v", err)
	}
	if key != "October-2025" || record.Text != "hello world" {
		t.Fatalf("unexpected result %s %+v", key, record)
	}

	fresh := service.NewJournalService(resolver, journalout.NewFileNoteStore(path, nil), 62, nil)
	_, days, err := fresh.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(days) != 31 || days[4].Text != "hello world" {
		t.Fatalf("reloaded day 5 mismatch: %+v", days[4])
	}
}

func TestSetTextTruncatesToConfiguredLimit(t *testing.T) {
	t.Parallel()
	svc := service.NewJournalService(period.NewResolver(october(1), "-"),
		journalout.NewFileNoteStore(filepath.Join(t.TempDir(), "notes.json"), nil), 5, nil)
	_, record, err := svc.SetText(context.Background(), "", 1, "ABCDEFGH")
	if err != nil {
		t.Fatalf("set text: %v", err)
	}
	if record.Text != "abcde" {
		t.Fatalf("expected truncated text, got %q", record.Text)
	}
}

func TestSetTextRejectsDaysOutsidePeriod(t *testing.T) {
	t.Parallel()
	clk := &movableClock{now: time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)}
	svc := service.NewJournalService(period.NewResolver(clk, "-"),
		journalout.NewFileNoteStore(filepath.Join(t.TempDir(), "notes.json"), nil), 62, nil)
	for _, day := range []int{0, 29, -1} {
		if _, _, err := svc.SetText(context.Background(), "", day, "x"); !errors.Is(err, apperrors.ErrDayOutOfRange) {
			t.Fatalf("day %d: expected out of range, got %v", day, err)
		}
	}
}

func TestWriteFailureKeepsInMemoryValue(t *testing.T) {
	t.Parallel()
	store := &failingStore{}
	svc := service.NewJournalService(period.NewResolver(october(9), "-"), store, 62, nil)
	_, record, err := svc.SetText(context.Background(), "", 9, "Draft")
	if err == nil {
		t.Fatalf("expected save error")
	}
	if record.Text != "draft" {
		t.Fatalf("record should carry canonical text, got %q", record.Text)
	}
	_, days, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if days[8].Text != "draft" {
		t.Fatalf("in-memory state should keep the edit, got %q", days[8].Text)
	}
	if store.saves != 1 {
		t.Fatalf("no retry expected, got %d saves", store.saves)
	}
}

func TestRolloverOpensNextPeriod(t *testing.T) {
	t.Parallel()
	clk := &movableClock{now: time.Date(2025, time.October, 31, 23, 0, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), "notes.json")
	svc := service.NewJournalService(period.NewResolver(clk, "-"), journalout.NewFileNoteStore(path, nil), 62, nil)
	if _, _, err := svc.SetText(context.Background(), "", 31, "last day"); err != nil {
		t.Fatalf("set october: %v", err)
	}
	clk.now = time.Date(2025, time.November, 1, 0, 5, 0, 0, time.UTC)
	key, days, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if key != "November-2025" || len(days) != 30 {
		t.Fatalf("expected fresh november, got %s with %d days", key, len(days))
	}
	_, octDays, err := svc.Period(context.Background(), "October-2025")
	if err != nil {
		t.Fatalf("load october: %v", err)
	}
	if octDays[30].Text != "last day" {
		t.Fatalf("october lost after rollover: %+v", octDays[30])
	}
	periods, err := svc.Periods(context.Background())
	if err != nil || len(periods) != 1 || periods[0] != "October-2025" {
		t.Fatalf("only october has been written so far: %v %v", periods, err)
	}
}

func TestEditForRolledOverPeriodIsDropped(t *testing.T) {
	t.Parallel()
	clk := &movableClock{now: time.Date(2025, time.October, 31, 23, 59, 0, 0, time.UTC)}
	path := filepath.Join(t.TempDir(), "notes.json")
	svc := service.NewJournalService(period.NewResolver(clk, "-"), journalout.NewFileNoteStore(path, nil), 62, nil)
	ctx := context.Background()
	if _, _, err := svc.SetText(ctx, "October-2025", 5, "late entry"); err != nil {
		t.Fatalf("set october: %v", err)
	}

	clk.now = time.Date(2025, time.November, 1, 0, 0, 30, 0, time.UTC)
	key, _, err := svc.SetText(ctx, "October-2025", 5, "late entry plus")
	if !errors.Is(err, apperrors.ErrPeriodChanged) {
		t.Fatalf("expected period changed, got %v", err)
	}
	if key != "November-2025" {
		t.Fatalf("expected the new period to be open, got %s", key)
	}
	_, days, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if days[4].Text != "" {
		t.Fatalf("stale text leaked into november: %q", days[4].Text)
	}
	periods, err := svc.Periods(ctx)
	if err != nil || len(periods) != 1 || periods[0] != "October-2025" {
		t.Fatalf("november must not be written: %v %v", periods, err)
	}
	_, octDays, err := svc.Period(ctx, "October-2025")
	if err != nil || octDays[4].Text != "late entry" {
		t.Fatalf("october should keep its last saved text: %+v %v", octDays[4], err)
	}
}
