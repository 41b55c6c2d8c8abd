package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	journalout "daybook/internal/modules/journal/adapter/out"
	"daybook/internal/modules/journal/dto"
	"daybook/internal/modules/journal/service"
	"daybook/internal/modules/journal/usecase"
	"daybook/internal/platform/clock"
	"daybook/internal/platform/period"
)

func newInteractor(t *testing.T) (*usecase.Interactor, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.json")
	resolver := period.NewResolver(clock.Fixed(time.Date(2025, time.October, 5, 9, 0, 0, 0, time.UTC)), "-")
	svc := service.NewJournalService(resolver, journalout.NewFileNoteStore(path, nil), 62, nil)
	return usecase.NewInteractor(svc).(*usecase.Interactor), path
}

func TestSetTextReportsCanonicalization(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	out, err := uc.SetText(context.Background(), dto.SetTextInput{Day: 5, Text: "Hello World"})
	if err != nil {
		t.Fatalf("set text: %v", err)
	}
	if out.Key != "October-2025" || out.Day != 5 || out.Text != "hello world" || !out.Changed {
		t.Fatalf("unexpected output: %+v", out)
	}

	same, err := uc.SetText(context.Background(), dto.SetTextInput{Day: 6, Text: "already lower"})
	if err != nil {
		t.Fatalf("set text: %v", err)
	}
	if same.Changed {
		t.Fatalf("canonical input should not be flagged as changed")
	}
}

func TestCurrentCarriesTodayAndLimit(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	out, err := uc.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if out.Today != 5 || out.MaxTextLength != 62 || len(out.Days) != 31 {
		t.Fatalf("unexpected period output: key=%s today=%d max=%d days=%d", out.Key, out.Today, out.MaxTextLength, len(out.Days))
	}
}

func TestPastPeriodHasNoTodayMarker(t *testing.T) {
	t.Parallel()
	uc, _ := newInteractor(t)
	out, err := uc.Period(context.Background(), "february-2024")
	if err != nil {
		t.Fatalf("period: %v", err)
	}
	if out.Key != "February-2024" || out.Today != 0 || len(out.Days) != 29 {
		t.Fatalf("unexpected past period: %+v", out)
	}
}

func TestBootstrapCreatesDocument(t *testing.T) {
	t.Parallel()
	uc, path := newInteractor(t)
	if err := uc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	periods, err := uc.Periods(context.Background())
	if err != nil {
		t.Fatalf("periods: %v", err)
	}
	if len(periods) != 0 {
		t.Fatalf("fresh document should have no periods, got %v", periods)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("notes document not created: %v", err)
	}
}
