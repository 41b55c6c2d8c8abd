package out_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	journalout "daybook/internal/modules/journal/adapter/out"
	"daybook/internal/modules/journal/domain"
)

func TestLoadMissingReturnsEmptyWithoutCreatingFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.json")
	store := journalout.NewFileNoteStore(path, nil)
	texts, err := store.Load(context.Background(), "October-2025")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(texts) != 0 {
		t.Fatalf("expected empty mapping, got %v", texts)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("load must not create the file, stat err=%v", err)
	}
}

func TestBootstrapCreatesEmptyDocumentOnce(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.json")
	store := journalout.NewFileNoteStore(path, nil)
	if err := store.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "{}" {
		t.Fatalf("expected empty object, got %q", raw)
	}
	days := domain.NewDays(31)
	days[0].Text = "kept"
	if err := store.Save(context.Background(), "October-2025", days); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Bootstrap(context.Background()); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	texts, err := store.Load(context.Background(), "October-2025")
	if err != nil || texts["1"] != "kept" {
		t.Fatalf("bootstrap must not clobber existing data: %v %v", texts, err)
	}
}

func TestSaveRoundTripAndCrossPeriodNonDestruction(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.json")
	store := journalout.NewFileNoteStore(path, nil)
	ctx := context.Background()

	sept := domain.NewDays(30)
	sept[9].Text = "september note"
	if err := store.Save(ctx, "September-2025", sept); err != nil {
		t.Fatalf("save september: %v", err)
	}
	oct := domain.NewDays(31)
	oct[4].Text = "hello world"
	if err := store.Save(ctx, "October-2025", oct); err != nil {
		t.Fatalf("save october: %v", err)
	}

	gotSept, err := store.Load(ctx, "September-2025")
	if err != nil {
		t.Fatalf("load september: %v", err)
	}
	if len(gotSept) != 30 || gotSept["10"] != "september note" {
		t.Fatalf("september damaged: %v", gotSept)
	}
	gotOct, err := store.Load(ctx, "October-2025")
	if err != nil {
		t.Fatalf("load october: %v", err)
	}
	if gotOct["5"] != "hello world" {
		t.Fatalf("expected round trip, got %v", gotOct)
	}
	periods, err := store.Periods(ctx)
	if err != nil || len(periods) != 2 {
		t.Fatalf("expected two periods, got %v %v", periods, err)
	}
}

func TestSavePreservesHandWrittenSiblingPeriod(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.json")
	original := `{"September-2025": {"1": "Primer día", "15": "<mitad>"}}`
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := journalout.NewFileNoteStore(path, nil)
	if err := store.Save(context.Background(), "October-2025", domain.NewDays(31)); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	doc := map[string]map[string]string{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	sept := doc["September-2025"]
	if len(sept) != 2 || sept["1"] != "Primer día" || sept["15"] != "<mitad>" {
		t.Fatalf("sibling period altered: %v", sept)
	}
	if !strings.Contains(string(raw), "<mitad>") {
		t.Fatalf("html characters must not be escaped: %s", raw)
	}
}

func TestMalformedDocumentReadsAsEmptyAndIsReplacedOnSave(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.json")
	if err := os.WriteFile(path, []byte(`{"September-2025": {"1": "x"`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := journalout.NewFileNoteStore(path, nil)
	texts, err := store.Load(context.Background(), "September-2025")
	if err != nil || len(texts) != 0 {
		t.Fatalf("malformed load should be empty without error: %v %v", texts, err)
	}
	days := domain.NewDays(31)
	days[1].Text = "fresh"
	if err := store.Save(context.Background(), "October-2025", days); err != nil {
		t.Fatalf("save over malformed: %v", err)
	}
	periods, err := store.Periods(context.Background())
	if err != nil || len(periods) != 1 || periods[0] != "October-2025" {
		t.Fatalf("expected only the fresh period, got %v %v", periods, err)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("file, not dir"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := journalout.NewFileNoteStore(filepath.Join(blocker, "notes.json"), nil)
	if err := store.Save(context.Background(), "October-2025", domain.NewDays(31)); err == nil {
		t.Fatalf("expected write failure when parent is a file")
	}
}

func TestOffTypeSiblingValueSurvivesSave(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.json")
	seed := `{"September-2025": {"1": "kept", "2": 5}, "August-2025": {"3": "also kept"}}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := journalout.NewFileNoteStore(path, nil)
	ctx := context.Background()

	days := domain.NewDays(31)
	days[0].Text = "fresh"
	if err := store.Save(ctx, "October-2025", days); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	doc := map[string]map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["September-2025"]["1"] != "kept" || doc["September-2025"]["2"] != float64(5) {
		t.Fatalf("september rewritten: %v", doc["September-2025"])
	}
	if doc["August-2025"]["3"] != "also kept" {
		t.Fatalf("august lost: %v", doc)
	}
	if doc["October-2025"]["1"] != "fresh" {
		t.Fatalf("october not saved: %v", doc["October-2025"])
	}

	texts, err := store.Load(ctx, "September-2025")
	if err != nil || len(texts) != 0 {
		t.Fatalf("off-type period should load as empty, got %v %v", texts, err)
	}
	texts, err = store.Load(ctx, "August-2025")
	if err != nil || texts["3"] != "also kept" {
		t.Fatalf("sibling of a bad period should still load, got %v %v", texts, err)
	}
	periods, err := store.Periods(ctx)
	if err != nil || strings.Join(periods, ",") != "August-2025,October-2025,September-2025" {
		t.Fatalf("unexpected periods %v %v", periods, err)
	}
}

func TestSaveKeepsPrivateFileMode(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "notes.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := journalout.NewFileNoteStore(path, nil)
	if err := store.Save(context.Background(), "October-2025", domain.NewDays(31)); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode changed to %o", info.Mode().Perm())
	}
}
