package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	insightdto "daybook/internal/modules/insight/dto"
)

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	out, err := run(t, dataDir, args...)
	if err != nil {
		t.Fatalf("daybook %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestNoteAndHabitCommands(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if out := mustRun(t, dir, "note", "set", "1", "Hello", "World"); !strings.Contains(out, "day 1: hello world") {
		t.Fatalf("unexpected note set output %q", out)
	}
	if out := mustRun(t, dir, "note", "show"); !strings.Contains(out, "hello world") {
		t.Fatalf("note show missing text: %q", out)
	}
	if out := mustRun(t, dir, "habit", "toggle", "Hábito 2", "1"); !strings.Contains(out, "Hábito 2 day 1 checked") {
		t.Fatalf("unexpected toggle output %q", out)
	}
	if out := mustRun(t, dir, "habit", "set", "2", "1", "false"); !strings.Contains(out, "Hábito 2 day 1 unchecked") {
		t.Fatalf("unexpected set output %q", out)
	}
	if out := mustRun(t, dir, "habit", "list"); !strings.Contains(out, "6\tHábito 6") {
		t.Fatalf("default habits not listed: %q", out)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "notes.json"))
	if err != nil {
		t.Fatalf("read notes: %v", err)
	}
	if !strings.Contains(string(raw), `"hello world"`) {
		t.Fatalf("notes.json missing text:\n%s", raw)
	}
}

func TestInvalidArgumentsFail(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, args := range [][]string{
		{"note", "set", "0", "x"},
		{"note", "set", "day", "x"},
		{"habit", "toggle", "Swimming", "1"},
		{"habit", "set", "Hábito 1", "1", "maybe"},
		{"note", "show", "--period", "Smarch-2025"},
	} {
		if _, err := run(t, dir, args...); err == nil {
			t.Fatalf("daybook %s should fail", strings.Join(args, " "))
		}
	}
}

func TestIndexAndExportCommands(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	mustRun(t, dir, "note", "set", "1", "River walk")
	mustRun(t, dir, "habit", "toggle", "Hábito 1", "1")

	if out := mustRun(t, dir, "reindex"); !strings.Contains(out, "indexed 1 periods: 1 notes") {
		t.Fatalf("unexpected reindex output %q", out)
	}
	if out := mustRun(t, dir, "search", "RIVER"); !strings.Contains(out, "river walk") {
		t.Fatalf("search missed the note: %q", out)
	}

	var stats insightdto.StatsOutput
	if err := json.Unmarshal([]byte(mustRun(t, dir, "stats", "--json")), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.NotedDays != 1 || len(stats.Habits) != 6 || stats.Habits[0].Checked != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	exportDir := filepath.Join(dir, "vault")
	out := mustRun(t, dir, "export", "--out", exportDir)
	if !strings.Contains(out, exportDir) {
		t.Fatalf("unexpected export output %q", out)
	}
	entries, err := os.ReadDir(exportDir)
	if err != nil || len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".md") {
		t.Fatalf("expected one markdown file, got %v (%v)", entries, err)
	}
}

func TestRootPrintsHelpWithoutTerminal(t *testing.T) {
	t.Parallel()
	out, err := run(t, t.TempDir())
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if !strings.Contains(out, "Usage:") || !strings.Contains(out, "export") {
		t.Fatalf("expected help output, got %q", out)
	}
}
