package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPaletteSubmitsTrimmedInput(t *testing.T) {
	t.Parallel()
	p := NewPalette([]string{"export", "reindex", "search <query>", "today"})
	_ = p.Open()
	typeText := func(text string) {
		for _, r := range text {
			p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
	}
	typeText("se")
	if got := p.Matching(); len(got) != 1 || got[0] != "search <query>" {
		t.Fatalf("unexpected hints: %v", got)
	}
	typeText("arch  run ")
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() {
		t.Fatalf("palette should close on enter")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok || msg.Input != "search  run" {
		t.Fatalf("unexpected submit: %#v", cmd())
	}
}

func TestPaletteCancel(t *testing.T) {
	t.Parallel()
	p := NewPalette(nil)
	_ = p.Open()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.Visible() {
		t.Fatalf("palette should close on esc")
	}
	if _, ok := cmd().(PaletteCancelMsg); !ok {
		t.Fatalf("expected cancel message")
	}
}
