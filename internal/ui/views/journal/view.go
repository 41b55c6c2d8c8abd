package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journaldto "daybook/internal/modules/journal/dto"
	apperrors "daybook/internal/platform/errors"
	"daybook/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type JournalPort interface {
	Current(ctx context.Context) (journaldto.PeriodOutput, error)
	SetPeriodText(ctx context.Context, period string, day int, text string) (journaldto.SetTextOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type PeriodLoadedMsg struct {
	Period journaldto.PeriodOutput
	Err    error
}

// StatusMsg reports the outcome of a save to the root model.
type StatusMsg struct {
	Text string
	Err  error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model lists the days of the current period. Enter edits the selected day
// in place; every keystroke that changes the text is saved before the next
// message is handled, and the stored (canonical) text replaces the input.
type Model struct {
	port    JournalPort
	period  journaldto.PeriodOutput
	input   textinput.Model
	cursor  int
	offset  int
	editing bool
	loaded  bool
	err     error
	width   int
	height  int
}

func New(port JournalPort) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "write a note…"
	return Model{port: port, input: ti}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.width-10, 10)
		m.scroll()

	case PeriodLoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.apply(msg.Period)

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.visibleRows())
		case "pgdown":
			m.move(m.visibleRows())
		case "home", "g":
			m.move(-len(m.period.Days))
		case "end", "G":
			m.move(len(m.period.Days))
		case "t":
			m.JumpToday()
		case "enter", "e":
			cmd := m.startEditing()
			return m, cmd
		case "r":
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "up", "down":
		m.editing = false
		m.input.Blur()
		if msg.String() == "up" {
			m.move(-1)
		} else {
			m.move(1)
		}
		cmd := m.startEditing()
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	saved := m.save()
	return m, tea.Batch(cmd, saved)
}

// save writes the current input synchronously so edits reach disk in
// keystroke order, then reflects the stored text back into the input.
func (m *Model) save() tea.Cmd {
	day := m.cursor + 1
	out, err := m.port.SetPeriodText(context.Background(), m.period.Key, day, m.input.Value())
	if errors.Is(err, apperrors.ErrPeriodChanged) {
		// The month rolled over while editing; the keystroke is dropped.
		m.editing = false
		m.input.Blur()
		return tea.Batch(m.loadCmd(), status("new period, edit discarded", nil))
	}
	if out.Day != 0 {
		m.period.Days[day-1].Text = out.Text
		if out.Changed && out.Text != m.input.Value() {
			pos := m.input.Position()
			m.input.SetValue(out.Text)
			m.input.SetCursor(min(pos, len([]rune(out.Text))))
		}
	}
	if err != nil {
		return status("", err)
	}
	return status(fmt.Sprintf("saved %s day %d", m.period.Key, day), nil)
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Error.Render("journal: " + m.err.Error())
	}
	if !m.loaded {
		return theme.Muted.Render("Loading journal…")
	}

	var sb strings.Builder
	limit := fmt.Sprintf("max %d chars", m.period.MaxTextLength)
	sb.WriteString(theme.Title.Render(m.period.Key) + "  " + theme.Muted.Render(limit) + "\n\n")

	end := min(m.offset+m.visibleRows(), len(m.period.Days))
	for i := m.offset; i < end; i++ {
		sb.WriteString(m.renderRow(i) + "\n")
	}
	hint := "enter: edit  t: today  r: reload"
	if m.editing {
		hint = "typing saves  enter/esc: done  ↑/↓: previous/next day"
	}
	sb.WriteString("\n" + theme.Muted.Render(hint))
	return lipgloss.NewStyle().Width(m.width).Render(sb.String())
}

// JumpToday moves the cursor to today's row when the current period is shown.
func (m *Model) JumpToday() {
	if m.period.Today < 1 || m.editing {
		return
	}
	m.cursor = m.period.Today - 1
	m.scroll()
}

// Editing reports whether keystrokes are going to the note input. The root
// model yields its global key bindings while this is true.
func (m Model) Editing() bool { return m.editing }

func (m Model) Period() journaldto.PeriodOutput { return m.period }

func (m Model) Cursor() int { return m.cursor + 1 }

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) apply(p journaldto.PeriodOutput) {
	first := !m.loaded || p.Key != m.period.Key
	m.period = p
	m.loaded = true
	m.input.CharLimit = p.MaxTextLength
	if first {
		m.cursor = 0
		if p.Today > 0 {
			m.cursor = p.Today - 1
		}
	}
	if m.cursor >= len(p.Days) {
		m.cursor = len(p.Days) - 1
	}
	m.scroll()
}

func (m *Model) startEditing() tea.Cmd {
	if !m.loaded || len(m.period.Days) == 0 {
		return nil
	}
	m.editing = true
	m.input.SetValue(m.period.Days[m.cursor].Text)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) move(delta int) {
	if len(m.period.Days) == 0 {
		return
	}
	m.cursor = max(0, min(m.cursor+delta, len(m.period.Days)-1))
	m.scroll()
}

func (m *Model) scroll() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) visibleRows() int {
	rows := m.height - 4
	if rows < 1 {
		return 31
	}
	return rows
}

func (m Model) renderRow(i int) string {
	d := m.period.Days[i]
	label := fmt.Sprintf("%2d", d.Day)
	if d.Day == m.period.Today {
		label = theme.Today.Render(label + "•")
	} else {
		label += " "
	}

	text := d.Text
	switch {
	case i == m.cursor && m.editing:
		text = m.input.View()
	case text == "":
		text = theme.Empty.Render("·")
	}
	row := label + "  " + text
	if i == m.cursor && !m.editing {
		return theme.Cursor.Render("›") + " " + row
	}
	return "  " + row
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		p, err := m.port.Current(context.Background())
		return PeriodLoadedMsg{Period: p, Err: err}
	}
}

func status(text string, err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text, Err: err} }
}
