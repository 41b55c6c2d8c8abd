package habits

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	habitdto "daybook/internal/modules/habit/dto"
	"daybook/internal/ui/theme"
)

type HabitPort interface {
	Current(ctx context.Context) (habitdto.BoardOutput, error)
	Toggle(ctx context.Context, habit string, day int) (habitdto.MarkOutput, error)
}

type BoardLoadedMsg struct {
	Board habitdto.BoardOutput
	Err   error
}

type StatusMsg struct {
	Text string
	Err  error
}

const cellWidth = 12

// Model renders the period as a grid: one row per day, one column per
// habit. Space toggles the cell under the cursor and saves immediately.
type Model struct {
	port   HabitPort
	board  habitdto.BoardOutput
	row    int
	col    int
	offset int
	loaded bool
	err    error
	width  int
	height int
}

func New(port HabitPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()

	case BoardLoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.apply(msg.Board)
		}

	case tea.KeyMsg:
		if !m.loaded {
			return m, nil
		}
		switch msg.String() {
		case "up", "k":
			m.moveRow(-1)
		case "down", "j":
			m.moveRow(1)
		case "left", "h":
			m.col = max(0, m.col-1)
		case "right", "l":
			m.col = min(len(m.board.Habits)-1, m.col+1)
		case "t":
			m.JumpToday()
		case " ", "x", "enter":
			cmd := m.toggle()
			return m, cmd
		case "r":
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Error.Render("habits: " + m.err.Error())
	}
	if !m.loaded {
		return theme.Muted.Render("Loading habits…")
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(m.board.Key) + "\n\n")
	sb.WriteString("      ")
	for i, h := range m.board.Habits {
		name := fit(h, cellWidth-1)
		if i == m.col {
			name = theme.Hot.Render(name)
		} else {
			name = theme.Muted.Render(name)
		}
		sb.WriteString(name + " ")
	}
	sb.WriteString("\n")

	end := min(m.offset+m.visibleRows(), m.board.Days)
	for d := m.offset; d < end; d++ {
		sb.WriteString(m.renderRow(d) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("space: toggle  ←/→: habit  t: today  r: reload"))
	return lipgloss.NewStyle().Width(m.width).Render(sb.String())
}

func (m *Model) JumpToday() {
	if m.board.Today < 1 {
		return
	}
	m.row = m.board.Today - 1
	m.scroll()
}

func (m Model) Board() habitdto.BoardOutput { return m.board }

// Selected returns the habit and day under the cursor.
func (m Model) Selected() (string, int) {
	if !m.loaded || len(m.board.Habits) == 0 {
		return "", 0
	}
	return m.board.Habits[m.col], m.row + 1
}

func (m *Model) apply(b habitdto.BoardOutput) {
	first := !m.loaded || b.Key != m.board.Key
	m.board = b
	m.loaded = true
	if first {
		m.row, m.col = 0, 0
		if b.Today > 0 {
			m.row = b.Today - 1
		}
	}
	m.row = max(0, min(m.row, b.Days-1))
	m.col = max(0, min(m.col, len(b.Habits)-1))
	m.scroll()
}

func (m *Model) toggle() tea.Cmd {
	habit, day := m.Selected()
	if habit == "" {
		return nil
	}
	out, err := m.port.Toggle(context.Background(), habit, day)
	if out.Day != 0 {
		if out.Key != m.board.Key {
			return tea.Batch(m.loadCmd(), status(fmt.Sprintf("new period %s", out.Key), err))
		}
		m.board.Checked[m.col][m.row] = out.Checked
	}
	if err != nil {
		return status("", err)
	}
	state := "unchecked"
	if out.Checked {
		state = "checked"
	}
	return status(fmt.Sprintf("%s day %d %s", out.Habit, out.Day, state), nil)
}

func (m *Model) moveRow(delta int) {
	m.row = max(0, min(m.row+delta, m.board.Days-1))
	m.scroll()
}

func (m *Model) scroll() {
	rows := m.visibleRows()
	if m.row < m.offset {
		m.offset = m.row
	}
	if m.row >= m.offset+rows {
		m.offset = m.row - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) visibleRows() int {
	rows := m.height - 5
	if rows < 1 {
		return 31
	}
	return rows
}

func (m Model) renderRow(d int) string {
	label := fmt.Sprintf("%2d", d+1)
	if d+1 == m.board.Today {
		label = theme.Today.Render(label)
	}
	var sb strings.Builder
	sb.WriteString("  " + label + "  ")
	for h := range m.board.Habits {
		cell := "[ ]"
		if m.board.Checked[h][d] {
			cell = "[x]"
		}
		switch {
		case h == m.col && d == m.row:
			cell = theme.Cursor.Render(cell)
		case m.board.Checked[h][d]:
			cell = theme.Checked.Render(cell)
		}
		sb.WriteString(cell + strings.Repeat(" ", cellWidth-3))
	}
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		b, err := m.port.Current(context.Background())
		return BoardLoadedMsg{Board: b, Err: err}
	}
}

func status(text string, err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text, Err: err} }
}

func fit(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
