package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	insightdto "daybook/internal/modules/insight/dto"
	reportdto "daybook/internal/modules/report/dto"
	"daybook/internal/ui/components"
	"daybook/internal/ui/theme"
	habitsview "daybook/internal/ui/views/habits"
	journalview "daybook/internal/ui/views/journal"
	statsview "daybook/internal/ui/views/stats"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type insightPort interface {
	statsview.StatsPort
	Reindex(ctx context.Context) (insightdto.ReindexOutput, error)
}

type reportPort interface {
	Export(ctx context.Context, period, dir string) (reportdto.ExportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabJournal tabID = iota
	tabHabits
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Journal", "Habits", "Stats"}

// paletteHints must stay in sync with executePalette.
var paletteHints = []string{
	"export [period]",
	"reindex",
	"search <text>",
	"today",
}

// ─── async messages ──────────────────────────────────────────────────────────

type exportDoneMsg struct {
	out reportdto.ExportOutput
	err error
}

type reindexDoneMsg struct {
	out insightdto.ReindexOutput
	err error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Edit    key.Binding
	Toggle  key.Binding
	Today   key.Binding
	Move    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Edit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit note")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle habit")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "jump to today")),
		Move:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "move")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Move, k.Today},
		{k.Edit, k.Toggle},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay,
// the command palette and the status bar; each tab renders itself.
type Model struct {
	insight insightPort
	report  reportPort

	journalView journalview.Model
	habitsView  habitsview.Model
	statsView   statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	failed    bool
	width     int
	height    int
}

func NewModel(journal journalview.JournalPort, habits habitsview.HabitPort, insight insightPort, report reportPort) Model {
	return Model{
		insight:     insight,
		report:      report,
		journalView: journalview.New(journal),
		habitsView:  habitsview.New(habits),
		statsView:   statsview.New(insight),
		activeTab:   tabJournal,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(paletteHints),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.journalView.Init(), m.habitsView.Init(), m.statsView.Init())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The open palette owns the keyboard; loads and resizes still land.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case journalview.PeriodLoadedMsg:
		var cmd tea.Cmd
		m.journalView, cmd = m.journalView.Update(msg)
		return m, cmd

	case habitsview.BoardLoadedMsg:
		var cmd tea.Cmd
		m.habitsView, cmd = m.habitsView.Update(msg)
		return m, cmd

	case statsview.StatsLoadedMsg, statsview.SearchDoneMsg:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd

	case journalview.StatusMsg:
		m.setStatus(msg.Text, msg.Err)
		return m, nil

	case habitsview.StatusMsg:
		m.setStatus(msg.Text, msg.Err)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus("", fmt.Errorf("export: %w", msg.err))
		} else {
			m.setStatus(fmt.Sprintf("exported %s to %s", msg.out.Key, msg.out.Path), nil)
		}
		return m, nil

	case reindexDoneMsg:
		if msg.err != nil {
			m.setStatus("", fmt.Errorf("reindex: %w", msg.err))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("indexed %d periods, %d notes", msg.out.Periods, msg.out.Notes), nil)
		cmd := m.statsView.Refresh()
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		// The note editor receives every key while it is open.
		if m.activeTab == tabJournal && m.journalView.Editing() {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			cmd := m.switchTab((m.activeTab + 1) % tabCount)
			return m, cmd
		case "shift+tab":
			cmd := m.switchTab((m.activeTab + tabCount - 1) % tabCount)
			return m, cmd
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		}
	}

	// Cursor blinks for the open palette arrive here.
	if m.palette.Visible() {
		var paletteCmd tea.Cmd
		m.palette, paletteCmd = m.palette.Update(msg)
		cmds = append(cmds, paletteCmd)
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabJournal:
		m.journalView, tabCmd = m.journalView.Update(msg)
	case tabHabits:
		m.habitsView, tabCmd = m.habitsView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = lipgloss.NewStyle().Height(contentH).Render(m.activeView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabJournal:
		return m.journalView.View()
	case tabHabits:
		return m.habitsView.View()
	case tabStats:
		return m.statsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "daybook  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.failed {
		left = theme.Error.Render(left)
	}
	right := theme.Muted.Render("?:help  tab:switch  ::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "export":
		period := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		m.status = "exporting…"
		return m, m.exportCmd(period)

	case "reindex":
		m.status = "reindexing…"
		return m, m.reindexCmd()

	case "search":
		query := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if query == "" {
			m.setStatus("usage: search <text>", nil)
			return m, nil
		}
		m.activeTab = tabStats
		m.status = "searching " + query
		cmd := m.statsView.Search(query)
		return m, cmd

	case "today":
		m.journalView.JumpToday()
		m.habitsView.JumpToday()
		m.status = "today"
		return m, nil

	default:
		m.setStatus("unknown command: "+parts[0], nil)
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) switchTab(tab tabID) tea.Cmd {
	m.activeTab = tab
	if tab == tabStats {
		return m.statsView.Refresh()
	}
	return nil
}

func (m *Model) setStatus(text string, err error) {
	m.failed = err != nil
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = text
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.journalView, _ = m.journalView.Update(sz)
	m.habitsView, _ = m.habitsView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

func (m Model) exportCmd(period string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.report.Export(context.Background(), period, "")
		return exportDoneMsg{out: out, err: err}
	}
}

func (m Model) reindexCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.insight.Reindex(context.Background())
		return reindexDoneMsg{out: out, err: err}
	}
}
