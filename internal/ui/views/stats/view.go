package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	insightdto "daybook/internal/modules/insight/dto"
	"daybook/internal/ui/theme"
)

type StatsPort interface {
	Stats(ctx context.Context, key string) (insightdto.StatsOutput, error)
	Search(ctx context.Context, query string, limit int) ([]insightdto.NoteHit, error)
}

type StatsLoadedMsg struct {
	Stats insightdto.StatsOutput
	Err   error
}

type SearchDoneMsg struct {
	Query string
	Hits  []insightdto.NoteHit
	Err   error
}

const searchLimit = 50

// Model shows the current period's summary from the sqlite index and the
// results of the last palette search.
type Model struct {
	port    StatsPort
	table   table.Model
	spinner spinner.Model
	stats   insightdto.StatsOutput
	query   string
	hits    []insightdto.NoteHit
	loading bool
	err     error
	width   int
	height  int
}

func New(port StatsPort) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Habit", Width: 20},
			{Title: "Done", Width: 6},
			{Title: "Rate", Width: 8},
		}),
		table.WithHeight(7),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).Bold(true).BorderForeground(theme.Surface1)
	styles.Selected = styles.Selected.Foreground(theme.Lavender).Bold(true)
	t.SetStyles(styles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, table: t, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Refresh reloads the current period's statistics.
func (m *Model) Refresh() tea.Cmd {
	m.loading = true
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		out, err := port.Stats(context.Background(), "")
		return StatsLoadedMsg{Stats: out, Err: err}
	})
}

// Search runs query against all indexed notes.
func (m *Model) Search(query string) tea.Cmd {
	m.query = query
	port := m.port
	return func() tea.Msg {
		hits, err := port.Search(context.Background(), query, searchLimit)
		return SearchDoneMsg{Query: query, Hits: hits, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case StatsLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.stats = msg.Stats
			m.table.SetRows(rows(msg.Stats))
		}

	case SearchDoneMsg:
		if msg.Query == m.query {
			m.err = msg.Err
			m.hits = msg.Hits
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "r" {
			cmd := m.Refresh()
			return m, cmd
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	if m.loading {
		sb.WriteString(m.spinner.View() + " Refreshing index…\n")
	}
	if m.err != nil {
		sb.WriteString(theme.Error.Render("stats: "+m.err.Error()) + "\n")
	}
	if m.stats.Key != "" {
		sb.WriteString(theme.Title.Render(m.stats.Key) + "  ")
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d of %d days noted", m.stats.NotedDays, m.stats.Days)) + "\n\n")
		sb.WriteString(m.table.View() + "\n")
	}

	if m.query != "" {
		sb.WriteString("\n" + theme.Title.Render(fmt.Sprintf("Search %q", m.query)) + "\n")
		if len(m.hits) == 0 {
			sb.WriteString(theme.Muted.Render("  no matches") + "\n")
		}
		for _, h := range m.hits {
			sb.WriteString(fmt.Sprintf("  %s %s  %s\n", theme.Muted.Render(h.Period), theme.Hot.Render(fmt.Sprintf("%2d", h.Day)), h.Text))
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("r: refresh  :search <text>  :reindex"))
	return lipgloss.NewStyle().Width(m.width).Render(sb.String())
}

func (m Model) Stats() insightdto.StatsOutput { return m.stats }

func (m Model) Hits() []insightdto.NoteHit { return m.hits }

func rows(s insightdto.StatsOutput) []table.Row {
	out := make([]table.Row, 0, len(s.Habits))
	for _, h := range s.Habits {
		out = append(out, table.Row{h.Habit, fmt.Sprintf("%d", h.Checked), fmt.Sprintf("%.0f%%", h.Rate*100)})
	}
	return out
}
