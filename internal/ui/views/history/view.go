package history

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	fastingdto "fastlog/internal/modules/fasting/dto"
	"fastlog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	History(ctx context.Context, profileID string, from, to *time.Time) ([]fastingdto.Fast, error)
	Stats(ctx context.Context, profileID string) (fastingdto.StatsOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Fasts []fastingdto.Fast
	Stats fastingdto.StatsOutput
	Err   error
}

// DeleteRequestMsg bubbles up to the app model which owns mutations.
type DeleteRequestMsg struct{ FastID string }

// ─── list item ───────────────────────────────────────────────────────────────

type fastItem struct {
	fast fastingdto.Fast
}

func (i fastItem) Title() string {
	return fmt.Sprintf("%s — %s", i.fast.StartedAt.Local().Format("Mon, Jan 2 15:04"), formatDuration(i.fast.Duration))
}

func (i fastItem) Description() string {
	if i.fast.Notes != "" {
		return i.fast.Notes
	}
	return "ended " + i.fast.EndedAt.Local().Format("Jan 2 15:04")
}

func (i fastItem) FilterValue() string { return i.fast.Notes }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   HistoryPort
	list   list.Model
	stats  fastingdto.StatsOutput
	loaded bool
	width  int
	height int
}

func New(port HistoryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// Refresh reloads fasts and stats after a mutation elsewhere in the app.
func (m Model) Refresh() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loaded = true
		if msg.Err != nil {
			m.list.Title = "History — " + msg.Err.Error()
			return m, nil
		}
		m.stats = msg.Stats
		items := make([]list.Item, len(msg.Fasts))
		for i, fast := range msg.Fasts {
			items[i] = fastItem{fast: fast}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case tea.KeyMsg:
		if msg.String() == "d" && m.list.FilterState() != list.Filtering {
			if item, ok := m.list.SelectedItem().(fastItem); ok {
				id := item.fast.ID
				return m, func() tea.Msg { return DeleteRequestMsg{FastID: id} }
			}
		}
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	statsBar := m.renderStats()
	listH := m.height - lipgloss.Height(statsBar)
	if listH < 1 {
		listH = 1
	}
	m.list.SetSize(m.width, listH)
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), statsBar)
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	m.list.SetSize(m.width, m.height-2)
}

func (m Model) renderStats() string {
	s := m.stats
	line := fmt.Sprintf("fasts: %d   total: %s   avg: %s   longest: %s",
		s.TotalFasts,
		formatDuration(s.TotalFastingTime),
		formatDuration(s.AverageFastingTime),
		formatDuration(s.LongestFast),
	)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(theme.Muted.Render(line))
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		fasts, err := m.port.History(context.Background(), "", nil, nil)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		stats, err := m.port.Stats(context.Background(), "")
		if err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Fasts: fasts, Stats: stats}
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	mn := int(d % time.Hour / time.Minute)
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, mn)
	}
	return fmt.Sprintf("%dm", mn)
}
