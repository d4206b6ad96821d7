package timer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	phasedto "fastlog/internal/modules/phase/dto"
	apperrors "fastlog/internal/platform/errors"
	"fastlog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StatusPort interface {
	Status(ctx context.Context, profileID string) (phasedto.StatusOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type StatusLoadedMsg struct {
	Status phasedto.StatusOutput
	Active bool
	Err    error
}

type tickMsg time.Time

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   StatusPort
	status phasedto.StatusOutput
	active bool
	err    error
	width  int
	height int
}

func New(port StatusPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadStatusCmd(), tickCmd())
}

// Refresh reloads the fast snapshot, bypassing the once-a-second cadence.
func (m Model) Refresh() tea.Cmd {
	return m.loadStatusCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tea.Batch(m.loadStatusCmd(), tickCmd())

	case StatusLoadedMsg:
		m.err = msg.Err
		m.active = msg.Active
		if msg.Err == nil {
			m.status = msg.Status
		}
	}
	return m, nil
}

func (m Model) View() string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderCard())
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderCard() string {
	var sb strings.Builder
	switch {
	case m.err != nil:
		sb.WriteString(theme.Title.Render("Fasting Timer") + "\n\n")
		sb.WriteString(theme.Muted.Render(m.err.Error()) + "\n")
	case !m.active:
		sb.WriteString(theme.Title.Render("Fasting Timer") + "\n\n")
		sb.WriteString(theme.Muted.Render("no fast in progress") + "\n\n")
		sb.WriteString(theme.Muted.Render("s: start fasting") + "\n")
	default:
		sb.WriteString(theme.Title.Render("Fasting Timer") + "\n\n")
		sb.WriteString(theme.Good.Render(formatElapsed(m.status.Elapsed)) + "\n")
		sb.WriteString(theme.Muted.Render("since "+m.status.StartedAt.Local().Format("Mon 15:04")) + "\n\n")
		sb.WriteString(theme.Hot.Render(m.status.Phase.Title) + "\n")
		sb.WriteString(wrap(m.status.Phase.Message, 52) + "\n")
		if m.status.Next != nil {
			until := time.Until(m.status.Next.At)
			if until < 0 {
				until = 0
			}
			sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("next: %s in %s", m.status.Next.Phase.Title, formatElapsed(until))) + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render("x: stop fasting") + "\n")
	}
	return theme.Pane.Width(58).Render(sb.String())
}

func (m Model) loadStatusCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.port.Status(context.Background(), "")
		if err != nil {
			if errors.Is(err, apperrors.ErrNoActiveFast) {
				return StatusLoadedMsg{Active: false}
			}
			return StatusLoadedMsg{Err: err}
		}
		return StatusLoadedMsg{Status: status, Active: true}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	mn := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, mn, s)
}

func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var sb strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 {
			if lineLen+1+len(word) > width {
				sb.WriteString("\n")
				lineLen = 0
			} else {
				sb.WriteString(" ")
				lineLen++
			}
		}
		sb.WriteString(word)
		lineLen += len(word)
	}
	return sb.String()
}
