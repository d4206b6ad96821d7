package phases

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	phasedto "fastlog/internal/modules/phase/dto"
	"fastlog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type PhasesPort interface {
	List(ctx context.Context) ([]phasedto.Phase, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Phases []phasedto.Phase
	Err    error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model renders the metabolic phase table as a scrollable reference page.
type Model struct {
	port     PhasesPort
	viewport viewport.Model
	phases   []phasedto.Phase
	err      error
	width    int
	height   int
}

func New(port PhasesPort) Model {
	return Model{port: port, viewport: viewport.New(0, 0)}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width
		m.viewport.Height = m.height
		m.viewport.SetContent(m.renderTable())

	case LoadedMsg:
		m.err = msg.Err
		m.phases = msg.Phases
		m.viewport.SetContent(m.renderTable())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderTable() string {
	if m.err != nil {
		return theme.Muted.Render("phases: " + m.err.Error())
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Metabolic Phases") + "\n\n")
	for _, phase := range m.phases {
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("%5.1fh", phase.Hours)) + "  " + theme.Title.Render(phase.Title) + "\n")
		sb.WriteString("       " + phase.Description + "\n")
		if phase.Citation != "" {
			sb.WriteString("       " + theme.Muted.Render("["+phase.Citation+"]") + "\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(theme.Muted.Render("resolve a citation with :phase:cite <key>"))
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		phases, err := m.port.List(context.Background())
		return LoadedMsg{Phases: phases, Err: err}
	}
}
