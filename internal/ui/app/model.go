package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	fastingdto "fastlog/internal/modules/fasting/dto"
	phasedto "fastlog/internal/modules/phase/dto"
	profiledto "fastlog/internal/modules/profile/dto"
	"fastlog/internal/ui/components"
	"fastlog/internal/ui/theme"
	historyview "fastlog/internal/ui/views/history"
	phasesview "fastlog/internal/ui/views/phases"
	profilesview "fastlog/internal/ui/views/profiles"
	timerview "fastlog/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type fastingPort interface {
	Start(ctx context.Context, profileID string) (fastingdto.Fast, error)
	Stop(ctx context.Context, profileID string, endedAt *time.Time, notes string) (fastingdto.Fast, error)
	EditStartTime(ctx context.Context, profileID string, startedAt time.Time) (fastingdto.Fast, error)
	Delete(ctx context.Context, profileID, fastID string) error
	History(ctx context.Context, profileID string, from, to *time.Time) ([]fastingdto.Fast, error)
	Stats(ctx context.Context, profileID string) (fastingdto.StatsOutput, error)
}

type profilePort interface {
	Create(ctx context.Context, name, email string) (profiledto.Profile, error)
	List(ctx context.Context) ([]profiledto.Profile, error)
	SetActive(ctx context.Context, id string) error
}

type phasePort interface {
	List(ctx context.Context) ([]phasedto.Phase, error)
	Status(ctx context.Context, profileID string) (phasedto.StatusOutput, error)
	Reference(ctx context.Context, citationKey string) (phasedto.ReferenceOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabHistory
	tabProfiles
	tabPhases
	tabCount
)

var tabLabels = [tabCount]string{
	"Timer", "History", "Profiles", "Phases",
}

// ─── async messages ───────────────────────────────────────────────────────────

type fastStartedMsg struct {
	fast fastingdto.Fast
	err  error
}

type fastStoppedMsg struct {
	fast fastingdto.Fast
	err  error
}

type startEditedMsg struct {
	fast fastingdto.Fast
	err  error
}

type fastDeletedMsg struct {
	fastID string
	err    error
}

type profileCreatedMsg struct {
	profile profiledto.Profile
	err     error
}

type citationMsg struct {
	out phasedto.ReferenceOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Stop    key.Binding
	Delete  key.Binding
	Switch  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start fast")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop fast")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete fast")),
		Switch:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "switch profile")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Delete},
		{k.Tab, k.Switch},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, fast mutations,
// the global help overlay, and the command palette. All business logic is
// delegated to port interfaces; all rendering is delegated to sub-views.
type Model struct {
	dataPath string

	// ports used at this orchestration level only
	fasting  fastingPort
	profiles profilePort
	phases   phasePort

	// sub-views (one per tab)
	timerView    timerview.Model
	historyView  historyview.Model
	profilesView profilesview.Model
	phasesView   phasesview.Model

	// global UI state
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(dataPath string, fasting fastingPort, profiles profilePort, phases phasePort) Model {
	return Model{
		dataPath:     dataPath,
		fasting:      fasting,
		profiles:     profiles,
		phases:       phases,
		timerView:    timerview.New(phasePortBridge{p: phases}),
		historyView:  historyview.New(fastingPortBridge{p: fasting}),
		profilesView: profilesview.New(profilePortBridge{p: profiles}),
		phasesView:   phasesview.New(phasePortBridge{p: phases}),
		activeTab:    tabTimer,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.historyView.Init(),
		m.profilesView.Init(),
		m.phasesView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case fastStartedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
		} else {
			m.status = "fast started at " + msg.fast.StartedAt.Local().Format("15:04")
			cmds = append(cmds, m.timerView.Refresh())
		}

	case fastStoppedMsg:
		if msg.err != nil {
			m.status = "stop failed: " + msg.err.Error()
		} else {
			m.status = "fast ended after " + msg.fast.Duration.Round(time.Minute).String()
			cmds = append(cmds, m.timerView.Refresh(), m.historyView.Refresh())
		}

	case startEditedMsg:
		if msg.err != nil {
			m.status = "edit failed: " + msg.err.Error()
		} else {
			m.status = "start time moved to " + msg.fast.StartedAt.Local().Format("15:04")
			cmds = append(cmds, m.timerView.Refresh())
		}

	case fastDeletedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + msg.err.Error()
		} else {
			m.status = "fast deleted: " + msg.fastID
			cmds = append(cmds, m.historyView.Refresh())
		}

	case profileCreatedMsg:
		if msg.err != nil {
			m.status = "profile add failed: " + msg.err.Error()
		} else {
			m.status = "profile created: " + msg.profile.Name
			cmds = append(cmds, m.profilesView.Refresh())
		}

	case citationMsg:
		if msg.err != nil {
			m.status = "cite: " + msg.err.Error()
		} else {
			m.status = msg.out.Reference
		}

	case historyview.DeleteRequestMsg:
		return m, m.deleteFastCmd(msg.FastID)

	// SwitchedMsg is produced by the profiles view but bubbles up through the
	// top level so every tab can reload for the new active profile.
	case profilesview.SwitchedMsg:
		if msg.Err != nil {
			m.status = "switch failed: " + msg.Err.Error()
		} else {
			m.status = "active profile: " + msg.Profile.Name
			cmds = append(cmds,
				m.timerView.Refresh(),
				m.historyView.Refresh(),
				m.profilesView.Refresh(),
			)
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "s":
			if m.activeTab == tabTimer {
				cmds = append(cmds, m.startFastCmd())
			}
		case "x":
			if m.activeTab == tabTimer {
				cmds = append(cmds, m.stopFastCmd(""))
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	case tabProfiles:
		m.profilesView, tabCmd = m.profilesView.Update(msg)
	case tabPhases:
		m.phasesView, tabCmd = m.phasesView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabHistory:
		return m.historyView.View()
	case tabProfiles:
		return m.profilesView.View()
	case tabPhases:
		return m.phasesView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "fastlog  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "fast:start":
		m.activeTab = tabTimer
		return m, m.startFastCmd()

	case "fast:stop":
		notes := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		m.activeTab = tabTimer
		return m, m.stopFastCmd(notes)

	case "fast:edit-start":
		if len(parts) < 2 {
			m.status = "usage: fast:edit-start <time>"
			return m, nil
		}
		raw := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		at, err := parsePaletteTime(raw)
		if err != nil {
			m.status = "invalid time: " + raw
			return m, nil
		}
		return m, m.editStartCmd(at)

	case "profile:use":
		if len(parts) < 2 {
			m.status = "usage: profile:use <id>"
			return m, nil
		}
		m.activeTab = tabProfiles
		return m, m.useProfileCmd(parts[1])

	case "profile:add":
		if len(parts) < 2 {
			m.status = "usage: profile:add <name>"
			return m, nil
		}
		name := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		m.activeTab = tabProfiles
		return m, m.addProfileCmd(name)

	case "phase:cite":
		if len(parts) < 2 {
			m.status = "usage: phase:cite <key>"
			return m, nil
		}
		return m, m.citeCmd(parts[1])

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabHistory:
		return m.historyView.Filtering()
	case tabProfiles:
		return m.profilesView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
	m.profilesView, _ = m.profilesView.Update(sz)
	m.phasesView, _ = m.phasesView.Update(sz)
}

func parsePaletteTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", value, time.Local)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) startFastCmd() tea.Cmd {
	return func() tea.Msg {
		fast, err := m.fasting.Start(context.Background(), "")
		return fastStartedMsg{fast: fast, err: err}
	}
}

func (m Model) stopFastCmd(notes string) tea.Cmd {
	return func() tea.Msg {
		fast, err := m.fasting.Stop(context.Background(), "", nil, notes)
		return fastStoppedMsg{fast: fast, err: err}
	}
}

func (m Model) editStartCmd(at time.Time) tea.Cmd {
	return func() tea.Msg {
		fast, err := m.fasting.EditStartTime(context.Background(), "", at)
		return startEditedMsg{fast: fast, err: err}
	}
}

func (m Model) deleteFastCmd(fastID string) tea.Cmd {
	return func() tea.Msg {
		err := m.fasting.Delete(context.Background(), "", fastID)
		return fastDeletedMsg{fastID: fastID, err: err}
	}
}

func (m Model) useProfileCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.profiles.SetActive(context.Background(), id); err != nil {
			return profilesview.SwitchedMsg{Err: err}
		}
		return profilesview.SwitchedMsg{Profile: profiledto.Profile{ID: id, Name: id}}
	}
}

func (m Model) addProfileCmd(name string) tea.Cmd {
	return func() tea.Msg {
		profile, err := m.profiles.Create(context.Background(), name, "")
		return profileCreatedMsg{profile: profile, err: err}
	}
}

func (m Model) citeCmd(key string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.phases.Reference(context.Background(), key)
		return citationMsg{out: out, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view, keeping view packages free of knowledge about the wider
// port surface.

type fastingPortBridge struct{ p fastingPort }

func (b fastingPortBridge) History(ctx context.Context, profileID string, from, to *time.Time) ([]fastingdto.Fast, error) {
	return b.p.History(ctx, profileID, from, to)
}
func (b fastingPortBridge) Stats(ctx context.Context, profileID string) (fastingdto.StatsOutput, error) {
	return b.p.Stats(ctx, profileID)
}

type profilePortBridge struct{ p profilePort }

func (b profilePortBridge) List(ctx context.Context) ([]profiledto.Profile, error) {
	return b.p.List(ctx)
}
func (b profilePortBridge) SetActive(ctx context.Context, id string) error {
	return b.p.SetActive(ctx, id)
}

type phasePortBridge struct{ p phasePort }

func (b phasePortBridge) List(ctx context.Context) ([]phasedto.Phase, error) {
	return b.p.List(ctx)
}
func (b phasePortBridge) Status(ctx context.Context, profileID string) (phasedto.StatusOutput, error) {
	return b.p.Status(ctx, profileID)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
