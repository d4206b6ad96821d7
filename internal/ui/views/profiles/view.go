package profiles

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	profiledto "fastlog/internal/modules/profile/dto"
	"fastlog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ProfilesPort interface {
	List(ctx context.Context) ([]profiledto.Profile, error)
	SetActive(ctx context.Context, id string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Profiles []profiledto.Profile
	Err      error
}

// SwitchedMsg bubbles up so the app can refresh the timer and history tabs
// for the new active profile.
type SwitchedMsg struct {
	Profile profiledto.Profile
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type profileItem struct {
	profile profiledto.Profile
}

func (i profileItem) Title() string {
	if i.profile.Active {
		return "● " + i.profile.Name
	}
	return "  " + i.profile.Name
}

func (i profileItem) Description() string {
	if i.profile.Email != "" {
		return i.profile.Email
	}
	return "created " + i.profile.CreatedAt.Local().Format("2006-01-02")
}

func (i profileItem) FilterValue() string { return i.profile.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   ProfilesPort
	list   list.Model
	width  int
	height int
}

func New(port ProfilesPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Profiles"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// Refresh reloads the profile directory.
func (m Model) Refresh() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)

	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Profiles — " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Profiles))
		for i, p := range msg.Profiles {
			items[i] = profileItem{profile: p}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case tea.KeyMsg:
		if msg.String() == "enter" && m.list.FilterState() != list.Filtering {
			if item, ok := m.list.SelectedItem().(profileItem); ok {
				return m, m.switchCmd(item.profile)
			}
		}
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return m.list.View()
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		profiles, err := m.port.List(context.Background())
		return LoadedMsg{Profiles: profiles, Err: err}
	}
}

func (m Model) switchCmd(profile profiledto.Profile) tea.Cmd {
	return func() tea.Msg {
		if err := m.port.SetActive(context.Background(), profile.ID); err != nil {
			return SwitchedMsg{Err: err}
		}
		return SwitchedMsg{Profile: profile}
	}
}
