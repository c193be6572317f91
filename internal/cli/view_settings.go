package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
)

type settingsLoadedMsg struct {
	view *dashboard.SettingsView
	err  error
}

// settingsView shows the account profile and plan. It loads on first
// activation.
type settingsView struct {
	state   *SharedState
	data    *dashboard.SettingsView
	loading bool
	err     error
}

func newSettingsView(state *SharedState) *settingsView {
	return &settingsView{state: state}
}

func (v *settingsView) ID() ViewID    { return ViewSettings }
func (v *settingsView) Title() string { return "Settings" }

func (v *settingsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upgrade")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *settingsView) Init() tea.Cmd { return nil }

func (v *settingsView) Activate() tea.Cmd {
	if v.data != nil || v.loading {
		return nil
	}
	return v.loadData()
}

func (v *settingsView) loadData() tea.Cmd {
	v.loading = true
	ctrl, ctx := v.state.Ctrl, v.state.Ctx
	return func() tea.Msg {
		sv, err := ctrl.LoadSettings(ctx)
		return settingsLoadedMsg{view: sv, err: err}
	}
}

func (v *settingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.data = msg.view
		}
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return v, v.loadData()
		}
	}
	return v, nil
}

func (v *settingsView) View() string {
	switch {
	case v.loading && v.data == nil:
		return "\n  " + formatter.Dim("Loading account information...")
	case v.err != nil:
		return panelError(v.err)
	case v.data == nil:
		return ""
	}
	return formatter.FormatSettings(v.data)
}
