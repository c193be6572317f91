package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/domain"
)

type apiKeysLoadedMsg struct {
	view *dashboard.APIKeysView
	err  error
}

type keyGeneratedMsg struct {
	view *dashboard.GeneratedKeyView
	err  error
}

type keyRevokedMsg struct {
	outcome *dashboard.RevokeOutcome
	err     error
}

// apiKeysView manages the caller's API keys. The last generated secret is
// kept in memory so it can be copied; it is never persisted.
type apiKeysView struct {
	state   *SharedState
	data    *dashboard.APIKeysView
	loading bool
	err     error
	cursor  int
	lastKey string
}

func newAPIKeysView(state *SharedState) *apiKeysView {
	return &apiKeysView{state: state, loading: true}
}

func (v *apiKeysView) ID() ViewID    { return ViewAPIKeys }
func (v *apiKeysView) Title() string { return "API Keys" }

func (v *apiKeysView) ShortHelp() []key.Binding {
	hints := []key.Binding{
		key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "revoke")),
	}
	if v.lastKey != "" {
		hints = append(hints, key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy key")))
	}
	return append(hints, key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")))
}

func (v *apiKeysView) Init() tea.Cmd { return v.loadData() }

func (v *apiKeysView) Activate() tea.Cmd { return nil }

func (v *apiKeysView) loadData() tea.Cmd {
	ctrl, ctx := v.state.Ctrl, v.state.Ctx
	return func() tea.Msg {
		kv, err := ctrl.ListAPIKeys(ctx)
		return apiKeysLoadedMsg{view: kv, err: err}
	}
}

func (v *apiKeysView) generate(req domain.APIKeyRequest) tea.Cmd {
	ctrl, ctx := v.state.Ctrl, v.state.Ctx
	return func() tea.Msg {
		gv, err := ctrl.GenerateAPIKey(ctx, req)
		return keyGeneratedMsg{view: gv, err: err}
	}
}

func (v *apiKeysView) revoke(id int64) tea.Cmd {
	ctrl, ctx := v.state.Ctrl, v.state.Ctx
	return confirmCmd("Revoke API key", dashboard.RevokePrompt, func() tea.Cmd {
		return func() tea.Msg {
			out, err := ctrl.RevokeAPIKey(ctx, id, dashboard.Preconfirmed)
			return keyRevokedMsg{outcome: out, err: err}
		}
	})
}

func (v *apiKeysView) copyKey() tea.Cmd {
	if v.lastKey == "" {
		return outputCmd(formatter.Alert(formatter.Dim("Generate a key first.")))
	}
	write, secret := v.state.App.clipboard(), v.lastKey
	return func() tea.Msg {
		if err := write(secret); err != nil {
			return cmdOutputMsg{output: formatter.Alert(formatter.ErrorText("Failed to copy API key: " + err.Error()))}
		}
		return cmdOutputMsg{output: formatter.Alert(formatter.Success("API key copied to clipboard!"))}
	}
}

// setList applies a reloaded list, or records the reload error.
func (v *apiKeysView) setList(kv *dashboard.APIKeysView, err error) {
	v.err = err
	if err == nil && kv != nil {
		v.data = kv
		v.cursor = clampCursor(v.cursor, len(kv.Rows))
	}
}

func (v *apiKeysView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case apiKeysLoadedMsg:
		v.loading = false
		v.setList(msg.view, msg.err)
		return v, nil

	case keyGeneratedMsg:
		if msg.err != nil {
			return v, outputCmd(failureOutput(msg.err))
		}
		v.lastKey = msg.view.Key
		v.setList(msg.view.Keys, msg.view.RefreshErr)
		out := formatter.FormatGeneratedKey(msg.view) + "\n" + formatter.Dim("  Press c to copy the key.")
		return v, outputCmd(out)

	case keyRevokedMsg:
		if msg.err != nil {
			return v, outputCmd(failureOutput(msg.err))
		}
		v.setList(msg.outcome.Keys, msg.outcome.RefreshErr)
		return v, outputCmd(formatter.Alert(formatter.Success(msg.outcome.Message)))

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			v.cursor = moveCursor(v.cursor, v.rowCount(), -1)
		case "down", "j":
			v.cursor = moveCursor(v.cursor, v.rowCount(), 1)
		case "r":
			v.loading = true
			return v, v.loadData()
		case "g":
			in := newKeyInput()
			return v, startWizardCmd("Generate API key", wizardGenerateKey(in), func() tea.Cmd {
				return v.generate(in.request())
			})
		case "c":
			return v, v.copyKey()
		case "d":
			if v.rowCount() == 0 {
				return v, nil
			}
			return v, v.revoke(v.data.Rows[v.cursor].ID)
		}
	}
	return v, nil
}

func (v *apiKeysView) rowCount() int {
	if v.data == nil {
		return 0
	}
	return len(v.data.Rows)
}

func (v *apiKeysView) View() string {
	switch {
	case v.loading && v.data == nil:
		return "\n  " + formatter.Dim("Loading API keys...")
	case v.err != nil:
		return panelError(v.err)
	case v.data == nil:
		return ""
	}
	return formatter.FormatAPIKeys(v.data, v.cursor)
}
