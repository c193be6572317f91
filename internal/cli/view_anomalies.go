package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/domain"
)

type anomaliesLoadedMsg struct {
	view *dashboard.AnomaliesView
	err  error
}

// anomaliesView lists anomalies under the shared filter. It loads on first
// activation.
type anomaliesView struct {
	state   *SharedState
	data    *dashboard.AnomaliesView
	loading bool
	loaded  bool
	cursor  int
}

func newAnomaliesView(state *SharedState) *anomaliesView {
	return &anomaliesView{state: state}
}

func (v *anomaliesView) ID() ViewID    { return ViewAnomalies }
func (v *anomaliesView) Title() string { return "Anomalies" }

func (v *anomaliesView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "select")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "resolve")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *anomaliesView) Init() tea.Cmd { return nil }

func (v *anomaliesView) Activate() tea.Cmd {
	if v.loaded || v.loading {
		return nil
	}
	return v.load(v.state.Filter)
}

func (v *anomaliesView) load(f domain.AnomalyFilter) tea.Cmd {
	v.loading = true
	ctrl, ctx := v.state.Ctrl, v.state.Ctx
	return func() tea.Msg {
		av, err := ctrl.LoadAnomalies(ctx, f)
		return anomaliesLoadedMsg{view: av, err: err}
	}
}

func (v *anomaliesView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case anomaliesLoadedMsg:
		v.loading = false
		if msg.err != nil {
			// Load failures are alerts; the previous table stays.
			return v, outputCmd(failureOutput(msg.err))
		}
		v.loaded = true
		v.data = msg.view
		v.state.Filter = msg.view.Filter
		v.cursor = clampCursor(v.cursor, len(v.data.Rows))
		return v, nil

	case resolvedMsg:
		if msg.outcome != nil && msg.outcome.Anomalies != nil {
			v.loaded = true
			v.data = msg.outcome.Anomalies
			v.cursor = clampCursor(v.cursor, len(v.data.Rows))
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			v.cursor = moveCursor(v.cursor, v.rowCount(), -1)
		case "down", "j":
			v.cursor = moveCursor(v.cursor, v.rowCount(), 1)
		case "r":
			return v, v.load(v.state.Filter)
		case "f":
			in := newFilterInput(v.state.Filter)
			return v, startWizardCmd("Filter anomalies", wizardAnomalyFilter(in), func() tea.Cmd {
				return v.load(in.filter())
			})
		case "x":
			if v.rowCount() == 0 {
				return v, nil
			}
			return v, resolveCmd(v.state, v.data.Rows[v.cursor].ID)
		}
	}
	return v, nil
}

func (v *anomaliesView) rowCount() int {
	if v.data == nil {
		return 0
	}
	return len(v.data.Rows)
}

func (v *anomaliesView) View() string {
	if v.data == nil {
		if v.loading {
			return "\n  " + formatter.Dim("Loading anomalies...")
		}
		return "\n  " + formatter.FormatFilter(v.state.Filter) + "\n\n  " + formatter.Dim("Press r to load anomalies.")
	}
	return formatter.FormatAnomalies(v.data, v.cursor)
}
