package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
)

// ── messages ─────────────────────────────────────────────────────────────────

type overviewLoadedMsg struct {
	view *dashboard.OverviewView
	err  error
}

// resolvedMsg is broadcast to every tab after a resolve attempt.
type resolvedMsg struct {
	outcome *dashboard.ResolveOutcome
	err     error
}

// ── view ─────────────────────────────────────────────────────────────────────

// overviewView is the home tab: summary cards, department breakdown and the
// recent anomalies table.
type overviewView struct {
	state   *SharedState
	data    *dashboard.OverviewView
	loading bool
	err     error
	cursor  int
}

func newOverviewView(state *SharedState) *overviewView {
	return &overviewView{state: state, loading: true}
}

func (v *overviewView) ID() ViewID    { return ViewOverview }
func (v *overviewView) Title() string { return "Overview" }

func (v *overviewView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "select")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "resolve")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *overviewView) Init() tea.Cmd { return v.loadData() }

func (v *overviewView) Activate() tea.Cmd { return nil }

func (v *overviewView) loadData() tea.Cmd {
	ctrl, ctx := v.state.Ctrl, v.state.Ctx
	return func() tea.Msg {
		ov, err := ctrl.LoadOverview(ctx)
		return overviewLoadedMsg{view: ov, err: err}
	}
}

func (v *overviewView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.data = msg.view
			v.cursor = clampCursor(v.cursor, len(v.data.Recent))
		}
		return v, nil

	case resolvedMsg:
		if msg.outcome != nil && msg.outcome.Overview != nil {
			v.data = msg.outcome.Overview
			v.err = nil
			v.cursor = clampCursor(v.cursor, len(v.data.Recent))
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			v.cursor = moveCursor(v.cursor, v.rowCount(), -1)
		case "down", "j":
			v.cursor = moveCursor(v.cursor, v.rowCount(), 1)
		case "r":
			v.loading = true
			return v, v.loadData()
		case "x":
			if v.rowCount() == 0 {
				return v, nil
			}
			return v, resolveCmd(v.state, v.data.Recent[v.cursor].ID)
		}
	}
	return v, nil
}

func (v *overviewView) rowCount() int {
	if v.data == nil {
		return 0
	}
	return len(v.data.Recent)
}

func (v *overviewView) View() string {
	switch {
	case v.loading && v.data == nil:
		return "\n  " + formatter.Dim("Loading overview...")
	case v.err != nil:
		return panelError(v.err)
	case v.data == nil:
		return ""
	}
	return formatter.FormatOverview(v.data, v.cursor)
}

// ── shared helpers ───────────────────────────────────────────────────────────

// resolveCmd confirms and then resolves anomaly id, reloading with the
// current filter.
func resolveCmd(state *SharedState, id int64) tea.Cmd {
	return confirmCmd("Resolve anomaly", dashboard.ResolvePrompt, func() tea.Cmd {
		ctrl, ctx, filter := state.Ctrl, state.Ctx, state.Filter
		return func() tea.Msg {
			out, err := ctrl.ResolveAnomaly(ctx, dashboard.ResolveRequest{AnomalyID: id, Filter: filter}, dashboard.Preconfirmed)
			return resolvedMsg{outcome: out, err: err}
		}
	})
}

func moveCursor(cur, n, delta int) int {
	if n == 0 {
		return 0
	}
	return clampCursor(cur+delta, n)
}

func clampCursor(cur, n int) int {
	if cur >= n {
		cur = n - 1
	}
	if cur < 0 {
		cur = 0
	}
	return cur
}
