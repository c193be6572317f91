package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
)

type patientLoadedMsg struct {
	id   string
	view *dashboard.PatientView
	err  error
}

type patientListLoadedMsg struct {
	view *dashboard.PatientListView
	err  error
}

type patientMode int

const (
	patientSearch patientMode = iota
	patientDetail
	patientRoster
)

// patientsView looks up one patient by ID or browses the roster of patients
// with anomalies.
type patientsView struct {
	state *SharedState
	input textinput.Model
	mode  patientMode

	detail   *dashboard.PatientView
	detailID string
	roster   *dashboard.PatientListView
	err      error
	loading  bool
	cursor   int
}

func newPatientsView(state *SharedState) *patientsView {
	ti := textinput.New()
	ti.Placeholder = "Patient ID (e.g. P001)"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return &patientsView{state: state, input: ti}
}

func (v *patientsView) ID() ViewID    { return ViewPatients }
func (v *patientsView) Title() string { return "Patients" }

func (v *patientsView) ShortHelp() []key.Binding {
	if v.input.Focused() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	hints := []key.Binding{
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "list")),
	}
	switch v.mode {
	case patientDetail:
		hints = append(hints, key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "resolve")))
	case patientRoster:
		hints = append(hints, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")))
	}
	return hints
}

func (v *patientsView) CapturesInput() bool { return v.input.Focused() }

// Init asks the controller for the empty-search prompt; no request is made.
func (v *patientsView) Init() tea.Cmd { return v.search("") }

func (v *patientsView) Activate() tea.Cmd { return nil }

func (v *patientsView) search(id string) tea.Cmd {
	v.loading = true
	ctrl, ctx := v.state.Ctrl, v.state.Ctx
	return func() tea.Msg {
		pv, err := ctrl.SearchPatient(ctx, id)
		return patientLoadedMsg{id: id, view: pv, err: err}
	}
}

func (v *patientsView) loadRoster() tea.Cmd {
	v.loading = true
	ctrl, ctx := v.state.Ctrl, v.state.Ctx
	return func() tea.Msg {
		lv, err := ctrl.LoadPatientList(ctx)
		return patientListLoadedMsg{view: lv, err: err}
	}
}

func (v *patientsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case patientLoadedMsg:
		v.loading = false
		v.err = msg.err
		v.mode = patientDetail
		v.detail = nil
		v.detailID = strings.TrimSpace(msg.id)
		if msg.err == nil {
			v.detail = msg.view
			v.cursor = clampCursor(v.cursor, len(v.detail.Rows))
			if len(v.detail.Prompt) > 0 {
				v.mode = patientSearch
			}
		}
		return v, nil

	case patientListLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return v, outputCmd(failureOutput(msg.err))
		}
		v.err = nil
		v.mode = patientRoster
		v.roster = msg.view
		v.cursor = clampCursor(v.cursor, len(v.roster.Rows))
		return v, nil

	case resolvedMsg:
		if msg.err == nil && v.mode == patientDetail && v.detailID != "" {
			return v, v.search(v.detailID)
		}
		return v, nil

	case tea.KeyMsg:
		if v.input.Focused() {
			return v.updateInput(msg)
		}
		switch msg.String() {
		case "/":
			v.input.SetValue("")
			return v, v.input.Focus()
		case "l":
			v.cursor = 0
			return v, v.loadRoster()
		case "up", "k":
			v.cursor = moveCursor(v.cursor, v.rowCount(), -1)
		case "down", "j":
			v.cursor = moveCursor(v.cursor, v.rowCount(), 1)
		case "enter":
			if v.mode == patientRoster && v.rowCount() > 0 {
				id := v.roster.Rows[v.cursor].PatientID
				v.cursor = 0
				return v, v.search(id)
			}
		case "x":
			if v.mode == patientDetail && v.rowCount() > 0 {
				return v, resolveCmd(v.state, v.detail.Rows[v.cursor].ID)
			}
		case "r":
			switch v.mode {
			case patientDetail:
				return v, v.search(v.detailID)
			case patientRoster:
				return v, v.loadRoster()
			}
		}
		return v, nil
	}

	if v.input.Focused() {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *patientsView) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		id := v.input.Value()
		v.input.Blur()
		v.cursor = 0
		return v, v.search(id)
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *patientsView) rowCount() int {
	switch {
	case v.mode == patientDetail && v.detail != nil:
		return len(v.detail.Rows)
	case v.mode == patientRoster && v.roster != nil:
		return len(v.roster.Rows)
	}
	return 0
}

func (v *patientsView) View() string {
	var b strings.Builder
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString("  " + formatter.Dim("Loading..."))
	case v.err != nil:
		b.WriteString(panelError(v.err))
	case v.mode == patientDetail && v.detail != nil:
		b.WriteString(formatter.FormatPatient(v.detail, v.cursor))
	case v.mode == patientRoster && v.roster != nil:
		b.WriteString(formatter.FormatPatientList(v.roster, v.cursor))
	case v.detail != nil:
		b.WriteString(formatter.FormatPatient(v.detail, -1))
	}
	return b.String()
}
