package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/revint/internal/cli/formatter"
)

// wizardView wraps a huh.Form as an overlay above the tabs. When the form
// completes it sends a wizardCompleteMsg with the done callback's result.
type wizardView struct {
	form     *huh.Form
	titleStr string
	done     func() tea.Cmd
	// answer is the bound value of a confirmation form, nil otherwise.
	answer *bool
}

func newWizardView(title string, form *huh.Form, done func() tea.Cmd) *wizardView {
	return &wizardView{
		form:     form,
		titleStr: title,
		done:     done,
	}
}

func (v *wizardView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *wizardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Escape cancels the wizard.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return wizardCompleteOutput(formatter.Alert(formatter.Dim("Cancelled."))) }
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		done := v.complete(cmd)
		return v, func() tea.Msg { return done }
	}

	return v, cmd
}

// complete builds the message that closes the overlay and runs done after
// the form's last command.
func (v *wizardView) complete(formCmd tea.Cmd) tea.Msg {
	var doneCmd tea.Cmd
	if v.done != nil {
		doneCmd = v.done()
	}
	return wizardCompleteMsg{nextCmd: tea.Batch(formCmd, doneCmd)}
}

func (v *wizardView) View() string {
	return v.form.View()
}

func (v *wizardView) ID() ViewID               { return ViewForm }
func (v *wizardView) Title() string            { return v.titleStr }
func (v *wizardView) CapturesInput() bool      { return true }
func (v *wizardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// startWizardCmd returns a tea.Cmd that pushes a wizardView.
func startWizardCmd(title string, form *huh.Form, done func() tea.Cmd) tea.Cmd {
	return pushView(newWizardView(title, form, done))
}

// confirmCmd pushes a yes/no overlay for prompt and runs onYes only when the
// user accepts.
func confirmCmd(title, prompt string, onYes func() tea.Cmd) tea.Cmd {
	answer := new(bool)
	wv := newWizardView(title, wizardConfirm(prompt, answer), func() tea.Cmd {
		if !*answer {
			return outputCmd(formatter.Alert(formatter.Dim("Cancelled.")))
		}
		return onYes()
	})
	wv.answer = answer
	return pushView(wv)
}
