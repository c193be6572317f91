package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
)

// Navigation and output messages handled by appModel.Update.

// pushViewMsg pushes an overlay (usually a form) above the tabs.
type pushViewMsg struct {
	view View
}

// cmdOutputMsg carries text to show transiently over the active tab.
type cmdOutputMsg struct {
	output string
}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// quitMsg asks the app to exit. err is reported by the host after the
// program stops.
type quitMsg struct {
	err       error
	loggedOut bool
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func outputCmd(s string) tea.Cmd {
	return func() tea.Msg { return cmdOutputMsg{output: s} }
}

// wizardCompleteOutput returns a wizardCompleteMsg that displays a message string.
func wizardCompleteOutput(msg string) tea.Msg {
	return wizardCompleteMsg{nextCmd: outputCmd(msg)}
}

// failureOutput renders err for the transient output area.
func failureOutput(err error) string {
	var f *dashboard.Failure
	if errors.As(err, &f) {
		return formatter.FormatFailure(f)
	}
	if errors.Is(err, dashboard.ErrCancelled) {
		return formatter.Alert(formatter.Dim("Cancelled."))
	}
	return formatter.Alert(formatter.ErrorText("Error: " + err.Error()))
}

// isAlert reports whether err should be shown transiently while the panel
// keeps its previous content.
func isAlert(err error) bool {
	var f *dashboard.Failure
	return errors.As(err, &f) && f.Presentation == dashboard.Alert
}

// panelError renders an error that replaces a panel's content.
func panelError(err error) string {
	var f *dashboard.Failure
	if errors.As(err, &f) {
		return formatter.FormatFailure(f)
	}
	return formatter.ErrorPanel("Error: "+err.Error(), "", true)
}
