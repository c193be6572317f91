package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewOverview ViewID = iota
	ViewAnomalies
	ViewPatients
	ViewAPIKeys
	ViewSettings
	ViewForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // tab or overlay label
}

// tabView is a View that lives in the tab bar. Activate is called every time
// the tab becomes visible and returns the load command for tabs that fetch
// lazily.
type tabView interface {
	View
	Activate() tea.Cmd
}

// inputCapturer is implemented by views that own a focused text input and
// must receive every key, including the global shortcuts.
type inputCapturer interface {
	CapturesInput() bool
}
