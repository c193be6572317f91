package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/revint/internal/cli/formatter"
	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/domain"
)

type userInfoLoadedMsg struct {
	info dashboard.UserInfoView
	err  error
}

// userInfoFallbackMsg fires once the user-info grace period is over.
type userInfoFallbackMsg struct{}

type tabIndex int

const (
	tabOverview tabIndex = iota
	tabAnomalies
	tabPatients
	tabAPIKeys
	tabSettings
)

// appModel is the root bubbletea Model for the dashboard. It owns the tab
// set, an overlay stack for forms and the transient output area.
type appModel struct {
	state   *SharedState
	tabs    []tabView
	active  tabIndex
	overlay []View

	userLoaded bool
	quitting   bool
	// exit carries why the program stopped; read by the host after Run.
	exit quitMsg

	// Transient output (alerts, generated keys) shown over the active tab.
	lastOutput string

	// Scrollable viewport for output that exceeds terminal height.
	outputVP     viewport.Model
	outputActive bool
}

func newAppModel(state *SharedState) appModel {
	state.User = dashboard.LoadingUserInfo

	vp := viewport.New(0, 0)
	vp.KeyMap = outputViewportKeyMap()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return appModel{
		state: state,
		tabs: []tabView{
			newOverviewView(state),
			newAnomaliesView(state),
			newPatientsView(state),
			newAPIKeysView(state),
			newSettingsView(state),
		},
		outputVP: vp,
	}
}

// activeView returns the top overlay, or the active tab.
func (m *appModel) activeView() View {
	if n := len(m.overlay); n > 0 {
		return m.overlay[n-1]
	}
	return m.tabs[m.active]
}

func (m *appModel) updateActive(msg tea.Msg) tea.Cmd {
	if n := len(m.overlay); n > 0 {
		updated, cmd := m.overlay[n-1].Update(msg)
		m.overlay[n-1] = updated.(View)
		return cmd
	}
	updated, cmd := m.tabs[m.active].Update(msg)
	m.tabs[m.active] = updated.(tabView)
	return cmd
}

// broadcast delivers msg to every tab and the top overlay. Load results
// arrive for tabs that are not visible, so they cannot go to the active
// view only.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, t := range m.tabs {
		updated, cmd := t.Update(msg)
		m.tabs[i] = updated.(tabView)
		cmds = append(cmds, cmd)
	}
	if n := len(m.overlay); n > 0 {
		updated, cmd := m.overlay[n-1].Update(msg)
		m.overlay[n-1] = updated.(View)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadUserInfo(), m.userInfoFallback()}
	for _, t := range m.tabs {
		cmds = append(cmds, t.Init())
	}
	return tea.Batch(cmds...)
}

func (m appModel) loadUserInfo() tea.Cmd {
	ctrl, ctx := m.state.Ctrl, m.state.Ctx
	return func() tea.Msg {
		info, err := ctrl.LoadUserInfo(ctx)
		return userInfoLoadedMsg{info: info, err: err}
	}
}

func (m appModel) userInfoFallback() tea.Cmd {
	return tea.Tick(m.state.Ctrl.Options().UserInfoFallback, func(time.Time) tea.Msg {
		return userInfoFallbackMsg{}
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		if m.outputActive {
			m.outputVP.Width = msg.Width
			m.outputVP.Height = m.state.ContentHeight()
		}
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.outputActive {
			var cmd tea.Cmd
			m.outputVP, cmd = m.outputVP.Update(msg)
			return m, cmd
		}
		return m, nil

	case userInfoLoadedMsg:
		if msg.err != nil {
			m.quitting = true
			m.exit = quitMsg{err: msg.err}
			return m, tea.Quit
		}
		m.userLoaded = true
		m.state.User = msg.info
		return m, nil

	case userInfoFallbackMsg:
		if !m.userLoaded {
			m.state.User = dashboard.FallbackUserInfo
		}
		return m, nil

	case pushViewMsg:
		m.clearOutput()
		m.overlay = append(m.overlay, msg.view)
		return m, msg.view.Init()

	case wizardCompleteMsg:
		// Atomically pop the wizard view and execute the follow-up command.
		if n := len(m.overlay); n > 0 {
			m.overlay = m.overlay[:n-1]
		}
		m.clearOutput()
		return m, msg.nextCmd

	case resolvedMsg:
		cmd := m.broadcast(msg)
		if msg.err != nil {
			m.showOutput(failureOutput(msg.err))
		} else {
			m.showOutput(formatter.FormatResolveOutcome(msg.outcome))
		}
		return m, cmd

	case cmdOutputMsg:
		m.showOutput(msg.output)
		return m, nil

	case quitMsg:
		m.quitting = true
		m.exit = msg
		return m, tea.Quit
	}

	return m, m.broadcast(msg)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Views with their own text input receive every key, including q, digits
	// and Esc.
	if c, ok := m.activeView().(inputCapturer); ok && c.CapturesInput() {
		return m, m.updateActive(msg)
	}

	// When output is displayed, intercept scroll keys for the viewport.
	// Other keys dismiss the output, then fall through to normal handling.
	if m.outputActive {
		if isOutputScrollKey(msg) {
			var cmd tea.Cmd
			m.outputVP, cmd = m.outputVP.Update(msg)
			return m, cmd
		}
		m.clearOutput()
		if msg.Type == tea.KeyEsc {
			return m, nil
		}
	}

	switch s := msg.String(); s {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "1", "2", "3", "4", "5":
		return m, m.switchTab(tabIndex(s[0] - '1'))
	case "tab":
		return m, m.switchTab((m.active + 1) % tabIndex(len(m.tabs)))
	case "shift+tab":
		return m, m.switchTab((m.active + tabIndex(len(m.tabs)) - 1) % tabIndex(len(m.tabs)))
	case "u":
		return m, outputCmd(formatter.FormatUpgrade(dashboard.UpgradePlan(m.currentPlan())))
	case "L":
		return m, m.logout()
	}

	return m, m.updateActive(msg)
}

func (m *appModel) switchTab(i tabIndex) tea.Cmd {
	if i < 0 || int(i) >= len(m.tabs) {
		return nil
	}
	m.active = i
	return m.tabs[i].Activate()
}

// currentPlan prefers the header's plan and falls back to the loaded
// settings when the header is degraded.
func (m *appModel) currentPlan() domain.Plan {
	if s, ok := m.tabs[tabSettings].(*settingsView); ok && s.data != nil && (m.state.User.Degraded || !m.userLoaded) {
		return domain.ParsePlan(s.data.PlanBadge)
	}
	return m.state.User.Plan
}

func (m *appModel) logout() tea.Cmd {
	ctrl, ctx := m.state.Ctrl, m.state.Ctx
	return func() tea.Msg {
		if err := ctrl.Logout(ctx); err != nil {
			return cmdOutputMsg{output: failureOutput(err)}
		}
		return quitMsg{loggedOut: true}
	}
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.lastOutput != "" {
		if m.outputActive && m.state.Height > 0 {
			sections = append(sections, m.outputVP.View())
		} else {
			sections = append(sections, m.lastOutput)
		}
	} else {
		sections = append(sections, m.activeView().View())
	}

	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("revint") + " " + formatter.Dim("›") + " " + formatter.Dim(m.tabs[m.active].Title())
	if n := len(m.overlay); n > 0 {
		title += " " + formatter.Dim("› "+m.overlay[n-1].Title())
	}

	user := formatter.FormatUserInfo(m.state.User)
	gap := max(m.state.Width-lipgloss.Width(title)-lipgloss.Width(user), 2)
	header := title + strings.Repeat(" ", gap) + user

	var tabs []string
	for i, t := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title())
		if tabIndex(i) == m.active {
			tabs = append(tabs, formatter.StyleHeader.Render("["+label+"]"))
		} else {
			tabs = append(tabs, formatter.Dim(" "+label+" "))
		}
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + strings.Join(tabs, " ") + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string

	if m.outputActive && m.outputVP.TotalLineCount() > m.outputVP.Height {
		hints = append(hints, scrollIndicator(m.outputVP))
		hints = append(hints, formatter.Dim("↑↓ pgup/pgdn: scroll"))
		hints = append(hints, formatter.Dim("esc: dismiss"))
	} else if !m.outputActive {
		for _, b := range m.activeView().ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}

	if len(m.overlay) == 0 {
		hints = append(hints, formatter.Dim("1-5/tab: switch"), formatter.Dim("u: upgrade"), formatter.Dim("L: logout"), formatter.Dim("q: quit"))
	}

	bar := strings.Join(hints, "  ")
	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}

func (m *appModel) showOutput(s string) {
	m.lastOutput = s
	m.outputActive = true
	m.outputVP.SetContent(s)
	m.outputVP.Width = m.state.Width
	m.outputVP.Height = m.state.ContentHeight()
	m.outputVP.GotoTop()
}

// clearOutput dismisses the transient output and deactivates the viewport.
func (m *appModel) clearOutput() {
	m.lastOutput = ""
	m.outputActive = false
}

// outputViewportKeyMap returns a restricted keymap for the output viewport.
// Only arrow/page keys scroll; letter keys stay free to dismiss the output
// or trigger shortcuts.
func outputViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}

// isOutputScrollKey returns true if the key should scroll the output viewport
// rather than dismissing the output.
func isOutputScrollKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown,
		tea.KeyHome, tea.KeyEnd, tea.KeyCtrlU, tea.KeyCtrlD:
		return true
	}
	return false
}

// scrollIndicator returns a dim scroll position string for the status bar.
func scrollIndicator(vp viewport.Model) string {
	if vp.AtTop() {
		return formatter.Dim("[TOP]")
	}
	if vp.AtBottom() {
		return formatter.Dim("[END]")
	}
	pct := int(vp.ScrollPercent() * 100)
	return formatter.Dim(fmt.Sprintf("[%d%%]", pct))
}

// exitError reports why the dashboard stopped. A user quit is not an error.
func (m appModel) exitError() error {
	return m.exit.err
}
