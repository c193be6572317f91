package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/revint/internal/dashboard"
	"github.com/alexanderramin/revint/internal/session"
	"github.com/alexanderramin/revint/internal/teatest"
)

// TestDriver wraps teatest.Driver with access to appModel internals (tabs,
// overlays, shared state) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
	Backend *fakeBackend
	Store   *session.MemoryStore
	Copied  []string
}

// NewTestDriver builds the dashboard over backend with a stored session,
// sets the terminal size and drains Init, which loads synchronously from the
// fake.
func NewTestDriver(t *testing.T, backend *fakeBackend) *TestDriver {
	t.Helper()

	td := &TestDriver{Backend: backend, Store: session.NewMemoryStore("stored-token")}
	app := &App{
		Store:   td.Store,
		Connect: func(string) Backend { return backend },
		Clipboard: func(s string) error {
			td.Copied = append(td.Copied, s)
			return nil
		},
	}
	state := &SharedState{
		App:  app,
		Ctrl: dashboard.New(backend, td.Store, dashboard.DefaultOptions()),
		Ctx:  context.Background(),
	}

	td.Driver = teatest.New(t, newAppModel(state), teatest.WithSize(140, 40))
	td.DrainInit()
	return td
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveTab returns the ViewID of the visible tab, ignoring overlays.
func (d *TestDriver) ActiveTab() ViewID {
	m := d.appModel()
	return m.tabs[m.active].ID()
}

// ActiveViewID returns the ViewID of the top overlay or the active tab.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	return m.activeView().ID()
}

func (d *TestDriver) OverlayLen() int {
	return len(d.appModel().overlay)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// LastOutput returns the transient output shown over the active tab.
func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}

// IsQuitting reports a quit via the model flag or a tea.QuitMsg.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// AnswerConfirm answers the confirmation overlay on top of the stack.
func (d *TestDriver) AnswerConfirm(yes bool) {
	d.T.Helper()
	m := d.appModel()
	require.NotEmpty(d.T, m.overlay, "no overlay open")
	wv, ok := m.overlay[len(m.overlay)-1].(*wizardView)
	require.True(d.T, ok, "top overlay is not a wizard")
	require.NotNil(d.T, wv.answer, "top overlay is not a confirmation")
	*wv.answer = yes
	d.Send(wv.complete(nil))
}

func (d *TestDriver) apiKeysTab() *apiKeysView {
	return d.appModel().tabs[tabAPIKeys].(*apiKeysView)
}
