// Package app is the terminal UI hosting a focus session.
package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/neurobeats/internal/keymap"
	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/task"
	"github.com/llehouerou/neurobeats/internal/ui/styles"
)

// volumeStep is the change applied by one volume key press.
const volumeStep = 0.05

// Session is the controller surface the TUI drives.
type Session interface {
	SelectTask(t task.Task)
	Stop()
	Toggle()
	Interaction()
	SetVolume(v float64)
	SetForeground(fg bool)
	Snapshot() session.Snapshot
	Subscribe() *session.Subscription
}

// Model is the root application model.
type Model struct {
	session Session
	sub     *session.Subscription
	keys    *keymap.Resolver
	spin    spinner.Model

	snap     session.Snapshot
	focus    task.Task // highlighted task card
	showHelp bool
	spinning bool // a spinner tick is in flight
	ErrorMsg string
	Width    int
	Height   int
}

// New creates the model and subscribes to session events.
func New(s Session) Model {
	m := Model{
		session: s,
		sub:     s.Subscribe(),
		keys:    keymap.NewResolver(keymap.All),
		focus:   task.All[0],
		spin: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(styles.T().S().Muted),
		),
	}
	m.refresh()
	return m
}

// WithFocus highlights t instead of the first task. Invalid tasks are ignored.
func (m Model) WithFocus(t task.Task) Model {
	if t.Valid() && !m.snap.Target.Valid() && !m.snap.ActiveTask.Valid() {
		m.focus = t
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.WatchSessionEvents()
}

// spinIfLoading starts the loading spinner unless it already runs.
func (m *Model) spinIfLoading() tea.Cmd {
	if m.snap.State != session.Loading || m.spinning {
		return nil
	}
	m.spinning = true
	return m.spin.Tick
}

// refresh re-reads the session and keeps the highlight on the loading task.
func (m *Model) refresh() {
	m.snap = m.session.Snapshot()
	if m.snap.State == session.Loading && m.snap.Target.Valid() {
		m.focus = m.snap.Target
	}
}
