package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/neurobeats/internal/keymap"
	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/task"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.FocusMsg:
		m.session.SetForeground(true)
		return m, nil

	case tea.BlurMsg:
		m.session.SetForeground(false)
		return m, nil

	case SessionStateMsg, ElapsedMsg, VolumeMsg:
		return m.onSessionEvent()

	case TaskChangedMsg:
		if msg.Current.Valid() {
			m.ErrorMsg = ""
			m.focus = msg.Current
		}
		return m.onSessionEvent()

	case SessionErrorMsg:
		m.ErrorMsg = msg.Message
		return m.onSessionEvent()

	case spinner.TickMsg:
		if m.snap.State != session.Loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case SessionClosedMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) onSessionEvent() (tea.Model, tea.Cmd) {
	m.refresh()
	spin := m.spinIfLoading()
	return m, tea.Batch(m.WatchSessionEvents(), spin)
}

// handleKey reports every key press as a user interaction, which releases
// playback held by the audio backend, then dispatches the bound action.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.session.Interaction()

	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
	case keymap.ActionSelectMath:
		m.selectTask(task.Math)
	case keymap.ActionSelectReading:
		m.selectTask(task.Reading)
	case keymap.ActionSelectCoding:
		m.selectTask(task.Coding)
	case keymap.ActionSelectCreative:
		m.selectTask(task.Creative)
	case keymap.ActionNextTask:
		m.focus = m.focus.Next()
	case keymap.ActionPrevTask:
		m.focus = m.focus.Prev()
	case keymap.ActionPlayFocused:
		m.selectTask(m.focus)
	case keymap.ActionPlayPause:
		m.playPause()
	case keymap.ActionStop:
		m.session.Stop()
	case keymap.ActionVolumeUp:
		m.session.SetVolume(m.snap.Volume + volumeStep)
	case keymap.ActionVolumeDown:
		m.session.SetVolume(m.snap.Volume - volumeStep)
	}

	m.refresh()
	spin := m.spinIfLoading()
	return m, spin
}

func (m *Model) selectTask(t task.Task) {
	m.focus = t
	m.ErrorMsg = ""
	m.session.SelectTask(t)
}

// playPause toggles a running session, or starts the highlighted task.
func (m *Model) playPause() {
	switch m.snap.State {
	case session.Playing, session.Paused:
		m.session.Toggle()
	case session.Loading:
	case session.Idle, session.Stopped:
		if !m.snap.Pending.Valid() {
			m.selectTask(m.focus)
		}
	}
}
