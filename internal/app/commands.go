package app

import tea "github.com/charmbracelet/bubbletea"

// WatchSessionEvents returns a command that waits for the next session event.
// It listens on all subscription channels and converts events to tea.Msg.
func (m Model) WatchSessionEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return SessionStateMsg(e)
		case e := <-sub.TaskChanged:
			return TaskChangedMsg(e)
		case e := <-sub.ElapsedChanged:
			return ElapsedMsg(e)
		case e := <-sub.VolumeChanged:
			return VolumeMsg(e)
		case e := <-sub.Error:
			return SessionErrorMsg(e)
		case <-sub.Done:
			return SessionClosedMsg{}
		}
	}
}
