package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/neurobeats/internal/icons"
	"github.com/llehouerou/neurobeats/internal/keymap"
	"github.com/llehouerou/neurobeats/internal/session"
	"github.com/llehouerou/neurobeats/internal/task"
	"github.com/llehouerou/neurobeats/internal/ui/helpbindings"
	"github.com/llehouerou/neurobeats/internal/ui/playerbar"
	"github.com/llehouerou/neurobeats/internal/ui/styles"
)

const (
	defaultWidth = 80
	cardMinWidth = 16
)

// View renders the application UI.
func (m Model) View() string {
	width := m.Width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{
		m.renderHeader(),
		m.renderCards(width),
		m.renderDetails(width),
	}
	if msg := m.errorMessage(); msg != "" {
		sections = append(sections, styles.T().S().Error.Render(msg))
	}
	bar := playerbar.NewState(m.snap)
	if m.spinning {
		bar.Spinner = m.spin.View()
	}
	sections = append(sections, playerbar.Render(bar, width))

	if m.showHelp {
		sections = append(sections, helpbindings.Render())
	} else {
		sections = append(sections, styles.T().S().Subtle.Render(m.footer()))
	}

	return strings.Join(sections, "\n\n")
}

// footer lists the essential keys as currently bound.
func (m Model) footer() string {
	hint := func(a keymap.Action, what string) string {
		return m.keys.Primary(a) + " " + what
	}
	return strings.Join([]string{
		"1-4 select",
		hint(keymap.ActionPlayPause, "play/pause"),
		hint(keymap.ActionStop, "stop"),
		hint(keymap.ActionHelp, "help"),
		hint(keymap.ActionQuit, "quit"),
	}, " · ")
}

func (m Model) renderHeader() string {
	t := styles.T()
	return styles.Gradient("neurobeats", t.Primary, t.Secondary, true) +
		t.S().Muted.Render("  adaptive focus music")
}

// renderCards draws one card per task. The audible task gets a thick border
// in its accent color; the highlighted one a dimmed border.
func (m Model) renderCards(width int) string {
	cardWidth := max(width/len(task.All)-2, cardMinWidth)
	cards := make([]string, 0, len(task.All))
	for i, t := range task.All {
		info := task.Lookup(t)
		accent := lipgloss.Color(info.Color)

		name := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(icons.FormatTask(t, info.Name))
		bpm := styles.T().S().Muted.Render(info.BPM)
		hint := styles.T().S().Subtle.Render("[" + string(rune('1'+i)) + "]")

		body := lipgloss.JoinVertical(lipgloss.Left, name, bpm, hint)
		style := styles.CardStyle(accent, m.isAudible(t), m.focus == t)
		cards = append(cards, style.Width(cardWidth).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) isAudible(t task.Task) bool {
	switch m.snap.State {
	case session.Playing, session.Paused:
		return m.snap.ActiveTask == t
	case session.Loading:
		return m.snap.Target == t
	case session.Idle, session.Stopped:
	}
	return false
}

func (m Model) renderDetails(width int) string {
	if !m.focus.Valid() {
		return ""
	}
	info := task.Lookup(m.focus)
	st := styles.T().S()

	desc := lipgloss.NewStyle().Width(max(width-2, cardMinWidth)).Render(st.Base.Render(info.Description))
	traits := st.Muted.Render(strings.Join(info.Characteristics, " · "))
	return lipgloss.JoinVertical(lipgloss.Left, desc, traits)
}

// errorMessage prefers the message delivered with the failure event, falling
// back to the snapshot while the session sits idle after a failure.
func (m Model) errorMessage() string {
	if m.ErrorMsg != "" {
		return m.ErrorMsg
	}
	if m.snap.State == session.Idle && !m.snap.Pending.Valid() {
		return m.snap.LastErrorMessage()
	}
	return ""
}
