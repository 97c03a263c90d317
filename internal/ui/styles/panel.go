package styles

import "github.com/charmbracelet/lipgloss"

// CardStyle returns the border style of a task card. The active card is
// drawn in the task's accent color, the highlighted one in a dimmed blend of
// it.
func CardStyle(accent lipgloss.Color, active, highlighted bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(T().Border).
		Padding(0, 1)

	switch {
	case active:
		style = style.BorderStyle(lipgloss.ThickBorder()).BorderForeground(accent)
	case highlighted:
		style = style.BorderForeground(Dim(accent, 0.5))
	}
	return style
}
