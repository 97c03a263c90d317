// Package helpbindings renders the key binding reference panel.
package helpbindings

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/neurobeats/internal/keymap"
	"github.com/llehouerou/neurobeats/internal/ui/styles"
)

// categoryOrder defines the display order of binding categories.
var categoryOrder = []string{"tasks", "playback", "global"}

// categoryLabels maps context names to display labels.
var categoryLabels = map[string]string{
	"global":   "Global",
	"tasks":    "Tasks",
	"playback": "Playback",
}

// Render lays out every binding grouped by category, keys aligned in one
// column.
func Render() string {
	var bindings []keymap.Binding
	for _, ctx := range categoryOrder {
		bindings = append(bindings, keymap.ByContext(ctx)...)
	}
	return renderBindings(bindings)
}

func renderBindings(bindings []keymap.Binding) string {
	t := styles.T()
	keyStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	descStyle := t.S().Base
	headerStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	separatorStyle := t.S().Subtle

	maxKeyWidth := 0
	for _, b := range bindings {
		maxKeyWidth = max(maxKeyWidth, lipgloss.Width(keymap.Label(b.Keys)))
	}

	var sb strings.Builder
	currentContext := ""
	for _, b := range bindings {
		if b.Context != currentContext {
			if currentContext != "" {
				sb.WriteString("\n")
			}
			label := categoryLabels[b.Context]
			if label == "" {
				label = b.Context
			}
			sb.WriteString(headerStyle.Render(label))
			sb.WriteString("\n")
			sb.WriteString(separatorStyle.Render(strings.Repeat("─", maxKeyWidth+15)))
			sb.WriteString("\n")
			currentContext = b.Context
		}

		keyStr := keymap.Label(b.Keys)
		paddedKey := keyStr + strings.Repeat(" ", maxKeyWidth-lipgloss.Width(keyStr))
		sb.WriteString(keyStyle.Render(paddedKey))
		sb.WriteString("  ")
		sb.WriteString(descStyle.Render(b.Description))
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
