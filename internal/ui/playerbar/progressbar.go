package playerbar

import "strings"

var (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// RenderLevelBar renders a block-style bar for a level in [0, 1].
// Format: ▓▓▓▓▓░░░░░
func RenderLevelBar(level float64, width int) string {
	if width <= 0 {
		return ""
	}
	level = max(0, min(1, level))
	filled := min(int(float64(width)*level+0.5), width)
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}
