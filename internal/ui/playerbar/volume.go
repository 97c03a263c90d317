package playerbar

import (
	"fmt"

	"github.com/llehouerou/neurobeats/internal/icons"
)

const volumeBarWidth = 10

// RenderVolume renders the volume indicator.
// Format: "vol ▓▓▓▓▓░░░░░  50%"
func RenderVolume(volume float64, width int) string {
	pct := int(volume*100 + 0.5)
	return volumeStyle().Render(fmt.Sprintf("%s %s %3d%%", icons.Volume(volume), RenderLevelBar(volume, width), pct))
}
