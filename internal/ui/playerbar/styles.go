package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/neurobeats/internal/ui/styles"
)

var barStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

func volumeStyle() lipgloss.Style {
	return styles.T().S().Muted
}
