package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// background is the color Dim fades toward.
const background = "#1a1a1a"

// Gradient renders text with its foreground blended from one color to the
// other, one step per grapheme cluster. Blending runs in HCL space so the
// middle does not go muddy.
func Gradient(text string, from, to lipgloss.Color, bold bool) string {
	clusters := graphemes(text)
	base := lipgloss.NewStyle().Bold(bold)
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return base.Foreground(from).Render(text)
	}

	a, b := toColorful(from), toColorful(to)
	last := float64(len(clusters) - 1)
	var sb strings.Builder
	for i, c := range clusters {
		hex := a.BlendHcl(b, float64(i)/last).Clamped().Hex()
		sb.WriteString(base.Foreground(lipgloss.Color(hex)).Render(c))
	}
	return sb.String()
}

// Dim blends c toward the background by amount (0 keeps c, 1 is the
// background).
func Dim(c lipgloss.Color, amount float64) lipgloss.Color {
	amount = max(0, min(1, amount))
	bg, _ := colorful.Hex(background)
	return lipgloss.Color(toColorful(c).BlendRgb(bg, amount).Hex())
}

func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// toColorful parses a hex color. ANSI palette indexes have no fixed RGB and
// fall back to mid gray.
func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
