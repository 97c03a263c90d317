// Package render provides width-aware text helpers for TUI components.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// Sanitize removes control characters (except tab) and invalid UTF-8 bytes,
// and turns non-breaking spaces into spaces. Track titles come from file
// tags and can carry anything.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size <= 1:
		case r != '\t' && unicode.IsControl(r):
		case r == '\u00a0':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsSanitize(s string) bool {
	return !utf8.ValidString(s) || strings.ContainsFunc(s, func(r rune) bool {
		return r == '\u00a0' || r != '\t' && unicode.IsControl(r)
	})
}

// Truncate sanitizes plain text and shortens it to maxWidth cells, wide
// characters included.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Sanitize(s), maxWidth, ellipsis)
}

// Fit shortens already styled text to width cells without cutting escape
// sequences.
func Fit(styled string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(styled, width, ellipsis)
}

// Row places left and right at the edges of width. When both do not fit,
// right is dropped and left is fitted.
func Row(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return Fit(left, width)
	}
	return left + strings.Repeat(" ", gap) + right
}
