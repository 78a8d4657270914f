// Package styles contains Lip Gloss style definitions.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/connmux/internal/split"
)

var (
	// Text hierarchy
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#CCCCCC"}
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#8a8a8a", Dark: "#696969"}

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderFocusedColor = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#3498DB"}

	// Status
	StatusErrorColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Tab bar
	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextPrimaryColor).
			Padding(0, 1)
	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(TextMutedColor).
				Padding(0, 1)

	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderDefaultColor).
			Padding(0, 1)
	SidebarSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(BorderFocusedColor)

	// Footer
	FooterStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle  = lipgloss.NewStyle().Foreground(StatusErrorColor)

	// Drag indicator shown in the status line while something is held.
	GrabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"})
)

// SplitColor converts a container's palette slot into a terminal color.
// Out-of-range colors fall back to the default border color.
func SplitColor(id split.ColorID) lipgloss.TerminalColor {
	rgb, ok := split.ColorRGB(id)
	if !ok {
		return BorderDefaultColor
	}
	return lipgloss.Color(rgb.Hex())
}

// PaletteColor is SplitColor over a custom palette, used when the theme
// overrides the built-in six.
func PaletteColor(palette []split.RGB, id split.ColorID) lipgloss.TerminalColor {
	if len(palette) == 0 {
		return SplitColor(id)
	}
	if id < 0 {
		return BorderDefaultColor
	}
	return lipgloss.Color(palette[int(id)%len(palette)].Hex())
}
