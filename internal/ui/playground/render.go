package playground

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/ui/styles"
	"github.com/zjrosen/connmux/internal/workspace"
)

// renderActiveTree renders the active tab's split tree, cached per tab
// and viewport size until the engine reports a change.
func (m *Model) renderActiveTree(width, height int) string {
	tab, ok := m.activeTab()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			styles.FooterStyle.Render("no tabs open"))
	}

	key := fmt.Sprintf("%s@%dx%d", tab, width, height)
	if cached, found := m.treeCache.Get(key); found {
		return cached.(string)
	}

	snap, err := m.ws.Snapshot(tab)
	if err != nil {
		return styles.ErrorStyle.Render(err.Error())
	}

	var rendered string
	if snap.Tree == nil {
		rendered = lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			styles.FooterStyle.Render("empty tab"))
	} else {
		rendered = m.renderNode(snap, *snap.Tree, width, height, styles.BorderDefaultColor)
	}

	m.treeCache.Set(key, rendered, cache.NoExpiration)
	return rendered
}

// renderNode recursively renders a tree node into a width x height box.
// Panels inherit the border color of the container that owns them.
func (m *Model) renderNode(tab workspace.TabSnapshot, node split.NodeSnapshot, width, height int, borderColor lipgloss.TerminalColor) string {
	if node.Panel != nil {
		return m.renderPanel(tab, *node.Panel, width, height, borderColor)
	}
	if node.Split == nil || len(node.Split.Children) == 0 {
		return ""
	}

	s := node.Split
	color := styles.PaletteColor(m.palette, s.Color)

	if s.Orientation == split.Vertical {
		// Side by side: apportion width.
		sizes := apportion(width, s.Weights)
		parts := make([]string, len(s.Children))
		for i, child := range s.Children {
			parts[i] = m.renderNode(tab, child, sizes[i], height, color)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	// Stacked: apportion height.
	sizes := apportion(height, s.Weights)
	parts := make([]string, len(s.Children))
	for i, child := range s.Children {
		parts[i] = m.renderNode(tab, child, width, sizes[i], color)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderPanel(tab workspace.TabSnapshot, panel split.PanelSnapshot, width, height int, borderColor lipgloss.TerminalColor) string {
	border := borderColor
	if panel.ID == tab.Focused {
		border = styles.BorderFocusedColor
	}

	content := styles.FooterStyle.Render("drop a connection here")
	if panel.Occupied() {
		content = "session " + shortID(panel.Session.String())
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		Render(content)

	return zone.Mark(panelZone(panel.ID), box)
}

// apportion divides total cells among children proportionally to their
// weights, assigning remainder cells left to right. Every child gets at
// least one cell.
func apportion(total int, weights []float64) []int {
	n := len(weights)
	if n == 0 {
		return nil
	}
	out := make([]int, n)
	assigned := 0
	for i, w := range weights {
		out[i] = int(float64(total) * w)
		if out[i] < 1 {
			out[i] = 1
		}
		assigned += out[i]
	}
	// Hand leftover cells (or steal overdraw) from the first child.
	out[0] += total - assigned
	if out[0] < 1 {
		out[0] = 1
	}
	return out
}

// shortID trims a uuid string to its first group for display.
func shortID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
