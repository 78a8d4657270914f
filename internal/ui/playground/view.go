package playground

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/ui/styles"
)

func tabZone(id split.TabID) string { return "tab:" + id.String() }

func panelZone(id split.PanelID) string { return "panel:" + id.String() }

func connZone(i int) string { return fmt.Sprintf("conn:%d", i) }

// View renders the playground.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	if m.showHelp {
		return zone.Scan(m.renderHelp())
	}
	if m.showLogs {
		return zone.Scan(m.renderLogs())
	}

	tabBar := m.renderTabBar()
	footer := m.renderFooter()

	bodyHeight := m.height - lipgloss.Height(tabBar) - lipgloss.Height(footer)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	treeWidth := m.width
	if m.sidebarOpen {
		sidebar := m.renderSidebar(bodyHeight)
		treeWidth -= lipgloss.Width(sidebar)
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, m.renderActiveTree(treeWidth, bodyHeight))
	} else {
		body = m.renderActiveTree(treeWidth, bodyHeight)
	}

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, tabBar, body, footer))
}

func (m *Model) renderTabBar() string {
	if len(m.tabs) == 0 {
		return styles.TabInactiveStyle.Render("no tabs (n to create one)")
	}

	entries := make([]string, 0, len(m.tabs))
	for i, id := range m.tabs {
		label, err := m.ws.TabLabel(id)
		if err != nil {
			continue
		}
		label = styles.TruncateString(label, tabLabelWidth)
		if dot := m.groupDot(id); dot != "" {
			label = dot + " " + label
		}

		style := styles.TabInactiveStyle
		if i == m.active {
			style = styles.TabActiveStyle
			label = "[" + label + "]"
		}
		entries = append(entries, zone.Mark(tabZone(id), style.Render(label)))
	}
	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(entries, ""))
}

// groupDot returns a colored marker for the tab's group, or empty when
// ungrouped.
func (m *Model) groupDot(id split.TabID) string {
	snap, err := m.ws.Snapshot(id)
	if err != nil || snap.Group == "" {
		return ""
	}
	idx, ok := m.ws.GroupColor(snap.Group)
	if !ok {
		return ""
	}
	color := styles.PaletteColor(m.palette, split.ColorID(idx))
	return lipgloss.NewStyle().Foreground(color).Render("●")
}

func (m *Model) renderSidebar(height int) string {
	lines := make([]string, 0, len(m.conns)+1)
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Connections"))
	for i, spec := range m.conns {
		label := styles.TruncateString(spec.Label, sidebarWidth-6)
		if i == m.sidebarIdx {
			label = styles.SidebarSelectedStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		lines = append(lines, zone.Mark(connZone(i), label))
	}

	return styles.SidebarStyle.
		Width(sidebarWidth - 2).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	var parts []string
	if m.held != nil {
		parts = append(parts, styles.GrabStyle.Render("✋ "+m.heldLabel))
	}
	if m.status != "" {
		parts = append(parts, styles.ErrorStyle.Render(m.status))
	}

	var help []string
	for _, b := range m.keys.ShortHelp() {
		help = append(help, b.Help().Key+" "+b.Help().Desc)
	}
	parts = append(parts, styles.FooterStyle.Render(
		wordwrap.String(strings.Join(help, " · "), m.width)))

	return strings.Join(parts, "\n")
}

func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("connmux keys"))
	b.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			fmt.Fprintf(&b, "  %-12s %s\n", binding.Help().Key, binding.Help().Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.FooterStyle.Render("? or esc to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderLogs shows the tail of the debug log stream.
func (m *Model) renderLogs() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("debug log"))
	b.WriteString("\n\n")

	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}
	lines := m.logLines
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	if len(lines) == 0 {
		b.WriteString(styles.FooterStyle.Render("no log entries (run with --debug)"))
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(styles.TruncateString(line, m.width-4))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FooterStyle.Render("L or esc to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, b.String())
}
