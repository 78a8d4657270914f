package playground

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/connmux/internal/flags"
	"github.com/zjrosen/connmux/internal/log"
	"github.com/zjrosen/connmux/internal/pubsub"
	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/workspace"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.treeCache.Flush()
		return m, nil

	case PaletteMsg:
		m.palette = msg
		m.treeCache.Flush()
		return m, nil

	case workspace.Event:
		return m.handleEvent(msg)

	case log.LogEvent:
		m.appendLogLine(msg.Payload)
		if m.logs != nil {
			return m, m.logs.Listen()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleEvent(event workspace.Event) (tea.Model, tea.Cmd) {
	m.refreshTabs()
	m.treeCache.Flush()

	if m.flags.Enabled(flags.FlagSessionNotices) {
		switch event.Type {
		case pubsub.SessionEvictedEvent:
			m.status = "occupant evicted to a new tab"
		case pubsub.SessionDetachedEvent:
			m.status = "session detached"
		}
	}

	if m.flags.Enabled(flags.FlagAutosaveLayout) && event.Type == pubsub.TreeChangedEvent {
		m.saveLayout()
	}

	return m, m.listener.Listen()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays swallow everything except their own toggle and quit.
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Escape):
			m.showHelp = false
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}
	if m.showLogs {
		switch {
		case key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Escape):
			m.showLogs = false
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true

	case key.Matches(msg, m.keys.Escape):
		m.held = nil
		m.heldLabel = ""
		m.status = ""

	case key.Matches(msg, m.keys.Sidebar):
		m.sidebarOpen = !m.sidebarOpen

	case key.Matches(msg, m.keys.Up):
		if m.sidebarOpen && m.sidebarIdx > 0 {
			m.sidebarIdx--
		}

	case key.Matches(msg, m.keys.Down):
		if m.sidebarOpen && m.sidebarIdx < len(m.conns)-1 {
			m.sidebarIdx++
		}

	case key.Matches(msg, m.keys.Enter):
		if m.sidebarOpen && m.sidebarIdx < len(m.conns) {
			spec := m.conns[m.sidebarIdx]
			m.held = workspace.SidebarSource{Spec: spec}
			m.heldLabel = spec.Label
			m.status = "holding " + spec.Label + ": click a panel to drop"
		}

	case key.Matches(msg, m.keys.NextTab):
		if len(m.tabs) > 0 {
			m.active = (m.active + 1) % len(m.tabs)
		}

	case key.Matches(msg, m.keys.PrevTab):
		if len(m.tabs) > 0 {
			m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
		}

	case key.Matches(msg, m.keys.NewTab):
		m.do(func() error {
			_, err := m.ws.NewTab(m.ctx, "")
			return err
		})

	case key.Matches(msg, m.keys.CloseTab):
		if tab, ok := m.activeTab(); ok {
			m.do(func() error { return m.ws.CloseTab(m.ctx, tab) })
		}

	case key.Matches(msg, m.keys.SplitVertical):
		m.splitFocused(split.Vertical)

	case key.Matches(msg, m.keys.SplitHorizontal):
		m.splitFocused(split.Horizontal)

	case key.Matches(msg, m.keys.ClosePanel):
		m.withFocused(func(tab split.TabID, panel split.PanelID) error {
			return m.ws.ClosePanel(m.ctx, tab, panel)
		})

	case key.Matches(msg, m.keys.MoveToNewTab):
		m.withFocused(func(tab split.TabID, panel split.PanelID) error {
			_, err := m.ws.MoveToNewTab(m.ctx, tab, panel)
			return err
		})

	case key.Matches(msg, m.keys.NextPanel):
		m.focusNextPanel()

	case key.Matches(msg, m.keys.GrabPanel):
		if tab, ok := m.activeTab(); ok {
			if focused, err := m.ws.FocusedPanel(tab); err == nil {
				m.held = workspace.PanelSource{Tab: tab, Panel: focused}
				m.heldLabel = "panel"
				m.status = "holding panel: click a panel to drop"
			}
		}

	case key.Matches(msg, m.keys.GrabTab):
		if tab, ok := m.activeTab(); ok {
			m.held = workspace.RootTabSource{Tab: tab}
			if label, err := m.ws.TabLabel(tab); err == nil {
				m.heldLabel = label
			}
			m.status = "holding tab: click a panel to drop"
		}
	}

	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	// Tab headers switch tabs; a drag in flight survives the switch so a
	// panel can be dropped on another tab's tree.
	for i, id := range m.tabs {
		if z := zone.Get(tabZone(id)); z != nil && z.InBounds(msg) {
			m.active = i
			return m, nil
		}
	}

	if m.sidebarOpen {
		for i, spec := range m.conns {
			if z := zone.Get(connZone(i)); z != nil && z.InBounds(msg) {
				m.sidebarIdx = i
				m.held = workspace.SidebarSource{Spec: spec}
				m.heldLabel = spec.Label
				m.status = "holding " + spec.Label + ": click a panel to drop"
				return m, nil
			}
		}
	}

	tab, ok := m.activeTab()
	if !ok {
		return m, nil
	}
	snap, err := m.ws.Snapshot(tab)
	if err != nil || snap.Tree == nil {
		return m, nil
	}
	for _, panel := range snap.Tree.PanelSnapshots() {
		if z := zone.Get(panelZone(panel.ID)); z != nil && z.InBounds(msg) {
			if m.held != nil {
				m.drop(workspace.Target{Tab: tab, Panel: panel.ID})
			} else {
				m.do(func() error { return m.ws.FocusPanel(tab, panel.ID) })
			}
			return m, nil
		}
	}
	return m, nil
}

// drop resolves the held source onto target and clears the drag state.
func (m *Model) drop(target workspace.Target) {
	src := m.held
	m.held = nil
	m.heldLabel = ""

	outcome, err := m.ws.ResolveDrop(m.ctx, src, target)
	m.refreshTabs()
	m.treeCache.Flush()
	if err != nil {
		if errors.Is(err, workspace.ErrInvalidTarget) {
			m.status = "drop rejected: invalid target"
		} else {
			m.status = "drop failed: " + err.Error()
		}
		return
	}

	switch {
	case outcome.NoOp:
		m.status = ""
	case outcome.Swapped:
		m.status = "sessions swapped"
	case outcome.Evicted != nil:
		m.status = "dropped; occupant evicted to a new tab"
	default:
		m.status = "dropped"
	}
}

// do runs a workspace mutation, surfacing any error in the status line.
// State is refreshed eagerly; the event listener repeats the refresh but
// keyboard-driven changes should not wait a frame.
func (m *Model) do(op func() error) {
	if err := op(); err != nil {
		m.status = err.Error()
		return
	}
	m.refreshTabs()
	m.treeCache.Flush()
	m.status = ""
}

// withFocused runs op against the active tab's focused panel.
func (m *Model) withFocused(op func(split.TabID, split.PanelID) error) {
	tab, ok := m.activeTab()
	if !ok {
		return
	}
	focused, err := m.ws.FocusedPanel(tab)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.do(func() error { return op(tab, focused) })
}

func (m *Model) splitFocused(orientation split.Orientation) {
	m.withFocused(func(tab split.TabID, panel split.PanelID) error {
		var err error
		if orientation == split.Vertical {
			_, err = m.ws.SplitVertical(m.ctx, tab, panel)
		} else {
			_, err = m.ws.SplitHorizontal(m.ctx, tab, panel)
		}
		return err
	})
}

// focusNextPanel cycles focus through the active tab's panels in tree
// order.
func (m *Model) focusNextPanel() {
	tab, ok := m.activeTab()
	if !ok {
		return
	}
	snap, err := m.ws.Snapshot(tab)
	if err != nil || snap.Tree == nil {
		return
	}
	panels := snap.Tree.PanelSnapshots()
	if len(panels) < 2 {
		return
	}
	for i, p := range panels {
		if p.ID == snap.Focused {
			next := panels[(i+1)%len(panels)].ID
			m.do(func() error { return m.ws.FocusPanel(tab, next) })
			return
		}
	}
	m.do(func() error { return m.ws.FocusPanel(tab, panels[0].ID) })
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.saveLayout()
	m.cancel()
	return m, tea.Quit
}
