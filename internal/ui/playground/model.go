// Package playground implements the interactive layout TUI: a tab bar,
// the active tab's split tree, and a sidebar of saved connections that
// can be dragged onto panels.
//
// Sessions render as placeholder chrome only; the playground exercises
// the layout engine, not terminal multiplexing.
package playground

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/connmux/internal/flags"
	"github.com/zjrosen/connmux/internal/infrastructure/sqlite"
	"github.com/zjrosen/connmux/internal/keys"
	"github.com/zjrosen/connmux/internal/log"
	"github.com/zjrosen/connmux/internal/pubsub"
	"github.com/zjrosen/connmux/internal/session"
	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/workspace"
)

const (
	sidebarWidth  = 28
	tabLabelWidth = 16

	// logHistory caps the lines kept for the log overlay.
	logHistory = 200
)

// PaletteMsg replaces the split border palette at runtime. The config
// watcher sends one when the theme changes on disk.
type PaletteMsg []split.RGB

// Config holds everything the playground model needs.
type Config struct {
	Workspace   *workspace.Workspace
	Connections []session.ConnectionSpec

	// Palette overrides the built-in split border palette when non-empty.
	Palette []split.RGB

	// Store, when set, receives a layout snapshot on quit.
	Store      *sqlite.LayoutStore
	LayoutName string

	// Flags toggles optional behavior; nil disables everything optional.
	Flags *flags.Registry
}

// Model is the playground's Bubble Tea model.
type Model struct {
	ws    *workspace.Workspace
	conns []session.ConnectionSpec

	store      *sqlite.LayoutStore
	layoutName string
	flags      *flags.Registry

	keys    keys.KeyMap
	palette []split.RGB

	ctx      context.Context
	cancel   context.CancelFunc
	listener *pubsub.ContinuousListener[workspace.Change]

	// logs is nil when debug logging is disabled.
	logs     *log.LogListener
	logLines []string

	tabs   []split.TabID
	active int

	sidebarOpen bool
	sidebarIdx  int

	// held is the in-flight drag source; nil when not dragging.
	held      workspace.Source
	heldLabel string

	// treeCache holds rendered trees keyed by tab and viewport size,
	// flushed whenever the engine reports a change.
	treeCache *cache.Cache

	showHelp bool
	showLogs bool
	status   string

	width  int
	height int
}

// New creates a playground model over an existing workspace.
func New(cfg Config) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	name := cfg.LayoutName
	if name == "" {
		name = "default"
	}
	return &Model{
		ws:          cfg.Workspace,
		conns:       cfg.Connections,
		store:       cfg.Store,
		layoutName:  name,
		flags:       cfg.Flags,
		keys:        keys.DefaultKeyMap(),
		palette:     cfg.Palette,
		ctx:         ctx,
		cancel:      cancel,
		listener:    pubsub.NewContinuousListener(ctx, cfg.Workspace.Broker()),
		logs:        log.NewListener(ctx),
		tabs:        cfg.Workspace.Tabs(),
		sidebarOpen: len(cfg.Connections) > 0,
		treeCache:   cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

// Init starts the event listeners.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listener.Listen()}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

// appendLogLine records a formatted debug line for the log overlay.
func (m *Model) appendLogLine(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > logHistory {
		m.logLines = m.logLines[len(m.logLines)-logHistory:]
	}
}

// activeTab returns the current tab's ID, or false when no tabs exist.
func (m *Model) activeTab() (split.TabID, bool) {
	if len(m.tabs) == 0 {
		return split.TabID{}, false
	}
	if m.active >= len(m.tabs) {
		m.active = len(m.tabs) - 1
	}
	return m.tabs[m.active], true
}

// refreshTabs re-reads tab order from the workspace, keeping the active
// index on the same tab when it survived.
func (m *Model) refreshTabs() {
	current, hadTab := m.activeTab()
	m.tabs = m.ws.Tabs()
	if !hadTab {
		m.active = 0
		return
	}
	for i, id := range m.tabs {
		if id == current {
			m.active = i
			return
		}
	}
	if m.active >= len(m.tabs) && len(m.tabs) > 0 {
		m.active = len(m.tabs) - 1
	}
}

// saveLayout persists the current snapshot when a store is configured.
func (m *Model) saveLayout() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(m.layoutName, m.ws.Snapshots()); err != nil {
		log.ErrorErr(log.CatUI, "failed to save layout", err, "name", m.layoutName)
	}
}

// Close releases the model's subscription.
func (m *Model) Close() {
	m.cancel()
}
