package playground

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/connmux/internal/flags"
	"github.com/zjrosen/connmux/internal/infrastructure/sqlite"
	"github.com/zjrosen/connmux/internal/log"
	"github.com/zjrosen/connmux/internal/pubsub"
	"github.com/zjrosen/connmux/internal/session"
	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/workspace"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T, conns ...session.ConnectionSpec) (*Model, *workspace.Workspace, *session.LocalLauncher) {
	t.Helper()
	launcher := session.NewLocalLauncher()
	ws := workspace.New(workspace.Config{Launcher: launcher})
	t.Cleanup(ws.Close)

	m := New(Config{Workspace: ws, Connections: conns})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, ws, launcher
}

func TestNew_Defaults(t *testing.T) {
	m, _, _ := newTestModel(t, session.ConnectionSpec{Label: "shell", Protocol: session.ProtocolLocal})

	require.Equal(t, "default", m.layoutName)
	require.True(t, m.sidebarOpen, "sidebar opens when connections exist")

	m2, _, _ := newTestModel(t)
	require.False(t, m2.sidebarOpen)
}

func TestUpdate_NewTabKey(t *testing.T) {
	m, ws, _ := newTestModel(t)

	m.Update(keyMsg('n'))

	require.Equal(t, 1, ws.TabCount())
	require.Len(t, m.tabs, 1)
}

func TestUpdate_CloseTabKey(t *testing.T) {
	m, ws, _ := newTestModel(t)
	m.Update(keyMsg('n'))
	m.Update(keyMsg('n'))
	require.Equal(t, 2, ws.TabCount())

	m.Update(keyMsg('w'))

	require.Equal(t, 1, ws.TabCount())
	require.Len(t, m.tabs, 1)
}

func TestUpdate_SplitKeys(t *testing.T) {
	m, ws, _ := newTestModel(t)
	m.Update(keyMsg('n'))
	tab := m.tabs[0]

	m.Update(keyMsg('v'))
	m.Update(keyMsg('s'))

	snap, err := ws.Snapshot(tab)
	require.NoError(t, err)
	require.NotNil(t, snap.Tree)
	require.Len(t, snap.Tree.PanelSnapshots(), 3)
}

func TestUpdate_ClosePanelCollapses(t *testing.T) {
	m, ws, _ := newTestModel(t)
	m.Update(keyMsg('n'))
	tab := m.tabs[0]
	m.Update(keyMsg('v'))

	m.Update(keyMsg('x'))

	snap, err := ws.Snapshot(tab)
	require.NoError(t, err)
	require.NotNil(t, snap.Tree)
	require.NotNil(t, snap.Tree.Panel, "closing back to one panel should collapse the split")
}

func TestUpdate_TabCycling(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(keyMsg('n'))
	m.Update(keyMsg('n'))
	m.Update(keyMsg('n'))
	require.Equal(t, 0, m.active, "refresh keeps the active tab in place")

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, 1, m.active)

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, 0, m.active)

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, 2, m.active, "previous wraps around")
}

func TestUpdate_EnterGrabsSidebarConnection(t *testing.T) {
	spec := session.ConnectionSpec{Label: "web", Protocol: session.ProtocolSSH, Host: "h", Port: 22}
	m, _, _ := newTestModel(t, spec)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, m.held)
	require.IsType(t, workspace.SidebarSource{}, m.held)
}

func TestUpdate_EscapeCancelsDrag(t *testing.T) {
	m, _, _ := newTestModel(t, session.ConnectionSpec{Label: "shell", Protocol: session.ProtocolLocal})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.held)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.Nil(t, m.held)
}

func TestDrop_SidebarOntoEmptyPanel(t *testing.T) {
	spec := session.ConnectionSpec{Label: "shell", Protocol: session.ProtocolLocal}
	m, ws, launcher := newTestModel(t, spec)
	m.Update(keyMsg('n'))
	tab := m.tabs[0]
	focused, err := ws.FocusedPanel(tab)
	require.NoError(t, err)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.drop(workspace.Target{Tab: tab, Panel: focused})

	require.Equal(t, 1, launcher.LiveCount())
	snap, err := ws.Snapshot(tab)
	require.NoError(t, err)
	require.True(t, snap.Tree.Panel.Occupied())
	require.Nil(t, m.held, "drop clears the drag state")
}

func TestDrop_PanelGrabSwap(t *testing.T) {
	m, ws, _ := newTestModel(t)
	ctx := context.Background()

	tabA, sessA, err := ws.OpenConnection(ctx, session.ConnectionSpec{Label: "a", Protocol: session.ProtocolLocal})
	require.NoError(t, err)
	tabB, sessB, err := ws.OpenConnection(ctx, session.ConnectionSpec{Label: "b", Protocol: session.ProtocolLocal})
	require.NoError(t, err)
	m.refreshTabs()
	m.active = 0

	m.Update(keyMsg('g'))
	require.IsType(t, workspace.PanelSource{}, m.held)

	target, err := ws.FocusedPanel(tabB)
	require.NoError(t, err)
	m.drop(workspace.Target{Tab: tabB, Panel: target})

	snapA, err := ws.Snapshot(tabA)
	require.NoError(t, err)
	snapB, err := ws.Snapshot(tabB)
	require.NoError(t, err)
	require.Equal(t, sessB, *snapA.Tree.Panel.Session)
	require.Equal(t, sessA, *snapB.Tree.Panel.Session)
}

func TestView_RendersTabBarAndFooter(t *testing.T) {
	m, ws, _ := newTestModel(t)
	m.Update(keyMsg('n'))

	label, err := ws.TabLabel(m.tabs[0])
	require.NoError(t, err)

	view := m.View()
	require.Contains(t, view, label)
	require.Contains(t, view, "quit")
}

func TestView_HelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(keyMsg('?'))
	require.Contains(t, m.View(), "connmux keys")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotContains(t, m.View(), "connmux keys")
}

func TestView_LogOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(keyMsg('L'))
	view := m.View()
	require.Contains(t, view, "debug log")
	require.Contains(t, view, "no log entries")

	m.Update(log.LogEvent{Type: pubsub.LogEntryEvent, Payload: "engine: tab created", Timestamp: time.Now()})
	require.Contains(t, m.View(), "engine: tab created")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotContains(t, m.View(), "debug log")
}

func TestAppendLogLine_CapsHistory(t *testing.T) {
	m, _, _ := newTestModel(t)

	for i := 0; i < logHistory+50; i++ {
		m.appendLogLine("line")
	}
	require.Len(t, m.logLines, logHistory)
}

func TestQuit_SavesLayout(t *testing.T) {
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "layouts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	launcher := session.NewLocalLauncher()
	ws := workspace.New(workspace.Config{Launcher: launcher})
	t.Cleanup(ws.Close)
	_, _, err = ws.OpenConnection(context.Background(), session.ConnectionSpec{Label: "shell", Protocol: session.ProtocolLocal})
	require.NoError(t, err)

	m := New(Config{Workspace: ws, Store: db.LayoutStore(), LayoutName: "exit"})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	_, cmd := m.Update(keyMsg('q'))
	require.NotNil(t, cmd)

	saved, err := db.LayoutStore().Load("exit")
	require.NoError(t, err)
	require.Len(t, saved, 1)
}

func TestAutosaveFlag_SavesOnTreeChange(t *testing.T) {
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "layouts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	launcher := session.NewLocalLauncher()
	ws := workspace.New(workspace.Config{Launcher: launcher})
	t.Cleanup(ws.Close)

	m := New(Config{
		Workspace:  ws,
		Store:      db.LayoutStore(),
		LayoutName: "auto",
		Flags:      flags.New(map[string]bool{flags.FlagAutosaveLayout: true}),
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	m.Update(keyMsg('n'))
	m.handleEvent(workspace.Event{Type: pubsub.TreeChangedEvent})

	saved, err := db.LayoutStore().Load("auto")
	require.NoError(t, err)
	require.Len(t, saved, 1)
}

func TestPlayground_QuitEndToEnd(t *testing.T) {
	launcher := session.NewLocalLauncher()
	ws := workspace.New(workspace.Config{Launcher: launcher})
	t.Cleanup(ws.Close)

	m := New(Config{Workspace: ws})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	tm.Send(keyMsg('n'))
	tm.Send(keyMsg('q'))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestApportion(t *testing.T) {
	require.Equal(t, []int{50, 50}, apportion(100, []float64{0.5, 0.5}))

	sizes := apportion(7, []float64{0.5, 0.5})
	require.Equal(t, 7, sizes[0]+sizes[1])

	sizes = apportion(3, []float64{0.9, 0.1})
	require.Equal(t, 3, sizes[0]+sizes[1])
	require.GreaterOrEqual(t, sizes[1], 1)
}

func TestActiveTab_EmptyWorkspace(t *testing.T) {
	m, _, _ := newTestModel(t)

	id, ok := m.activeTab()
	require.False(t, ok)
	require.Equal(t, split.TabID{}, id)
}
