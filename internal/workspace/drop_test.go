package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/connmux/internal/pubsub"
	"github.com/zjrosen/connmux/internal/session"
	"github.com/zjrosen/connmux/internal/split"
)

// TestDrop_Walkthrough drives one workspace through the canonical
// sequence: split, tab-merge, sidebar eviction, collapse, teardown.
func TestDrop_Walkthrough(t *testing.T) {
	w, launcher := newTestWorkspace(t)
	ctx := context.Background()

	// An unsplit tab T holding S1, split vertically: child0 keeps S1,
	// child1 is a fresh empty panel, color 0 allocated.
	tabT, panel0, s1 := openTab(t, w, "T")
	panel1, err := w.SplitVertical(ctx, tabT, panel0)
	require.NoError(t, err)

	snap, err := w.Snapshot(tabT)
	require.NoError(t, err)
	require.Equal(t, split.Vertical, snap.Tree.Split.Orientation)
	require.Equal(t, split.ColorID(0), snap.Tree.Split.Color)
	panels := snap.Tree.PanelSnapshots()
	require.Equal(t, s1, *panels[0].Session)
	require.False(t, panels[1].Occupied())

	// Dropping tab T2 (session S2) onto the empty child1 moves S2 in
	// and destroys T2.
	tabT2, _, s2 := openTab(t, w, "T2")
	out, err := w.ResolveDrop(ctx, RootTabSource{Tab: tabT2}, Target{Tab: tabT, Panel: panel1})
	require.NoError(t, err)
	require.Equal(t, s2, out.Placed)
	require.Nil(t, out.Evicted)
	require.False(t, w.HasTab(tabT2))
	require.Equal(t, 1, w.TabCount())

	snap, err = w.Snapshot(tabT)
	require.NoError(t, err)
	require.Equal(t, s2, *snap.Tree.PanelSnapshots()[1].Session)

	// A sidebar drop onto occupied child0 instantiates S3, and S1 is
	// evicted into a brand-new tab T3.
	out, err = w.ResolveDrop(ctx, SidebarSource{Spec: session.ConnectionSpec{Label: "S3", Protocol: session.ProtocolLocal}}, Target{Tab: tabT, Panel: panel0})
	require.NoError(t, err)
	s3 := out.Placed
	require.True(t, launcher.IsLive(s3))
	require.NotNil(t, out.Evicted)
	require.Equal(t, s1, *out.Evicted)
	require.NotNil(t, out.EvictedTab)
	tabT3 := *out.EvictedTab
	require.True(t, w.HasTab(tabT3))
	require.Equal(t, 2, w.TabCount())

	evictedSnap, err := w.Snapshot(tabT3)
	require.NoError(t, err)
	require.Equal(t, s1, *evictedSnap.Tree.Panel.Session)
	require.True(t, launcher.IsLive(s1), "evicted session survives")

	// Closing child1 (S2) dissolves the container: T collapses to a
	// plain unsplit tab holding S3, color 0 released.
	require.NoError(t, w.ClosePanel(ctx, tabT, panel1))
	snap, err = w.Snapshot(tabT)
	require.NoError(t, err)
	require.Nil(t, snap.Tree.Split)
	require.Equal(t, s3, *snap.Tree.Panel.Session)
	require.False(t, launcher.IsLive(s2))

	// Closing the last panel destroys the tab itself.
	require.NoError(t, w.ClosePanel(ctx, tabT, snap.Tree.Panel.ID))
	require.False(t, w.HasTab(tabT))
}

func TestDrop_NestedCollapseIsLocal(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()
	tab, p0, _ := openTab(t, w, "T")

	p1, err := w.SplitVertical(ctx, tab, p0)
	require.NoError(t, err)
	p2, err := w.SplitHorizontal(ctx, tab, p0)
	require.NoError(t, err)

	// Tree: V(H(p0, p2), p1). Closing p2 dissolves only the inner
	// container.
	require.NoError(t, w.ClosePanel(ctx, tab, p2))
	snap, err := w.Snapshot(tab)
	require.NoError(t, err)
	require.NotNil(t, snap.Tree.Split)
	require.Equal(t, split.Vertical, snap.Tree.Split.Orientation)
	panels := snap.Tree.PanelSnapshots()
	require.Len(t, panels, 2)
	require.Equal(t, p0, panels[0].ID)
	require.Equal(t, p1, panels[1].ID)
}

func TestDrop_RootTabOntoOccupied_EvictsToNewTab(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()

	tabA, panelA, sA := openTab(t, w, "A")
	tabB, _, sB := openTab(t, w, "B")

	out, err := w.ResolveDrop(ctx, RootTabSource{Tab: tabB}, Target{Tab: tabA, Panel: panelA})
	require.NoError(t, err)
	require.Equal(t, sB, out.Placed)
	require.Equal(t, sA, *out.Evicted)

	// Tab count conserved: B destroyed, evictee tab minted.
	require.False(t, w.HasTab(tabB))
	require.Equal(t, 2, w.TabCount())

	snap, err := w.Snapshot(tabA)
	require.NoError(t, err)
	require.Equal(t, sB, *snap.Tree.Panel.Session)

	rehomed, err := w.Snapshot(*out.EvictedTab)
	require.NoError(t, err)
	require.Equal(t, sA, *rehomed.Tree.Panel.Session)
}

// TestDrop_EvictionEventSequence pins the event order for an evicting
// drop. Events are published only after the mutation completes and the
// workspace lock is released, same as every other operation.
func TestDrop_EvictionEventSequence(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()

	tabA, panelA, _ := openTab(t, w, "A")
	tabB, _, _ := openTab(t, w, "B")
	collect := drainEvents(t, w)

	_, err := w.ResolveDrop(ctx, RootTabSource{Tab: tabB}, Target{Tab: tabA, Panel: panelA})
	require.NoError(t, err)

	require.Equal(t, []pubsub.EventType{
		pubsub.TabCreatedEvent,
		pubsub.SessionEvictedEvent,
		pubsub.TabClosedEvent,
		pubsub.TreeChangedEvent,
	}, eventTypes(collect()))
}

func TestDrop_RootTabSelfDropIsNoOp(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()
	tab, panel, sess := openTab(t, w, "T")

	out, err := w.ResolveDrop(ctx, RootTabSource{Tab: tab}, Target{Tab: tab, Panel: panel})
	require.NoError(t, err)
	require.True(t, out.NoOp)

	snap, err := w.Snapshot(tab)
	require.NoError(t, err)
	require.Equal(t, sess, *snap.Tree.Panel.Session)
}

func TestDrop_SplitTabHeaderRejected(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()

	tabA, panelA, _ := openTab(t, w, "A")
	_, err := w.SplitVertical(ctx, tabA, panelA)
	require.NoError(t, err)
	tabB, panelB, _ := openTab(t, w, "B")

	_, err = w.ResolveDrop(ctx, RootTabSource{Tab: tabA}, Target{Tab: tabB, Panel: panelB})
	require.ErrorIs(t, err, ErrInvalidTarget)
	require.True(t, w.HasTab(tabA))
	require.Equal(t, 2, w.TabCount())
}

func TestDrop_PanelOntoEmptySameTreeCollapses(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()
	tab, p0, sess := openTab(t, w, "T")

	p1, err := w.SplitVertical(ctx, tab, p0)
	require.NoError(t, err)

	// Moving the only session into the other panel of a two-panel
	// container reduces the tree to a single panel.
	out, err := w.ResolveDrop(ctx, PanelSource{Tab: tab, Panel: p0}, Target{Tab: tab, Panel: p1})
	require.NoError(t, err)
	require.Equal(t, sess, out.Placed)

	snap, err := w.Snapshot(tab)
	require.NoError(t, err)
	require.Nil(t, snap.Tree.Split)
	require.Equal(t, p1, snap.Tree.Panel.ID)
	require.Equal(t, sess, *snap.Tree.Panel.Session)
}

func TestDrop_PanelOntoEmptyCrossTree(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()

	tabA, pA, sA := openTab(t, w, "A")
	tabB, pB, _ := openTab(t, w, "B")
	empty, err := w.SplitHorizontal(ctx, tabB, pB)
	require.NoError(t, err)

	// A's sole session moves out, so tab A is destroyed.
	out, err := w.ResolveDrop(ctx, PanelSource{Tab: tabA, Panel: pA}, Target{Tab: tabB, Panel: empty})
	require.NoError(t, err)
	require.Equal(t, sA, out.Placed)
	require.False(t, w.HasTab(tabA))

	snap, err := w.Snapshot(tabB)
	require.NoError(t, err)
	require.Equal(t, sA, *snap.Tree.PanelSnapshots()[1].Session)
}

func TestDrop_PanelOntoOccupiedSwaps(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()

	tabA, pA, sA := openTab(t, w, "A")
	tabB, pB, sB := openTab(t, w, "B")

	out, err := w.ResolveDrop(ctx, PanelSource{Tab: tabA, Panel: pA}, Target{Tab: tabB, Panel: pB})
	require.NoError(t, err)
	require.True(t, out.Swapped)
	require.Nil(t, out.Evicted)

	// Both tabs survive with exchanged sessions, no collapse.
	snapA, err := w.Snapshot(tabA)
	require.NoError(t, err)
	snapB, err := w.Snapshot(tabB)
	require.NoError(t, err)
	require.Equal(t, sB, *snapA.Tree.Panel.Session)
	require.Equal(t, sA, *snapB.Tree.Panel.Session)
	require.Equal(t, 2, w.TabCount())
}

func TestDrop_PanelSelfDropIsNoOp(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()
	tab, panel, _ := openTab(t, w, "T")

	out, err := w.ResolveDrop(ctx, PanelSource{Tab: tab, Panel: panel}, Target{Tab: tab, Panel: panel})
	require.NoError(t, err)
	require.True(t, out.NoOp)
}

func TestDrop_EmptyPanelSourceRejected(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()
	tab, panel, _ := openTab(t, w, "T")
	empty, err := w.SplitVertical(ctx, tab, panel)
	require.NoError(t, err)

	_, err = w.ResolveDrop(ctx, PanelSource{Tab: tab, Panel: empty}, Target{Tab: tab, Panel: panel})
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestDrop_SidebarOntoEmpty(t *testing.T) {
	w, launcher := newTestWorkspace(t)
	ctx := context.Background()
	tab, panel, _ := openTab(t, w, "T")
	empty, err := w.SplitVertical(ctx, tab, panel)
	require.NoError(t, err)

	out, err := w.ResolveDrop(ctx, SidebarSource{Spec: session.ConnectionSpec{Label: "new", Protocol: session.ProtocolSSH, Host: "h", Port: 22}}, Target{Tab: tab, Panel: empty})
	require.NoError(t, err)
	require.True(t, launcher.IsLive(out.Placed))
	require.Nil(t, out.Evicted)

	snap, err := w.Snapshot(tab)
	require.NoError(t, err)
	require.Equal(t, out.Placed, *snap.Tree.PanelSnapshots()[1].Session)
}

func TestDrop_SidebarInstantiationFailureRollsBack(t *testing.T) {
	w, launcher := newTestWorkspace(t)
	ctx := context.Background()
	tab, panel, sess := openTab(t, w, "T")

	launcher.FailWith(errors.New("auth rejected"))
	_, err := w.ResolveDrop(ctx, SidebarSource{Spec: session.ConnectionSpec{Label: "bad", Protocol: session.ProtocolSSH}}, Target{Tab: tab, Panel: panel})
	require.ErrorIs(t, err, ErrSessionInstantiation)

	// Target untouched, no eviction tab minted.
	require.Equal(t, 1, w.TabCount())
	snap, serr := w.Snapshot(tab)
	require.NoError(t, serr)
	require.Equal(t, sess, *snap.Tree.Panel.Session)
}

func TestDrop_StaleTargetRejected(t *testing.T) {
	w, _ := newTestWorkspace(t)
	ctx := context.Background()
	tab, panel, _ := openTab(t, w, "T")

	var notFound *split.PanelNotFoundError
	_, err := w.ResolveDrop(ctx, PanelSource{Tab: tab, Panel: panel}, Target{Tab: tab, Panel: split.NewPanelID()})
	require.ErrorAs(t, err, &notFound)

	_, err = w.ResolveDrop(ctx, PanelSource{Tab: tab, Panel: panel}, Target{Tab: split.NewTabID(), Panel: panel})
	require.ErrorIs(t, err, ErrUnknownTab)
}
