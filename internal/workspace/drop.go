package workspace

import (
	"context"
	"fmt"

	"github.com/zjrosen/connmux/internal/log"
	"github.com/zjrosen/connmux/internal/pubsub"
	"github.com/zjrosen/connmux/internal/session"
	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/tracing"
)

// Source is what a drag started from. Closed union: RootTabSource,
// PanelSource or SidebarSource.
type Source interface {
	isSource()
	fmt.Stringer
}

// RootTabSource is a dragged tab header. Only an unsplit, occupied tab
// can be dragged this way; its session moves with it and the tab itself
// is destroyed on a successful drop.
type RootTabSource struct {
	Tab split.TabID
}

func (RootTabSource) isSource() {}

func (s RootTabSource) String() string { return "roottab(" + s.Tab.String() + ")" }

// PanelSource is a dragged occupied panel.
type PanelSource struct {
	Tab   split.TabID
	Panel split.PanelID
}

func (PanelSource) isSource() {}

func (s PanelSource) String() string { return "panel(" + s.Panel.String() + ")" }

// SidebarSource is a saved connection dragged from the sidebar. The
// session does not exist yet; it is instantiated during resolution.
type SidebarSource struct {
	Spec session.ConnectionSpec
}

func (SidebarSource) isSource() {}

func (s SidebarSource) String() string { return "sidebar(" + s.Spec.String() + ")" }

// Target is the panel a drop landed on. Whether it counts as empty or
// occupied is resolved against live tree state at resolution time, not
// at drag start.
type Target struct {
	Tab   split.TabID
	Panel split.PanelID
}

// DropOutcome reports what a resolved drop did.
type DropOutcome struct {
	// NoOp is set for self-drops; nothing changed.
	NoOp bool

	// Placed is the session now held by the target panel.
	Placed split.SessionID

	// Swapped is set when the drop exchanged two occupants in place.
	Swapped bool

	// Evicted is the displaced occupant, if the target was occupied
	// and the drop was not a swap.
	Evicted *split.SessionID

	// EvictedTab is the new tab minted to re-home Evicted.
	EvictedTab *split.TabID
}

// ResolveDrop translates a (source, target) pair into engine mutations
// per the resolution table:
//
//	source \ target   empty                     occupied
//	RootTabSource     move session, drop tab    move session, evict occupant
//	PanelSource       move session, collapse    swap the two sessions
//	SidebarSource     instantiate and place     instantiate, evict occupant
//
// An evicted occupant is always re-homed into a brand-new tab before
// ResolveDrop returns; the source tab of a RootTabSource is destroyed
// rather than inheriting the evictee, so tab count is conserved on that
// row. Every error path leaves all trees unchanged.
func (w *Workspace) ResolveDrop(ctx context.Context, src Source, target Target) (DropOutcome, error) {
	_, span := tracing.StartOp(ctx, w.tracer, tracing.SpanResolveDrop,
		tracing.AttrDropSource.String(src.String()),
		tracing.AttrTabID.String(target.Tab.String()),
		tracing.AttrPanelID.String(target.Panel.String()))

	outcome, events, err := w.resolveDrop(ctx, src, target)
	tracing.EndOp(span, err)
	if err != nil {
		log.Debug(log.CatDrop, "drop rejected", "source", src, "target", target.Panel, "error", err)
		return DropOutcome{}, err
	}
	// The mutex is released by now; publish like every other operation.
	for _, ev := range events {
		w.publish(ev.typ, ev.change)
	}
	log.Debug(log.CatDrop, "drop resolved", "source", src, "target", target.Panel,
		"noop", outcome.NoOp, "swapped", outcome.Swapped, "evicted", outcome.Evicted != nil)
	return outcome, nil
}

// pending defers an event until the workspace mutex is released.
type pending struct {
	typ    pubsub.EventType
	change Change
}

func (w *Workspace) resolveDrop(ctx context.Context, src Source, target Target) (DropOutcome, []pending, error) {
	// Sidebar drops instantiate before any structural mutation so a
	// launcher failure leaves every tree untouched.
	var incoming split.SessionID
	if sb, ok := src.(SidebarSource); ok {
		sess, err := w.launcher.Instantiate(ctx, sb.Spec)
		if err != nil {
			return DropOutcome{}, nil, fmt.Errorf("%w: %w", ErrSessionInstantiation, err)
		}
		incoming = sess
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	targetTab, err := w.tabLocked(target.Tab)
	if err != nil {
		return DropOutcome{}, nil, err
	}
	if !targetTab.layout.Contains(target.Panel) {
		return DropOutcome{}, nil, &split.PanelNotFoundError{Panel: target.Panel}
	}
	occupant := targetTab.layout.SessionOf(target.Panel)

	switch s := src.(type) {
	case RootTabSource:
		return w.dropRootTabLocked(s, targetTab, target.Panel, occupant)
	case PanelSource:
		return w.dropPanelLocked(s, targetTab, target.Panel, occupant)
	case SidebarSource:
		return w.dropSidebarLocked(targetTab, target.Panel, occupant, incoming)
	default:
		return DropOutcome{}, nil, ErrInvalidTarget
	}
}

// dropRootTabLocked moves an unsplit tab's session into the target
// panel. An occupied target's session is evicted to a new tab; the
// source tab is destroyed either way, so tab count is conserved.
func (w *Workspace) dropRootTabLocked(src RootTabSource, targetTab *Tab, panel split.PanelID, occupant *split.SessionID) (DropOutcome, []pending, error) {
	srcTab, err := w.tabLocked(src.Tab)
	if err != nil {
		return DropOutcome{}, nil, err
	}
	if srcTab.id == targetTab.id {
		// Dropping a tab onto its own sole panel is a no-op.
		if !srcTab.layout.IsSplit() {
			return DropOutcome{NoOp: true}, nil, nil
		}
		return DropOutcome{}, nil, ErrInvalidTarget
	}
	// Only a plain unsplit tab is draggable as a whole.
	if srcTab.layout.IsSplit() {
		return DropOutcome{}, nil, ErrInvalidTarget
	}
	srcPanel, ok := srcTab.layout.FirstPanel()
	if !ok {
		return DropOutcome{}, nil, ErrInvalidTarget
	}
	moving, err := srcTab.layout.Take(srcPanel)
	if err != nil || moving == nil {
		return DropOutcome{}, nil, ErrInvalidTarget
	}

	var events []pending
	outcome := DropOutcome{Placed: *moving}
	if occupant != nil {
		// Vacate the target before re-homing so the evictee is owned
		// by exactly one panel at every step.
		_, _ = targetTab.layout.Take(panel)
		evictedTab, evs, err := w.rehomeLocked(targetTab.label, *occupant)
		if err != nil {
			_, _ = targetTab.layout.Place(panel, *occupant)
			_, _ = srcTab.layout.Place(srcPanel, *moving)
			return DropOutcome{}, nil, err
		}
		events = append(events, evs...)
		outcome.Evicted = occupant
		outcome.EvictedTab = &evictedTab
	}
	if _, err := targetTab.layout.Place(panel, *moving); err != nil {
		_, _ = srcTab.layout.Place(srcPanel, *moving)
		return DropOutcome{}, nil, err
	}
	w.removeTabLocked(srcTab)

	events = append(events,
		pending{pubsub.TabClosedEvent, Change{Tab: srcTab.id}},
		pending{pubsub.TreeChangedEvent, Change{Tab: targetTab.id}})
	return outcome, events, nil
}

// dropPanelLocked moves or swaps a session between two panels. Moving
// onto an empty panel removes the source panel and collapses its tree;
// a source tree emptied entirely loses its tab.
func (w *Workspace) dropPanelLocked(src PanelSource, targetTab *Tab, panel split.PanelID, occupant *split.SessionID) (DropOutcome, []pending, error) {
	srcTab, err := w.tabLocked(src.Tab)
	if err != nil {
		return DropOutcome{}, nil, err
	}
	if !srcTab.layout.Contains(src.Panel) {
		return DropOutcome{}, nil, &split.PanelNotFoundError{Panel: src.Panel}
	}
	if srcTab.id == targetTab.id && src.Panel == panel {
		return DropOutcome{NoOp: true}, nil, nil
	}
	moving := srcTab.layout.SessionOf(src.Panel)
	if moving == nil {
		return DropOutcome{}, nil, ErrInvalidTarget
	}

	if occupant != nil {
		// Swap: empty both panels, then cross-place. Both stay in
		// their trees, no collapse. Emptying first keeps each session
		// owned by at most one panel at every step, which matters for
		// same-tree swaps.
		if _, err := srcTab.layout.Take(src.Panel); err != nil {
			return DropOutcome{}, nil, err
		}
		if _, err := targetTab.layout.Take(panel); err != nil {
			_, _ = srcTab.layout.Place(src.Panel, *moving)
			return DropOutcome{}, nil, err
		}
		_, _ = srcTab.layout.Place(src.Panel, *occupant)
		_, _ = targetTab.layout.Place(panel, *moving)
		var events []pending
		if srcTab.id != targetTab.id {
			events = append(events, pending{pubsub.TreeChangedEvent, Change{Tab: srcTab.id}})
		}
		events = append(events, pending{pubsub.TreeChangedEvent, Change{Tab: targetTab.id}})
		return DropOutcome{Placed: *moving, Swapped: true}, events, nil
	}

	// Empty target: vacate the source panel, place into the target,
	// then remove the source leaf so its tree collapses. The vacate
	// step keeps single ownership during same-tree moves.
	if _, err := srcTab.layout.Take(src.Panel); err != nil {
		return DropOutcome{}, nil, err
	}
	if _, err := targetTab.layout.Place(panel, *moving); err != nil {
		_, _ = srcTab.layout.Place(src.Panel, *moving)
		return DropOutcome{}, nil, err
	}
	_, empty, err := srcTab.layout.Remove(src.Panel)
	if err != nil {
		_, _ = targetTab.layout.Take(panel)
		_, _ = srcTab.layout.Place(src.Panel, *moving)
		return DropOutcome{}, nil, err
	}
	var events []pending
	if empty {
		w.removeTabLocked(srcTab)
		events = append(events, pending{pubsub.TabClosedEvent, Change{Tab: srcTab.id}})
	} else if srcTab.id != targetTab.id {
		events = append(events, pending{pubsub.TreeChangedEvent, Change{Tab: srcTab.id}})
	}
	events = append(events, pending{pubsub.TreeChangedEvent, Change{Tab: targetTab.id}})
	return DropOutcome{Placed: *moving}, events, nil
}

// dropSidebarLocked places an already-instantiated session into the
// target panel, evicting any occupant to a new tab first.
func (w *Workspace) dropSidebarLocked(targetTab *Tab, panel split.PanelID, occupant *split.SessionID, incoming split.SessionID) (DropOutcome, []pending, error) {
	var events []pending
	outcome := DropOutcome{Placed: incoming}
	if occupant != nil {
		_, _ = targetTab.layout.Take(panel)
		evictedTab, evs, err := w.rehomeLocked(targetTab.label, *occupant)
		if err != nil {
			_, _ = targetTab.layout.Place(panel, *occupant)
			return DropOutcome{}, nil, err
		}
		events = append(events, evs...)
		outcome.Evicted = occupant
		outcome.EvictedTab = &evictedTab
	}
	if _, err := targetTab.layout.Place(panel, incoming); err != nil {
		return DropOutcome{}, nil, err
	}
	events = append(events, pending{pubsub.TreeChangedEvent, Change{Tab: targetTab.id}})
	return outcome, events, nil
}

// rehomeLocked mints a new tab for a displaced session. The evictee is
// never terminated; failure here aborts the whole drop.
func (w *Workspace) rehomeLocked(label string, sess split.SessionID) (split.TabID, []pending, error) {
	if sess.IsZero() {
		return split.TabID{}, nil, ErrEvictionFailed
	}
	id := w.addTabLocked(label, split.NewLayoutWithSession(w.pool, sess))
	events := []pending{
		{pubsub.TabCreatedEvent, Change{Tab: id, Session: sess}},
		{pubsub.SessionEvictedEvent, Change{Tab: id, Session: sess}},
	}
	return id, events, nil
}
