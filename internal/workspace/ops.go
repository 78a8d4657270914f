package workspace

import (
	"context"

	"github.com/zjrosen/connmux/internal/log"
	"github.com/zjrosen/connmux/internal/pubsub"
	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/tracing"
)

// SplitVertical splits the panel top/bottom and returns the new empty
// panel's identity.
func (w *Workspace) SplitVertical(ctx context.Context, tab split.TabID, panel split.PanelID) (split.PanelID, error) {
	return w.splitPanel(ctx, tab, panel, split.Vertical)
}

// SplitHorizontal splits the panel left/right and returns the new empty
// panel's identity.
func (w *Workspace) SplitHorizontal(ctx context.Context, tab split.TabID, panel split.PanelID) (split.PanelID, error) {
	return w.splitPanel(ctx, tab, panel, split.Horizontal)
}

func (w *Workspace) splitPanel(ctx context.Context, tab split.TabID, panel split.PanelID, orientation split.Orientation) (split.PanelID, error) {
	_, span := tracing.StartOp(ctx, w.tracer, tracing.SpanSplit,
		tracing.AttrTabID.String(tab.String()),
		tracing.AttrPanelID.String(panel.String()),
		tracing.AttrOrientation.String(orientation.String()))

	w.mu.Lock()
	t, err := w.tabLocked(tab)
	if err != nil {
		w.mu.Unlock()
		tracing.EndOp(span, err)
		return split.PanelID{}, err
	}
	newID, err := t.layout.Split(panel, orientation)
	w.mu.Unlock()
	tracing.EndOp(span, err)
	if err != nil {
		return split.PanelID{}, err
	}

	log.Debug(log.CatTree, "panel split", "tab", tab, "panel", panel, "new", newID, "orientation", orientation)
	w.publish(pubsub.TreeChangedEvent, Change{Tab: tab, Panel: newID})
	return newID, nil
}

// ClosePanel removes the panel from the tab's tree. An occupied panel's
// session is terminated first; it is genuinely discarded, not evicted.
// Removing the last panel destroys the tab.
func (w *Workspace) ClosePanel(ctx context.Context, tab split.TabID, panel split.PanelID) error {
	_, span := tracing.StartOp(ctx, w.tracer, tracing.SpanClosePanel,
		tracing.AttrTabID.String(tab.String()),
		tracing.AttrPanelID.String(panel.String()))

	w.mu.Lock()
	t, err := w.tabLocked(tab)
	if err != nil {
		w.mu.Unlock()
		tracing.EndOp(span, err)
		return err
	}
	sess, empty, err := t.layout.Remove(panel)
	if err != nil {
		w.mu.Unlock()
		tracing.EndOp(span, err)
		return err
	}
	if empty {
		w.removeTabLocked(t)
	}
	w.mu.Unlock()

	if sess != nil {
		if terr := w.launcher.Terminate(ctx, *sess); terr != nil {
			log.ErrorErr(log.CatSession, "terminate failed", terr, "session", *sess)
		}
		w.publish(pubsub.SessionDetachedEvent, Change{Tab: tab, Panel: panel, Session: *sess})
	}
	tracing.EndOp(span, nil)

	if empty {
		w.publish(pubsub.TabClosedEvent, Change{Tab: tab})
	} else {
		w.publish(pubsub.TreeChangedEvent, Change{Tab: tab})
	}
	return nil
}

// MoveToNewTab extracts the session from an occupied panel into a brand
// new tab, removing the panel from the source tree. Moving the sole
// panel of an unsplit tab replaces the tab wholesale. An empty panel
// cannot be moved.
func (w *Workspace) MoveToNewTab(ctx context.Context, tab split.TabID, panel split.PanelID) (split.TabID, error) {
	_, span := tracing.StartOp(ctx, w.tracer, tracing.SpanMoveToTab,
		tracing.AttrTabID.String(tab.String()),
		tracing.AttrPanelID.String(panel.String()))

	w.mu.Lock()
	t, err := w.tabLocked(tab)
	if err != nil {
		w.mu.Unlock()
		tracing.EndOp(span, err)
		return split.TabID{}, err
	}
	if !t.layout.Contains(panel) {
		err = &split.PanelNotFoundError{Panel: panel}
		w.mu.Unlock()
		tracing.EndOp(span, err)
		return split.TabID{}, err
	}
	if t.layout.SessionOf(panel) == nil {
		w.mu.Unlock()
		tracing.EndOp(span, ErrInvalidTarget)
		return split.TabID{}, ErrInvalidTarget
	}
	sess, empty, err := t.layout.Remove(panel)
	if err != nil {
		w.mu.Unlock()
		tracing.EndOp(span, err)
		return split.TabID{}, err
	}
	if empty {
		w.removeTabLocked(t)
	}
	newTab := w.addTabLocked(t.label, split.NewLayoutWithSession(w.pool, *sess))
	w.mu.Unlock()
	tracing.EndOp(span, nil)

	if empty {
		w.publish(pubsub.TabClosedEvent, Change{Tab: tab})
	} else {
		w.publish(pubsub.TreeChangedEvent, Change{Tab: tab})
	}
	w.publish(pubsub.TabCreatedEvent, Change{Tab: newTab, Session: *sess})
	return newTab, nil
}

// FocusPanel moves the tab's focus to the panel.
func (w *Workspace) FocusPanel(tab split.TabID, panel split.PanelID) error {
	w.mu.Lock()
	t, err := w.tabLocked(tab)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := t.layout.SetFocus(panel); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()

	w.publish(pubsub.FocusChangedEvent, Change{Tab: tab, Panel: panel})
	return nil
}

// FocusedPanel returns the tab's focused panel.
func (w *Workspace) FocusedPanel(tab split.TabID) (split.PanelID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, err := w.tabLocked(tab)
	if err != nil {
		return split.PanelID{}, err
	}
	return t.layout.Focused(), nil
}

// SetDivider updates the divider of the container led by the panel: the
// first child receives frac of the space.
func (w *Workspace) SetDivider(tab split.TabID, panel split.PanelID, frac float64) error {
	w.mu.Lock()
	t, err := w.tabLocked(tab)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if !t.layout.SetWeight(panel, frac) {
		w.mu.Unlock()
		return &split.PanelNotFoundError{Panel: panel}
	}
	w.mu.Unlock()

	w.publish(pubsub.TreeChangedEvent, Change{Tab: tab})
	return nil
}

// HandleSessionDisconnect reacts to a session dying underneath the
// layout: its panel is emptied in place and keeps showing a placeholder.
// When the session was the sole content of an unsplit tab, the tab is
// destroyed instead. Unknown sessions are ignored.
func (w *Workspace) HandleSessionDisconnect(ctx context.Context, sess split.SessionID) {
	_, span := tracing.StartOp(ctx, w.tracer, tracing.SpanDisconnect,
		tracing.AttrSessionID.String(sess.String()))
	defer tracing.EndOp(span, nil)

	w.mu.Lock()
	var owner *Tab
	var panel split.PanelID
	for _, id := range w.order {
		t := w.tabs[id]
		if pid, ok := t.layout.FindSession(sess); ok {
			owner, panel = t, pid
			break
		}
	}
	if owner == nil {
		w.mu.Unlock()
		log.Debug(log.CatSession, "disconnect for unknown session", "session", sess)
		return
	}
	tabID := owner.id
	destroyed := !owner.layout.IsSplit()
	if destroyed {
		w.removeTabLocked(owner)
	} else {
		_, _ = owner.layout.Take(panel)
	}
	w.mu.Unlock()

	log.Info(log.CatSession, "session disconnected", "session", sess, "tab", tabID, "tab_destroyed", destroyed)
	w.publish(pubsub.SessionDetachedEvent, Change{Tab: tabID, Panel: panel, Session: sess})
	if destroyed {
		w.publish(pubsub.TabClosedEvent, Change{Tab: tabID})
	} else {
		w.publish(pubsub.TreeChangedEvent, Change{Tab: tabID})
	}
}
