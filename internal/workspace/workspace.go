package workspace

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/connmux/internal/log"
	"github.com/zjrosen/connmux/internal/pubsub"
	"github.com/zjrosen/connmux/internal/session"
	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/tracing"
)

// Tab is one root tab: a label, an optional group, and its panel tree.
type Tab struct {
	id     split.TabID
	label  string
	group  string
	layout *split.Layout
}

// Config configures a Workspace.
type Config struct {
	// Launcher handles session instantiation and teardown. Required.
	Launcher session.Launcher

	// Tracer traces engine operations. Defaults to a no-op tracer.
	Tracer trace.Tracer

	// EventBuffer is the per-subscriber broker buffer size.
	// Zero means the pubsub default.
	EventBuffer int
}

// Workspace is the tab registry and operation surface. All methods are
// safe for concurrent use; internally a single mutex serializes every
// mutation so each operation runs to completion before the next.
type Workspace struct {
	mu       sync.Mutex
	order    []split.TabID
	tabs     map[split.TabID]*Tab
	pool     *split.ColorPool
	groups   *split.TabGroups
	broker   *pubsub.Broker[Change]
	launcher session.Launcher
	tracer   trace.Tracer
}

// New creates an empty workspace.
func New(cfg Config) *Workspace {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("workspace")
	}
	broker := pubsub.NewBroker[Change]()
	if cfg.EventBuffer > 0 {
		broker = pubsub.NewBrokerWithBuffer[Change](cfg.EventBuffer)
	}
	return &Workspace{
		tabs:     make(map[split.TabID]*Tab),
		pool:     split.NewColorPool(),
		groups:   split.NewTabGroups(),
		broker:   broker,
		launcher: cfg.Launcher,
		tracer:   tracer,
	}
}

// Close shuts down the event broker. Live sessions are left to the
// launcher's owner.
func (w *Workspace) Close() {
	w.broker.Close()
}

// NewTab registers a tab holding a single empty panel.
func (w *Workspace) NewTab(ctx context.Context, label string) (split.TabID, error) {
	_, span := tracing.StartOp(ctx, w.tracer, tracing.SpanNewTab)
	w.mu.Lock()
	tab := w.addTabLocked(label, split.NewLayout(w.pool))
	w.mu.Unlock()
	tracing.EndOp(span, nil)

	w.publish(pubsub.TabCreatedEvent, Change{Tab: tab})
	return tab, nil
}

// NewTabWithSession registers a tab whose single panel already holds the
// session. Used when the session layer opened the connection itself and
// when the engine re-homes an evicted session.
func (w *Workspace) NewTabWithSession(ctx context.Context, label string, sess split.SessionID) (split.TabID, error) {
	_, span := tracing.StartOp(ctx, w.tracer, tracing.SpanNewTab,
		tracing.AttrSessionID.String(sess.String()))
	w.mu.Lock()
	tab := w.addTabLocked(label, split.NewLayoutWithSession(w.pool, sess))
	w.mu.Unlock()
	tracing.EndOp(span, nil)

	w.publish(pubsub.TabCreatedEvent, Change{Tab: tab, Session: sess})
	return tab, nil
}

// OpenConnection instantiates a session from the spec and registers a
// tab for it. The tab is only created once instantiation succeeds.
func (w *Workspace) OpenConnection(ctx context.Context, spec session.ConnectionSpec) (split.TabID, split.SessionID, error) {
	sess, err := w.launcher.Instantiate(ctx, spec)
	if err != nil {
		log.ErrorErr(log.CatSession, "instantiate failed", err, "spec", spec)
		return split.TabID{}, split.SessionID{}, fmt.Errorf("%w: %w", ErrSessionInstantiation, err)
	}
	label := spec.Label
	if label == "" {
		label = spec.String()
	}
	tab, err := w.NewTabWithSession(ctx, label, sess)
	if err != nil {
		return split.TabID{}, split.SessionID{}, err
	}
	return tab, sess, nil
}

// addTabLocked registers a layout under a fresh tab identity.
func (w *Workspace) addTabLocked(label string, layout *split.Layout) split.TabID {
	id := split.NewTabID()
	if label == "" {
		label = fmt.Sprintf("Tab %d", len(w.order)+1)
	}
	w.tabs[id] = &Tab{id: id, label: label, layout: layout}
	w.order = append(w.order, id)
	log.Debug(log.CatEngine, "tab created", "tab", id, "label", label)
	return id
}

// removeTabLocked unregisters the tab and releases its tree's colors.
// The caller owns session teardown.
func (w *Workspace) removeTabLocked(tab *Tab) {
	tab.layout.ReleaseColors()
	delete(w.tabs, tab.id)
	for i, id := range w.order {
		if id == tab.id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	log.Debug(log.CatEngine, "tab destroyed", "tab", tab.id)
}

// tabLocked resolves a tab identity.
func (w *Workspace) tabLocked(id split.TabID) (*Tab, error) {
	tab, ok := w.tabs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTab, id)
	}
	return tab, nil
}

// Tabs returns tab identities in registration order.
func (w *Workspace) Tabs() []split.TabID {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]split.TabID, len(w.order))
	copy(out, w.order)
	return out
}

// TabCount returns the number of live tabs.
func (w *Workspace) TabCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// HasTab reports whether the tab is live.
func (w *Workspace) HasTab(id split.TabID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.tabs[id]
	return ok
}

// TabLabel returns the tab's display label.
func (w *Workspace) TabLabel(id split.TabID) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	tab, err := w.tabLocked(id)
	if err != nil {
		return "", err
	}
	return tab.label, nil
}

// RenameTab updates the tab's display label.
func (w *Workspace) RenameTab(id split.TabID, label string) error {
	w.mu.Lock()
	tab, err := w.tabLocked(id)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	tab.label = label
	w.mu.Unlock()

	w.publish(pubsub.TabRenamedEvent, Change{Tab: id})
	return nil
}

// SetTabGroup assigns the tab to a named group. Group names map to
// stable palette colors via split.TabGroups. An empty name clears the
// group.
func (w *Workspace) SetTabGroup(id split.TabID, group string) error {
	w.mu.Lock()
	tab, err := w.tabLocked(id)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	tab.group = group
	if group != "" {
		w.groups.Assign(group)
	}
	w.mu.Unlock()

	w.publish(pubsub.TabRenamedEvent, Change{Tab: id})
	return nil
}

// GroupColor returns the palette index for a named group.
func (w *Workspace) GroupColor(group string) (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.groups.Color(group)
}

// CloseTab destroys the tab and terminates every session its tree still
// holds; the sessions are genuinely discarded, not evicted.
func (w *Workspace) CloseTab(ctx context.Context, id split.TabID) error {
	_, span := tracing.StartOp(ctx, w.tracer, tracing.SpanCloseTab,
		tracing.AttrTabID.String(id.String()))

	w.mu.Lock()
	tab, err := w.tabLocked(id)
	if err != nil {
		w.mu.Unlock()
		tracing.EndOp(span, err)
		return err
	}
	var discarded []split.SessionID
	for _, pid := range tab.layout.PanelIDs() {
		if sess := tab.layout.SessionOf(pid); sess != nil {
			discarded = append(discarded, *sess)
		}
	}
	w.removeTabLocked(tab)
	w.mu.Unlock()

	for _, sess := range discarded {
		if terr := w.launcher.Terminate(ctx, sess); terr != nil {
			log.ErrorErr(log.CatSession, "terminate failed", terr, "session", sess)
		}
	}
	tracing.EndOp(span, nil)

	w.publish(pubsub.TabClosedEvent, Change{Tab: id})
	return nil
}
