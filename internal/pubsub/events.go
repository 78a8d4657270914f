// Package pubsub carries layout and session events from the workspace
// engine to the UI and any other subscriber. The broker is generic over
// the payload so each concern gets its own typed stream.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened to the payload's subject.
type EventType string

const (
	// TreeChangedEvent fires after any structural mutation of a tab's
	// panel tree: split, close, placement, eviction, divider move.
	TreeChangedEvent EventType = "tree.changed"

	// TabCreatedEvent fires when a root tab is registered, including
	// tabs minted by the engine to re-home an evicted session.
	TabCreatedEvent EventType = "tab.created"

	// TabClosedEvent fires when a tab is destroyed, either explicitly
	// or because its last panel was removed.
	TabClosedEvent EventType = "tab.closed"

	// TabRenamedEvent fires when a tab's title or group changes.
	TabRenamedEvent EventType = "tab.renamed"

	// FocusChangedEvent fires when the focused panel moves.
	FocusChangedEvent EventType = "focus.changed"

	// SessionEvictedEvent fires when a drop displaces an occupant and
	// the engine re-homes it to a fresh tab.
	SessionEvictedEvent EventType = "session.evicted"

	// SessionDetachedEvent fires when a session leaves the layout
	// without re-homing: its panel was closed or its connection died.
	SessionDetachedEvent EventType = "session.detached"

	// LogEntryEvent carries a formatted debug log line to the in-app
	// log viewer.
	LogEntryEvent EventType = "log.entry"
)

// Event is a timestamped occurrence with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out event channels scoped to a context.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher fans an event out to current subscribers.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
