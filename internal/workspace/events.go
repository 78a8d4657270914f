package workspace

import (
	"github.com/zjrosen/connmux/internal/pubsub"
	"github.com/zjrosen/connmux/internal/split"
)

// Change is the payload published on the workspace broker. Panel and
// Session are zero unless the event is scoped to one.
type Change struct {
	Tab     split.TabID
	Panel   split.PanelID
	Session split.SessionID
}

// Event is a workspace change notification.
type Event = pubsub.Event[Change]

func (w *Workspace) publish(t pubsub.EventType, c Change) {
	w.broker.Publish(t, c)
}

// Broker exposes the workspace event stream for subscribers.
func (w *Workspace) Broker() *pubsub.Broker[Change] {
	return w.broker
}
