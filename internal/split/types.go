package split

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// PanelID uniquely identifies a panel leaf. The ID is stable for the
// panel's lifetime even as the tree around it is restructured.
type PanelID struct {
	id uuid.UUID
}

// NewPanelID creates a new random panel ID.
func NewPanelID() PanelID {
	return PanelID{id: uuid.New()}
}

// IsZero reports whether the ID is the zero value.
func (p PanelID) IsZero() bool {
	return p.id == uuid.Nil
}

func (p PanelID) String() string {
	return "panel:" + p.id.String()
}

// MarshalJSON encodes the ID as its bare UUID string.
func (p PanelID) MarshalJSON() ([]byte, error) {
	return marshalID(p.id)
}

// UnmarshalJSON decodes a bare UUID string.
func (p *PanelID) UnmarshalJSON(data []byte) error {
	return unmarshalID(&p.id, data)
}

// TabID uniquely identifies a root tab and its layout.
type TabID struct {
	id uuid.UUID
}

// NewTabID creates a new random tab ID.
func NewTabID() TabID {
	return TabID{id: uuid.New()}
}

// IsZero reports whether the ID is the zero value.
func (t TabID) IsZero() bool {
	return t.id == uuid.Nil
}

func (t TabID) String() string {
	return "tab:" + t.id.String()
}

// MarshalJSON encodes the ID as its bare UUID string.
func (t TabID) MarshalJSON() ([]byte, error) {
	return marshalID(t.id)
}

// UnmarshalJSON decodes a bare UUID string.
func (t *TabID) UnmarshalJSON(data []byte) error {
	return unmarshalID(&t.id, data)
}

// SessionID identifies an active connection session. The layout engine
// treats it as an opaque, movable token: sessions are placed into and
// taken out of panels by reference, never inspected.
type SessionID struct {
	id uuid.UUID
}

// NewSessionID creates a new random session ID.
func NewSessionID() SessionID {
	return SessionID{id: uuid.New()}
}

// SessionIDFromUUID wraps an existing UUID, for callers that already
// track their sessions by UUID.
func SessionIDFromUUID(id uuid.UUID) SessionID {
	return SessionID{id: id}
}

// IsZero reports whether the ID is the zero value.
func (s SessionID) IsZero() bool {
	return s.id == uuid.Nil
}

// UUID returns the inner UUID.
func (s SessionID) UUID() uuid.UUID {
	return s.id
}

func (s SessionID) String() string {
	return "session:" + s.id.String()
}

// MarshalJSON encodes the ID as its bare UUID string.
func (s SessionID) MarshalJSON() ([]byte, error) {
	return marshalID(s.id)
}

// UnmarshalJSON decodes a bare UUID string.
func (s *SessionID) UnmarshalJSON(data []byte) error {
	return unmarshalID(&s.id, data)
}

func marshalID(id uuid.UUID) ([]byte, error) {
	return json.Marshal(id.String())
}

func unmarshalID(dst *uuid.UUID, data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

// ColorID is an index into the split color palette. Live containers hold
// distinct ColorIDs whenever the palette has free slots.
type ColorID int

// Index returns the palette index.
func (c ColorID) Index() int {
	return int(c)
}

func (c ColorID) String() string {
	return fmt.Sprintf("color:%d", int(c))
}

// Orientation is the direction a container divides its space.
type Orientation int

const (
	// Vertical splits side by side (left/right children).
	Vertical Orientation = iota
	// Horizontal splits stacked (top/bottom children).
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// Path addresses a node structurally: a chain of child indexes from the
// tree root. Paths are recomputed on demand and invalidated by any
// structural mutation; use PanelIDs for stable references.
type Path []int
