package split

import (
	"errors"
	"fmt"
)

// Layout errors.
var (
	// ErrInvalidPath is returned when a structural path does not resolve
	// to an existing panel.
	ErrInvalidPath = errors.New("path does not resolve to a panel")

	// ErrEmptyLayout is returned when an operation is attempted on a
	// layout whose last panel has already been removed.
	ErrEmptyLayout = errors.New("layout has no panels")

	// ErrNoFocusedPanel is returned when a focus-relative operation runs
	// while no panel holds focus.
	ErrNoFocusedPanel = errors.New("no panel is focused")
)

// PanelNotFoundError reports a stale or foreign panel identity.
type PanelNotFoundError struct {
	Panel PanelID
}

func (e *PanelNotFoundError) Error() string {
	return fmt.Sprintf("panel not found: %s", e.Panel)
}

// SessionNotFoundError reports a session that no panel in the layout owns.
type SessionNotFoundError struct {
	Session SessionID
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.Session)
}
