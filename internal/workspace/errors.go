package workspace

import "errors"

var (
	// ErrUnknownTab means the tab identity does not resolve to a live
	// tab, typically because the caller held a stale id.
	ErrUnknownTab = errors.New("workspace: unknown tab")

	// ErrInvalidTarget means the drop source and target combination is
	// disallowed, e.g. dragging an empty panel or a split tab header.
	ErrInvalidTarget = errors.New("workspace: invalid drop target")

	// ErrSessionInstantiation wraps a launcher failure for a
	// sidebar-sourced drop. The tree is unchanged when returned.
	ErrSessionInstantiation = errors.New("workspace: session instantiation failed")

	// ErrEvictionFailed means a displaced session could not be re-homed
	// into a new tab. The whole drop is rolled back when returned.
	ErrEvictionFailed = errors.New("workspace: eviction failed")
)
