// Package workspace owns the tab registry and the split layout engine.
//
// A Workspace holds one panel tree per root tab, routes operations to
// the right tree, resolves drag-drop gestures, and emits events after
// every successful mutation. All mutation goes through a single mutex:
// operations are synchronous, non-reentrant, and all-or-nothing. The
// session layer is reached only through the session.Launcher callbacks;
// the engine never inspects a session, it only moves its identity.
package workspace
