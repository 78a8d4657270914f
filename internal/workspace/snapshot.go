package workspace

import (
	"github.com/zjrosen/connmux/internal/split"
)

// TabSnapshot is a read-only view of one tab for the rendering layer.
type TabSnapshot struct {
	ID      split.TabID         `json:"id"`
	Label   string              `json:"label"`
	Group   string              `json:"group,omitempty"`
	Focused split.PanelID       `json:"focused"`
	Tree    *split.NodeSnapshot `json:"tree,omitempty"`
}

// Snapshot returns the tab's current state. The returned value shares
// nothing with the live tree.
func (w *Workspace) Snapshot(id split.TabID) (TabSnapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	tab, err := w.tabLocked(id)
	if err != nil {
		return TabSnapshot{}, err
	}
	return snapshotTabLocked(tab), nil
}

// Snapshots returns every tab's state in registration order.
func (w *Workspace) Snapshots() []TabSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]TabSnapshot, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, snapshotTabLocked(w.tabs[id]))
	}
	return out
}

func snapshotTabLocked(tab *Tab) TabSnapshot {
	snap := TabSnapshot{
		ID:      tab.id,
		Label:   tab.label,
		Group:   tab.group,
		Focused: tab.layout.Focused(),
	}
	if tree, ok := tab.layout.Snapshot(); ok {
		snap.Tree = &tree
	}
	return snap
}
