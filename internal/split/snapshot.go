package split

// NodeSnapshot is an immutable view of one tree node, safe to hand to the
// rendering layer. Exactly one of Panel and Split is set.
type NodeSnapshot struct {
	Panel *PanelSnapshot `json:"panel,omitempty"`
	Split *SplitSnapshot `json:"split,omitempty"`
}

// PanelSnapshot describes a leaf: its identity and, when occupied, the
// session it holds.
type PanelSnapshot struct {
	ID      PanelID    `json:"id"`
	Session *SessionID `json:"session,omitempty"`
}

// Occupied reports whether the panel holds a session.
func (p PanelSnapshot) Occupied() bool {
	return p.Session != nil
}

// SplitSnapshot describes a container: orientation, per-child weights,
// palette color, and child views in order.
type SplitSnapshot struct {
	Orientation Orientation    `json:"orientation"`
	Color       ColorID        `json:"color"`
	Weights     []float64      `json:"weights"`
	Children    []NodeSnapshot `json:"children"`
}

// Snapshot returns a read-only copy of the tree shape. Returns false when
// the layout is empty.
func (l *Layout) Snapshot() (NodeSnapshot, bool) {
	if l.root == nil {
		return NodeSnapshot{}, false
	}
	return snapshotNode(l.root), true
}

func snapshotNode(n node) NodeSnapshot {
	switch t := n.(type) {
	case *panel:
		ps := &PanelSnapshot{ID: t.id}
		if t.session != nil {
			s := *t.session
			ps.Session = &s
		}
		return NodeSnapshot{Panel: ps}
	case *container:
		ss := &SplitSnapshot{
			Orientation: t.orientation,
			Color:       t.color,
			Weights:     append([]float64(nil), t.weights...),
			Children:    make([]NodeSnapshot, len(t.children)),
		}
		for i, child := range t.children {
			ss.Children[i] = snapshotNode(child)
		}
		return NodeSnapshot{Split: ss}
	}
	return NodeSnapshot{}
}

// PanelSnapshots returns the leaf views in tree order.
func (s NodeSnapshot) PanelSnapshots() []PanelSnapshot {
	var out []PanelSnapshot
	s.walkPanels(&out)
	return out
}

func (s NodeSnapshot) walkPanels(out *[]PanelSnapshot) {
	if s.Panel != nil {
		*out = append(*out, *s.Panel)
		return
	}
	if s.Split != nil {
		for _, child := range s.Split.Children {
			child.walkPanels(out)
		}
	}
}
