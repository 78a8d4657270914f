package split

import "fmt"

// defaultWeight is the share of space each child of a fresh split receives.
const defaultWeight = 0.5

// node is the closed union of tree node kinds: *panel leaves and
// *container internal nodes.
type node interface {
	isNode()
}

// panel is a leaf. An empty panel (session == nil) renders as a drop
// placeholder; an occupied panel owns exactly one session reference.
type panel struct {
	id      PanelID
	session *SessionID
}

func (*panel) isNode() {}

func newPanel() *panel {
	return &panel{id: NewPanelID()}
}

func newPanelWithSession(session SessionID) *panel {
	s := session
	return &panel{id: NewPanelID(), session: &s}
}

func (p *panel) occupied() bool {
	return p.session != nil
}

// container is an internal node: an orientation, an ordered list of two or
// more children with relative-size weights, and a palette color.
type container struct {
	orientation Orientation
	color       ColorID
	children    []node
	weights     []float64
}

func (*container) isNode() {}

// findPanel returns the leaf with the given ID, or nil.
func findPanel(n node, id PanelID) *panel {
	switch t := n.(type) {
	case *panel:
		if t.id == id {
			return t
		}
	case *container:
		for _, child := range t.children {
			if p := findPanel(child, id); p != nil {
				return p
			}
		}
	}
	return nil
}

// findSession returns the leaf owning the given session, or nil.
func findSession(n node, id SessionID) *panel {
	switch t := n.(type) {
	case *panel:
		if t.session != nil && *t.session == id {
			return t
		}
	case *container:
		for _, child := range t.children {
			if p := findSession(child, id); p != nil {
				return p
			}
		}
	}
	return nil
}

// firstPanel returns the leftmost/topmost leaf of the subtree.
func firstPanel(n node) *panel {
	for {
		c, ok := n.(*container)
		if !ok {
			return n.(*panel)
		}
		n = c.children[0]
	}
}

// locate computes the structural path from n to the panel with the given
// ID. Returns nil, false when the panel is not in the subtree.
func locate(n node, id PanelID) (Path, bool) {
	switch t := n.(type) {
	case *panel:
		if t.id == id {
			return Path{}, true
		}
	case *container:
		for i, child := range t.children {
			if sub, ok := locate(child, id); ok {
				return append(Path{i}, sub...), true
			}
		}
	}
	return nil, false
}

// resolve walks a path from n. Returns nil when the path runs off the tree.
func resolve(n node, path Path) node {
	for _, idx := range path {
		c, ok := n.(*container)
		if !ok || idx < 0 || idx >= len(c.children) {
			return nil
		}
		n = c.children[idx]
	}
	return n
}

func panelCount(n node) int {
	switch t := n.(type) {
	case *panel:
		return 1
	case *container:
		total := 0
		for _, child := range t.children {
			total += panelCount(child)
		}
		return total
	}
	return 0
}

func depth(n node) int {
	c, ok := n.(*container)
	if !ok {
		return 0
	}
	max := 0
	for _, child := range c.children {
		if d := depth(child); d > max {
			max = d
		}
	}
	return 1 + max
}

func collectPanelIDs(n node, ids *[]PanelID) {
	switch t := n.(type) {
	case *panel:
		*ids = append(*ids, t.id)
	case *container:
		for _, child := range t.children {
			collectPanelIDs(child, ids)
		}
	}
}

// splitLeaf replaces the leaf with the given ID by a two-child container:
// the original leaf first (session untouched), a new empty leaf second.
// Returns the possibly-new subtree root, the new panel's ID, and whether
// the leaf was found. The container's color is allocated from pool.
func splitLeaf(n node, id PanelID, orientation Orientation, pool *ColorPool) (node, PanelID, bool) {
	switch t := n.(type) {
	case *panel:
		if t.id != id {
			return n, PanelID{}, false
		}
		fresh := newPanel()
		c := &container{
			orientation: orientation,
			color:       pool.Allocate(),
			children:    []node{t, fresh},
			weights:     []float64{defaultWeight, defaultWeight},
		}
		return c, fresh.id, true
	case *container:
		for i, child := range t.children {
			if replacement, newID, ok := splitLeaf(child, id, orientation, pool); ok {
				t.children[i] = replacement
				return t, newID, true
			}
		}
	}
	return n, PanelID{}, false
}

// removeLeaf removes the leaf with the given ID from the subtree and
// collapses on the way out: a container left with a single child is
// replaced by that child and its color returned to the pool. The
// replacement is nil when the subtree itself was the removed leaf.
func removeLeaf(n node, id PanelID, pool *ColorPool) (replacement node, removed *panel, found bool) {
	switch t := n.(type) {
	case *panel:
		if t.id == id {
			return nil, t, true
		}
		return n, nil, false
	case *container:
		for i, child := range t.children {
			rep, rem, ok := removeLeaf(child, id, pool)
			if !ok {
				continue
			}
			if rep == nil {
				t.children = append(t.children[:i], t.children[i+1:]...)
				t.weights = append(t.weights[:i], t.weights[i+1:]...)
			} else {
				t.children[i] = rep
			}
			if len(t.children) == 1 {
				// Single child left: the container dissolves.
				pool.Release(t.color)
				return t.children[0], rem, true
			}
			rebalance(t.weights)
			return t, rem, true
		}
	}
	return n, nil, false
}

// collapse dissolves every single-child container in the subtree and
// returns the normalized root plus whether anything changed. It is
// idempotent: a second run over the result changes nothing. removeLeaf
// already collapses along the removal path; this full walk backs the
// engine's structural cleanup and tests.
func collapse(n node, pool *ColorPool) (node, bool) {
	c, ok := n.(*container)
	if !ok {
		return n, false
	}
	changed := false
	for i, child := range c.children {
		normalized, childChanged := collapse(child, pool)
		c.children[i] = normalized
		changed = changed || childChanged
	}
	if len(c.children) == 1 {
		pool.Release(c.color)
		return c.children[0], true
	}
	return c, changed
}

// rebalance scales weights so they sum to 1 after a child is removed.
func rebalance(weights []float64) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		for i := range weights {
			weights[i] = 1 / float64(len(weights))
		}
		return
	}
	for i := range weights {
		weights[i] /= sum
	}
}

// releaseColors returns every container color in the subtree to the pool.
// Used when a whole tree is discarded at once (tab closed).
func releaseColors(n node, pool *ColorPool) {
	c, ok := n.(*container)
	if !ok {
		return
	}
	pool.Release(c.color)
	for _, child := range c.children {
		releaseColors(child, pool)
	}
}

// verify walks the subtree asserting structural invariants. Containers
// outside the collapse algorithm must hold at least two children with
// matching weights, and no session may appear in two leaves. Violations
// are programming errors, not recoverable failures.
func verify(n node, seen map[SessionID]PanelID) {
	switch t := n.(type) {
	case *panel:
		if t.session != nil {
			if prior, dup := seen[*t.session]; dup {
				panic(fmt.Sprintf("split: session %s owned by both %s and %s", *t.session, prior, t.id))
			}
			seen[*t.session] = t.id
		}
	case *container:
		if len(t.children) < 2 {
			panic(fmt.Sprintf("split: container with %d children", len(t.children)))
		}
		if len(t.weights) != len(t.children) {
			panic(fmt.Sprintf("split: %d weights for %d children", len(t.weights), len(t.children)))
		}
		for _, child := range t.children {
			verify(child, seen)
		}
	}
}
