package split

// Layout owns the panel tree for a single tab.
//
// A fresh layout is a plain unsplit tab: the root is a single panel leaf
// and no color is allocated. The first Split promotes the root to a
// container; removals collapse back down, and removing the last panel
// leaves the layout empty, at which point the caller is expected to
// destroy the owning tab.
//
// Layout is not safe for concurrent use; the owning workspace serializes
// access.
type Layout struct {
	root    node // nil once the last panel is removed
	pool    *ColorPool
	focused PanelID
}

// NewLayout creates a layout holding a single empty panel.
func NewLayout(pool *ColorPool) *Layout {
	p := newPanel()
	return &Layout{root: p, pool: pool, focused: p.id}
}

// NewLayoutWithSession creates a layout whose single panel already holds
// a session, as when a connection tab is first opened.
func NewLayoutWithSession(pool *ColorPool, session SessionID) *Layout {
	p := newPanelWithSession(session)
	return &Layout{root: p, pool: pool, focused: p.id}
}

// IsSplit reports whether the layout holds any container.
func (l *Layout) IsSplit() bool {
	_, ok := l.root.(*container)
	return ok
}

// IsEmpty reports whether the last panel has been removed.
func (l *Layout) IsEmpty() bool {
	return l.root == nil
}

// PanelCount returns the number of panel leaves.
func (l *Layout) PanelCount() int {
	if l.root == nil {
		return 0
	}
	return panelCount(l.root)
}

// Depth returns the nesting depth: 0 for an unsplit tab, +1 per split
// level.
func (l *Layout) Depth() int {
	if l.root == nil {
		return 0
	}
	return depth(l.root)
}

// PanelIDs returns all panel identities in tree order (depth-first,
// first-child first).
func (l *Layout) PanelIDs() []PanelID {
	var ids []PanelID
	if l.root != nil {
		collectPanelIDs(l.root, &ids)
	}
	return ids
}

// Contains reports whether the layout holds the panel.
func (l *Layout) Contains(id PanelID) bool {
	return l.root != nil && findPanel(l.root, id) != nil
}

// SessionOf returns the session held by the panel, or nil when the panel
// is empty or unknown.
func (l *Layout) SessionOf(id PanelID) *SessionID {
	if l.root == nil {
		return nil
	}
	p := findPanel(l.root, id)
	if p == nil || p.session == nil {
		return nil
	}
	s := *p.session
	return &s
}

// FindSession returns the panel owning the session.
func (l *Layout) FindSession(session SessionID) (PanelID, bool) {
	if l.root == nil {
		return PanelID{}, false
	}
	p := findSession(l.root, session)
	if p == nil {
		return PanelID{}, false
	}
	return p.id, true
}

// FirstPanel returns the leftmost/topmost panel identity.
func (l *Layout) FirstPanel() (PanelID, bool) {
	if l.root == nil {
		return PanelID{}, false
	}
	return firstPanel(l.root).id, true
}

// Focused returns the currently focused panel.
func (l *Layout) Focused() PanelID {
	return l.focused
}

// SetFocus moves focus to the panel.
func (l *Layout) SetFocus(id PanelID) error {
	if !l.Contains(id) {
		return &PanelNotFoundError{Panel: id}
	}
	l.focused = id
	return nil
}

// Locate resolves a panel identity to its current structural path.
func (l *Layout) Locate(id PanelID) (Path, bool) {
	if l.root == nil {
		return nil, false
	}
	return locate(l.root, id)
}

// Split replaces the panel with a two-child container of the given
// orientation: the original panel keeps its content as the first child,
// the second child is a new empty panel whose identity is returned. A
// fresh color is allocated for the container. Focus is unchanged.
func (l *Layout) Split(id PanelID, orientation Orientation) (PanelID, error) {
	if l.root == nil {
		return PanelID{}, ErrEmptyLayout
	}
	replacement, newID, ok := splitLeaf(l.root, id, orientation, l.pool)
	if !ok {
		return PanelID{}, &PanelNotFoundError{Panel: id}
	}
	l.root = replacement
	l.check()
	return newID, nil
}

// SplitAt is the path-addressed form of Split. The path must resolve to
// a panel leaf; resolving to a container or off the tree is ErrInvalidPath.
func (l *Layout) SplitAt(path Path, orientation Orientation) (PanelID, error) {
	if l.root == nil {
		return PanelID{}, ErrEmptyLayout
	}
	target, ok := resolve(l.root, path).(*panel)
	if target == nil || !ok {
		return PanelID{}, ErrInvalidPath
	}
	return l.Split(target.id, orientation)
}

// Remove deletes the panel and collapses: the removal path dissolves any
// container left with one child, releasing its color, cascading upward.
// Returns the session the panel held (nil for an empty panel) and whether
// the layout is now empty. Focus moves to the first panel when the
// focused panel was removed.
func (l *Layout) Remove(id PanelID) (session *SessionID, empty bool, err error) {
	if l.root == nil {
		return nil, true, ErrEmptyLayout
	}
	replacement, removed, found := removeLeaf(l.root, id, l.pool)
	if !found {
		return nil, false, &PanelNotFoundError{Panel: id}
	}
	l.root = replacement
	if removed.session != nil {
		s := *removed.session
		session = &s
	}
	if l.root == nil {
		l.focused = PanelID{}
		return session, true, nil
	}
	if l.focused == id {
		l.focused = firstPanel(l.root).id
	}
	l.check()
	return session, false, nil
}

// Place assigns a session to the panel by reference. Returns the prior
// occupant when the panel was occupied; the caller is responsible for
// re-homing it.
func (l *Layout) Place(id PanelID, session SessionID) (evicted *SessionID, err error) {
	if l.root == nil {
		return nil, ErrEmptyLayout
	}
	p := findPanel(l.root, id)
	if p == nil {
		return nil, &PanelNotFoundError{Panel: id}
	}
	if p.session != nil {
		prior := *p.session
		evicted = &prior
	}
	s := session
	p.session = &s
	l.check()
	return evicted, nil
}

// Take empties the panel and returns the session it held. The panel
// itself stays in the tree as an empty placeholder.
func (l *Layout) Take(id PanelID) (*SessionID, error) {
	if l.root == nil {
		return nil, ErrEmptyLayout
	}
	p := findPanel(l.root, id)
	if p == nil {
		return nil, &PanelNotFoundError{Panel: id}
	}
	if p.session == nil {
		return nil, nil
	}
	s := *p.session
	p.session = nil
	return &s, nil
}

// SetWeight updates the divider of the container whose first child's
// leading panel matches the given identity: the first child receives frac
// of the space, clamped to [0, 1]. Used to persist user-dragged divider
// positions. Returns false when no such container exists.
func (l *Layout) SetWeight(firstPanel PanelID, frac float64) bool {
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return setWeight(l.root, firstPanel, frac)
}

func setWeight(n node, id PanelID, frac float64) bool {
	c, ok := n.(*container)
	if !ok {
		return false
	}
	if len(c.children) == 2 && firstPanel(c.children[0]).id == id {
		c.weights[0] = frac
		c.weights[1] = 1 - frac
		return true
	}
	for _, child := range c.children {
		if setWeight(child, id, frac) {
			return true
		}
	}
	return false
}

// Normalize runs the collapse algorithm over the whole tree and reports
// whether anything changed. After any engine operation the tree is already
// collapsed, so Normalize returning true indicates a bug.
func (l *Layout) Normalize() bool {
	if l.root == nil {
		return false
	}
	normalized, changed := collapse(l.root, l.pool)
	l.root = normalized
	return changed
}

// ReleaseColors returns every container color in the layout to the pool.
// Called when the owning tab is destroyed with splits still present.
func (l *Layout) ReleaseColors() {
	if l.root != nil {
		releaseColors(l.root, l.pool)
	}
}

// check asserts the structural invariants; see package doc.
func (l *Layout) check() {
	if l.root == nil {
		return
	}
	verify(l.root, make(map[SessionID]PanelID))
}
