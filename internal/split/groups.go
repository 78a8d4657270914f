package split

// TabGroups assigns palette colors to named tab groups ("Production",
// "Staging", ...). Assignments are stable for the lifetime of the value:
// the same name always maps to the same index. Indexes wrap around the
// palette and are not recycled when a group is removed; a re-added name
// receives the next sequential color instead.
type TabGroups struct {
	groups map[string]int
	next   int
}

// NewTabGroups creates an empty group registry.
func NewTabGroups() *TabGroups {
	return &TabGroups{groups: make(map[string]int)}
}

// Assign returns the color index for the group, assigning the next
// sequential palette slot when the name is new.
func (g *TabGroups) Assign(name string) int {
	if idx, ok := g.groups[name]; ok {
		return idx
	}
	idx := g.next % len(Palette)
	g.next++
	g.groups[name] = idx
	return idx
}

// Color returns the index for a group that already has one.
func (g *TabGroups) Color(name string) (int, bool) {
	idx, ok := g.groups[name]
	return idx, ok
}

// Remove drops the group's assignment.
func (g *TabGroups) Remove(name string) {
	delete(g.groups, name)
}

// Names returns the registered group names.
func (g *TabGroups) Names() []string {
	names := make([]string, 0, len(g.groups))
	for name := range g.groups {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered groups.
func (g *TabGroups) Count() int {
	return len(g.groups)
}
