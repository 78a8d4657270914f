package split

// RGB is a palette entry.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as a #rrggbb string for terminal styling.
func (c RGB) Hex() string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0f]
	}
	return string(b)
}

// Palette is the fixed set of container colors: visually distinct and
// legible in both light and dark themes.
var Palette = []RGB{
	{0x35, 0x84, 0xe4}, // blue
	{0x2e, 0xc2, 0x7e}, // green
	{0xff, 0x78, 0x00}, // orange
	{0x91, 0x41, 0xac}, // purple
	{0x00, 0xb4, 0xd8}, // cyan
	{0xe0, 0x1b, 0x24}, // red
}

// ColorPool allocates palette slots for live containers.
//
// Allocation is deterministic: the lowest-indexed free slot wins, so the
// first container created always receives color 0. When every slot is
// held the pool wraps and hands out the next index anyway; a duplicate
// is preferable to refusing the split. Releasing an unallocated color is
// a no-op.
//
// The pool is not safe for concurrent use; the workspace serializes
// access alongside the trees.
type ColorPool struct {
	allocated map[ColorID]struct{}
	next      int
	size      int
}

// NewColorPool creates a pool over the standard palette.
func NewColorPool() *ColorPool {
	return &ColorPool{
		allocated: make(map[ColorID]struct{}),
		size:      len(Palette),
	}
}

// Allocate returns the lowest-indexed free color, marking it held.
func (p *ColorPool) Allocate() ColorID {
	for i := 0; i < p.size; i++ {
		c := ColorID(i)
		if _, held := p.allocated[c]; !held {
			p.allocated[c] = struct{}{}
			return c
		}
	}
	// Palette exhausted: wrap and reuse in rotation.
	c := ColorID(p.next % p.size)
	p.next++
	return c
}

// Release returns a color to the pool.
func (p *ColorPool) Release(c ColorID) {
	delete(p.allocated, c)
}

// IsAllocated reports whether the color is currently held.
func (p *ColorPool) IsAllocated(c ColorID) bool {
	_, held := p.allocated[c]
	return held
}

// AllocatedCount returns the number of held colors.
func (p *ColorPool) AllocatedCount() int {
	return len(p.allocated)
}

// PaletteSize returns the number of palette entries.
func (p *ColorPool) PaletteSize() int {
	return p.size
}

// ColorRGB returns the palette entry for a color.
func ColorRGB(c ColorID) (RGB, bool) {
	if c < 0 || int(c) >= len(Palette) {
		return RGB{}, false
	}
	return Palette[c], true
}
