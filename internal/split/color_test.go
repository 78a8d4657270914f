package split

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColorPool_AllocatesLowestFree(t *testing.T) {
	pool := NewColorPool()

	require.Equal(t, ColorID(0), pool.Allocate())
	require.Equal(t, ColorID(1), pool.Allocate())
	require.Equal(t, ColorID(2), pool.Allocate())
	require.Equal(t, 3, pool.AllocatedCount())
}

func TestColorPool_ReleaseReopensSlot(t *testing.T) {
	pool := NewColorPool()
	pool.Allocate() // 0
	pool.Allocate() // 1
	pool.Allocate() // 2

	pool.Release(ColorID(1))
	require.False(t, pool.IsAllocated(ColorID(1)))

	// Lowest free index wins, not most recently released order.
	require.Equal(t, ColorID(1), pool.Allocate())
}

func TestColorPool_WrapsOnExhaustion(t *testing.T) {
	pool := NewColorPool()
	for i := 0; i < pool.PaletteSize(); i++ {
		pool.Allocate()
	}
	require.Equal(t, pool.PaletteSize(), pool.AllocatedCount())

	// Exhausted pool reuses colors round-robin without growing.
	first := pool.Allocate()
	second := pool.Allocate()
	require.Equal(t, ColorID(0), first)
	require.Equal(t, ColorID(1), second)
	require.Equal(t, pool.PaletteSize(), pool.AllocatedCount())
}

func TestColorPool_ReleaseUnallocatedIsNoOp(t *testing.T) {
	pool := NewColorPool()
	pool.Release(ColorID(4))
	pool.Release(ColorID(-1))
	pool.Release(ColorID(99))
	require.Equal(t, 0, pool.AllocatedCount())
}

func TestColorRGB_LooksUpPalette(t *testing.T) {
	rgb, ok := ColorRGB(ColorID(0))
	require.True(t, ok)
	require.Equal(t, "#3584e4", rgb.Hex())

	rgb, ok = ColorRGB(ColorID(5))
	require.True(t, ok)
	require.Equal(t, "#e01b24", rgb.Hex())

	_, ok = ColorRGB(ColorID(6))
	require.False(t, ok)
	_, ok = ColorRGB(ColorID(-1))
	require.False(t, ok)
}
