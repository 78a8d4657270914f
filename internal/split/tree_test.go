package split

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerify_RejectsUnderfilledContainer(t *testing.T) {
	bad := &container{
		orientation: Vertical,
		children:    []node{newPanel()},
		weights:     []float64{1.0},
	}
	require.Panics(t, func() { verify(bad, map[SessionID]PanelID{}) })
}

func TestVerify_RejectsWeightMismatch(t *testing.T) {
	bad := &container{
		orientation: Vertical,
		children:    []node{newPanel(), newPanel()},
		weights:     []float64{1.0},
	}
	require.Panics(t, func() { verify(bad, map[SessionID]PanelID{}) })
}

func TestVerify_RejectsDuplicateSession(t *testing.T) {
	session := NewSessionID()
	bad := &container{
		orientation: Vertical,
		children:    []node{newPanelWithSession(session), newPanelWithSession(session)},
		weights:     []float64{0.5, 0.5},
	}
	require.Panics(t, func() { verify(bad, map[SessionID]PanelID{}) })
}

func TestCollapse_DissolvesSingleChildChains(t *testing.T) {
	pool := NewColorPool()
	inner := &container{
		orientation: Horizontal,
		color:       pool.Allocate(),
		children:    []node{newPanel()},
		weights:     []float64{1.0},
	}
	root := &container{
		orientation: Vertical,
		color:       pool.Allocate(),
		children:    []node{inner},
		weights:     []float64{1.0},
	}

	collapsed, changed := collapse(root, pool)
	require.True(t, changed)
	_, isPanel := collapsed.(*panel)
	require.True(t, isPanel)
	require.Equal(t, 0, pool.AllocatedCount())

	_, changed = collapse(collapsed, pool)
	require.False(t, changed)
}

func TestRebalance_NormalizesWeights(t *testing.T) {
	weights := []float64{0.5, 0.5, 0.5}
	rebalance(weights)

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-9)

	zeroed := []float64{0, 0}
	rebalance(zeroed)
	require.InDelta(t, 0.5, zeroed[0], 1e-9)
	require.InDelta(t, 0.5, zeroed[1], 1e-9)
}
