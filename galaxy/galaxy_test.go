package galaxy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionCoordOrdering(t *testing.T) {
	a := RegionCoord{X: 127, Y: 0, Z: 0}
	b := RegionCoord{X: 0, Y: 1, Z: 0}
	c := RegionCoord{X: 0, Y: 0, Z: 1}

	assert.Equal(t, int32(127), a.Ord())
	assert.Equal(t, int32(128), b.Ord())
	assert.Equal(t, int32(16384), c.Ord())
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, c.Compare(b))
	assert.Equal(t, 0, b.Compare(RegionCoord{X: 0, Y: 1, Z: 0}))
	assert.Equal(t, "(0,1,0)", b.String())

	seen := map[RegionCoord]bool{a: true}
	assert.True(t, seen[RegionCoord{X: 127}])
}

func TestInvalidSentinels(t *testing.T) {
	assert.False(t, InvalidRegion.Valid())
	assert.True(t, RegionCoord{}.Valid())
	assert.Equal(t, int8(math.MinInt8), InvalidRegion.X)
	assert.Equal(t, uint16(math.MaxUint16), InvalidSubRegion.Z)
	assert.True(t, NaNPosition.IsNaN())
}

func TestSubRegionOffsetOrdering(t *testing.T) {
	s := SubRegionOffset{X: 1, Y: 2, Z: 3}
	assert.Equal(t, uint64(1)|uint64(2)<<16|uint64(3)<<32, s.Ord())
	assert.Equal(t, -1, SubRegionOffset{X: 40959}.Compare(SubRegionOffset{Y: 1}))
}

func TestPositionCompareIsZYX(t *testing.T) {
	p := Position{X: 10, Y: 0, Z: 0}
	q := Position{X: 0, Y: 0, Z: 1}
	assert.Equal(t, -1, p.Compare(q), "Z dominates X")
	assert.Equal(t, 1, Position{Y: 2}.Compare(Position{X: 5, Y: 1}))
	assert.Equal(t, 0, p.Compare(p))
}

func TestFromRegion(t *testing.T) {
	p := FromRegion(RegionCoord{}, SubRegionOffset{})
	assert.Equal(t, Position{X: -49985, Y: -40985, Z: -24105}, p)

	p = FromRegion(RegionCoord{X: 39, Y: 32, Z: 18}, SubRegionOffset{X: 32, Y: 64, Z: 16})
	assert.Equal(t, Position{X: 39*1280 + 1 - 49985, Y: 32*1280 + 2 - 40985, Z: 18*1280 + 0.5 - 24105}, p)
}

func TestLocate(t *testing.T) {
	t.Run("origin lies in the Sol region", func(t *testing.T) {
		r, s, ok := Locate(Position{})
		require.True(t, ok)
		assert.Equal(t, RegionCoord{X: 39, Y: 32, Z: 18}, r)
		assert.Equal(t, SubRegionOffset{X: 49985*32 - 39*40960, Y: 40985*32 - 32*40960, Z: 24105*32 - 18*40960}, s)
	})

	t.Run("round trips through FromRegion", func(t *testing.T) {
		r := RegionCoord{X: 31, Y: 31, Z: 34}
		s := SubRegionOffset{X: 17, Y: 40959, Z: 20000}
		gotR, gotS, ok := Locate(FromRegion(r, s))
		require.True(t, ok)
		assert.Equal(t, r, gotR)
		assert.Equal(t, s, gotS)
	})

	t.Run("rounds to the nearest sub-unit", func(t *testing.T) {
		_, s, ok := Locate(Position{X: -49985 + 0.02, Y: -40985 + 0.01, Z: -24105})
		require.True(t, ok)
		assert.Equal(t, SubRegionOffset{X: 1, Y: 0, Z: 0}, s)
	})

	t.Run("rejects positions outside the galaxy cube", func(t *testing.T) {
		for _, p := range []Position{
			{X: -49986},
			{Y: 163840 - 40985},
			{Z: 200000},
			{X: math.NaN()},
			{X: 163840 - 49985 - 0.001},
		} {
			r, s, ok := Locate(p)
			assert.False(t, ok, "%v", p)
			assert.Equal(t, InvalidRegion, r)
			assert.Equal(t, InvalidSubRegion, s)
		}
	})
}

func TestSquaredDistance(t *testing.T) {
	assert.Equal(t, 14.0, Position{X: 1, Y: 2, Z: 3}.SquaredDistance(Position{}))
}
