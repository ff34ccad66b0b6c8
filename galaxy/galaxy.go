// Package galaxy holds the geometry shared by every codec: 1280 ly regions,
// sub-region offsets in 1/32 ly units and light-year positions.
//
// A region is addressed by a RegionCoord whose lanes are biased so the
// galaxy fits in 0..127. The same triple type also carries block
// coordinates inside a region, which have the same 7-bit range.
package galaxy

import (
	"fmt"
	"math"
)

const (
	// RegionSize is the edge of a region in light-years.
	RegionSize = 1280
	// SubUnitsPerLY is the sub-region resolution.
	SubUnitsPerLY = 32
	// RegionSubUnits is the edge of a region in sub-units.
	RegionSubUnits = RegionSize * SubUnitsPerLY
	// GalaxySubUnits bounds each axis after the origin shift.
	GalaxySubUnits = 128 * RegionSubUnits

	// Axis offsets from the galactic origin to the corner of region (0,0,0).
	OffsetX = 49985
	OffsetY = 40985
	OffsetZ = 24105

	// Region lane biases used by the persisted region table.
	BiasX = 39
	BiasY = 32
	BiasZ = 19
)

// RegionCoord is a triple of 7-bit lanes. It is comparable and usable as a
// map key.
type RegionCoord struct {
	X, Y, Z int8
}

// InvalidRegion marks a coordinate that could not be derived.
var InvalidRegion = RegionCoord{X: math.MinInt8, Y: math.MinInt8, Z: math.MinInt8}

// Ord packs the lanes into the scalar used for ordering.
func (r RegionCoord) Ord() int32 {
	return int32(r.X) + int32(r.Y)*128 + int32(r.Z)*16384
}

// Compare returns -1, 0 or +1 ordering by Ord.
func (r RegionCoord) Compare(o RegionCoord) int {
	a, b := r.Ord(), o.Ord()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Valid reports whether every lane is in [0,128).
func (r RegionCoord) Valid() bool {
	return r.X >= 0 && r.Y >= 0 && r.Z >= 0
}

func (r RegionCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", r.X, r.Y, r.Z)
}

// SubRegionOffset is a star's position inside its region in sub-units.
type SubRegionOffset struct {
	X, Y, Z uint16
}

// InvalidSubRegion marks an offset that could not be derived.
var InvalidSubRegion = SubRegionOffset{X: math.MaxUint16, Y: math.MaxUint16, Z: math.MaxUint16}

// Ord packs the lanes into the scalar used for ordering.
func (s SubRegionOffset) Ord() uint64 {
	return uint64(s.X) | uint64(s.Y)<<16 | uint64(s.Z)<<32
}

// Compare returns -1, 0 or +1 ordering by Ord.
func (s SubRegionOffset) Compare(o SubRegionOffset) int {
	a, b := s.Ord(), o.Ord()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s SubRegionOffset) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.X, s.Y, s.Z)
}
