package galaxy

import (
	"fmt"
	"math"
)

// Position is a galactic position in light-years.
type Position struct {
	X, Y, Z float64
}

// NaNPosition is the position of a star that could not be resolved.
var NaNPosition = Position{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}

// IsNaN reports whether any axis is NaN.
func (p Position) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z)
}

// Compare orders by Z, then Y, then X.
func (p Position) Compare(o Position) int {
	for _, pair := range [3][2]float64{{p.Z, o.Z}, {p.Y, o.Y}, {p.X, o.X}} {
		switch {
		case pair[0] < pair[1]:
			return -1
		case pair[0] > pair[1]:
			return 1
		}
	}
	return 0
}

// Sub returns p - o.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// SquaredDistance returns |p - o|².
func (p Position) SquaredDistance(o Position) float64 {
	d := p.Sub(o)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// FromRegion converts a region and sub-region offset to light-years.
func FromRegion(r RegionCoord, s SubRegionOffset) Position {
	return Position{
		X: float64(r.X)*RegionSize + float64(s.X)/SubUnitsPerLY - OffsetX,
		Y: float64(r.Y)*RegionSize + float64(s.Y)/SubUnitsPerLY - OffsetY,
		Z: float64(r.Z)*RegionSize + float64(s.Z)/SubUnitsPerLY - OffsetZ,
	}
}

// SubUnits returns the origin-shifted position in whole sub-units, rounded
// to nearest. ok is false when any axis is outside the galaxy cube.
func (p Position) SubUnits() (x, y, z int, ok bool) {
	vx, okx := axisSubUnits(p.X + OffsetX)
	vy, oky := axisSubUnits(p.Y + OffsetY)
	vz, okz := axisSubUnits(p.Z + OffsetZ)
	return vx, vy, vz, okx && oky && okz
}

func axisSubUnits(v float64) (int, bool) {
	if !(v >= 0 && v < GalaxySubUnits/SubUnitsPerLY) {
		return 0, false
	}
	n := int(v*SubUnitsPerLY + 0.5)
	if n >= GalaxySubUnits {
		return 0, false
	}
	return n, true
}

// Locate splits a position into its region and sub-region offset.
func Locate(p Position) (RegionCoord, SubRegionOffset, bool) {
	x, y, z, ok := p.SubUnits()
	if !ok {
		return InvalidRegion, InvalidSubRegion, false
	}
	return RegionCoord{
			X: int8(x / RegionSubUnits),
			Y: int8(y / RegionSubUnits),
			Z: int8(z / RegionSubUnits),
		}, SubRegionOffset{
			X: uint16(x % RegionSubUnits),
			Y: uint16(y % RegionSubUnits),
			Z: uint16(z % RegionSubUnits),
		}, true
}
