// Package starid packs star identities into 64-bit ids and renders and
// parses the procedural name suffix ("AB-C d3-4").
//
// An id stores the galaxy-wide block coordinate of a star at its star
// class, not its exact sub-region offset. Block size halves with each class
// step from 7 (one block per region) down to 0 (128 blocks per region edge),
// and field widths grow with it:
//
//	bits 0..2           7 - class
//	Z block             7 + class bits from bit 3
//	Y block             6 + class bits from bit 10 + class
//	X block             7 + class bits from bit 16 + 2*class
//	sequence            the remaining bits from 23 + 3*class
//
// The Y field is one bit narrower than the others, so only regions with a
// biased Y below 64 are addressable.
package starid

import (
	"fmt"

	"github.com/teranos/starmatch/galaxy"
)

const (
	// MaxClass is the finest star class, mass code 'a'.
	MaxClass = 7
	// MaxRegionY bounds region Y lanes representable in an id.
	MaxRegionY = 64
)

// BlockSize returns the edge of a block at class c in sub-units.
func BlockSize(class int) int {
	return galaxy.RegionSubUnits >> class
}

// Block is a galaxy-wide block coordinate at some star class: the region
// shifted left by the class plus the block inside that region.
type Block struct {
	X, Y, Z int
}

// BlockAt returns the block containing a sub-region offset.
func BlockAt(r galaxy.RegionCoord, s galaxy.SubRegionOffset, class int) Block {
	bs := BlockSize(class)
	return Block{
		X: (int(r.X)*galaxy.RegionSubUnits + int(s.X)) / bs,
		Y: (int(r.Y)*galaxy.RegionSubUnits + int(s.Y)) / bs,
		Z: (int(r.Z)*galaxy.RegionSubUnits + int(s.Z)) / bs,
	}
}

// BlockInRegion combines a region with a block inside it.
func BlockInRegion(r galaxy.RegionCoord, rel galaxy.RegionCoord, class int) Block {
	return Block{
		X: int(r.X)<<class + int(rel.X),
		Y: int(r.Y)<<class + int(rel.Y),
		Z: int(r.Z)<<class + int(rel.Z),
	}
}

// Offset returns b translated by a block inside a region.
func (b Block) Offset(rel galaxy.RegionCoord) Block {
	return Block{X: b.X + int(rel.X), Y: b.Y + int(rel.Y), Z: b.Z + int(rel.Z)}
}

// Region returns the region the block lies in.
func (b Block) Region(class int) galaxy.RegionCoord {
	return galaxy.RegionCoord{X: int8(b.X >> class), Y: int8(b.Y >> class), Z: int8(b.Z >> class)}
}

// Rel returns the block's coordinate inside its region.
func (b Block) Rel(class int) galaxy.RegionCoord {
	mask := 1<<class - 1
	return galaxy.RegionCoord{X: int8(b.X & mask), Y: int8(b.Y & mask), Z: int8(b.Z & mask)}
}

func (b Block) String() string {
	return fmt.Sprintf("[%d,%d,%d]", b.X, b.Y, b.Z)
}

// Components are the inputs of an id.
type Components struct {
	Region   galaxy.RegionCoord
	Sub      galaxy.SubRegionOffset
	Class    int
	Sequence uint16
}

// Valid reports whether c can be packed without losing bits.
func (c Components) Valid() bool {
	if c.Class < 0 || c.Class > MaxClass {
		return false
	}
	if !c.Region.Valid() || c.Region.Y >= MaxRegionY {
		return false
	}
	return c.Sub.X < galaxy.RegionSubUnits && c.Sub.Y < galaxy.RegionSubUnits && c.Sub.Z < galaxy.RegionSubUnits
}

// Block returns the galaxy-wide block of c.
func (c Components) Block() Block {
	return BlockAt(c.Region, c.Sub, c.Class)
}

// Pack returns the id of c. Sub-region detail below the block size is
// dropped; callers check Valid first.
func Pack(c Components) uint64 {
	return PackBlock(c.Block(), c.Class, c.Sequence)
}

// PackBlock packs an id from a galaxy-wide block coordinate.
func PackBlock(b Block, class int, seq uint16) uint64 {
	c := uint(class)
	return uint64(MaxClass-class) |
		uint64(b.Z)<<3 |
		uint64(b.Y)<<(10+c) |
		uint64(b.X)<<(16+2*c) |
		uint64(seq)<<(23+3*c)
}

// Unpack reverses Pack. The sub-region offset comes back aligned to the
// corner of its block. ok is false when the sequence field does not fit in
// 16 bits, which Pack never produces.
func Unpack(id uint64) (Components, bool) {
	class := ClassFromID(id)
	seq := SequenceFromID(id)
	region := RegionFromID(id)
	rel := BlockFromID(id)
	bs := uint16(BlockSize(class))

	c := Components{
		Region: region,
		Sub: galaxy.SubRegionOffset{
			X: uint16(rel.X) * bs,
			Y: uint16(rel.Y) * bs,
			Z: uint16(rel.Z) * bs,
		},
		Class:    class,
		Sequence: uint16(seq),
	}
	return c, seq <= 0xFFFF
}

// ClassFromID returns the star class stored in id.
func ClassFromID(id uint64) int {
	return MaxClass - int(id&7)
}

// SequenceFromID returns the sequence number stored in id.
func SequenceFromID(id uint64) uint64 {
	c := uint(ClassFromID(id))
	return id >> (23 + 3*c)
}

// RegionFromID returns the region stored in id.
func RegionFromID(id uint64) galaxy.RegionCoord {
	c := uint(ClassFromID(id))
	id >>= c + 3
	z := id & 127
	id >>= c + 7
	y := id & 63
	id >>= c + 6
	x := id & 127
	return galaxy.RegionCoord{X: int8(x), Y: int8(y), Z: int8(z)}
}

// BlockFromID returns the block inside its region stored in id.
func BlockFromID(id uint64) galaxy.RegionCoord {
	c := uint(ClassFromID(id))
	mask := uint64(1)<<c - 1
	id >>= 3
	z := id & mask
	id >>= c + 7
	y := id & mask
	id >>= c + 6
	x := id & mask
	return galaxy.RegionCoord{X: int8(x), Y: int8(y), Z: int8(z)}
}
