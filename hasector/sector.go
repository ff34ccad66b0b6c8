// Package hasector is the overlay of hand-authored sectors: named spheres
// whose stars are addressed from the sector's own origin instead of the
// procedural region name.
package hasector

import (
	"math"
	"sync"

	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/internal/util"
	"github.com/teranos/starmatch/starid"
)

// Axis biases from the sector origin in light-years to the block grid.
const (
	biasX = 39*galaxy.RegionSize + 65
	biasY = 32*galaxy.RegionSize + 25
	biasZ = 19*galaxy.RegionSize - 215
)

// Sector is a hand-authored sector.
type Sector struct {
	Name   string
	Center galaxy.Position
	Radius float64
	// PermitLocked is carried for display; nothing enforces it.
	PermitLocked bool
	// Origin is the corner the sector's blocks are counted from.
	Origin galaxy.Position
}

// New returns a sector whose origin is center - radius on every axis.
func New(name string, center galaxy.Position, radius float64) Sector {
	return Sector{
		Name:   name,
		Center: center,
		Radius: radius,
		Origin: galaxy.Position{X: center.X - radius, Y: center.Y - radius, Z: center.Z - radius},
	}
}

// Contains reports whether pos lies strictly inside the sphere.
func (s *Sector) Contains(pos galaxy.Position) bool {
	return pos.SquaredDistance(s.Center) < s.Radius*s.Radius
}

// BaseBlock returns the galaxy-wide block of the sector origin at class.
func (s *Sector) BaseBlock(class int) starid.Block {
	edge := float64(starid.BlockSize(class)) / galaxy.SubUnitsPerLY
	return starid.Block{
		X: int(math.Floor((s.Origin.X + biasX) / edge)),
		Y: int(math.Floor((s.Origin.Y + biasY) / edge)),
		Z: int(math.Floor((s.Origin.Z + biasZ) / edge)),
	}
}

// RelBlock returns b relative to the sector's base block. ok is false when
// any lane falls outside [0,128).
func (s *Sector) RelBlock(b starid.Block, class int) (galaxy.RegionCoord, bool) {
	base := s.BaseBlock(class)
	d := [3]int{b.X - base.X, b.Y - base.Y, b.Z - base.Z}
	for _, v := range d {
		if v < 0 || v >= 128 {
			return galaxy.InvalidRegion, false
		}
	}
	return galaxy.RegionCoord{X: int8(d[0]), Y: int8(d[1]), Z: int8(d[2])}, true
}

// Collection is an ordered list of sectors with a name index. Lookups are
// safe for concurrent use with Add.
type Collection struct {
	mu      sync.RWMutex
	sectors []*Sector
	byName  map[string][]*Sector
}

// NewCollection returns a collection holding sectors in order.
func NewCollection(sectors ...Sector) *Collection {
	c := &Collection{byName: make(map[string][]*Sector)}
	for _, s := range sectors {
		c.Add(s)
	}
	return c
}

// Add appends a sector. A NaN origin defaults to center - radius.
func (c *Collection) Add(s Sector) *Sector {
	if s.Origin.IsNaN() {
		s.Origin = New(s.Name, s.Center, s.Radius).Origin
	}
	sp := &s

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sectors = append(c.sectors, sp)
	key := util.FoldName(s.Name)
	c.byName[key] = append(c.byName[key], sp)
	return sp
}

// FindByPosition returns the first sector containing pos, or nil.
func (c *Collection) FindByPosition(pos galaxy.Position) *Sector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.sectors {
		if s.Contains(pos) {
			return s
		}
	}
	return nil
}

// FindByName returns every sector called name, ignoring case, in list
// order.
func (c *Collection) FindByName(name string) []*Sector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	found := c.byName[util.FoldName(name)]
	out := make([]*Sector, len(found))
	copy(out, found)
	return out
}

// First returns the first sector called name, or nil.
func (c *Collection) First(name string) *Sector {
	if found := c.FindByName(name); len(found) > 0 {
		return found[0]
	}
	return nil
}

// Index returns the 1-based position of s, or 0 when s is nil or not in
// the collection.
func (c *Collection) Index(s *Sector) int {
	if s == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, v := range c.sectors {
		if v == s {
			return i + 1
		}
	}
	return 0
}

// At returns the sector at a 1-based index, or nil.
func (c *Collection) At(index int) *Sector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index <= 0 || index > len(c.sectors) {
		return nil
	}
	return c.sectors[index-1]
}

// Len returns the number of sectors.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sectors)
}

// All returns the sectors in list order.
func (c *Collection) All() []*Sector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Sector, len(c.sectors))
	copy(out, c.sectors)
	return out
}
