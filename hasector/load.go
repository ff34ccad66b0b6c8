package hasector

import (
	"math"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
)

// File is the TOML layout of an extra sector list:
//
//	[[sector]]
//	name = "Example Sector"
//	center = [1.0, 2.0, 3.0]
//	radius = 40.0
//	permit_locked = false
//	origin = [-39.0, -38.0, -37.0]   # optional
type File struct {
	Sectors []FileSector `toml:"sector"`
}

// FileSector is one [[sector]] table.
type FileSector struct {
	Name         string    `toml:"name"`
	Center       []float64 `toml:"center"`
	Radius       float64   `toml:"radius"`
	PermitLocked bool      `toml:"permit_locked"`
	Origin       []float64 `toml:"origin"`
}

// LoadFile reads extra sectors from a TOML file and appends them after the
// sectors already in c. It returns the number added.
func (c *Collection) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read sector file %s", path)
	}
	return c.LoadTOML(data)
}

// LoadTOML parses a sector list and appends it. Nothing is added when any
// entry is invalid.
func (c *Collection) LoadTOML(data []byte) (int, error) {
	var f File
	if _, err := toml.Decode(string(data), &f); err != nil {
		return 0, errors.Wrap(err, "failed to decode sector list")
	}

	sectors := make([]Sector, 0, len(f.Sectors))
	for i, fs := range f.Sectors {
		s, err := fs.sector()
		if err != nil {
			return 0, errors.Wrapf(err, "sector #%d", i+1)
		}
		sectors = append(sectors, s)
	}
	for _, s := range sectors {
		c.Add(s)
	}
	return len(sectors), nil
}

func (fs FileSector) sector() (Sector, error) {
	if fs.Name == "" {
		return Sector{}, errors.NewInvalidRequestError("name is required")
	}
	center, ok := triple(fs.Center)
	if !ok {
		return Sector{}, errors.WithDetailf(errors.NewInvalidRequestError("center needs three coordinates"), "sector %q", fs.Name)
	}
	if !(fs.Radius > 0) {
		return Sector{}, errors.WithDetailf(errors.NewInvalidRequestError("radius must be positive"), "sector %q", fs.Name)
	}

	s := New(fs.Name, center, fs.Radius)
	s.PermitLocked = fs.PermitLocked
	if fs.Origin != nil {
		origin, ok := triple(fs.Origin)
		if !ok {
			return Sector{}, errors.WithDetailf(errors.NewInvalidRequestError("origin needs three coordinates"), "sector %q", fs.Name)
		}
		s.Origin = origin
	}
	return s, nil
}

func triple(v []float64) (galaxy.Position, bool) {
	if len(v) != 3 {
		return galaxy.Position{}, false
	}
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return galaxy.Position{}, false
		}
	}
	return galaxy.Position{X: v[0], Y: v[1], Z: v[2]}, true
}
