package registry

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/internal/util"
)

// Region is one row of the region name table.
type Region struct {
	Name  string
	Coord galaxy.RegionCoord
}

// AddRegion records name as the name of coord. The table stays a
// bijection: an older name of coord and an older coordinate of name are
// both dropped.
func (r *Registry) AddRegion(name string, coord galaxy.RegionCoord) error {
	if name == "" {
		return errors.NewInvalidRequestError("region name is empty")
	}
	if !coord.Valid() {
		return errors.NewInvalidRequestError("region %q has invalid coordinate %s", name, coord)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addRegionLocked(name, coord)
	return nil
}

func (r *Registry) addRegionLocked(name string, coord galaxy.RegionCoord) {
	key := util.FoldName(name)
	if old, ok := r.regionNames[coord]; ok {
		delete(r.regionByName, util.FoldName(old))
	}
	if old, ok := r.regionByName[key]; ok {
		delete(r.regionNames, old)
	}
	r.regionNames[coord] = name
	r.regionByName[key] = coord
}

// LoadRegions adds many rows under one lock.
func (r *Registry) LoadRegions(rows []Region) error {
	for _, row := range rows {
		if row.Name == "" || !row.Coord.Valid() {
			return errors.NewInvalidRequestError("invalid region row %q %s", row.Name, row.Coord)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.addRegionLocked(row.Name, row.Coord)
	}
	return nil
}

// RegionByName returns the coordinate of a named region, ignoring case.
func (r *Registry) RegionByName(name string) (galaxy.RegionCoord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.regionByName[util.FoldName(name)]
	if !ok {
		return galaxy.InvalidRegion, false
	}
	return c, true
}

// RegionName returns the stored name of a region.
func (r *Registry) RegionName(coord galaxy.RegionCoord) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.regionNames[coord]
	return name, ok
}

// Regions returns the table ordered by coordinate.
func (r *Registry) Regions() []Region {
	r.mu.RLock()
	out := make([]Region, 0, len(r.regionNames))
	for c, name := range r.regionNames {
		out = append(out, Region{Name: name, Coord: c})
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Region) int { return a.Coord.Compare(b.Coord) })
	return out
}

// regionRecord is the persisted form of a Region. Lanes are stored with
// the axis biases subtracted, so Sol's region is near the origin.
type regionRecord struct {
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Z    int    `json:"z"`
}

func toRecord(row Region) regionRecord {
	return regionRecord{
		Name: row.Name,
		X:    int(row.Coord.X) - galaxy.BiasX,
		Y:    int(row.Coord.Y) - galaxy.BiasY,
		Z:    int(row.Coord.Z) - galaxy.BiasZ,
	}
}

func (rec regionRecord) region() (Region, error) {
	x, y, z := rec.X+galaxy.BiasX, rec.Y+galaxy.BiasY, rec.Z+galaxy.BiasZ
	for _, v := range []int{x, y, z} {
		if v < 0 || v > 127 {
			return Region{}, errors.NewMalformedRecordError("region %q at (%d,%d,%d) is outside the galaxy", rec.Name, rec.X, rec.Y, rec.Z)
		}
	}
	if rec.Name == "" {
		return Region{}, errors.NewMalformedRecordError("region at (%d,%d,%d) has no name", rec.X, rec.Y, rec.Z)
	}
	return Region{Name: rec.Name, Coord: galaxy.RegionCoord{X: int8(x), Y: int8(y), Z: int8(z)}}, nil
}

// SaveRegionsJSON writes the region table as a JSON array, one record per
// line.
func (r *Registry) SaveRegionsJSON(w io.Writer) error {
	bw := bufio.NewWriter(w)
	rows := r.Regions()

	bw.WriteString("[")
	for i, row := range rows {
		line, err := json.Marshal(toRecord(row))
		if err != nil {
			return errors.Wrapf(err, "failed to encode region %q", row.Name)
		}
		if i > 0 {
			bw.WriteString(",")
		}
		bw.WriteString("\n  ")
		bw.Write(line)
	}
	bw.WriteString("\n]\n")
	return errors.Wrap(bw.Flush(), "failed to write region table")
}

// LoadRegionsJSON reads a table written by SaveRegionsJSON and adds every
// row. Nothing is added if any row is malformed.
func (r *Registry) LoadRegionsJSON(rd io.Reader) (int, error) {
	var records []regionRecord
	if err := json.NewDecoder(rd).Decode(&records); err != nil {
		return 0, errors.NewMalformedRecordError("failed to decode region table: %v", err)
	}
	rows := make([]Region, 0, len(records))
	for _, rec := range records {
		row, err := rec.region()
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}
	if err := r.LoadRegions(rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// LoadRegionsFile reads a region table file.
func (r *Registry) LoadRegionsFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open region table %s", path)
	}
	defer f.Close()
	n, err := r.LoadRegionsJSON(f)
	return n, errors.Wrapf(err, "failed to load region table %s", path)
}

// SaveRegionsFile writes the region table to path.tmp and renames it over
// path once complete.
func (r *Registry) SaveRegionsFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", tmp)
	}
	if err := r.SaveRegionsJSON(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to close %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}
