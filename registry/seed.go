package registry

import (
	"math"

	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/internal/util"
)

// AddNamedSystem seeds a proper name. pgname is the procedural name the
// star is resolved under; name becomes its display name and a lookup key.
// ok is false when pgname cannot be resolved at pos.
//
// Call FinishNamedSystems after the last one.
func (r *Registry) AddNamedSystem(pgname, name string, pos galaxy.Position) (StarIdentity, bool) {
	r.mu.Lock()
	res := r.resolveLocked(pgname, pos, 0, 0)
	if !res.outcome.Resolved() || name == "" {
		r.mu.Unlock()
		r.report(pgname, pos, res)
		return res.identity, false
	}

	id := res.identity.ID()
	r.properNames[id] = name
	key := util.FoldName(name)
	if !containsID(r.byName[key], id) {
		r.byName[key] = append(r.byName[key], id)
		r.named = append(r.named, namedSystem{id: id, name: name})
	}
	r.mu.Unlock()

	r.report(pgname, pos, res)
	return res.identity, true
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type namedSystem struct {
	id   uint64
	name string
}

// FinishNamedSystems builds the per-region proper-name lists in load order
// and points each named identity at the first name loaded for it, so a
// later name colliding on the same id does not hide it. It may be called
// again after more names are added.
func (r *Registry) FinishNamedSystems() {
	r.mu.Lock()
	defer r.mu.Unlock()

	lists := make(map[galaxy.RegionCoord][]string)
	indexed := make(map[uint64]bool, len(r.named))
	for _, n := range r.named {
		s := r.systems[n.id]
		names := lists[s.Region]
		if len(names) >= math.MaxUint16 {
			continue
		}
		lists[s.Region] = append(names, n.name)
		if !indexed[n.id] {
			indexed[n.id] = true
			s.NameIndex = uint16(len(names) + 1)
			r.systems[n.id] = s
		}
	}
	r.regionLists = lists
}

// AddCatalogueA resolves a catalogue A record and remembers its id. ok is
// false when the record cannot be resolved.
func (r *Registry) AddCatalogueA(idA uint32, name string, pos galaxy.Position) (StarIdentity, bool) {
	r.mu.Lock()
	res := r.resolveLocked(name, pos, idA, 0)
	ok := res.outcome.Resolved()
	if ok && idA != 0 {
		r.byIDA[idA] = res.identity.ID()
	}
	r.mu.Unlock()

	r.report(name, pos, res)
	return res.identity, ok
}

// AttachCatalogueB sets the catalogue B id of the star loaded with
// catalogue A id idA. ok is false when idA is unknown.
func (r *Registry) AttachCatalogueB(idA, idB uint32) bool {
	if idA == 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byIDA[idA]
	if !ok {
		return false
	}
	s, ok := r.systems[id]
	if !ok {
		return false
	}
	s.ExternalIDB = idB
	r.systems[id] = s
	return true
}
