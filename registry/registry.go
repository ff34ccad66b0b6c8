// Package registry resolves observed star names and positions into stable
// identities and keeps everything it has learned: region names, proper
// names, catalogue ids and the identities themselves.
//
// All state lives behind one RWMutex. Lookups share the read lock; Resolve
// and the seeding operations hold the write lock for their whole duration,
// so an identity is never visible half-built.
package registry

import (
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/hasector"
	"github.com/teranos/starmatch/internal/util"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/sector"
	"github.com/teranos/starmatch/starid"
)

// MatchRadiusSq is the squared distance in ly² within which a position
// matches a loaded proper name.
const MatchRadiusSq = 0.015625

// Observer is told about every resolution. Calls happen after the lock is
// released, on the resolving goroutine.
type Observer interface {
	ObserveResolve(outcome Outcome)
	ObserveRegionLearned(name string, region galaxy.RegionCoord)
}

// Registry owns all learned tables.
type Registry struct {
	mu       sync.RWMutex
	log      *zap.SugaredLogger
	sectors  *hasector.Collection
	observer Observer

	regionByName map[string]galaxy.RegionCoord
	regionNames  map[galaxy.RegionCoord]string

	systems     map[uint64]StarIdentity
	byName      map[string][]uint64
	properNames map[uint64]string
	regionLists map[galaxy.RegionCoord][]string
	named       []namedSystem
	byIDA       map[uint32]uint64
}

// Option configures a Registry.
type Option func(*Registry)

// WithSectors sets the hand-authored sector overlay. The default is
// hasector.Default().
func WithSectors(c *hasector.Collection) Option {
	return func(r *Registry) {
		r.sectors = c
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// WithObserver sets an observer for resolution outcomes.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		regionByName: make(map[string]galaxy.RegionCoord),
		regionNames:  make(map[galaxy.RegionCoord]string),
		systems:      make(map[uint64]StarIdentity),
		byName:       make(map[string][]uint64),
		properNames:  make(map[uint64]string),
		regionLists:  make(map[galaxy.RegionCoord][]string),
		byIDA:        make(map[uint32]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sectors == nil {
		r.sectors = hasector.Default()
	}
	if r.log == nil {
		r.log = logger.ComponentLogger("registry")
	}
	return r
}

// Sectors returns the hand-authored sector overlay in use.
func (r *Registry) Sectors() *hasector.Collection {
	return r.sectors
}

// Resolve turns an observed name and position into an identity, learning
// new regions and catalogue ids on the way. It returns Invalid when the
// name cannot be placed.
func (r *Registry) Resolve(name string, pos galaxy.Position, idA, idB uint32) StarIdentity {
	s, _ := r.ResolveDetailed(name, pos, idA, idB)
	return s
}

// ResolveDetailed is Resolve, also reporting which path was taken.
func (r *Registry) ResolveDetailed(name string, pos galaxy.Position, idA, idB uint32) (StarIdentity, Outcome) {
	r.mu.Lock()
	res := r.resolveLocked(name, pos, idA, idB)
	r.mu.Unlock()

	r.report(name, pos, res)
	return res.identity, res.outcome
}

// report logs and observes a resolution once the lock is released.
func (r *Registry) report(name string, pos galaxy.Position, res resolution) {
	if !res.outcome.Resolved() {
		logger.StarDebugw(r.log, "Unresolved",
			logger.FieldSystem, name,
			logger.FieldPosition, pos.String(),
			logger.FieldOutcome, res.outcome.String())
	}
	if res.learned != "" {
		logger.StarInfow(r.log, "Learned region",
			logger.FieldRegion, res.learned,
			logger.FieldCoords, res.identity.Region.String(),
			logger.FieldSystem, name)
	}
	if r.observer != nil {
		r.observer.ObserveResolve(res.outcome)
		if res.learned != "" {
			r.observer.ObserveRegionLearned(res.learned, res.identity.Region)
		}
	}
}

type resolution struct {
	identity StarIdentity
	outcome  Outcome
	learned  string
}

func invalid(o Outcome) resolution {
	return resolution{identity: Invalid, outcome: o}
}

func (r *Registry) resolveLocked(name string, pos galaxy.Position, idA, idB uint32) resolution {
	if s, ok := r.matchProperNameLocked(name, pos, true); ok {
		return resolution{identity: s, outcome: OutcomeKnownName}
	}

	p, ok := starid.ParseName(name)
	if !ok {
		return invalid(OutcomeParseFailure)
	}
	region, sub, ok := galaxy.Locate(pos)
	if !ok || region.Y >= starid.MaxRegionY {
		return invalid(OutcomeOutOfBounds)
	}
	observed := starid.BlockAt(region, sub, p.StarClass)

	var (
		named   starid.Block
		ha      *hasector.Sector
		learned string
	)
	if known, ok := r.regionByName[util.FoldName(p.Prefix)]; ok {
		named = starid.BlockInRegion(known, p.Block, p.StarClass)
	} else if ha = r.sectors.First(p.Prefix); ha != nil {
		named = ha.BaseBlock(p.StarClass).Offset(p.Block)
	} else {
		if observed.Rel(p.StarClass) != p.Block {
			return invalid(OutcomeUnknownRegion)
		}
		if !r.canLearnLocked(p.Prefix, region) {
			return invalid(OutcomeInconsistent)
		}
		r.addRegionLocked(p.Prefix, region)
		learned = p.Prefix
		named = observed
	}

	if named != observed {
		return invalid(OutcomeInconsistent)
	}

	id := starid.PackBlock(named, p.StarClass, p.Sequence)
	if s, ok := r.systems[id]; ok {
		s = mergeExternalIDs(s, idA, idB)
		r.systems[id] = s
		return resolution{identity: s, outcome: OutcomeMerged, learned: learned}
	}

	s := StarIdentity{
		Components: starid.Components{
			Region:   region,
			Sub:      sub,
			Class:    p.StarClass,
			Sequence: p.Sequence,
		},
		ExternalIDA:  idA,
		ExternalIDB:  idB,
		HandAuthored: uint16(r.sectors.Index(ha)),
	}
	r.systems[id] = s
	return resolution{identity: s, outcome: OutcomeCreated, learned: learned}
}

// mergeExternalIDs attaches catalogue ids to an existing identity. A new A
// id is taken only when none is stored and no B id comes with it; a B id is
// taken only when the stored A id equals the one supplied.
func mergeExternalIDs(s StarIdentity, idA, idB uint32) StarIdentity {
	if idB == 0 && idA != 0 && s.ExternalIDA == 0 {
		s.ExternalIDA = idA
	}
	if s.ExternalIDA == idA && idB != 0 && s.ExternalIDB == 0 {
		s.ExternalIDB = idB
	}
	return s
}

// canLearnLocked reports whether prefix may be recorded as the name of
// region. A region keeps the first name it learns, and a name the codec
// places in some other region is never accepted.
func (r *Registry) canLearnLocked(prefix string, region galaxy.RegionCoord) bool {
	if existing, ok := r.regionNames[region]; ok && util.FoldName(existing) != util.FoldName(prefix) {
		return false
	}
	if encoded, ok := sector.Region(prefix); ok && encoded != region {
		return false
	}
	return true
}

// matchProperNameLocked looks name up among loaded proper names. A single
// candidate is returned as is when single is true; otherwise the closest
// candidate strictly within MatchRadiusSq of pos wins.
func (r *Registry) matchProperNameLocked(name string, pos galaxy.Position, single bool) (StarIdentity, bool) {
	ids := r.byName[util.FoldName(name)]
	if len(ids) == 0 {
		return Invalid, false
	}
	if single && len(ids) == 1 {
		return r.systems[ids[0]], true
	}

	best, bestDist := Invalid, MatchRadiusSq
	for _, id := range ids {
		s := r.systems[id]
		if d := s.Position().SquaredDistance(pos); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, best.IsValid()
}

// Get returns the identity stored under id.
func (r *Registry) Get(id uint64) (StarIdentity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.systems[id]
	return s, ok
}

// GetByExternalIDA returns the identity loaded with a catalogue A id.
func (r *Registry) GetByExternalIDA(idA uint32) (StarIdentity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byIDA[idA]
	if !ok {
		return Invalid, false
	}
	s, ok := r.systems[id]
	return s, ok
}

// LookupByName finds identities by name alone: loaded proper names first,
// then the procedural suffix placed in a known, hand-authored or
// procedurally named region. It never learns anything.
func (r *Registry) LookupByName(name string) []StarIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ids := r.byName[util.FoldName(name)]; len(ids) > 0 {
		out := make([]StarIdentity, len(ids))
		for i, id := range ids {
			out[i] = r.systems[id]
		}
		return out
	}

	id, ok := r.idForNameLocked(name)
	if !ok {
		return nil
	}
	if s, ok := r.systems[id]; ok {
		return []StarIdentity{s}
	}
	return nil
}

// IDFor computes the id a name denotes without storing anything. Proper
// names match by position; procedural names need a placeable region.
func (r *Registry) IDFor(name string, pos galaxy.Position) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := starid.ParseName(name); !ok {
		s, ok := r.matchProperNameLocked(name, pos, false)
		if !ok {
			return 0, false
		}
		return s.ID(), true
	}
	return r.idForNameLocked(name)
}

func (r *Registry) idForNameLocked(name string) (uint64, bool) {
	p, ok := starid.ParseName(name)
	if !ok {
		return 0, false
	}

	var b starid.Block
	if region, ok := r.regionByName[util.FoldName(p.Prefix)]; ok {
		if !fitsClass(p.Block, p.StarClass) {
			return 0, false
		}
		b = starid.BlockInRegion(region, p.Block, p.StarClass)
	} else if ha := r.sectors.First(p.Prefix); ha != nil {
		b = ha.BaseBlock(p.StarClass).Offset(p.Block)
	} else if region, ok := sector.Region(p.Prefix); ok {
		if !fitsClass(p.Block, p.StarClass) {
			return 0, false
		}
		b = starid.BlockInRegion(region, p.Block, p.StarClass)
	} else {
		return 0, false
	}

	c := starid.Components{Region: b.Region(p.StarClass), Class: p.StarClass}
	if !c.Valid() {
		return 0, false
	}
	return starid.PackBlock(b, p.StarClass, p.Sequence), true
}

// fitsClass reports whether a block lies inside one region at class.
func fitsClass(rel galaxy.RegionCoord, class int) bool {
	n := 1 << class
	return rel.Valid() && int(rel.X) < n && int(rel.Y) < n && int(rel.Z) < n
}

// Name returns the display name of s: its proper name if one was loaded,
// else its name inside a hand-authored sector, else the procedural name.
func (r *Registry) Name(s StarIdentity) string {
	if !s.IsValid() {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s.NameIndex > 0 {
		if names := r.regionLists[s.Region]; int(s.NameIndex) <= len(names) {
			return names[s.NameIndex-1]
		}
	}
	if name, ok := r.properNames[s.ID()]; ok {
		return name
	}
	if ha := r.sectors.At(int(s.HandAuthored)); ha != nil {
		if rel, ok := ha.RelBlock(s.Block(), s.Class); ok {
			return ha.Name + " " + starid.FullSuffix(rel, s.Class, s.Sequence)
		}
	}
	return r.procGenNameLocked(s)
}

// ProcGenName returns the procedural name of s, ignoring proper and
// hand-authored names.
func (r *Registry) ProcGenName(s StarIdentity) string {
	if !s.IsValid() {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.procGenNameLocked(s)
}

func (r *Registry) procGenNameLocked(s StarIdentity) string {
	return r.regionLabelLocked(s.Region) + " " + s.ProcGenSuffix()
}

// regionLabelLocked names a region from the table, then the codec, then
// falls back to its coordinates.
func (r *Registry) regionLabelLocked(region galaxy.RegionCoord) string {
	if name, ok := r.regionNames[region]; ok {
		return name
	}
	if name, ok := sector.Name(region); ok {
		return name
	}
	return region.String()
}

// Stats counts the registry's tables.
type Stats struct {
	Regions     int `json:"regions"`
	Systems     int `json:"systems"`
	ProperNames int `json:"proper_names"`
	NamedKeys   int `json:"named_keys"`
	CatalogueA  int `json:"catalogue_a"`
}

// Stats returns the current table sizes.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Regions:     len(r.regionNames),
		Systems:     len(r.systems),
		ProperNames: len(r.properNames),
		NamedKeys:   len(r.byName),
		CatalogueA:  len(r.byIDA),
	}
}
