package registry

import (
	"math"

	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/starid"
)

// StarIdentity is a resolved star. It is a value; the registry hands out
// copies and never exposes its stored records.
type StarIdentity struct {
	starid.Components

	// ExternalIDA is the catalogue A (EDSM) id, 0 when unknown.
	ExternalIDA uint32
	// ExternalIDB is the catalogue B (EDDB) id, 0 when unknown.
	ExternalIDB uint32
	// NameIndex is the 1-based position of the star's proper name in its
	// region's name list, 0 when it has none.
	NameIndex uint16
	// HandAuthored is the 1-based index of the hand-authored sector the
	// star was named in, 0 for none.
	HandAuthored uint16
}

// Invalid is returned for anything that cannot be resolved.
var Invalid = StarIdentity{
	Components: starid.Components{
		Region:   galaxy.InvalidRegion,
		Sub:      galaxy.InvalidSubRegion,
		Class:    math.MaxUint8,
		Sequence: math.MaxUint16,
	},
}

// IsValid reports whether s describes a star.
func (s StarIdentity) IsValid() bool {
	return s.Components.Valid()
}

// ID returns the packed identifier, or 0 for an invalid identity.
func (s StarIdentity) ID() uint64 {
	if !s.IsValid() {
		return 0
	}
	return starid.Pack(s.Components)
}

// Position returns the star's galactic position, NaN when invalid.
func (s StarIdentity) Position() galaxy.Position {
	if s.Region == galaxy.InvalidRegion || s.Sub == galaxy.InvalidSubRegion {
		return galaxy.NaNPosition
	}
	return galaxy.FromRegion(s.Region, s.Sub)
}

// RelBlock returns the block inside the star's region at its class.
func (s StarIdentity) RelBlock() galaxy.RegionCoord {
	return s.Block().Rel(s.Class)
}

// ProcGenSuffix returns the procedural suffix, "AB-C d3-4".
func (s StarIdentity) ProcGenSuffix() string {
	return starid.FullSuffix(s.RelBlock(), s.Class, s.Sequence)
}

// Outcome says which path a resolution took.
type Outcome int

const (
	// OutcomeKnownName matched a loaded proper name.
	OutcomeKnownName Outcome = iota
	// OutcomeMerged matched an identity already in the registry.
	OutcomeMerged
	// OutcomeCreated stored a new identity.
	OutcomeCreated
	// OutcomeParseFailure means the name has no procedural suffix.
	OutcomeParseFailure
	// OutcomeOutOfBounds means the position or a derived block is outside
	// the addressable galaxy.
	OutcomeOutOfBounds
	// OutcomeInconsistent means the name and the position disagree.
	OutcomeInconsistent
	// OutcomeUnknownRegion means the name's sector could not be placed.
	OutcomeUnknownRegion
)

var outcomeNames = [...]string{
	OutcomeKnownName:     "known_name",
	OutcomeMerged:        "merged",
	OutcomeCreated:       "created",
	OutcomeParseFailure:  "parse_failure",
	OutcomeOutOfBounds:   "out_of_bounds",
	OutcomeInconsistent:  "inconsistent",
	OutcomeUnknownRegion: "unknown_region",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Resolved reports whether the outcome carries a valid identity.
func (o Outcome) Resolved() bool {
	return o <= OutcomeCreated
}

// Outcomes lists every outcome in order.
func Outcomes() []Outcome {
	out := make([]Outcome, len(outcomeNames))
	for i := range out {
		out[i] = Outcome(i)
	}
	return out
}
