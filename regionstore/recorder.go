package regionstore

import (
	"context"
	"time"

	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/registry"
)

// upsertTimeout bounds a single write made from the resolving goroutine.
const upsertTimeout = 5 * time.Second

// Recorder is a registry.Observer that writes each newly learned region
// through to the store.
type Recorder struct {
	store *Store
}

// NewRecorder returns an observer backed by s.
func NewRecorder(s *Store) *Recorder {
	return &Recorder{store: s}
}

func (r *Recorder) ObserveResolve(registry.Outcome) {}

func (r *Recorder) ObserveRegionLearned(name string, region galaxy.RegionCoord) {
	ctx, cancel := context.WithTimeout(context.Background(), upsertTimeout)
	defer cancel()

	if err := r.store.Upsert(ctx, registry.Region{Name: name, Coord: region}); err != nil {
		r.store.logger.Warnw("Failed to record learned region",
			logger.FieldRegion, name,
			logger.FieldCoords, region.String(),
			logger.FieldError, err)
	}
}
