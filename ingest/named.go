package ingest

import (
	"context"
	"encoding/json"
	"io"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/logger"
)

// namedRecord is one entry of the named-systems dump. ID is the packed
// star id the publisher computed.
type namedRecord struct {
	ID     uint64 `json:"id"`
	PGName string `json:"pgname"`
	Name   string `json:"name"`
	Coords coords `json:"coords"`
}

// LoadNamedSystems seeds proper names from a JSON array of
// {"id", "pgname", "name", "coords": [x, y, z]} and finishes the per-region
// name lists. Records without a name or coordinates, and records whose
// pgname does not resolve at their coordinates, are skipped.
func (l *Loader) LoadNamedSystems(ctx context.Context, r io.Reader) (Result, error) {
	t := l.track(ctx, SourceNamedSystems)

	err := streamArray(r, func(raw json.RawMessage) error {
		if err := t.next(); err != nil {
			return err
		}
		var rec namedRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.skip("decode", logger.FieldError, err)
			return nil
		}
		if rec.Name == "" || !rec.Coords.set {
			t.skip("missing name or coords", logger.FieldID, rec.ID)
			return nil
		}

		pos := galaxy.Position{X: rec.Coords.X, Y: rec.Coords.Y, Z: rec.Coords.Z}
		s, ok := l.reg.AddNamedSystem(rec.PGName, rec.Name, pos)
		if !ok {
			t.skip("unresolved", logger.FieldSystem, rec.PGName, logger.FieldPosition, pos.String())
			return nil
		}
		if rec.ID != 0 && rec.ID != s.ID() {
			t.res.Mismatched++
			t.log.Debugw("Dump id differs from resolved id",
				logger.FieldSystem, rec.Name,
				logger.FieldID, s.ID(),
				"dump_id", rec.ID)
		}
		t.res.Loaded++
		return nil
	})

	// Names loaded before a failure are still usable.
	l.reg.FinishNamedSystems()
	if err != nil {
		return t.res, errors.Wrap(err, "load named systems")
	}
	return l.finish(t), nil
}
