package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/logger"
)

type catalogueARecord struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	Coords coords `json:"coords"`
}

// LoadCatalogueA resolves every record of an EDSM-style JSON array of
// {"id", "name", "coords": {"x", "y", "z"}} and remembers its catalogue id.
func (l *Loader) LoadCatalogueA(ctx context.Context, r io.Reader) (Result, error) {
	t := l.track(ctx, SourceCatalogueA)

	err := streamArray(r, func(raw json.RawMessage) error {
		if err := t.next(); err != nil {
			return err
		}
		var rec catalogueARecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.skip("decode", logger.FieldError, err)
			return nil
		}
		if !rec.Coords.set {
			t.skip("missing coords", logger.FieldEDSMID, rec.ID)
			return nil
		}

		pos := galaxy.Position{X: rec.Coords.X, Y: rec.Coords.Y, Z: rec.Coords.Z}
		if _, ok := l.reg.AddCatalogueA(rec.ID, rec.Name, pos); !ok {
			t.skip("unresolved",
				logger.FieldEDSMID, rec.ID,
				logger.FieldSystem, rec.Name,
				logger.FieldPosition, pos.String())
			return nil
		}
		t.res.Loaded++
		return nil
	})
	if err != nil {
		return t.res, errors.Wrap(err, "load catalogue A")
	}
	return l.finish(t), nil
}

// Columns the catalogue B loader needs.
const (
	columnIDB = "id"
	columnIDA = "edsm_id"
)

// LoadCatalogueB attaches catalogue B ids from an EDDB-style CSV with a
// header row containing at least "id" and "edsm_id". Rows whose ids do not
// parse, have no catalogue A id, or name a catalogue A id that was never
// loaded are skipped.
func (l *Loader) LoadCatalogueB(ctx context.Context, r io.Reader) (Result, error) {
	t := l.track(ctx, SourceCatalogueB)

	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return t.res, errors.Wrap(errors.NewMalformedRecordError("read header: %v", err), "load catalogue B")
	}
	idxB, idxA := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case columnIDB:
			idxB = i
		case columnIDA:
			idxA = i
		}
	}
	if idxB < 0 || idxA < 0 {
		return t.res, errors.WithHintf(
			errors.NewMalformedRecordError("header lacks %q or %q", columnIDB, columnIDA),
			"got columns %s", strings.Join(header, ","))
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				t.res.Read++
				t.skip("parse", logger.FieldError, err)
				continue
			}
			return t.res, errors.Wrap(err, "load catalogue B")
		}
		if err := t.next(); err != nil {
			return t.res, errors.Wrap(err, "load catalogue B")
		}
		if idxB >= len(row) || idxA >= len(row) {
			t.skip("short row")
			continue
		}

		idB, errB := strconv.ParseUint(row[idxB], 10, 32)
		idA, errA := strconv.ParseUint(row[idxA], 10, 32)
		if errB != nil || errA != nil || idA == 0 {
			t.skip("bad ids", columnIDB, row[idxB], columnIDA, row[idxA])
			continue
		}
		if !l.reg.AttachCatalogueB(uint32(idA), uint32(idB)) {
			t.skip("unknown catalogue A id", logger.FieldEDSMID, idA)
			continue
		}
		t.res.Loaded++
	}
	return l.finish(t), nil
}
