// Package regionstore keeps a SQLite copy of the registry's region name
// table. The JSON file remains the interchange format; the database is for
// hosts that want learned names to survive a restart of the listener.
package regionstore

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/teranos/starmatch/db"
	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/internal/util"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/registry"
	"github.com/teranos/starmatch/sym"
)

// Query constants
const (
	RegionInsertQuery = `
		INSERT INTO regions (name_key, name, x, y, z)
		VALUES (?, ?, ?, ?, ?)`

	RegionUpsertQuery = `
		INSERT INTO regions (name_key, name, x, y, z)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name_key) DO UPDATE SET
			name = excluded.name,
			x = excluded.x,
			y = excluded.y,
			z = excluded.z,
			updated_at = CURRENT_TIMESTAMP`

	// Frees the coordinate for a different name, keeping the table a bijection
	RegionDeleteCoordQuery = `
		DELETE FROM regions WHERE x = ? AND y = ? AND z = ? AND name_key <> ?`

	RegionDeleteAllQuery = `DELETE FROM regions`

	RegionSelectQuery = `
		SELECT name, x, y, z FROM regions
		ORDER BY z, y, x`

	RegionCountQuery = `SELECT COUNT(*) FROM regions`
)

// Store reads and writes the regions table.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// New creates a store over a migrated database.
func New(conn *sql.DB, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = logger.ComponentLogger("regionstore")
	}
	return &Store{db: conn, logger: log}
}

// Save replaces the whole table with rows in one transaction.
func (s *Store) Save(ctx context.Context, rows []registry.Region) (int, error) {
	for _, row := range rows {
		if err := validate(row); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(db.MarkClosed(err), "begin region save")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, RegionDeleteAllQuery); err != nil {
		return 0, errors.Wrap(err, "clear regions")
	}

	stmt, err := tx.PrepareContext(ctx, RegionInsertQuery)
	if err != nil {
		return 0, errors.Wrap(err, "prepare region insert")
	}
	defer stmt.Close()

	for _, row := range rows {
		c := row.Coord
		if _, err := stmt.ExecContext(ctx, util.FoldName(row.Name), row.Name, c.X, c.Y, c.Z); err != nil {
			return 0, errors.WithDetailf(errors.Wrapf(err, "insert region %q", row.Name), "coords %s", c)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit region save")
	}

	s.logger.Infow("Saved regions", logger.FieldSymbol, sym.DB, logger.FieldCount, len(rows))
	return len(rows), nil
}

// Upsert records one name, replacing any older name of the same
// coordinate and any older coordinate of the same name.
func (s *Store) Upsert(ctx context.Context, row registry.Region) error {
	if err := validate(row); err != nil {
		return err
	}
	key, c := util.FoldName(row.Name), row.Coord

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(db.MarkClosed(err), "begin region upsert")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, RegionDeleteCoordQuery, c.X, c.Y, c.Z, key); err != nil {
		return errors.Wrapf(err, "free coords %s", c)
	}
	if _, err := tx.ExecContext(ctx, RegionUpsertQuery, key, row.Name, c.X, c.Y, c.Z); err != nil {
		return errors.Wrapf(err, "upsert region %q", row.Name)
	}
	return errors.Wrap(tx.Commit(), "commit region upsert")
}

// Load returns every row ordered by region ordinal.
func (s *Store) Load(ctx context.Context) ([]registry.Region, error) {
	rows, err := s.db.QueryContext(ctx, RegionSelectQuery)
	if err != nil {
		return nil, errors.Wrap(db.MarkClosed(err), "query regions")
	}
	defer rows.Close()

	var out []registry.Region
	for rows.Next() {
		var name string
		var x, y, z int
		if err := rows.Scan(&name, &x, &y, &z); err != nil {
			return nil, errors.Wrap(err, "scan region")
		}
		row := registry.Region{Name: name, Coord: galaxy.RegionCoord{X: int8(x), Y: int8(y), Z: int8(z)}}
		if x < 0 || x > 127 || y < 0 || y > 127 || z < 0 || z > 127 {
			return nil, errors.NewMalformedRecordError("region %q has coords (%d,%d,%d)", name, x, y, z)
		}
		if err := validate(row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate regions")
	}
	return out, nil
}

// Count returns the number of stored rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, RegionCountQuery).Scan(&n); err != nil {
		return 0, errors.Wrap(db.MarkClosed(err), "count regions")
	}
	return n, nil
}

// Export saves the registry's current region table.
func (s *Store) Export(ctx context.Context, reg *registry.Registry) (int, error) {
	return s.Save(ctx, reg.Regions())
}

// Import loads every stored row into the registry.
func (s *Store) Import(ctx context.Context, reg *registry.Registry) (int, error) {
	rows, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := reg.LoadRegions(rows); err != nil {
		return 0, errors.Wrap(err, "load stored regions")
	}
	s.logger.Infow("Imported regions", logger.FieldSymbol, sym.DB, logger.FieldCount, len(rows))
	return len(rows), nil
}

func validate(row registry.Region) error {
	if row.Name == "" {
		return errors.NewMalformedRecordError("region at %s has no name", row.Coord)
	}
	if !row.Coord.Valid() {
		return errors.NewMalformedRecordError("region %q has invalid coords %s", row.Name, row.Coord)
	}
	return nil
}
