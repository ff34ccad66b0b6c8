package db

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/sym"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// Migration is one embedded schema change. Version is the numeric file
// prefix ("001" for 001_regions.sql).
type Migration struct {
	Version  string
	Filename string
}

// Migrations lists the embedded migrations in the order they are applied.
func Migrations() ([]Migration, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}

	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		out = append(out, Migration{
			Version:  strings.SplitN(entry.Name(), "_", 2)[0],
			Filename: entry.Name(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

// Migrate runs all pending migrations, each in its own transaction.
// If logger is provided, logs migration progress; otherwise operates silently.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	all, err := Migrations()
	if err != nil {
		return err
	}

	applied := 0
	for _, m := range all {
		done, err := isApplied(db, m)
		if err != nil {
			return err
		}
		if done {
			if logger != nil {
				logger.Debugw("Skipping migration (already applied)", "migration", m.Filename)
			}
			continue
		}

		if logger != nil {
			logger.Infow("Applying migration", "migration", m.Filename, "version", m.Version)
		}
		if err := apply(db, m); err != nil {
			return err
		}
		applied++
	}

	if logger != nil {
		logger.Infow("Migrations complete",
			"symbol", sym.DB,
			"applied", applied,
			"total_migrations", len(all),
		)
	}
	return nil
}

// isApplied reports whether m is recorded in schema_migrations. Before 000
// has run the table does not exist, which only 000 itself may tolerate.
func isApplied(db *sql.DB, m Migration) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", m.Version).Scan(&exists)
	if err == nil {
		return exists, nil
	}
	if IsDatabaseClosed(err) {
		return false, errors.Wrapf(MarkClosed(err), "check %s", m.Filename)
	}
	if m.Version != "000" {
		return false, errors.Wrapf(err, "schema_migrations table missing, but migration is not 000: %s", m.Filename)
	}
	return false, nil
}

func apply(db *sql.DB, m Migration) error {
	sqlBytes, err := migrations.ReadFile(path.Join(migrationsDir, m.Filename))
	if err != nil {
		return errors.Wrapf(err, "read %s", m.Filename)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(MarkClosed(err), "begin tx for %s", m.Filename)
	}

	if _, err := tx.Exec(string(sqlBytes)); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "execute %s", m.Filename)
	}

	// 000 creates the table, then records itself
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "record %s", m.Filename)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit %s", m.Filename)
	}
	return nil
}
