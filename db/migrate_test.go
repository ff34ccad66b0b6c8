package db

import (
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/starmatch/errors"
)

func TestMigrations(t *testing.T) {
	all, err := Migrations()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 2)

	assert.Equal(t, Migration{Version: "000", Filename: "000_create_schema_migrations.sql"}, all[0])
	assert.Equal(t, Migration{Version: "001", Filename: "001_regions.sql"}, all[1])
}

func TestOpenWithMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "regions.db")

	db, err := OpenWithMigrations(dbPath, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	defer db.Close()

	var tables int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('schema_migrations', 'regions')").Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)

	all, err := Migrations()
	require.NoError(t, err)
	var recorded int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&recorded))
	assert.Equal(t, len(all), recorded)
}

func TestMigrate(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "regions.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, Migrate(db, nil))
		require.NoError(t, Migrate(db, nil), "running migrations multiple times should be safe")

		var recorded int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = '001'").Scan(&recorded))
		assert.Equal(t, 1, recorded)
	})

	t.Run("regions table enforces its constraints", func(t *testing.T) {
		db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "regions.db"), nil)
		require.NoError(t, err)
		defer db.Close()

		_, err = db.Exec("INSERT INTO regions (name_key, name, x, y, z) VALUES ('wregoe', 'Wregoe', 39, 32, 18)")
		require.NoError(t, err)

		_, err = db.Exec("INSERT INTO regions (name_key, name, x, y, z) VALUES ('other', 'Other', 39, 32, 18)")
		assert.Error(t, err, "one name per coordinate")

		_, err = db.Exec("INSERT INTO regions (name_key, name, x, y, z) VALUES ('far', 'Far', 128, 0, 0)")
		assert.Error(t, err, "lanes are biased 0..127")
	})

	t.Run("closed database", func(t *testing.T) {
		db, err := Open(filepath.Join(t.TempDir(), "regions.db"), nil)
		require.NoError(t, err)
		db.Close()

		err = Migrate(db, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDatabaseClosed))
		assert.NotNil(t, errors.GetStack(err))
	})
}

func TestApply_RollsBackFailedMigration(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS regions").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = apply(db, Migration{Version: "001", Filename: "001_regions.sql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute 001_regions.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_RecordsVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("000").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, apply(db, Migration{Version: "000", Filename: "000_create_schema_migrations.sql"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
