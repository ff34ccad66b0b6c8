package regionstore

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/starmatch/db"
	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
	testdb "github.com/teranos/starmatch/internal/testing"
	"github.com/teranos/starmatch/registry"
)

var (
	wregoe  = registry.Region{Name: "Wregoe", Coord: galaxy.RegionCoord{X: 39, Y: 32, Z: 18}}
	eolProu = registry.Region{Name: "Eol Prou", Coord: galaxy.RegionCoord{X: 31, Y: 31, Z: 34}}
	synuefe = registry.Region{Name: "Synuefe", Coord: galaxy.RegionCoord{X: 39, Y: 31, Z: 18}}
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(testdb.CreateTestDB(t), zaptest.NewLogger(t).Sugar())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.Save(ctx, []registry.Region{eolProu, wregoe, synuefe})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []registry.Region{synuefe, wregoe, eolProu}, rows, "ordered by z, y, x")

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSaveReplacesTable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Save(ctx, []registry.Region{wregoe, eolProu})
	require.NoError(t, err)
	_, err = s.Save(ctx, []registry.Region{synuefe})
	require.NoError(t, err)

	rows, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []registry.Region{synuefe}, rows)
}

func TestSaveRejectsBadRowsBeforeWriting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Save(ctx, []registry.Region{wregoe})
	require.NoError(t, err)

	_, err = s.Save(ctx, []registry.Region{eolProu, {Name: "", Coord: synuefe.Coord}})
	require.Error(t, err)
	assert.True(t, errors.IsMalformedRecordError(err))

	_, err = s.Save(ctx, []registry.Region{{Name: "Nowhere", Coord: galaxy.InvalidRegion}})
	assert.True(t, errors.IsMalformedRecordError(err))

	rows, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []registry.Region{wregoe}, rows, "table untouched")
}

func TestSaveDuplicateNameRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Save(ctx, []registry.Region{wregoe})
	require.NoError(t, err)

	dup := registry.Region{Name: "WREGOE", Coord: synuefe.Coord}
	_, err = s.Save(ctx, []registry.Region{eolProu, wregoe, dup})
	require.Error(t, err, "names are unique case-insensitively")

	rows, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []registry.Region{wregoe}, rows)
}

func TestUpsertKeepsBijection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Save(ctx, []registry.Region{wregoe, eolProu})
	require.NoError(t, err)

	// New name for Wregoe's coordinate drops the old name.
	require.NoError(t, s.Upsert(ctx, registry.Region{Name: "Renamed", Coord: wregoe.Coord}))
	// Existing name moved to a new coordinate.
	require.NoError(t, s.Upsert(ctx, registry.Region{Name: "eol prou", Coord: synuefe.Coord}))

	rows, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []registry.Region{
		{Name: "eol prou", Coord: synuefe.Coord},
		{Name: "Renamed", Coord: wregoe.Coord},
	}, rows)
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	src := registry.New(registry.WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, src.LoadRegions([]registry.Region{wregoe, eolProu}))

	n, err := s.Export(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	dst := registry.New(registry.WithLogger(zaptest.NewLogger(t).Sugar()))
	n, err = s.Import(ctx, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, src.Regions(), dst.Regions())

	coord, ok := dst.RegionByName("EOL PROU")
	require.True(t, ok)
	assert.Equal(t, eolProu.Coord, coord)
}

func TestRecorderWritesLearnedRegions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	reg := registry.New(
		registry.WithLogger(zaptest.NewLogger(t).Sugar()),
		registry.WithObserver(NewRecorder(s)),
	)

	_, outcome := reg.ResolveDetailed("Wregoe KM-V a98-0", galaxy.Position{}, 0, 0)
	require.Equal(t, registry.OutcomeCreated, outcome)

	rows, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []registry.Region{wregoe}, rows)
}

func TestClosedDatabase(t *testing.T) {
	conn, err := db.Open(t.TempDir()+"/regions.db", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn, nil))
	conn.Close()

	s := New(conn, zaptest.NewLogger(t).Sugar())
	_, err = s.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrDatabaseClosed))

	_, err = s.Count(context.Background())
	assert.True(t, errors.Is(err, db.ErrDatabaseClosed))
}

func TestLoadRejectsCorruptRows(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, x, y, z FROM regions")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "x", "y", "z"}).
			AddRow("Wregoe", 39, 32, 18).
			AddRow("Broken", 200, 0, 0))

	_, err = New(conn, zaptest.NewLogger(t).Sugar()).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsMalformedRecordError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRollsBackOnInsertFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(RegionDeleteAllQuery)).WillReturnResult(sqlmock.NewResult(0, 4))
	prep := mock.ExpectPrepare("INSERT INTO regions")
	prep.ExpectExec().
		WithArgs("wregoe", "Wregoe", int64(39), int64(32), int64(18)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("eol prou", "Eol Prou", int64(31), int64(31), int64(34)).
		WillReturnError(errors.New("database or disk is full"))
	mock.ExpectRollback()

	_, err = New(conn, zaptest.NewLogger(t).Sugar()).Save(context.Background(), []registry.Region{wregoe, eolProu})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `insert region "Eol Prou"`)
	assert.Contains(t, errors.FlattenDetails(err), "coords (31,31,34)")
	assert.NoError(t, mock.ExpectationsWereMet())
}
