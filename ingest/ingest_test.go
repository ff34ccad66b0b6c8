package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/registry"
	"github.com/teranos/starmatch/starid"
)

const solName = "Wregoe KM-V a98-0"

var solID = starid.Pack(starid.Components{
	Region: galaxy.RegionCoord{X: 39, Y: 32, Z: 18},
	Sub:    galaxy.SubRegionOffset{X: 2080, Y: 800, Z: 34080},
	Class:  7,
})

type fakeRecorder struct {
	mu    sync.Mutex
	calls map[string][2]int
}

func (f *fakeRecorder) AddIngest(source string, loaded, skipped int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string][2]int)
	}
	f.calls[source] = [2]int{loaded, skipped}
}

func newTestLoader(t *testing.T) (*Loader, *registry.Registry, *fakeRecorder) {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()
	reg := registry.New(registry.WithLogger(log))
	rec := &fakeRecorder{}
	return New(reg, WithLogger(log), WithRecorder(rec)), reg, rec
}

const namedDump = `[
  {"id": SOLID, "pgname": "Wregoe KM-V a98-0", "name": "Sol", "coords": [0, 0, 0]},
  {"id": 1, "pgname": "Wregoe KM-V a98-1", "name": "Twin", "coords": [1, 0, 0]},
  {"id": 5, "pgname": "Nowhere Land AA-A a0", "name": "Nowhere", "coords": [0, 0, 0]},
  {"pgname": "Wregoe KM-V a98-2", "name": "", "coords": [0, 0, 0]},
  {"pgname": "Wregoe KM-V a98-3", "name": "No Coords"},
  {"name": 5}
]`

func namedDumpJSON() string {
	return strings.Replace(namedDump, "SOLID", strconv.FormatUint(solID, 10), 1)
}

func TestLoadNamedSystems(t *testing.T) {
	l, reg, rec := newTestLoader(t)

	res, err := l.LoadNamedSystems(context.Background(), strings.NewReader(namedDumpJSON()))
	require.NoError(t, err)
	assert.Equal(t, SourceNamedSystems, res.Source)
	assert.Equal(t, 6, res.Read)
	assert.Equal(t, 2, res.Loaded)
	assert.Equal(t, 4, res.Skipped)
	assert.Equal(t, 1, res.Mismatched, "Twin's dump id is not its packed id")
	assert.Equal(t, [2]int{2, 4}, rec.calls[SourceNamedSystems])

	found := reg.LookupByName("Sol")
	require.Len(t, found, 1)
	assert.Equal(t, solID, found[0].ID())
	assert.Equal(t, uint16(1), found[0].NameIndex, "names are finished after loading")
	assert.Equal(t, 2, reg.Stats().ProperNames)
}

func TestLoadNamedSystemsRejectsNonArray(t *testing.T) {
	l, _, rec := newTestLoader(t)

	for name, doc := range map[string]string{
		"object":    `{"id": 1}`,
		"truncated": `[{"id": 1, "name": "A"`,
		"empty":     ``,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := l.LoadNamedSystems(context.Background(), strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, errors.IsMalformedRecordError(err))
		})
	}
	assert.Empty(t, rec.calls, "failed dumps are not recorded")
}

func TestLoadCatalogueA(t *testing.T) {
	l, reg, _ := newTestLoader(t)

	doc := `[
	  {"id": 42, "name": "Wregoe KM-V a98-0", "coords": {"x": 0, "y": 0, "z": 0}},
	  {"id": 43, "name": "Sol", "coords": {"x": 0, "y": 0, "z": 0}},
	  {"id": 44, "name": "Wregoe KM-V a98-0", "coords": {"x": 1}},
	  {"id": 45, "name": "Wregoe KM-V a98-0"}
	]`
	res, err := l.LoadCatalogueA(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Read)
	assert.Equal(t, 1, res.Loaded)
	assert.Equal(t, 3, res.Skipped)

	s, ok := reg.GetByExternalIDA(42)
	require.True(t, ok)
	assert.Equal(t, solID, s.ID())
	assert.Equal(t, 1, reg.Stats().CatalogueA)
}

func TestLoadCatalogueB(t *testing.T) {
	l, reg, rec := newTestLoader(t)
	_, ok := reg.AddCatalogueA(42, solName, galaxy.Position{})
	require.True(t, ok)

	doc := "id,edsm_id,name,x,y,z\n" +
		"7,42,Sol,0,0,0\n" +
		"8,,Nowhere,0,0,0\n" +
		"9,43,Gone,0,0,0\n" +
		"x,42,Bad,0,0,0\n" +
		"1\"0,42,Quoted,0,0,0\n"
	res, err := l.LoadCatalogueB(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Read)
	assert.Equal(t, 1, res.Loaded)
	assert.Equal(t, 4, res.Skipped)
	assert.Equal(t, [2]int{1, 4}, rec.calls[SourceCatalogueB])

	s, ok := reg.GetByExternalIDA(42)
	require.True(t, ok)
	assert.Equal(t, uint32(7), s.ExternalIDB)
}

func TestLoadCatalogueBColumnOrder(t *testing.T) {
	l, reg, _ := newTestLoader(t)
	reg.AddCatalogueA(42, solName, galaxy.Position{})

	res, err := l.LoadCatalogueB(context.Background(), strings.NewReader("name,edsm_id,id\nSol,42,11\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Loaded)
	s, _ := reg.GetByExternalIDA(42)
	assert.Equal(t, uint32(11), s.ExternalIDB)
}

func TestLoadCatalogueBRequiresColumns(t *testing.T) {
	l, _, _ := newTestLoader(t)

	_, err := l.LoadCatalogueB(context.Background(), strings.NewReader("id,name\n1,Sol\n"))
	require.Error(t, err)
	assert.True(t, errors.IsMalformedRecordError(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = l.LoadCatalogueB(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.IsMalformedRecordError(err))
}

func TestLoadRegions(t *testing.T) {
	l, reg, _ := newTestLoader(t)

	res, err := l.LoadRegions(context.Background(), strings.NewReader(`[{"name":"Wregoe","x":0,"y":0,"z":-1}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Loaded)
	_, ok := reg.RegionByName("Wregoe")
	assert.True(t, ok)

	_, err = l.LoadRegions(context.Background(), strings.NewReader(`[{"name":"A","x":100,"y":0,"z":0}]`))
	require.Error(t, err)
	assert.True(t, errors.IsMalformedRecordError(err))
}

func TestLoadStopsWhenCancelled(t *testing.T) {
	reg := registry.New(registry.WithLogger(zap.NewNop().Sugar()))
	l := New(reg, WithLogger(zap.NewNop().Sugar()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := "[" + strings.Repeat(`{},`, progressEvery) + "{}]"
	res, err := l.LoadNamedSystems(ctx, strings.NewReader(doc))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, progressEvery, res.Read)

	_, err = l.LoadRegions(ctx, strings.NewReader(`[]`))
	assert.True(t, errors.Is(err, context.Canceled))
}

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func writeZstd(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
}

func TestLoadFileCompressed(t *testing.T) {
	dir := t.TempDir()
	doc := `[{"id": 42, "name": "Wregoe KM-V a98-0", "coords": {"x": 0, "y": 0, "z": 0}}]`

	plain := filepath.Join(dir, "systems.json")
	require.NoError(t, os.WriteFile(plain, []byte(doc), 0o644))
	gz := filepath.Join(dir, "systems.json.gz")
	writeGzip(t, gz, doc)
	zst := filepath.Join(dir, "systems.json.zst")
	writeZstd(t, zst, doc)

	for _, path := range []string{plain, gz, zst} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			l, _, _ := newTestLoader(t)
			res, err := l.LoadFile(context.Background(), SourceCatalogueA, path)
			require.NoError(t, err)
			assert.Equal(t, path, res.Path)
			assert.Equal(t, 1, res.Loaded)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	l, _, _ := newTestLoader(t)
	dir := t.TempDir()

	_, err := l.LoadFile(context.Background(), "galnet", filepath.Join(dir, "x.json"))
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = l.LoadFile(context.Background(), SourceCatalogueA, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.UnwrapAll(err)))

	bad := filepath.Join(dir, "bad.json.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0o644))
	_, err = l.LoadFile(context.Background(), SourceCatalogueA, bad)
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	src := Sources{
		Regions:      write("ProcGen.json", `[{"name":"Wregoe","x":0,"y":0,"z":-1}]`),
		NamedSystems: write("named.json", namedDumpJSON()),
		CatalogueA:   write("edsm.json", `[{"id": 42, "name": "Sol", "coords": {"x": 0, "y": 0, "z": 0}}]`),
		CatalogueB:   filepath.Join(dir, "systems.csv"),
		RegionsOut:   filepath.Join(dir, "ProcGen-new.json"),
	}

	l, reg, rec := newTestLoader(t)
	results, err := l.LoadAll(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, results, 3, "the missing catalogue B dump is skipped")
	assert.Equal(t, SourceRegions, results[0].Source)
	assert.Equal(t, SourceNamedSystems, results[1].Source)
	assert.Equal(t, SourceCatalogueA, results[2].Source)
	assert.Equal(t, 1, results[2].Loaded, "catalogue A resolves proper names loaded before it")
	assert.Len(t, rec.calls, 3)

	s, ok := reg.GetByExternalIDA(42)
	require.True(t, ok)
	assert.Equal(t, solID, s.ID())

	out := registry.New(registry.WithLogger(zaptest.NewLogger(t).Sugar()))
	n, err := out.LoadRegionsFile(src.RegionsOut)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Catalogue B attaches once it exists.
	src.CatalogueB = write("systems.csv", "id,edsm_id\n7,42\n")
	results, err = l.LoadAll(context.Background(), Sources{CatalogueB: src.CatalogueB})
	require.NoError(t, err)
	require.Len(t, results, 1)
	s, _ = reg.GetByExternalIDA(42)
	assert.Equal(t, uint32(7), s.ExternalIDB)
}

func TestLoadAllStopsOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "named.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	l, _, _ := newTestLoader(t)
	results, err := l.LoadAll(context.Background(), Sources{
		NamedSystems: path,
		RegionsOut:   filepath.Join(dir, "out.json"),
	})
	require.Error(t, err)
	assert.Empty(t, results)
	_, statErr := os.Stat(filepath.Join(dir, "out.json"))
	assert.True(t, os.IsNotExist(statErr), "no region table is written after a failure")
}
