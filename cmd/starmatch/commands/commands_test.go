package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/starmatch/am"
	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/registry"
	"github.com/teranos/starmatch/starid"
)

const solName = "Wregoe KM-V a98-0"

var (
	solRegion = galaxy.RegionCoord{X: 39, Y: 32, Z: 18}
	solID     = starid.Pack(starid.Components{
		Region: solRegion,
		Sub:    galaxy.SubRegionOffset{X: 2080, Y: 800, Z: 34080},
		Class:  7,
	})
)

// testRoot is shared: cobra keeps parent links and flag values on the
// package-level commands, so tests always pass the flags they rely on.
var testRoot = func() *cobra.Command {
	root := &cobra.Command{Use: "starmatch", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().BoolP("json", "j", false, "")
	AddCommands(root)
	return root
}()

// isolate points configuration at an empty data directory and database.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("STARMATCH_DATA_DIR", dir)
	t.Setenv("STARMATCH_DATABASE_PATH", filepath.Join(dir, "starmatch.db"))
	t.Chdir(dir)
	am.Reset()
	t.Cleanup(am.Reset)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	testRoot.SetOut(&out)
	testRoot.SetErr(&out)
	testRoot.SetArgs(args)
	err := testRoot.Execute()
	return out.String(), err
}

func TestParsePosition(t *testing.T) {
	pos, err := parsePosition([]string{"1", "-2.5", "3e2"})
	require.NoError(t, err)
	assert.Equal(t, galaxy.Position{X: 1, Y: -2.5, Z: 300}, pos)

	_, err = parsePosition([]string{"1", "x", "3"})
	assert.True(t, errors.IsInvalidRequestError(err))
	_, err = parsePosition([]string{"1"})
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestParseRegion(t *testing.T) {
	r, err := parseRegion([]string{"39", "32", "18"})
	require.NoError(t, err)
	assert.Equal(t, solRegion, r)

	for _, args := range [][]string{{"128", "0", "0"}, {"-1", "0", "0"}, {"a", "0", "0"}, {"1", "2"}} {
		_, err := parseRegion(args)
		assert.True(t, errors.IsInvalidRequestError(err), "%v", args)
	}
}

func TestResolveCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "resolve", solName, "0", "0", "0", "--json", "--load=false")
	require.NoError(t, err)

	var v identityView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, solName, v.Name)
	assert.Equal(t, solID, v.ID)
	assert.Equal(t, "a", v.Class)
	assert.Equal(t, [3]float64{0, 0, 0}, v.Position)
	assert.Equal(t, registry.OutcomeCreated.String(), v.Outcome)
	assert.Equal(t, "Core Sys Sector", v.Sector)

	_, err = run(t, "resolve", "Sol", "0", "0", "0", "--json", "--load=false")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestResolveWithDumps(t *testing.T) {
	dir := isolate(t)
	named := `[{"id": 0, "pgname": "Wregoe KM-V a98-0", "name": "Sol", "coords": [0, 0, 0]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edsystems-all-withcoords.json"), []byte(named), 0o644))

	out, err := run(t, "resolve", "Sol", "0", "0", "0", "--json", "--load")
	require.NoError(t, err)
	var v identityView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "Sol", v.Name)
	assert.Equal(t, solName, v.ProcGenName)
	assert.Equal(t, registry.OutcomeKnownName.String(), v.Outcome)
}

func TestNameCommand(t *testing.T) {
	out, err := run(t, "name", "39", "32", "18", "--json", "--encode=false")
	require.NoError(t, err)
	var v sectorView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "Wregoe", v.Name)
	assert.Equal(t, "C1", v.Scheme)

	out, err = run(t, "name", "Eol Prou", "--json", "--encode")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "Eol Prou", v.Name)
	assert.Equal(t, galaxy.RegionCoord{X: 31, Y: 31, Z: 34}.String(), v.Region)
	assert.Equal(t, "C2", v.Scheme)

	_, err = run(t, "name", "Xyzzy", "--json", "--encode")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "parse", "Eos Flyue AB-C d3-4", "--json")
	require.NoError(t, err)
	var v parsedView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "Eos Flyue", v.Prefix)
	assert.Equal(t, "d", v.Class)
	assert.Equal(t, uint16(4), v.Sequence)
	assert.Equal(t, 3, v.BlockRun)
	assert.Equal(t, "AB-C d3-4", v.Suffix)

	_, err = run(t, "parse", "Sol", "--json")
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestIDCommands(t *testing.T) {
	isolate(t)

	out, err := run(t, "id", "decode", strconv.FormatUint(solID, 10), "--json")
	require.NoError(t, err)
	var v identityView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, solName, v.Name, "named by the codec without a region table")
	assert.Equal(t, "Core Sys Sector", v.Sector)

	out, err = run(t, "id", "encode", solName, "--json")
	require.NoError(t, err)
	var enc map[string]uint64
	require.NoError(t, json.Unmarshal([]byte(out), &enc))
	assert.Equal(t, solID, enc["id"])

	_, err = run(t, "id", "decode", "nope", "--json")
	assert.True(t, errors.IsInvalidRequestError(err))
	_, err = run(t, "id", "encode", "Sol", "--json")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRegionsRoundTrip(t *testing.T) {
	dir := isolate(t)
	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(`[
  {"name":"Wregoe","x":0,"y":0,"z":-1},
  {"name":"Eol Prou","x":-8,"y":-1,"z":15}
]`), 0o644))

	_, err := run(t, "regions", "import", in, "--json")
	require.NoError(t, err)

	out, err := run(t, "regions", "list", "--json")
	require.NoError(t, err)
	var views []regionView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "Wregoe", views[0].Name, "stored rows come back in region order")
	assert.Equal(t, "Wregoe", views[0].CodecName)

	outFile := filepath.Join(dir, "out.json")
	_, err = run(t, "regions", "export", outFile, "--json")
	require.NoError(t, err)

	reg := registry.New()
	n, err := reg.LoadRegionsFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoadCommand(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "systemsWithCoordinates.json"),
		[]byte(`[{"id": 42, "name": "Wregoe KM-V a98-0", "coords": {"x": 0, "y": 0, "z": 0}}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "systems.csv"), []byte("id,edsm_id\n7,42\n"), 0o644))

	out, err := run(t, "load", "--json", "--store")
	require.NoError(t, err)

	var report loadReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 2)
	assert.Equal(t, 1, report.Results[0].Loaded)
	assert.Equal(t, 1, report.Results[1].Loaded)
	assert.Equal(t, 1, report.Stats.Systems)
	assert.Equal(t, 1, report.Stored)

	_, err = os.Stat(filepath.Join(dir, "ProcGen-new.json"))
	assert.NoError(t, err, "learned regions are written out")
}

func TestAmShow(t *testing.T) {
	isolate(t)

	out, err := run(t, "am", "show", "--format", "json", "--sources=false", "--json=false")
	require.NoError(t, err)
	var cfg am.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 1024, cfg.Feed.QueueSize)

	out, err = run(t, "am", "show", "--sources", "--json")
	require.NoError(t, err)
	var intro am.ConfigIntrospection
	require.NoError(t, json.Unmarshal([]byte(out), &intro))
	assert.NotEmpty(t, intro.Settings)

	_, err = run(t, "am", "validate", "--json")
	assert.NoError(t, err)
}

func TestAmInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "written.toml")

	_, err := run(t, "am", "init", path, "--json")
	require.NoError(t, err)

	cfg, err := am.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tcp://eddn.edcd.io:9500", cfg.Feed.URL)
}

func TestSelectTargets(t *testing.T) {
	all := []fetchTarget{
		{Source: "regions", Path: "ProcGen.json"},
		{Source: "catalogue_a", URL: "https://example.org/a.json.gz", Path: "a.json"},
		{Source: "catalogue_b", Path: "b.csv"},
	}

	got, err := selectTargets(all, nil, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "catalogue_a", got[0].Source)

	got, err = selectTargets(all, []string{"catalogue_b"}, "https://example.org/b.csv")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/b.csv", got[0].URL)
	assert.Equal(t, "b.csv", got[0].Path)

	_, err = selectTargets(all, []string{"catalogue_b"}, "")
	assert.True(t, errors.IsNotFoundError(err))
	_, err = selectTargets(all, []string{"nope"}, "")
	assert.True(t, errors.IsInvalidRequestError(err))
	_, err = selectTargets(all, nil, "https://example.org/x")
	assert.True(t, errors.IsInvalidRequestError(err))
	_, err = selectTargets(all[:1], nil, "")
	assert.True(t, errors.IsNotFoundError(err))
}
