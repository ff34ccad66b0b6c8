package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/am"
	"github.com/teranos/starmatch/ingest"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/metrics"
	"github.com/teranos/starmatch/regionstore"
	"github.com/teranos/starmatch/registry"
	"github.com/teranos/starmatch/sym"
)

// LoadCmd loads every dump and reports the counts.
var LoadCmd = &cobra.Command{
	Use:   "load",
	Short: sym.IX + " Load the catalogue dumps and report what was seeded",
	Long: sym.IX + ` load - Load the catalogue dumps

Loads, in order: the region table (data.regions), the named systems
(data.named_systems), catalogue A (data.catalogue_a), then writes the
learned region table to data.regions_out and attaches catalogue B
(data.catalogue_b). Missing dump files are skipped. Files ending in .gz or
.zst are decompressed on the fly.

Examples:
  starmatch load
  starmatch load --store      # also save the region table to SQLite
  starmatch load --json`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

var loadStore bool

func init() {
	LoadCmd.Flags().BoolVar(&loadStore, "store", false, "Save the learned region table to the database")
}

type loadReport struct {
	Results []ingest.Result `json:"results"`
	Stats   registry.Stats  `json:"stats"`
	Stored  int             `json:"stored,omitempty"`
}

// loadDumps runs every configured dump into reg.
func loadDumps(ctx context.Context, cfg *am.Config, reg *registry.Registry, m *metrics.Metrics) ([]ingest.Result, error) {
	loader := ingest.New(reg,
		ingest.WithLogger(logger.ComponentLogger("ingest")),
		ingest.WithRecorder(m))
	results, err := loader.LoadAll(ctx, dumpSources(cfg))
	m.SetRegistryStats(reg.Stats())
	return results, err
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var spinner *pterm.SpinnerPrinter
	if !jsonOutput(cmd) {
		spinner, _ = pterm.DefaultSpinner.Start("Loading dumps...")
	}
	results, err := loadDumps(ctx, cfg, reg, nil)
	if spinner != nil {
		if err != nil {
			spinner.Fail("Load failed")
		} else {
			spinner.Success("Dumps loaded")
		}
	}
	if err != nil {
		return err
	}

	report := loadReport{Results: results, Stats: reg.Stats()}
	if loadStore {
		conn, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer conn.Close()
		n, err := regionstore.New(conn, logger.ComponentLogger("regionstore")).Export(ctx, reg)
		if err != nil {
			return err
		}
		report.Stored = n
	}

	if jsonOutput(cmd) {
		return printJSON(cmd, report)
	}

	timing := logger.ShouldOutput(verbosity(cmd), logger.OutputTiming)
	header := []string{"Dump", "Path", "Read", "Loaded", "Skipped", "Mismatched"}
	if timing {
		header = append(header, "Time")
	}
	rows := [][]string{header}
	for _, r := range results {
		row := []string{
			r.Source, r.Path,
			strconv.Itoa(r.Read), strconv.Itoa(r.Loaded), strconv.Itoa(r.Skipped), strconv.Itoa(r.Mismatched),
		}
		if timing {
			row = append(row, r.Duration.Round(time.Millisecond).String())
		}
		rows = append(rows, row)
	}
	if err := renderTable(cmd.OutOrStdout(), rows); err != nil {
		return err
	}
	s := report.Stats
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d systems, %d regions, %d proper names, %d catalogue A ids\n",
		sym.Star, s.Systems, s.Regions, s.ProperNames, s.CatalogueA)
	if loadStore {
		fmt.Fprintf(cmd.OutOrStdout(), "%s stored %d regions in %s\n", sym.DB, report.Stored, cfg.GetDatabasePath())
	}
	return nil
}
