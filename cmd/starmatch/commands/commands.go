// Package commands implements the starmatch subcommands.
package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/am"
	"github.com/teranos/starmatch/db"
	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/hasector"
	"github.com/teranos/starmatch/ingest"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/registry"
)

// AddCommands attaches every subcommand to root.
func AddCommands(root *cobra.Command) {
	root.AddCommand(AmCmd)
	root.AddCommand(ResolveCmd)
	root.AddCommand(NameCmd)
	root.AddCommand(ParseCmd)
	root.AddCommand(IDCmd)
	root.AddCommand(FetchCmd)
	root.AddCommand(LoadCmd)
	root.AddCommand(ListenCmd)
	root.AddCommand(RegionsCmd)
	root.AddCommand(VersionCmd)
}

// loadConfig loads and validates the configuration.
func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// newRegistry builds an empty registry with the built-in sectors plus any
// configured extra sector file.
func newRegistry(cfg *am.Config, observers ...registry.Observer) (*registry.Registry, error) {
	sectors := hasector.Default()
	if cfg.Sectors.File != "" {
		n, err := sectors.LoadFile(cfg.Sectors.File)
		if err != nil {
			return nil, errors.WithHint(err, "check sectors.file in am.toml")
		}
		logger.Logger.Infow("Loaded extra sectors", logger.FieldPath, cfg.Sectors.File, logger.FieldCount, n)
	}

	opts := []registry.Option{
		registry.WithSectors(sectors),
		registry.WithLogger(logger.ComponentLogger("registry")),
	}
	if len(observers) > 0 {
		opts = append(opts, registry.WithObserver(registry.Observers(observers)))
	}
	return registry.New(opts...), nil
}

// loadRegionTable seeds reg with the configured region table when it
// exists. Other dumps are not read.
func loadRegionTable(cfg *am.Config, reg *registry.Registry) error {
	path := cfg.DataPath(cfg.Data.Regions)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	_, err := reg.LoadRegionsFile(path)
	return err
}

func dumpSources(cfg *am.Config) ingest.Sources {
	return ingest.Sources{
		Regions:      cfg.DataPath(cfg.Data.Regions),
		NamedSystems: cfg.DataPath(cfg.Data.NamedSystems),
		CatalogueA:   cfg.DataPath(cfg.Data.CatalogueA),
		CatalogueB:   cfg.DataPath(cfg.Data.CatalogueB),
		RegionsOut:   cfg.DataPath(cfg.Data.RegionsOut),
	}
}

func openDatabase(cfg *am.Config) (*sql.DB, error) {
	path := cfg.GetDatabasePath()
	conn, err := db.OpenWithMigrations(path, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", path)
	}
	return conn, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "failed to write JSON")
}

func parsePosition(args []string) (galaxy.Position, error) {
	if len(args) != 3 {
		return galaxy.Position{}, errors.NewInvalidRequestError("expected X Y Z, got %d values", len(args))
	}
	var v [3]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return galaxy.Position{}, errors.NewInvalidRequestError("coordinate %q is not a number", a)
		}
		v[i] = f
	}
	return galaxy.Position{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parseRegion(args []string) (galaxy.RegionCoord, error) {
	if len(args) != 3 {
		return galaxy.InvalidRegion, errors.NewInvalidRequestError("expected X Y Z, got %d values", len(args))
	}
	var v [3]int8
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 || n > 127 {
			return galaxy.InvalidRegion, errors.WithHint(
				errors.NewInvalidRequestError("region lane %q is not in 0..127", a),
				"region coordinates are unbiased; Sol's region is 39 32 18")
		}
		v[i] = int8(n)
	}
	return galaxy.RegionCoord{X: v[0], Y: v[1], Z: v[2]}, nil
}
