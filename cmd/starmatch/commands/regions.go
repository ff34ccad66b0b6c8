package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/regionstore"
	"github.com/teranos/starmatch/registry"
	"github.com/teranos/starmatch/sector"
	"github.com/teranos/starmatch/sym"
)

// RegionsCmd moves the region override table between its JSON file and
// the database.
var RegionsCmd = &cobra.Command{
	Use:   "regions",
	Short: sym.DB + " Move the region table between JSON and SQLite",
	Long: sym.DB + ` regions - Region override table storage

Examples:
  starmatch regions import               # data.regions -> database
  starmatch regions import other.json
  starmatch regions export               # database -> data.regions_out
  starmatch regions save                 # load every dump, store what was learned
  starmatch regions list`,
}

var regionsImportCmd = &cobra.Command{
	Use:   "import [FILE]",
	Short: "Replace the stored table with a JSON region table",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRegionsImport,
}

var regionsExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write the stored table as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRegionsExport,
}

var regionsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Load every dump and store the learned region table",
	Args:  cobra.NoArgs,
	RunE:  runRegionsSave,
}

var regionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored regions",
	Args:  cobra.NoArgs,
	RunE:  runRegionsList,
}

func init() {
	RegionsCmd.AddCommand(regionsImportCmd)
	RegionsCmd.AddCommand(regionsExportCmd)
	RegionsCmd.AddCommand(regionsSaveCmd)
	RegionsCmd.AddCommand(regionsListCmd)
}

func runRegionsImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.DataPath(cfg.Data.Regions)
	if len(args) == 1 {
		path = args[0]
	}

	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	if _, err := reg.LoadRegionsFile(path); err != nil {
		return err
	}

	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := signalContext()
	defer cancel()
	n, err := regionstore.New(conn, logger.ComponentLogger("regionstore")).Export(ctx, reg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s stored %d regions from %s\n", sym.DB, n, path)
	return nil
}

func runRegionsExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.DataPath(cfg.Data.RegionsOut)
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.WithHint(errors.NewInvalidRequestError("no output file"), "pass FILE or set data.regions_out")
	}

	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := signalContext()
	defer cancel()

	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	n, err := regionstore.New(conn, logger.ComponentLogger("regionstore")).Import(ctx, reg)
	if err != nil {
		return err
	}
	if err := reg.SaveRegionsFile(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %d regions to %s\n", sym.DB, n, path)
	return nil
}

func runRegionsSave(cmd *cobra.Command, args []string) error {
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
	if _, err := loadDumps(ctx, cfg, reg, nil); err != nil {
		return err
	}

	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	n, err := regionstore.New(conn, logger.ComponentLogger("regionstore")).Export(ctx, reg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s stored %d regions\n", sym.DB, n)
	return nil
}

type regionView struct {
	Name      string `json:"name"`
	Region    string `json:"region"`
	CodecName string `json:"codec_name,omitempty"`
}

func runRegionsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := signalContext()
	defer cancel()
	rows, err := regionstore.New(conn, logger.ComponentLogger("regionstore")).Load(ctx)
	if err != nil {
		return err
	}

	views := regionViews(rows)
	if jsonOutput(cmd) {
		return printJSON(cmd, views)
	}
	table := [][]string{{"Name", "Region", "Codec name"}}
	for _, v := range views {
		table = append(table, []string{v.Name, v.Region, v.CodecName})
	}
	return renderTable(cmd.OutOrStdout(), table)
}

// regionViews pairs stored names with what the sector codec calls the same
// region; they differ only for regions whose stored name came from
// somewhere other than the codec.
func regionViews(rows []registry.Region) []regionView {
	views := make([]regionView, 0, len(rows))
	for _, r := range rows {
		v := regionView{Name: r.Name, Region: r.Coord.String()}
		if name, ok := sector.Name(r.Coord); ok {
			v.CodecName = name
		}
		views = append(views, v)
	}
	return views
}
