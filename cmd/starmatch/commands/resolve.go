package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/ingest"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/sym"
)

// ResolveCmd resolves one observation.
var ResolveCmd = &cobra.Command{
	Use:   "resolve NAME X Y Z",
	Short: sym.AX + " Resolve a name and position to an identity",
	Long: sym.AX + ` resolve - Resolve a system name observed at a position

The region table from data.regions is loaded first when it exists. With
--load every configured dump is loaded, so proper names and catalogue ids
resolve too.

Examples:
  starmatch resolve "Wregoe KM-V a98-0" 0 0 0
  starmatch resolve Sol 0 0 0 --load`,
	Args: cobra.ExactArgs(4),
	RunE: runResolve,
}

var resolveLoadAll bool

func init() {
	ResolveCmd.Flags().BoolVar(&resolveLoadAll, "load", false, "Load every configured dump before resolving")
}

func runResolve(cmd *cobra.Command, args []string) error {
	pos, err := parsePosition(args[1:])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	if resolveLoadAll {
		ctx, cancel := signalContext()
		defer cancel()
		src := dumpSources(cfg)
		src.RegionsOut = ""
		if _, err := ingest.New(reg, ingest.WithLogger(logger.ComponentLogger("ingest"))).LoadAll(ctx, src); err != nil {
			return err
		}
	} else if err := loadRegionTable(cfg, reg); err != nil {
		return err
	}

	s, outcome := reg.ResolveDetailed(args[0], pos, 0, 0)
	if !outcome.Resolved() {
		return errors.WithDetailf(
			errors.NewNotFoundError("cannot resolve %q at %s: %s", args[0], pos, outcome),
			"outcome %s", outcome)
	}

	v := viewIdentity(reg, s, outcome.String())
	if jsonOutput(cmd) {
		return printJSON(cmd, v)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", sym.Star, v.Name)
	return renderTable(cmd.OutOrStdout(), v.rows())
}
