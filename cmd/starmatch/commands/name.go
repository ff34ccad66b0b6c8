package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/sector"
	"github.com/teranos/starmatch/sym"
)

// NameCmd prints the sector name of a region, or with --encode the region
// of a sector name.
var NameCmd = &cobra.Command{
	Use:   "name REGIONX REGIONY REGIONZ | --encode NAME",
	Short: sym.SE + " Sector name of a region coordinate",
	Long: sym.SE + ` name - Sector names from region coordinates

Region coordinates are the unbiased lanes 0..127.

Examples:
  starmatch name 39 32 18          # Wregoe
  starmatch name --encode "Eol Prou"`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runName,
}

var nameEncode bool

func init() {
	NameCmd.Flags().BoolVar(&nameEncode, "encode", false, "Encode a sector name back to its region")
}

type sectorView struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	Offset uint32 `json:"offset"`
	Scheme string `json:"scheme"`
}

func runName(cmd *cobra.Command, args []string) error {
	var v sectorView
	if nameEncode {
		if len(args) != 1 {
			return errors.NewInvalidRequestError("--encode takes one sector name")
		}
		region, ok := sector.Region(args[0])
		if !ok {
			return errors.NewNotFoundError("%q is not a procedural sector name", args[0])
		}
		name, _ := sector.Name(region)
		v = sectorView{Name: name, Region: region.String(), Offset: sector.Offset(region)}
	} else {
		region, err := parseRegion(args)
		if err != nil {
			return err
		}
		name, ok := sector.Name(region)
		if !ok {
			return errors.NewNotFoundError("region %s has no procedural name", region)
		}
		v = sectorView{Name: name, Region: region.String(), Offset: sector.Offset(region)}
	}

	v.Scheme = "C2"
	if sector.IsC1(v.Offset) {
		v.Scheme = "C1"
	}

	if jsonOutput(cmd) {
		return printJSON(cmd, v)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s (offset %d, %s)\n", sym.SE, v.Name, v.Region, v.Offset, v.Scheme)
	return nil
}
