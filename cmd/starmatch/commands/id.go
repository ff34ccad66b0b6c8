package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/registry"
	"github.com/teranos/starmatch/starid"
	"github.com/teranos/starmatch/sym"
)

// IDCmd groups the packed id tools.
var IDCmd = &cobra.Command{
	Use:   "id",
	Short: sym.AX + " Decode or encode packed ids",
	Long: sym.AX + ` id - Packed 64-bit star ids

Examples:
  starmatch id decode 10477373803
  starmatch id encode "Wregoe KM-V a98-0"
  starmatch id encode "Wregoe KM-V a98-0" 0 0 0`,
}

var idDecodeCmd = &cobra.Command{
	Use:   "decode ID",
	Short: "Unpack an id and name the star it points at",
	Args:  cobra.ExactArgs(1),
	RunE:  runIDDecode,
}

var idEncodeCmd = &cobra.Command{
	Use:   "encode NAME [X Y Z]",
	Short: "Compute the id of a name without storing it",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 4 {
			return errors.NewInvalidRequestError("expected NAME or NAME X Y Z")
		}
		return nil
	},
	RunE: runIDEncode,
}

func init() {
	IDCmd.AddCommand(idDecodeCmd)
	IDCmd.AddCommand(idEncodeCmd)
}

func runIDDecode(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return errors.NewInvalidRequestError("%q is not an unsigned integer", args[0])
	}
	c, ok := starid.Unpack(id)
	if !ok {
		return errors.NewInvalidRequestError("id %d has a sequence beyond 16 bits", id)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	if err := loadRegionTable(cfg, reg); err != nil {
		return err
	}

	v := viewIdentity(reg, registry.StarIdentity{Components: c}, "")
	if jsonOutput(cmd) {
		return printJSON(cmd, v)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", sym.Star, id)
	return renderTable(cmd.OutOrStdout(), v.rows())
}

func runIDEncode(cmd *cobra.Command, args []string) error {
	pos := galaxy.NaNPosition
	if len(args) == 4 {
		p, err := parsePosition(args[1:])
		if err != nil {
			return err
		}
		pos = p
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	if err := loadRegionTable(cfg, reg); err != nil {
		return err
	}

	id, ok := reg.IDFor(args[0], pos)
	if !ok {
		return errors.WithHint(
			errors.NewNotFoundError("no id for %q", args[0]),
			"proper names need a position and a loaded named-systems dump")
	}
	if jsonOutput(cmd) {
		return printJSON(cmd, map[string]uint64{"id": id})
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}
