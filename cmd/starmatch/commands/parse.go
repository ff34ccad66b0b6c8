package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/starid"
	"github.com/teranos/starmatch/sym"
)

// ParseCmd splits a name into its prefix and procedural suffix.
var ParseCmd = &cobra.Command{
	Use:   "parse NAME",
	Short: sym.AX + " Split a system name at its procedural suffix",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

type parsedView struct {
	Prefix   string `json:"prefix"`
	Class    string `json:"class"`
	Sequence uint16 `json:"sequence"`
	Block    string `json:"block"`
	BlockRun int    `json:"block_run"`
	Suffix   string `json:"suffix"`
}

func runParse(cmd *cobra.Command, args []string) error {
	p, ok := starid.ParseName(args[0])
	if !ok {
		return errors.WithHint(
			errors.NewInvalidRequestError("%q has no procedural suffix", args[0]),
			`suffixes look like "AB-C d3-4"`)
	}

	v := parsedView{
		Prefix:   p.Prefix,
		Class:    string(starid.ClassLetter(p.StarClass)),
		Sequence: p.Sequence,
		Block:    p.Block.String(),
		BlockRun: p.BlockRun,
		Suffix:   starid.FullSuffix(p.Block, p.StarClass, p.Sequence),
	}
	if jsonOutput(cmd) {
		return printJSON(cmd, v)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s | %s\n", sym.AX, v.Prefix, v.Suffix)
	return renderTable(cmd.OutOrStdout(), [][]string{
		{"Field", "Value"},
		{"Prefix", v.Prefix},
		{"Mass code", v.Class},
		{"Block", v.Block},
		{"Block run", strconv.Itoa(v.BlockRun)},
		{"Sequence", strconv.Itoa(int(v.Sequence))},
	})
}
