package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/version"
)

// VersionCmd prints build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show starmatch version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if jsonOutput(cmd) {
			return printJSON(cmd, info)
		}
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	},
}
