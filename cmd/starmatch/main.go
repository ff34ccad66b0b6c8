package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/cmd/starmatch/commands"
	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/logger"
)

var rootCmd = &cobra.Command{
	Use:   "starmatch",
	Short: "starmatch - canonical identities for procedurally named star systems",
	Long: `starmatch - canonical identities for procedurally named star systems.

starmatch resolves a system name and position to a packed 64-bit id, its
procedural name and its catalogue ids, learning sector names as it goes.

Available commands:
  resolve  - Resolve a name and position to an identity
  name     - Sector name of a region coordinate
  parse    - Split a system name at its procedural suffix
  id       - Decode or encode packed ids
  load     - Load the catalogue dumps and report what was seeded
  listen   - Resolve jumps from the live relay feed
  regions  - Move the region table between JSON and SQLite
  am       - Show configuration

Examples:
  starmatch resolve "Wregoe KM-V a98-0" 0 0 0
  starmatch id decode 10477373803
  starmatch load -v
  starmatch listen --metrics :9090`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Print results as JSON")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	commands.AddCommands(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if hints := errors.GetAllHints(err); len(hints) > 0 {
			for _, h := range hints {
				fmt.Fprintf(os.Stderr, "hint: %s\n", h)
			}
		}
		os.Exit(1)
	}
}
