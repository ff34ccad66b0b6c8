package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/am"
	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/sym"
)

// AmCmd shows and checks the configuration.
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Show configuration",
	Long: sym.AM + ` am - starmatch configuration ("I am")

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/starmatch/config.toml)
3. User config (~/.starmatch/am.toml)
4. Project config (am.toml, searched upwards from the working directory)
5. Environment variables (STARMATCH_* prefix)

Examples:
  starmatch am show                    # Show current configuration
  starmatch am show --format yaml
  starmatch am show --sources          # Where every setting came from
  starmatch am validate
  starmatch am init                    # Write the defaults to ./am.toml`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var amInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write the effective configuration to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAmInit,
}

var (
	configFormat string
	showSources  bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", am.FormatTOML, "Output format: toml, json, yaml")
	amShowCmd.Flags().BoolVar(&showSources, "sources", false, "Show where each setting came from")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	if showSources {
		intro, err := am.GetConfigIntrospection()
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd, intro)
		}
		rows := [][]string{{"Key", "Value", "Source", "From"}}
		for _, s := range intro.Settings {
			value := fmt.Sprintf("%v", s.Value)
			if len(value) > 50 {
				value = value[:47] + "..."
			}
			rows = append(rows, []string{s.Key, value, string(s.Source), s.SourcePath})
		}
		return renderTable(cmd.OutOrStdout(), rows)
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	format := configFormat
	if jsonOutput(cmd) {
		format = am.FormatJSON
	}
	data, err := am.Marshal(cfg, format)
	if err != nil {
		return err
	}
	if format != am.FormatJSON {
		fmt.Fprintln(cmd.OutOrStdout(), "# starmatch configuration")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s", data)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration is valid\n", sym.AM)
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := "am.toml"
	if len(args) == 1 {
		path = args[0]
	}
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := am.WriteFile(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", sym.AM, path)
	return nil
}
