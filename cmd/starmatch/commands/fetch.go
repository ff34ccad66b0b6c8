package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/starmatch/am"
	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/ingest"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/sym"
)

// FetchCmd downloads the dumps named in the [fetch] config section.
var FetchCmd = &cobra.Command{
	Use:   "fetch [DUMP...]",
	Short: sym.IX + " Download the catalogue dumps",
	Long: sym.IX + ` fetch - Download the catalogue dumps

Each dump with a URL under [fetch] is downloaded to its data path. DUMP is
one of regions, named_systems, catalogue_a, catalogue_b; with no DUMP every
configured URL is fetched. --url overrides the configured URL of a single
dump. Sources ending in .gz or .zst are decompressed unless the data path
keeps the extension.

Examples:
  starmatch fetch
  starmatch fetch catalogue_a --url https://example.org/systemsWithCoordinates.json.gz`,
	RunE: runFetch,
}

var fetchURL string

func init() {
	FetchCmd.Flags().StringVar(&fetchURL, "url", "", "Source URL for a single DUMP")
}

type fetchTarget struct {
	Source string `json:"source"`
	URL    string `json:"url"`
	Path   string `json:"path"`
}

// fetchTargets pairs each dump's URL with its data path, in load order.
func fetchTargets(cfg *am.Config) []fetchTarget {
	src := dumpSources(cfg)
	return []fetchTarget{
		{ingest.SourceRegions, cfg.Fetch.Regions, src.Regions},
		{ingest.SourceNamedSystems, cfg.Fetch.NamedSystems, src.NamedSystems},
		{ingest.SourceCatalogueA, cfg.Fetch.CatalogueA, src.CatalogueA},
		{ingest.SourceCatalogueB, cfg.Fetch.CatalogueB, src.CatalogueB},
	}
}

func selectTargets(all []fetchTarget, names []string, url string) ([]fetchTarget, error) {
	if url != "" && len(names) != 1 {
		return nil, errors.NewInvalidRequestError("--url needs exactly one DUMP")
	}

	var out []fetchTarget
	if len(names) == 0 {
		for _, t := range all {
			if t.URL != "" && t.Path != "" {
				out = append(out, t)
			}
		}
		if len(out) == 0 {
			return nil, errors.WithHint(
				errors.NewNotFoundError("no dump URLs configured"),
				"set fetch.catalogue_a and friends in am.toml")
		}
		return out, nil
	}

	for _, name := range names {
		var found *fetchTarget
		for i := range all {
			if all[i].Source == name {
				found = &all[i]
			}
		}
		if found == nil {
			return nil, errors.NewInvalidRequestError("unknown dump %q", name)
		}
		t := *found
		if url != "" {
			t.URL = url
		}
		if t.URL == "" {
			return nil, errors.NewNotFoundError("no URL configured for %s", name)
		}
		if t.Path == "" {
			return nil, errors.NewInvalidRequestError("no data path configured for %s", name)
		}
		out = append(out, t)
	}
	return out, nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	targets, err := selectTargets(fetchTargets(cfg), args, fetchURL)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	log := logger.ComponentLogger("fetch")
	for _, t := range targets {
		if err := ingest.Fetch(ctx, t.URL, t.Path, log); err != nil {
			return errors.Wrapf(err, "fetch %s", t.Source)
		}
		if !jsonOutput(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s\n", sym.IX, t.Source, t.Path)
		}
	}
	if jsonOutput(cmd) {
		return printJSON(cmd, targets)
	}
	return nil
}
