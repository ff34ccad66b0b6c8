package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/starmatch/feed"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/metrics"
	"github.com/teranos/starmatch/regionstore"
	"github.com/teranos/starmatch/registry"
	"github.com/teranos/starmatch/sym"
)

// ListenCmd resolves jumps from the live relay.
var ListenCmd = &cobra.Command{
	Use:   "listen",
	Short: sym.Feed + " Resolve jumps from the live relay feed",
	Long: sym.Feed + ` listen - Resolve jumps from the live relay feed

Stored regions are imported from the database and the dumps are loaded,
then every FSDJump from feed.url is resolved. Regions learned from the
feed are written to the database as they appear. Prometheus metrics are
served when metrics.address (or --metrics) is set.

Examples:
  starmatch listen
  starmatch listen --url tcp://eddn.edcd.io:9500 --metrics :9090
  starmatch listen --url wss://relay.example.org/journal
  starmatch listen --no-load`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

var (
	listenURL     string
	listenMetrics string
	listenNoLoad  bool
)

// statsInterval is how often registry sizes are pushed to the gauges.
const statsInterval = 30 * time.Second

func init() {
	ListenCmd.Flags().StringVar(&listenURL, "url", "", "Relay URL, tcp:// for ZeroMQ or ws:// (overrides feed.url)")
	ListenCmd.Flags().StringVar(&listenMetrics, "metrics", "", "Metrics listen address (overrides metrics.address)")
	ListenCmd.Flags().BoolVar(&listenNoLoad, "no-load", false, "Skip the dumps; start from stored regions only")
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenURL != "" {
		cfg.Feed.URL = listenURL
	}
	if listenMetrics != "" {
		cfg.Metrics.Address = listenMetrics
	}

	ctx, cancel := signalContext()
	defer cancel()

	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	store := regionstore.New(conn, logger.ComponentLogger("regionstore"))

	m := metrics.New()
	reg, err := newRegistry(cfg, m, regionstore.NewRecorder(store))
	if err != nil {
		return err
	}
	if _, err := store.Import(ctx, reg); err != nil {
		return err
	}
	if !listenNoLoad {
		if _, err := loadDumps(ctx, cfg, reg, m); err != nil {
			return err
		}
	}
	m.SetRegistryStats(reg.Stats())

	log := logger.ComponentLogger("feed")
	src, err := feed.NewSource(feed.SourceConfig{
		URL:                cfg.Feed.URL,
		ReadTimeout:        time.Duration(cfg.Feed.ReadTimeoutSeconds) * time.Second,
		ReconnectPerMinute: cfg.Feed.ReconnectPerMinute,
	}, log, m)
	if err != nil {
		return err
	}
	defer src.Close()

	pipeline := feed.NewPipeline(src, reg,
		feed.WithQueueSize(cfg.Feed.QueueSize),
		feed.WithSchemas(cfg.GetFeedSchemas()...),
		feed.WithLogger(log),
		feed.WithRecorder(m))

	logger.FeedInfow(log, "Listening",
		logger.FieldURL, cfg.Feed.URL,
		logger.FieldQueueSize, cfg.Feed.QueueSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The metrics server and stats ticker stop with the pipeline.
		defer cancel()
		return pipeline.Run(gctx)
	})
	if cfg.Metrics.Address != "" {
		g.Go(func() error {
			return m.Serve(gctx, cfg.Metrics.Address, cfg.Metrics.Path, logger.ComponentLogger("metrics"))
		})
	}
	var status io.Writer
	if !jsonOutput(cmd) && logger.ShouldOutput(verbosity(cmd), logger.OutputFeedStatus) {
		status = cmd.ErrOrStderr()
	}
	g.Go(func() error {
		publishStats(gctx, reg, m, pipeline, status)
		return nil
	})

	err = g.Wait()

	st := pipeline.Stats()
	if jsonOutput(cmd) {
		if perr := printJSON(cmd, st); perr != nil && err == nil {
			err = perr
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d received, %d jumps, %d unresolved, %d renamed, %d dropped, %d undecodable\n",
			sym.FeedClose, st.Received, st.Jumps, st.Unresolved, st.Renamed, st.Dropped, st.DecodeErrors)
	}
	return err
}

// publishStats pushes registry sizes to the gauges every statsInterval and,
// when status is set, prints a one-line feed summary there.
func publishStats(ctx context.Context, reg *registry.Registry, m *metrics.Metrics, p *feed.Pipeline, status io.Writer) {
	t := time.NewTicker(statsInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rs := reg.Stats()
			m.SetRegistryStats(rs)
			if status != nil {
				st := p.Stats()
				fmt.Fprintf(status, "%s %d jumps, %d unresolved, %d dropped; %d systems in %d regions\n",
					sym.Feed, st.Jumps, st.Unresolved, st.Dropped, rs.Systems, rs.Regions)
			}
		}
	}
}
