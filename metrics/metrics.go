// Package metrics exposes prometheus counters for resolution outcomes,
// the live feed and bulk loading.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/galaxy"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/registry"
)

// Metrics provides observability for resolution, the feed and loaders.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ResolveTotal     *prometheus.CounterVec
	RegionsLearned   prometheus.Counter
	FeedEvents       *prometheus.CounterVec
	FeedDropped      prometheus.Counter
	FeedDecodeErrors prometheus.Counter
	FeedReconnects   prometheus.Counter
	FeedQueueDepth   prometheus.Gauge
	IngestRecords    *prometheus.CounterVec
	RegistrySize     *prometheus.GaugeVec
	DispatchDuration prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry registers with reg instead of the default registry.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	return newMetrics(reg, reg)
}

func newMetrics(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ResolveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "starmatch_resolve_total",
			Help: "Resolutions by outcome",
		}, []string{"outcome"}),
		RegionsLearned: f.NewCounter(prometheus.CounterOpts{
			Name: "starmatch_regions_learned_total",
			Help: "Region names learned from observed systems",
		}),
		FeedEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "starmatch_feed_events_total",
			Help: "Journal events decoded from the feed, by event name",
		}, []string{"event"}),
		FeedDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "starmatch_feed_dropped_total",
			Help: "Feed events dropped because the dispatch queue was full",
		}),
		FeedDecodeErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "starmatch_feed_decode_errors_total",
			Help: "Feed payloads that could not be decompressed or decoded",
		}),
		FeedReconnects: f.NewCounter(prometheus.CounterOpts{
			Name: "starmatch_feed_reconnects_total",
			Help: "Feed source reconnections",
		}),
		FeedQueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "starmatch_feed_queue_depth",
			Help: "Events waiting for the dispatcher",
		}),
		IngestRecords: f.NewCounterVec(prometheus.CounterOpts{
			Name: "starmatch_ingest_records_total",
			Help: "Records read from catalogue dumps, by dump and result",
		}, []string{"source", "result"}),
		RegistrySize: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "starmatch_registry_entries",
			Help: "Registry table sizes",
		}, []string{"table"}),
		DispatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "starmatch_dispatch_duration_seconds",
			Help:    "Time to resolve one feed event",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		gatherer: g,
	}
}

// ObserveResolve records a resolution outcome. Implements registry.Observer.
func (m *Metrics) ObserveResolve(outcome registry.Outcome) {
	if m == nil {
		return
	}
	m.ResolveTotal.WithLabelValues(outcome.String()).Inc()
}

// ObserveRegionLearned counts a newly learned region. Implements registry.Observer.
func (m *Metrics) ObserveRegionLearned(string, galaxy.RegionCoord) {
	if m == nil {
		return
	}
	m.RegionsLearned.Inc()
}

// IncrementFeedEvent counts one decoded journal event.
func (m *Metrics) IncrementFeedEvent(event string) {
	if m == nil {
		return
	}
	m.FeedEvents.WithLabelValues(event).Inc()
}

// IncrementDropped counts an event dropped on a full queue.
func (m *Metrics) IncrementDropped() {
	if m == nil {
		return
	}
	m.FeedDropped.Inc()
}

// IncrementDecodeErrors counts a payload that failed to decode.
func (m *Metrics) IncrementDecodeErrors() {
	if m == nil {
		return
	}
	m.FeedDecodeErrors.Inc()
}

// IncrementReconnects counts a source reconnection.
func (m *Metrics) IncrementReconnects() {
	if m == nil {
		return
	}
	m.FeedReconnects.Inc()
}

// SetQueueDepth records how many events are waiting.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.FeedQueueDepth.Set(float64(n))
}

// ObserveDispatch records the time spent on one event.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveDispatch(start time.Time) {
	if m == nil {
		return
	}
	m.DispatchDuration.Observe(time.Since(start).Seconds())
}

// AddIngest records loaded and skipped counts for one dump.
func (m *Metrics) AddIngest(source string, loaded, skipped int) {
	if m == nil {
		return
	}
	m.IngestRecords.WithLabelValues(source, "loaded").Add(float64(loaded))
	m.IngestRecords.WithLabelValues(source, "skipped").Add(float64(skipped))
}

// SetRegistryStats publishes the registry's table sizes.
func (m *Metrics) SetRegistryStats(s registry.Stats) {
	if m == nil {
		return
	}
	m.RegistrySize.WithLabelValues("regions").Set(float64(s.Regions))
	m.RegistrySize.WithLabelValues("systems").Set(float64(s.Systems))
	m.RegistrySize.WithLabelValues("proper_names").Set(float64(s.ProperNames))
	m.RegistrySize.WithLabelValues("catalogue_a").Set(float64(s.CatalogueA))
}

// Handler serves the metrics this instance is registered with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve exposes Handler on addr at path until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr, path string, log *zap.SugaredLogger) error {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	if log != nil {
		log.Infow("Serving metrics", logger.FieldAddress, addr, logger.FieldPath, path)
	}

	select {
	case err := <-errCh:
		return errors.Wrapf(err, "metrics server on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown metrics server")
	}
}
