// Package ingest seeds a registry from the bulk catalogue dumps: the region
// name table, the named-systems list and the two external catalogues.
//
// Loaders stream their input. A record that is well-formed JSON or CSV but
// cannot be used is skipped and counted; a stream that cannot be read any
// further is an error.
package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/registry"
)

// Dump names, used as the source label in results, logs and metrics.
const (
	SourceRegions      = "regions"
	SourceNamedSystems = "named_systems"
	SourceCatalogueA   = "catalogue_a"
	SourceCatalogueB   = "catalogue_b"
)

// progressEvery is how many records pass between progress logs and
// cancellation checks.
const progressEvery = 100000

// Result summarises one dump.
type Result struct {
	Source string `json:"source"`
	Path   string `json:"path,omitempty"`
	// Read counts records decoded from the stream.
	Read int `json:"read"`
	// Loaded counts records that reached the registry.
	Loaded int `json:"loaded"`
	// Skipped counts malformed or unresolvable records.
	Skipped int `json:"skipped"`
	// Mismatched counts named systems whose dump id differs from the id
	// they resolve to. They are still loaded.
	Mismatched int           `json:"mismatched,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Recorder receives per-dump counts. *metrics.Metrics implements it.
type Recorder interface {
	AddIngest(source string, loaded, skipped int)
}

// Loader feeds dumps into one registry.
type Loader struct {
	reg      *registry.Registry
	log      *zap.SugaredLogger
	recorder Recorder
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// WithRecorder reports counts to rec after each dump.
func WithRecorder(rec Recorder) Option {
	return func(l *Loader) {
		l.recorder = rec
	}
}

// New returns a loader for reg.
func New(reg *registry.Registry, opts ...Option) *Loader {
	l := &Loader{reg: reg}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.ComponentLogger("ingest")
	}
	return l
}

// tracker counts one dump and handles progress and cancellation.
type tracker struct {
	ctx   context.Context
	log   *zap.SugaredLogger
	res   Result
	start time.Time
}

func (l *Loader) track(ctx context.Context, source string) *tracker {
	return &tracker{
		ctx:   ctx,
		log:   l.log.With(logger.FieldsFromContext(ctx)...),
		res:   Result{Source: source, Path: pathFromContext(ctx)},
		start: time.Now(),
	}
}

// next counts a decoded record. It returns ctx's error once cancelled.
func (t *tracker) next() error {
	t.res.Read++
	if t.res.Read%progressEvery != 0 {
		return nil
	}
	t.log.Debugw("Loading",
		logger.FieldOperation, t.res.Source,
		logger.FieldCount, t.res.Read,
		logger.FieldSkipped, t.res.Skipped)
	return t.ctx.Err()
}

func (t *tracker) skip(reason string, keysAndValues ...interface{}) {
	t.res.Skipped++
	t.log.Debugw("Skipping record", append([]interface{}{
		logger.FieldOperation, t.res.Source,
		"reason", reason,
	}, keysAndValues...)...)
}

func (l *Loader) finish(t *tracker) Result {
	t.res.Duration = time.Since(t.start)
	logger.IngestInfow(t.log, "Loaded dump",
		logger.FieldOperation, t.res.Source,
		logger.FieldCount, t.res.Loaded,
		logger.FieldSkipped, t.res.Skipped,
		logger.FieldTotalCount, t.res.Read,
		logger.FieldDurationMS, t.res.Duration.Milliseconds())
	if l.recorder != nil {
		l.recorder.AddIngest(t.res.Source, t.res.Loaded, t.res.Skipped)
	}
	return t.res
}

type pathKey struct{}

// withPath records which file a stream came from, for results and logs.
func withPath(ctx context.Context, path string) context.Context {
	return logger.WithSource(context.WithValue(ctx, pathKey{}, path), path)
}

func pathFromContext(ctx context.Context) string {
	p, _ := ctx.Value(pathKey{}).(string)
	return p
}
