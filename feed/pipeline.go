package feed

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/registry"
)

// DefaultQueueSize is the dispatch queue length when none is configured.
const DefaultQueueSize = 1024

// Recorder receives pipeline measurements. *metrics.Metrics implements it.
type Recorder interface {
	IncrementFeedEvent(event string)
	IncrementDropped()
	IncrementDecodeErrors()
	IncrementReconnects()
	SetQueueDepth(n int)
	ObserveDispatch(start time.Time)
}

type nopRecorder struct{}

func (nopRecorder) IncrementFeedEvent(string) {}
func (nopRecorder) IncrementDropped()         {}
func (nopRecorder) IncrementDecodeErrors()    {}
func (nopRecorder) IncrementReconnects()      {}
func (nopRecorder) SetQueueDepth(int)         {}
func (nopRecorder) ObserveDispatch(time.Time) {}

// Stats counts what a pipeline has seen so far.
type Stats struct {
	Received     int64 `json:"received"`
	Dropped      int64 `json:"dropped"`
	DecodeErrors int64 `json:"decode_errors"`
	Filtered     int64 `json:"filtered"`
	Jumps        int64 `json:"jumps"`
	Unresolved   int64 `json:"unresolved"`
	Renamed      int64 `json:"renamed"`
}

// Pipeline moves payloads from a Source through a bounded queue to the
// registry.
type Pipeline struct {
	src       Source
	reg       *registry.Registry
	decoder   *Decoder
	queueSize int
	log       *zap.SugaredLogger
	rec       Recorder

	received     atomic.Int64
	dropped      atomic.Int64
	decodeErrors atomic.Int64
	filtered     atomic.Int64
	jumps        atomic.Int64
	unresolved   atomic.Int64
	renamed      atomic.Int64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithQueueSize sets how many payloads may wait for the dispatcher before
// new ones are dropped.
func WithQueueSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithSchemas sets the accepted $schemaRef values.
func WithSchemas(schemas ...string) Option {
	return func(p *Pipeline) {
		p.decoder = NewDecoder(schemas)
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithRecorder reports pipeline measurements to rec.
func WithRecorder(rec Recorder) Option {
	return func(p *Pipeline) {
		p.rec = rec
	}
}

// NewPipeline returns a pipeline from src into reg. Without WithSchemas it
// accepts the current journal schema only.
func NewPipeline(src Source, reg *registry.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		src:       src,
		reg:       reg,
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.decoder == nil {
		p.decoder = NewDecoder([]string{JournalSchema})
	}
	if p.log == nil {
		p.log = logger.ComponentLogger("feed")
	}
	if p.rec == nil {
		p.rec = nopRecorder{}
	}
	return p
}

// Run reads and dispatches until ctx is cancelled, the source is exhausted
// or the source fails. Cancellation is not an error.
func (p *Pipeline) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	queue := make(chan []byte, p.queueSize)

	g.Go(func() error {
		defer close(queue)
		return p.read(gctx, queue)
	})
	g.Go(func() error {
		return p.dispatch(gctx, queue)
	})

	err := g.Wait()
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

// read never blocks on the queue: a payload that does not fit is dropped.
func (p *Pipeline) read(ctx context.Context, queue chan<- []byte) error {
	for {
		payload, err := p.src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "read feed")
		}
		p.received.Add(1)

		select {
		case queue <- payload:
			p.rec.SetQueueDepth(len(queue))
		default:
			p.dropped.Add(1)
			p.rec.IncrementDropped()
			p.log.Debugw("Dispatch queue full, dropping payload",
				logger.FieldQueueSize, cap(queue))
		}
	}
}

func (p *Pipeline) dispatch(ctx context.Context, queue <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-queue:
			if !ok {
				return nil
			}
			p.rec.SetQueueDepth(len(queue))
			p.handle(payload)
		}
	}
}

func (p *Pipeline) handle(payload []byte) {
	start := time.Now()
	ev, ok, err := p.decoder.Decode(payload)
	if err != nil {
		p.decodeErrors.Add(1)
		p.rec.IncrementDecodeErrors()
		p.log.Debugw("Failed to decode payload", logger.FieldError, err)
		return
	}
	if !ok {
		p.filtered.Add(1)
		return
	}
	p.rec.IncrementFeedEvent(string(ev.Kind))

	switch ev.Kind {
	case KindFSDJump:
		p.jump(ev)
		p.rec.ObserveDispatch(start)
	default:
		// Scan and Docked carry nothing the registry needs.
	}
}

func (p *Pipeline) jump(ev Event) {
	p.jumps.Add(1)
	s, outcome := p.reg.ResolveDetailed(ev.StarSystem, ev.StarPos, 0, 0)

	switch {
	case outcome == registry.OutcomeInconsistent:
		p.unresolved.Add(1)
		logger.FeedWarnw(p.log, "Name and position disagree",
			logger.FieldSystem, ev.StarSystem,
			logger.FieldPosition, ev.StarPos.String(),
			logger.FieldOutcome, outcome.String())
	case !outcome.Resolved():
		p.unresolved.Add(1)
		p.log.Debugw("Unresolved system",
			logger.FieldSystem, ev.StarSystem,
			logger.FieldPosition, ev.StarPos.String(),
			logger.FieldOutcome, outcome.String())
	default:
		if name := p.reg.Name(s); name != ev.StarSystem {
			p.renamed.Add(1)
			logger.FeedInfow(p.log, "Unknown system",
				logger.FieldSystem, ev.StarSystem,
				logger.FieldPosition, ev.StarPos.String(),
				"resolved_name", name)
			return
		}
		logger.StarDebugw(p.log, "Resolved jump",
			logger.FieldSystem, ev.StarSystem,
			logger.FieldID, s.ID(),
			logger.FieldOutcome, outcome.String())
	}
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Received:     p.received.Load(),
		Dropped:      p.dropped.Load(),
		DecodeErrors: p.decodeErrors.Load(),
		Filtered:     p.filtered.Load(),
		Jumps:        p.jumps.Load(),
		Unresolved:   p.unresolved.Load(),
		Renamed:      p.renamed.Load(),
	}
}
