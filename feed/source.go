package feed

import (
	"context"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/starmatch/errors"
	"github.com/teranos/starmatch/logger"
	"github.com/teranos/starmatch/sym"
)

// Source yields raw relay payloads. Next blocks until a payload arrives,
// the source is exhausted (io.EOF) or ctx is done. A Source is read from a
// single goroutine.
type Source interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// SourceConfig configures a relay source.
type SourceConfig struct {
	URL string
	// ReadTimeout drops and redials a connection that has been silent this
	// long. Zero waits forever.
	ReadTimeout time.Duration
	// ReconnectPerMinute paces dials. Zero means unlimited.
	ReconnectPerMinute int
}

// NewSource picks the source for cfg.URL by scheme: tcp is the ZeroMQ
// relay, ws and wss a websocket bridge.
func NewSource(cfg SourceConfig, log *zap.SugaredLogger, rec Recorder) (Source, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, errors.Wrapf(errors.NewInvalidRequestError("bad feed url %q", cfg.URL), "parse: %v", err)
	}
	switch u.Scheme {
	case "tcp":
		return NewZMQSource(cfg, log, rec), nil
	case "ws", "wss":
		return NewWebSocketSource(cfg, log, rec), nil
	}
	return nil, errors.WithHint(
		errors.NewInvalidRequestError("unsupported feed scheme %q", u.Scheme),
		"use tcp:// for the ZeroMQ relay or ws:// for a websocket bridge")
}

// minRedial is the least time between failed dials, however the limiter
// is configured.
const minRedial = time.Second

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// redialer paces connection attempts and counts every dial after the first
// as a reconnect.
type redialer struct {
	limiter *rate.Limiter
	log     *zap.SugaredLogger
	rec     Recorder
	dialed  bool
}

func newRedialer(cfg SourceConfig, log *zap.SugaredLogger, rec Recorder) redialer {
	limit := rate.Inf
	if cfg.ReconnectPerMinute > 0 {
		limit = rate.Limit(float64(cfg.ReconnectPerMinute) / 60.0)
	}
	if log == nil {
		log = logger.ComponentLogger("feed")
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return redialer{
		limiter: rate.NewLimiter(limit, 1),
		log:     log.With(logger.FieldURL, cfg.URL),
		rec:     rec,
	}
}

// dial calls attempt until it succeeds or ctx is done.
func (d *redialer) dial(ctx context.Context, attempt func(context.Context) error) error {
	for {
		if err := d.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "wait to dial feed")
		}
		if d.dialed {
			d.rec.IncrementReconnects()
		}
		d.dialed = true

		if err := attempt(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.log.Warnw("Failed to dial feed", logger.FieldError, err)
			if err := sleep(ctx, minRedial); err != nil {
				return err
			}
			continue
		}
		d.log.Infow("Connected to feed", logger.FieldSymbol, sym.FeedOpen)
		return nil
	}
}

// lost logs a dropped connection unless ctx ended it.
func (d *redialer) lost(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	logger.FeedWarnw(d.log, "Feed connection lost", logger.FieldError, err)
	return nil
}

// WebSocketSource reads payloads from a relay websocket, redialling
// whenever the connection fails or goes quiet.
type WebSocketSource struct {
	cfg    SourceConfig
	dialer *websocket.Dialer
	redial redialer

	conn *websocket.Conn
}

// NewWebSocketSource returns a source for cfg.URL. It does not dial until
// the first Next.
func NewWebSocketSource(cfg SourceConfig, log *zap.SugaredLogger, rec Recorder) *WebSocketSource {
	return &WebSocketSource{
		cfg:    cfg,
		dialer: websocket.DefaultDialer,
		redial: newRedialer(cfg, log, rec),
	}
}

// Next returns the next message, text or binary.
func (s *WebSocketSource) Next(ctx context.Context) ([]byte, error) {
	for {
		if s.conn == nil {
			if err := s.redial.dial(ctx, s.connect); err != nil {
				return nil, err
			}
		}

		if s.cfg.ReadTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}
		conn := s.conn
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		_, data, err := conn.ReadMessage()
		stop()
		if err == nil {
			return data, nil
		}

		s.Close()
		if err := s.redial.lost(ctx, err); err != nil {
			return nil, err
		}
	}
}

func (s *WebSocketSource) connect(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return err
	}
	s.conn = conn
	return nil
}

// Close closes the current connection, if any.
func (s *WebSocketSource) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
