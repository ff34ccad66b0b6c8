package feed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-zeromq/zmq4"
	"go.uber.org/zap"

	"github.com/teranos/starmatch/errors"
)

// ZMQSource subscribes to every topic of a ZeroMQ relay publisher. Each
// message's last frame is the payload.
type ZMQSource struct {
	cfg    SourceConfig
	redial redialer

	sock zmq4.Socket
}

// NewZMQSource returns a source for a tcp:// relay endpoint. It does not
// dial until the first Next.
func NewZMQSource(cfg SourceConfig, log *zap.SugaredLogger, rec Recorder) *ZMQSource {
	return &ZMQSource{
		cfg:    cfg,
		redial: newRedialer(cfg, log, rec),
	}
}

// Next returns the next published payload.
func (s *ZMQSource) Next(ctx context.Context) ([]byte, error) {
	for {
		if s.sock == nil {
			if err := s.redial.dial(ctx, s.connect); err != nil {
				return nil, err
			}
		}

		data, err := s.recv(ctx)
		if err == nil {
			return data, nil
		}

		s.Close()
		if err := s.redial.lost(ctx, err); err != nil {
			return nil, err
		}
	}
}

// recv waits for one message. Closing the socket is the only way to
// interrupt Recv, so ctx and the read timeout both close it.
func (s *ZMQSource) recv(ctx context.Context) ([]byte, error) {
	sock := s.sock
	var once sync.Once
	var timedOut atomic.Bool
	closeSock := func() { once.Do(func() { sock.Close() }) }

	stop := context.AfterFunc(ctx, closeSock)
	defer stop()
	if s.cfg.ReadTimeout > 0 {
		t := time.AfterFunc(s.cfg.ReadTimeout, func() {
			timedOut.Store(true)
			closeSock()
		})
		defer t.Stop()
	}

	msg, err := sock.Recv()
	if err != nil {
		if timedOut.Load() {
			return nil, errors.Newf("no message for %s", s.cfg.ReadTimeout)
		}
		return nil, err
	}
	if len(msg.Frames) == 0 {
		return nil, errors.New("empty message")
	}
	return msg.Frames[len(msg.Frames)-1], nil
}

func (s *ZMQSource) connect(ctx context.Context) error {
	sock := zmq4.NewSub(context.Background(),
		zmq4.WithAutomaticReconnect(false),
		zmq4.WithDialerMaxRetries(0))
	if err := sock.Dial(s.cfg.URL); err != nil {
		sock.Close()
		return err
	}
	if err := sock.SetOption(zmq4.OptionSubscribe, ""); err != nil {
		sock.Close()
		return errors.Wrap(err, "subscribe")
	}
	s.sock = sock
	return nil
}

// Close closes the current socket, if any.
func (s *ZMQSource) Close() error {
	if s.sock == nil {
		return nil
	}
	err := s.sock.Close()
	s.sock = nil
	return err
}
