package am

import (
	"net/url"

	"github.com/teranos/starmatch/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Database path is optional - empty falls back to "starmatch.db"

	// Queue size: the dispatcher needs somewhere to put events
	if c.Feed.QueueSize <= 0 {
		return errors.Newf("feed.queue_size must be > 0, got %d", c.Feed.QueueSize)
	}

	// Reconnect pacing: 0 = unpaced, negative = invalid
	if c.Feed.ReconnectPerMinute < 0 {
		return errors.Newf("feed.reconnect_per_minute must be >= 0, got %d", c.Feed.ReconnectPerMinute)
	}

	// Read timeout: 0 = wait forever, negative = invalid
	if c.Feed.ReadTimeoutSeconds < 0 {
		return errors.Newf("feed.read_timeout_seconds must be >= 0, got %d", c.Feed.ReadTimeoutSeconds)
	}

	// Feed URL is optional; tcp is the ZeroMQ relay, ws/wss a websocket bridge
	if c.Feed.URL != "" {
		u, err := url.Parse(c.Feed.URL)
		if err != nil {
			return errors.Wrapf(err, "feed.url %q is not a URL", c.Feed.URL)
		}
		switch u.Scheme {
		case "tcp", "ws", "wss":
		default:
			return errors.WithHint(
				errors.Newf("feed.url must use tcp, ws or wss, got %q", u.Scheme),
				"the relay publishes on tcp://eddn.edcd.io:9500",
			)
		}
	}

	for i, s := range c.Feed.Schemas {
		if s == "" {
			return errors.Newf("feed.schemas[%d] cannot be empty", i)
		}
	}

	// Metrics path only matters when the endpoint is enabled
	if c.Metrics.Address != "" && (c.Metrics.Path == "" || c.Metrics.Path[0] != '/') {
		return errors.Newf("metrics.path must start with '/', got %q", c.Metrics.Path)
	}

	return nil
}
