package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/switchyard/internal/logging"
	"github.com/aretw0/switchyard/pkg/adapters/memory"
	"github.com/aretw0/switchyard/pkg/ports"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long catalog payloads are reused before they are fetched again.
const DefaultTTL = 5 * time.Minute

// maxPayload bounds a single catalog document.
const maxPayload = 32 << 20

// Client fetches catalog documents through a shared cache. Concurrent requests for
// the same URL share one round trip.
type Client struct {
	http      *http.Client
	cache     ports.Cache
	ttl       time.Duration
	userAgent string
	logger    *slog.Logger
	group     singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCache replaces the default in-memory cache.
func WithCache(cache ports.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithTTL sets how long fetched documents stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.ttl = ttl
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client with a 30 second timeout and an in-memory cache.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		cache:     memory.NewCache(),
		ttl:       DefaultTTL,
		userAgent: "switchyard",
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the document at url, from cache when fresh.
// Cache failures are logged and otherwise ignored.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	key := "catalog:" + url
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("catalog cache read failed", "url", url, "err", err)
	} else if ok {
		return data, nil
	}

	v, err, _ := c.group.Do(url, func() (any, error) {
		data, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("catalog cache write failed", "url", url, "err", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	c.logger.Debug("catalog fetched", "url", url, "bytes", len(data), "duration", time.Since(start))
	return data, nil
}
