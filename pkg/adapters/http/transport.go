package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/switchyard/internal/logging"
	"github.com/cenkalti/backoff/v4"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "switchyard"

// StatusError reports a download answered with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Transport downloads files over HTTP(S).
// Network errors and 5xx answers are retried; other statuses fail immediately so that
// callers with fallback candidates move on quickly.
type Transport struct {
	client     *http.Client
	userAgent  string
	logger     *slog.Logger
	newBackoff func() backoff.BackOff
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithClient replaces the underlying http.Client.
func WithClient(c *http.Client) TransportOption {
	return func(t *Transport) {
		t.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) TransportOption {
	return func(t *Transport) {
		if ua != "" {
			t.userAgent = ua
		}
	}
}

// WithTimeout bounds each request, body included.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *Transport) {
		t.client.Timeout = d
	}
}

// WithTransportLogger sets the logger used for retry diagnostics.
func WithTransportLogger(l *slog.Logger) TransportOption {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithBackoff sets the retry policy for transient failures.
func WithBackoff(newBackoff func() backoff.BackOff) TransportOption {
	return func(t *Transport) {
		t.newBackoff = newBackoff
	}
}

// NewTransport creates a Transport with a 5 minute request timeout and a short
// exponential retry policy.
func NewTransport(opts ...TransportOption) *Transport {
	t := &Transport{
		client:    &http.Client{Timeout: 5 * time.Minute},
		userAgent: DefaultUserAgent,
		logger:    logging.NewNop(),
		newBackoff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(250*time.Millisecond),
				backoff.WithMaxInterval(2*time.Second),
				backoff.WithMaxElapsedTime(15*time.Second),
			)
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Download fetches url into dest. The body is streamed into dest+".part" and renamed
// once complete, so dest never holds a truncated file.
func (t *Transport) Download(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	part := dest + ".part"

	attempt := func() error {
		err := t.fetch(ctx, url, part)
		if err == nil {
			return nil
		}
		var se *StatusError
		if ctx.Err() != nil || (errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError) {
			return backoff.Permanent(err)
		}
		t.logger.Debug("retrying download", "url", url, "err", err)
		return err
	}

	if err := backoff.Retry(attempt, backoff.WithContext(t.newBackoff(), ctx)); err != nil {
		_ = os.Remove(part)
		return err
	}
	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return fmt.Errorf("failed to finalize download: %w", err)
	}
	return nil
}

func (t *Transport) fetch(ctx context.Context, url, part string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	f, err := os.Create(part)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("GET %s: %w", url, err)
	}
	return f.Close()
}
