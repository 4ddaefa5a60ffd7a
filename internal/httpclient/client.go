// Package httpclient provides the outbound HTTP client used for all upstream
// media calls: automatic retries with exponential backoff, a circuit breaker
// per client, transparent decompression (gzip, deflate, brotli), and
// structured logging with credential obfuscation.
package httpclient

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/TEGAR-SRC/yt-dw/internal/version"
)

// Errors returned by the client.
var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrMaxRetries  = errors.New("max retries exceeded")
)

// Defaults.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultRetryAttempts = 2
	DefaultRetryDelay    = 500 * time.Millisecond
	DefaultRetryMaxDelay = 10 * time.Second

	acceptEncoding = "gzip, deflate, br"
)

// Config holds client settings. Zero values fall back to the defaults above.
type Config struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	RetryMaxDelay time.Duration
	UserAgent     string
	Logger        *slog.Logger
}

// Client wraps http.Client with retries and a circuit breaker.
type Client struct {
	cfg     Config
	base    *http.Client
	breaker *CircuitBreaker
	logger  *slog.Logger
}

// New creates a client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryAttempts < 0 {
		cfg.RetryAttempts = DefaultRetryAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.RetryMaxDelay <= 0 {
		cfg.RetryMaxDelay = DefaultRetryMaxDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = version.UserAgent()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		base:    &http.Client{Timeout: cfg.Timeout},
		breaker: NewCircuitBreaker(5, 30*time.Second),
		logger:  cfg.Logger,
	}
}

// Do executes a request with retries. Retryable failures are transport errors
// and 429/5xx gateway statuses; context errors are returned immediately.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	var lastErr error
	delay := c.cfg.RetryDelay

	for attempt := 0; attempt <= c.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.cfg.RetryMaxDelay {
				delay = c.cfg.RetryMaxDelay
			}
		}

		if !c.breaker.Allow() {
			lastErr = ErrCircuitOpen
			c.logger.Warn("circuit open, skipping upstream request",
				slog.String("url", ObfuscateURL(req.URL)),
			)
			continue
		}

		start := time.Now()
		resp, err := c.base.Do(req)
		if err != nil {
			c.breaker.RecordFailure()
			lastErr = err
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			c.logger.Warn("upstream request failed",
				slog.String("url", ObfuscateURL(req.URL)),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			continue
		}

		if retryableStatus(resp.StatusCode) {
			c.breaker.RecordFailure()
			lastErr = fmt.Errorf("upstream status %d", resp.StatusCode)
			resp.Body.Close()
			continue
		}

		c.breaker.RecordSuccess()
		c.logger.Debug("upstream request completed",
			slog.String("url", ObfuscateURL(req.URL)),
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", time.Since(start)),
		)
		resp.Body = decompressBody(resp, c.logger)
		return resp, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrMaxRetries, lastErr)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.Do(req)
}

// Head performs a HEAD request, discarding the body. Useful for checking
// that a media URL is still being honored upstream before committing to it.
func (c *Client) Head(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}

// StandardClient exposes this client as a plain *http.Client so libraries
// that take one inherit the retry and decompression behavior.
func (c *Client) StandardClient() *http.Client {
	return &http.Client{
		Transport: roundTripperFunc(c.Do),
		Timeout:   c.cfg.Timeout,
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func decompressBody(resp *http.Response, logger *slog.Logger) io.ReadCloser {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			logger.Warn("bad gzip body, passing through raw", slog.String("error", err.Error()))
			return resp.Body
		}
		return &decompressReader{reader: r, closer: resp.Body}
	case "deflate":
		return &decompressReader{reader: flate.NewReader(resp.Body), closer: resp.Body}
	case "br":
		return &decompressReader{reader: brotli.NewReader(resp.Body), closer: resp.Body}
	default:
		return resp.Body
	}
}

type decompressReader struct {
	reader io.Reader
	closer io.Closer
}

func (d *decompressReader) Read(p []byte) (int, error) { return d.reader.Read(p) }

func (d *decompressReader) Close() error {
	if c, ok := d.reader.(io.Closer); ok {
		c.Close()
	}
	return d.closer.Close()
}

// sensitive query parameters blanked out of logged URLs.
var sensitiveParams = []string{
	"key", "api_key", "apikey", "token", "auth", "signature", "sig", "expire",
}

// ObfuscateURL renders a URL for logging with sensitive query values masked.
func ObfuscateURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	masked := *u
	query := masked.Query()
	for _, param := range sensitiveParams {
		if query.Has(param) {
			query.Set(param, "***")
		}
	}
	masked.RawQuery = query.Encode()
	return masked.String()
}
