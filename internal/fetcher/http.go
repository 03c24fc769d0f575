// Package fetcher downloads remote EDGAR documents under a strict rate limit.
package fetcher

import (
	"context"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures the HTTP client.
type Options struct {
	// UserAgent is sent on every request. EDGAR rejects anonymous clients.
	UserAgent string

	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration

	// Limiter gates outbound requests. Inject a shared limiter when several
	// runs must honor one global budget; when nil a per-client limiter of
	// DefaultRatePerSecond is used. Each logical filing costs two physical
	// requests, so the default sits well under EDGAR's stated 10/s.
	Limiter *rate.Limiter

	// FlushPeriod is the interval at which the flush callback fires.
	// Zero means one second, matching the limiter period.
	FlushPeriod time.Duration
}

// DefaultRatePerSecond is the conservative per-client request ceiling.
const DefaultRatePerSecond = 4

// Client is a rate-limited HTTP fetcher with transport-level retry.
// Retry operates beneath the limiter: the limiter controls request rate,
// the retry controls per-request resilience.
type Client struct {
	client  *http.Client
	opts    Options
	limiter *rate.Limiter

	mu          sync.Mutex
	onFlush     func()
	windowStart time.Time
	windowCalls int
}

// NewClient creates a rate-limited HTTP client.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryBase == 0 {
		opts.RetryBase = 500 * time.Millisecond
	}
	if opts.FlushPeriod == 0 {
		opts.FlushPeriod = time.Second
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(DefaultRatePerSecond, 1)
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:        opts,
		limiter:     limiter,
		windowStart: time.Now(),
	}
}

// OnFlush registers a callback invoked once per elapsed flush period in
// which at least one request was issued. Runs use it to batch-persist
// accumulated rows instead of writing one at a time.
func (c *Client) OnFlush(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFlush = fn
}

// Flush invokes the registered callback immediately and resets the window.
// Runs call it once at the end so the final partial batch is persisted.
func (c *Client) Flush() {
	c.mu.Lock()
	fn := c.onFlush
	c.windowStart = time.Now()
	c.windowCalls = 0
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// tick fires the flush callback when the period has rolled over with
// accumulated calls, then counts the current call into the window.
func (c *Client) tick() {
	c.mu.Lock()
	var fn func()
	now := time.Now()
	if now.Sub(c.windowStart) >= c.opts.FlushPeriod {
		if c.windowCalls > 0 {
			fn = c.onFlush
		}
		c.windowStart = now
		c.windowCalls = 0
	}
	c.windowCalls++
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Get fetches the URL and returns the full response body. It blocks on the
// limiter when the call budget is exhausted and retries connection
// failures, 429s, and 5xx responses with exponential backoff.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("fetcher: unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read body from %s", rawURL)
	}
	return body, nil
}

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := range c.opts.MaxRetries {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fetcher: rate limiter wait")
		}
		c.tick()

		cloned := req.Clone(ctx)
		resp, err := c.client.Do(cloned)
		if err != nil {
			lastErr = err
			zap.L().Warn("http request failed, retrying",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http %d from %s", resp.StatusCode, req.URL.String())
			zap.L().Warn("retryable status, backing off",
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			c.backoff(ctx, attempt)
			continue
		}

		return resp, nil
	}

	return nil, eris.Wrap(lastErr, "fetcher: all retries exhausted")
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	d := time.Duration(float64(c.opts.RetryBase) * math.Pow(2, float64(attempt)))
	maxBackoff := 30 * time.Second
	if d > maxBackoff {
		d = maxBackoff
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
