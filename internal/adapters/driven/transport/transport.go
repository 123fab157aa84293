// Package transport builds the HTTP client used for storefront API calls.
package transport

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/logger"
)

// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
const HeaderRetryAfter = "Retry-After"

// MaxRetryAfter caps the back-off a server can ask for.
const MaxRetryAfter = time.Hour

// NewClient returns an HTTP client with the configured timeout and rate limit.
func NewClient(settings domain.HTTPSettings) *http.Client {
	return &http.Client{
		Timeout:   settings.Timeout,
		Transport: NewRateLimitedTransport(http.DefaultTransport, settings.RateLimit, settings.Burst),
	}
}

// RateLimitedTransport throttles outgoing requests with a token bucket and
// backs off after a 429 for as long as the server's Retry-After asks.
type RateLimitedTransport struct {
	base   http.RoundTripper
	bucket *rate.Limiter // nil when unthrottled

	mu        sync.Mutex
	notBefore time.Time
	now       func() time.Time
}

// NewRateLimitedTransport wraps base. A limit of zero disables throttling;
// burst is raised to 1 if lower.
func NewRateLimitedTransport(base http.RoundTripper, limit float64, burst int) *RateLimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &RateLimitedTransport{
		base: base,
		now:  time.Now,
	}
	if limit > 0 {
		if burst < 1 {
			burst = 1
		}
		t.bucket = rate.NewLimiter(rate.Limit(limit), burst)
	}
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if delay, ok := parseRetryAfter(resp.Header.Get(HeaderRetryAfter), t.now()); ok {
			t.backOff(delay)
			logger.Warn("rate limited by %s, backing off %s", req.URL.Host, delay)
		}
	}
	return resp, nil
}

// Wait blocks until a request may be sent.
func (t *RateLimitedTransport) Wait(ctx context.Context) error {
	if t.bucket != nil {
		if err := t.bucket.Wait(ctx); err != nil {
			return err
		}
	}

	t.mu.Lock()
	delay := t.notBefore.Sub(t.now())
	t.mu.Unlock()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backOff delays further requests by at least d.
func (t *RateLimitedTransport) backOff(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if until := t.now().Add(d); until.After(t.notBefore) {
		t.notBefore = until
	}
}

// parseRetryAfter reads a Retry-After value given in seconds or as an HTTP date.
func parseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		if secs > int(MaxRetryAfter/time.Second) {
			return MaxRetryAfter, true
		}
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		return min(max(at.Sub(now), 0), MaxRetryAfter), true
	}
	return 0, false
}
