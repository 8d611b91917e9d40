// Package fetch implements the rate-limited, retrying outbound HTTP
// client every league ingestion agent uses to reach a provider API
// (§4.1). Rate limiting is a sliding window over a bounded ring buffer
// of send times, not a token bucket: the spec's algorithm counts calls
// within a rolling period rather than replenishing a budget, and the
// two are only equivalent at the margins.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/blazeintel/havf-core/internal/cache"
	"github.com/blazeintel/havf-core/internal/clock"
)

// ErrorKind names the taxonomy of failures a fetch can report (§7).
type ErrorKind string

const (
	KindTimedOut           ErrorKind = "TimedOut"
	KindRateLimited        ErrorKind = "RateLimited"
	KindProviderRejected   ErrorKind = "ProviderRejected"
	KindTransportError     ErrorKind = "TransportError"
	KindMalformedResponse  ErrorKind = "MalformedResponse"
)

// Error wraps a fetch failure with its taxonomy kind and (if available)
// the HTTP status that produced it.
type Error struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch: %s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Limit is a provider's sliding-window quota: at most Calls requests in
// any rolling Period.
type Limit struct {
	Calls  int
	Period time.Duration
}

// window is the monitor described in SPEC_FULL's design notes: a bounded
// ring buffer of send timestamps behind a single mutator. The
// wait-or-send decision is a pure function of buffer state plus clock;
// no other component touches this state.
type window struct {
	limit  Limit
	clk    clock.Clock
	sends  []time.Time
}

func newWindow(limit Limit, clk clock.Clock) *window {
	return &window{limit: limit, clk: clk, sends: make([]time.Time, 0, limit.Calls)}
}

// reserve blocks (by sleeping on the injected clock) until a send slot
// is available, then records the send and returns.
func (w *window) reserve() {
	for {
		now := w.clk.Now()
		cutoff := now.Add(-w.limit.Period)

		kept := w.sends[:0]
		for _, t := range w.sends {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		w.sends = kept

		if len(w.sends) < w.limit.Calls {
			w.sends = append(w.sends, now)
			return
		}

		oldest := w.sends[0]
		sleepFor := oldest.Add(w.limit.Period).Sub(now)
		if sleepFor < 0 {
			sleepFor = 0
		}
		w.clk.Sleep(sleepFor)
	}
}

// Client performs rate-limited, retrying HTTP GETs against a single
// provider, with an optional cache-aside layer (C12) in front of it.
// When Cache is set, every fetch goes through RFC 9111 conditional
// revalidation: a cached response is replayed with its ETag/Last-Modified
// so an unchanged upstream answers 304 without resending the body.
type Client struct {
	HTTP        *http.Client
	Clock       clock.Clock
	Cache       *cache.Client
	CacheConfig cache.UpstreamCacheConfig
	CacheStats  *cache.UpstreamCacheMetrics
	window      *window
}

// NewClient constructs a Client enforcing limit for every outbound call.
func NewClient(limit Limit, clk clock.Clock, cacheClient *cache.Client) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		Clock:       clk,
		Cache:       cacheClient,
		CacheConfig: cache.DefaultUpstreamConfig(),
		CacheStats:  &cache.UpstreamCacheMetrics{},
		window:      newWindow(limit, clk),
	}
}

const retryBase = 1 * time.Second
const maxAttempts = 3

// Fetch performs a GET against urlStr with the given headers and query
// params, applying the sliding-window rate limit and exponential
// backoff retry on 429 or transport errors (§4.1).
func (c *Client) Fetch(ctx context.Context, urlStr string, headers http.Header, query url.Values) ([]byte, time.Duration, error) {
	if query != nil {
		parsed, err := url.Parse(urlStr)
		if err != nil {
			return nil, 0, &Error{Kind: KindMalformedResponse, Err: err}
		}
		parsed.RawQuery = query.Encode()
		urlStr = parsed.String()
	}

	if c.Cache != nil {
		return c.fetchCached(ctx, urlStr, headers)
	}

	return c.fetchWithRetry(ctx, urlStr, headers)
}

// fetchCached wraps fetchWithRetry with RFC 9111 conditional revalidation:
// a prior response's ETag/Last-Modified rides on the outbound request, and
// a 304 replays the cached body instead of counting as a provider error.
func (c *Client) fetchCached(ctx context.Context, urlStr string, headers http.Header) ([]byte, time.Duration, error) {
	cacheKey := c.Cache.UpstreamKey(http.MethodGet, hostOf(urlStr), urlStr)
	negativeKey := cacheKey + ":negative"

	if c.CacheConfig.CacheNegativeResponses {
		if neg, ok := c.Cache.GetNegativeCache(ctx, negativeKey); ok {
			return nil, 0, &Error{Kind: KindProviderRejected, Status: neg.Status, Err: fmt.Errorf("negative-cached: %s", neg.Message)}
		}
	}

	probe, _ := http.NewRequest(http.MethodGet, urlStr, nil)
	revalidating := c.Cache.AddConditionalHeaders(ctx, cacheKey, probe)
	reqHeaders := headers.Clone()
	if reqHeaders == nil {
		reqHeaders = make(http.Header)
	}
	for k, vs := range probe.Header {
		reqHeaders[k] = vs
	}

	body, resp, latency, err := c.fetchWithRetryRaw(ctx, urlStr, reqHeaders, revalidating)
	if err != nil {
		c.CacheStats.Errors++
		if fe, ok := err.(*Error); ok && fe.Kind == KindProviderRejected && c.CacheConfig.CacheNegativeResponses {
			_ = c.Cache.CacheNegativeResponse(ctx, negativeKey, fe.Status, fe.Err.Error(), resp.Header.Get("Retry-After"))
		}
		return nil, latency, err
	}

	if resp.StatusCode == http.StatusNotModified {
		entry, ok := c.Cache.GetHTTPCache(ctx, cacheKey)
		if !ok {
			c.CacheStats.Errors++
			return nil, latency, &Error{Kind: KindMalformedResponse, Err: fmt.Errorf("304 response with no cached entry for %s", cacheKey)}
		}
		_ = c.Cache.RefreshHTTPCache(ctx, cacheKey, c.CacheConfig.DetermineTTL(resp))
		c.CacheStats.Hits++
		c.CacheStats.ConditionalRefreshes++
		return entry.Body, latency, nil
	}

	c.CacheStats.Misses++
	_ = c.Cache.CacheHTTPResponse(ctx, cacheKey, resp, body, c.CacheConfig.DetermineTTL(resp))
	return body, latency, nil
}

func (c *Client) fetchWithRetry(ctx context.Context, urlStr string, headers http.Header) ([]byte, time.Duration, error) {
	body, _, latency, err := c.fetchWithRetryRaw(ctx, urlStr, headers, false)
	return body, latency, err
}

// fetchWithRetryRaw is the shared rate-limited, backing-off attempt loop.
// allowNotModified lets a 304 through as a successful (bodyless) result
// instead of the generic non-2xx ProviderRejected error, for callers that
// sent conditional headers and can resolve a 304 against their own cache.
func (c *Client) fetchWithRetryRaw(ctx context.Context, urlStr string, headers http.Header, allowNotModified bool) ([]byte, *http.Response, time.Duration, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		c.window.reserve()

		start := c.Clock.Now()
		body, resp, err := c.doOnce(ctx, urlStr, headers)
		latency := c.Clock.Now().Sub(start)

		if err != nil {
			lastErr = &Error{Kind: KindTransportError, Err: err}
			c.backoff(attempt)
			continue
		}

		status := resp.StatusCode
		if status == http.StatusTooManyRequests {
			lastErr = &Error{Kind: KindRateLimited, Status: status, Err: fmt.Errorf("provider returned 429")}
			c.backoff(attempt)
			continue
		}

		if allowNotModified && status == http.StatusNotModified {
			return nil, resp, latency, nil
		}

		if status < 200 || status >= 300 {
			return nil, resp, latency, &Error{Kind: KindProviderRejected, Status: status, Err: fmt.Errorf("non-2xx response")}
		}

		return body, resp, latency, nil
	}

	return nil, nil, 0, lastErr
}

func (c *Client) backoff(attempt int) {
	d := retryBase * time.Duration(1<<uint(attempt))
	c.Clock.Sleep(d)
}

func (c *Client) doOnce(ctx context.Context, urlStr string, headers http.Header) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, nil, err
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, err
	}

	return body, resp, nil
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
