// Package fetcher retrieves raw HTML through an ordered list of fallback
// proxy endpoints with bounded retries and linear backoff.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/seoscope/seoscope/internal/metrics"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// minHTMLLength is the smallest body the fetcher accepts as a real page.
const minHTMLLength = 500

const (
	breakerThreshold = 3
	breakerCooldown  = 30 * time.Second
)

// ErrEndpointsCoolingDown is the FetchError cause when no attempt could be
// made because every endpoint was still in breaker cooldown.
var ErrEndpointsCoolingDown = errors.New("all endpoints in cooldown")

// FetchError reports that every endpoint failed in every retry round.
type FetchError struct {
	URL      string
	Attempts int
	LastErr  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s after %d attempts: %v", e.URL, e.Attempts, e.LastErr)
}

func (e *FetchError) Unwrap() error { return e.LastErr }

// endpoint is one proxy strategy with its own health state, so new
// retrieval paths can be added without touching the retry logic.
type endpoint struct {
	prefix string

	consecutiveFails int
	downUntil        time.Time
}

func (e *endpoint) available(now time.Time) bool {
	if e.consecutiveFails < breakerThreshold {
		return true
	}
	return now.After(e.downUntil)
}

func (e *endpoint) recordFailure(now time.Time) {
	e.consecutiveFails++
	if e.consecutiveFails >= breakerThreshold {
		e.downUntil = now.Add(breakerCooldown)
	}
}

func (e *endpoint) recordSuccess() {
	e.consecutiveFails = 0
	e.downUntil = time.Time{}
}

// Fetcher fetches HTML via proxy endpoints. Safe for concurrent use.
type Fetcher struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
	logger     *slog.Logger

	mu        sync.Mutex
	endpoints []*endpoint
}

// New creates a Fetcher over the given proxy endpoint prefixes. The target
// URL is appended to each prefix query-escaped.
func New(proxies []string, retries int, retryDelay, timeout time.Duration, logger *slog.Logger) *Fetcher {
	endpoints := make([]*endpoint, len(proxies))
	for i, p := range proxies {
		endpoints[i] = &endpoint{prefix: p}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		retries:    retries,
		retryDelay: retryDelay,
		logger:     logger,
		endpoints:  endpoints,
	}
}

// Fetch retrieves the HTML for a URL. Each retry round walks all endpoints
// in order; between rounds it waits round_index × retryDelay. It returns a
// *FetchError only once every endpoint has failed in every round.
func (f *Fetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	attempts := 0

	for round := 0; round < f.retries; round++ {
		for _, ep := range f.endpoints {
			f.mu.Lock()
			ok := ep.available(time.Now())
			f.mu.Unlock()
			if !ok {
				f.logger.Debug("Skipping endpoint in cooldown", "endpoint", ep.prefix, "url", target)
				continue
			}

			attempts++
			body, err := f.attempt(ctx, ep.prefix, target)

			f.mu.Lock()
			if err != nil {
				ep.recordFailure(time.Now())
			} else {
				ep.recordSuccess()
			}
			f.mu.Unlock()

			if err != nil {
				metrics.FetchAttempts.WithLabelValues("failure").Inc()
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				f.logger.Warn("Proxy attempt failed", "endpoint", ep.prefix, "url", target, "error", err)
				lastErr = err
				continue
			}

			metrics.FetchAttempts.WithLabelValues("success").Inc()
			return body, nil
		}

		if round < f.retries-1 {
			wait := time.Duration(round+1) * f.retryDelay
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	if attempts == 0 {
		lastErr = ErrEndpointsCoolingDown
	}
	return nil, &FetchError{URL: target, Attempts: attempts, LastErr: lastErr}
}

func (f *Fetcher) attempt(ctx context.Context, prefix, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, prefix+url.QueryEscape(target), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if !plausibleHTML(body) {
		return nil, fmt.Errorf("implausible HTML response, length %d", len(body))
	}
	return body, nil
}

// plausibleHTML rejects proxy error pages and truncated responses: the body
// must be reasonably long and carry a closing html or body tag.
func plausibleHTML(body []byte) bool {
	if len(body) <= minHTMLLength {
		return false
	}
	s := string(body)
	return strings.Contains(s, "</html>") || strings.Contains(s, "</body>")
}
