package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"posearch/internal/domain"
	"posearch/internal/metrics"
)

var (
	ErrQueryTooShort    = errors.New("query too short")
	ErrUnavailable      = errors.New("search backend unavailable")
	ErrUnexpectedStatus = errors.New("unexpected status from search backend")
	ErrBadResponse      = errors.New("malformed search response")
)

// StatusError carries the HTTP status of a failed search
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %d: %s", ErrUnexpectedStatus, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// SearchClient runs a global search against the backend
type SearchClient interface {
	Search(ctx context.Context, query string) (*domain.SearchResults, error)
}

// Options configures an HTTPClient
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	UserAgent      string
	MinQueryLength int
	Metrics        *metrics.Recorder
	HTTPClient     *http.Client
}

// HTTPClient talks to GET {base}/search
type HTTPClient struct {
	base      string
	userAgent string
	minLen    int
	http      *http.Client
	metrics   *metrics.Recorder
}

// NewHTTPClient creates a search client for the given backend
func NewHTTPClient(opts Options) *HTTPClient {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	minLen := opts.MinQueryLength
	if minLen <= 0 {
		minLen = 2
	}
	return &HTTPClient{
		base:      strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		minLen:    minLen,
		http:      hc,
		metrics:   opts.Metrics,
	}
}

// Search issues one request for query. The backend rejects short queries,
// so they fail here without touching the network.
func (c *HTTPClient) Search(ctx context.Context, query string) (*domain.SearchResults, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < c.minLen {
		return nil, fmt.Errorf("%w: %q", ErrQueryTooShort, q)
	}

	endpoint := c.base + "/search?" + url.Values{"q": {q}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	res, outcome, err := c.do(req)
	c.metrics.ObserveSearch(outcome, time.Since(start))
	if err != nil {
		log.Printf("api: search %q failed: %v", q, err)
		return nil, err
	}
	return res, nil
}

func (c *HTTPClient) do(req *http.Request) (*domain.SearchResults, string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, metrics.OutcomeUnavailable, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, metrics.OutcomeHTTPError, &StatusError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	var res domain.SearchResults
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, metrics.OutcomeBadResponse, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	outcome := metrics.OutcomeOK
	if res.Total() == 0 {
		outcome = metrics.OutcomeEmpty
	}
	return &res, outcome, nil
}

// readDetail pulls the FastAPI style {"detail": "..."} message, if any
func readDetail(r io.Reader) string {
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil || body.Detail == nil {
		return ""
	}
	if s, ok := body.Detail.(string); ok {
		return s
	}
	b, _ := json.Marshal(body.Detail)
	return string(b)
}
