// Package metrics records search client behaviour in Prometheus collectors
// and optionally serves them for scraping while the TUI runs.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes used as label values
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeHTTPError   = "http_error"
	OutcomeUnavailable = "unavailable"
	OutcomeBadResponse = "bad_response"
)

// Recorder holds the collectors on a private registry so tests and
// multiple instances never collide on the global one.
type Recorder struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	staleTotal      prometheus.Counter
}

// New creates a Recorder with all collectors registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posearch_search_requests_total",
				Help: "Search requests sent to the backend by outcome.",
			},
			[]string{"outcome"},
		),
		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "posearch_search_request_duration_seconds",
				Help:    "Latency of search requests in seconds.",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		staleTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "posearch_search_stale_responses_total",
				Help: "Search responses discarded because a newer request superseded them.",
			},
		),
	}
	r.registry.MustRegister(r.requestsTotal, r.requestDuration, r.staleTotal)
	return r
}

// ObserveSearch records one finished request
func (r *Recorder) ObserveSearch(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requestsTotal.WithLabelValues(outcome).Inc()
	r.requestDuration.Observe(elapsed.Seconds())
}

// StaleResponse records a response dropped for an outdated request token
func (r *Recorder) StaleResponse() {
	if r == nil {
		return
	}
	r.staleTotal.Inc()
}

// Handler exposes the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve blocks serving /metrics on addr until ctx is cancelled
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen on %s: %w", addr, err)
	}
	return r.serve(ctx, ln)
}

func (r *Recorder) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("metrics: listening on %s", ln.Addr())
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics shutdown: %w", err)
		}
		return nil
	}
}
