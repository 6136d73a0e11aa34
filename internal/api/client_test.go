package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posearch/internal/domain"
	"posearch/internal/metrics"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*HTTPClient, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewHTTPClient(Options{
		BaseURL:   srv.URL + "/",
		Timeout:   2 * time.Second,
		UserAgent: "posearch-test",
		Metrics:   metrics.New(),
	})
	return client, &hits
}

func TestSearchSendsEncodedQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "acme & sons", r.URL.Query().Get("q"))
		assert.Equal(t, "posearch-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"vendors":[{"id":"v1","name":"Acme Corp","po_count":3}],
			"pos":[{"id":"p1","po_number":"PO-100"}],"lines":[]}`))
	})

	res, err := client.Search(context.Background(), "  acme & sons ")
	require.NoError(t, err)
	require.Len(t, res.POs, 1)
	assert.Equal(t, "PO-100", res.POs[0].PONumber)
	require.Len(t, res.Vendors, 1)
	assert.Equal(t, domain.ID("v1"), res.Vendors[0].ID)
	assert.Empty(t, res.Lines)
}

func TestSearchShortQueryNeverHitsNetwork(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, q := range []string{"", "a", "  b  ", "é"} {
		_, err := client.Search(context.Background(), q)
		assert.ErrorIs(t, err, ErrQueryTooShort, "query %q", q)
	}
	assert.Equal(t, int32(0), hits.Load())
}

func TestSearchStatusError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"An internal server error occurred during search."}`))
	})

	_, err := client.Search(context.Background(), "acme")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "An internal server error occurred during search.", statusErr.Detail)
}

func TestSearchValidationDetailIsPreserved(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["query","q"],"msg":"too short"}]}`))
	})

	_, err := client.Search(context.Background(), "acme")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Contains(t, statusErr.Detail, "too short")
}

func TestSearchBadJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	})

	_, err := client.Search(context.Background(), "acme")
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestSearchUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewHTTPClient(Options{BaseURL: url, Timeout: time.Second})
	_, err := client.Search(context.Background(), "acme")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSearchHonoursContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, "acme")
	assert.ErrorIs(t, err, ErrUnavailable)
}
