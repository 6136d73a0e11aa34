package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posearch/internal/domain"
)

func acmeResults() *domain.SearchResults {
	return &domain.SearchResults{
		POs:     []domain.POResult{{ID: "p1", PONumber: "PO-100"}},
		Vendors: []domain.VendorResult{{ID: "v1", Name: "Acme Corp", POCount: 3}},
	}
}

func TestShortQueryClearsWithoutRequest(t *testing.T) {
	s := NewService(nil, 2)

	req, ok := s.Debounced("acme")
	require.True(t, ok)
	require.True(t, s.Complete(req.Token, acmeResults(), nil))
	require.NotNil(t, s.Results())

	for _, q := range []string{"a", " a ", ""} {
		_, ok = s.Debounced(q)
		assert.False(t, ok, "query %q must not be sent", q)
		assert.Nil(t, s.Results())
		assert.Empty(t, s.Flat())
		assert.Empty(t, s.Err())
		assert.False(t, s.Loading())
	}
}

func TestUnchangedDebouncedValueIsNotResent(t *testing.T) {
	s := NewService(nil, 2)

	_, ok := s.Debounced("acme")
	require.True(t, ok)
	_, ok = s.Debounced("acme")
	assert.False(t, ok)
}

func TestDebouncedTrimsQuery(t *testing.T) {
	s := NewService(nil, 2)

	req, ok := s.Debounced("  acme ")
	require.True(t, ok)
	assert.Equal(t, "acme", req.Query)
	assert.True(t, s.Loading())
}

func TestCompleteResetsActiveIndex(t *testing.T) {
	s := NewService(nil, 2)

	req, _ := s.Debounced("acme")
	require.True(t, s.Complete(req.Token, acmeResults(), nil))
	require.True(t, s.Move(1))
	assert.Equal(t, 1, s.ActiveIndex())

	req, _ = s.Debounced("acme corp")
	require.True(t, s.Complete(req.Token, acmeResults(), nil))
	assert.Equal(t, 0, s.ActiveIndex())
	assert.False(t, s.Loading())
}

func TestMoveIsClamped(t *testing.T) {
	s := NewService(nil, 2)
	assert.False(t, s.Move(1), "empty list never moves")

	req, _ := s.Debounced("acme")
	s.Complete(req.Token, acmeResults(), nil)

	assert.False(t, s.Move(-1))
	assert.Equal(t, 0, s.ActiveIndex())
	assert.True(t, s.Move(1))
	assert.False(t, s.Move(1))
	assert.Equal(t, 1, s.ActiveIndex())
	s.Move(-10)
	assert.Equal(t, 0, s.ActiveIndex())
	s.Move(10)
	assert.Equal(t, 1, s.ActiveIndex())

	active, ok := s.Active()
	require.True(t, ok)
	v, ok := active.(VendorItem)
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", v.Vendor.Name)
}

func TestFailureSetsGenericMessage(t *testing.T) {
	s := NewService(nil, 2)

	req, _ := s.Debounced("acme")
	require.True(t, s.Complete(req.Token, acmeResults(), nil))

	req, _ = s.Debounced("acme2")
	require.True(t, s.Complete(req.Token, nil, errors.New("dial tcp: refused")))

	assert.Equal(t, FailureMessage, s.Err())
	assert.Equal(t, FailureMessage, s.StatusLine())
	assert.Nil(t, s.Results())
	assert.Empty(t, s.Flat())
	assert.False(t, s.Loading())
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	s := NewService(nil, 2)
	stale := 0
	s.SetStaleFunction(func() { stale++ })

	older, _ := s.Debounced("ac")
	newer, _ := s.Debounced("acme")

	require.True(t, s.Complete(newer.Token, acmeResults(), nil))
	assert.False(t, s.Complete(older.Token, &domain.SearchResults{}, nil))

	assert.Equal(t, 1, stale)
	assert.Len(t, s.Flat(), 2, "older response must not replace newer results")
}

func TestResponseAfterShortQueryIsDiscarded(t *testing.T) {
	s := NewService(nil, 2)

	req, _ := s.Debounced("acme")
	s.Debounced("a")

	assert.False(t, s.Complete(req.Token, acmeResults(), nil))
	assert.Nil(t, s.Results())
	assert.False(t, s.Loading())
}

func TestStatusLine(t *testing.T) {
	s := NewService(nil, 2)
	assert.Empty(t, s.StatusLine())

	req, _ := s.Debounced("zzz ")
	assert.Equal(t, "Searching...", s.StatusLine())

	s.Complete(req.Token, &domain.SearchResults{}, nil)
	assert.Equal(t, "No results found for 'zzz'.", s.StatusLine())
}

func TestResetClearsEverything(t *testing.T) {
	s := NewService(nil, 2)
	s.SetQuery("acme")
	req, _ := s.Debounced("acme")
	s.Complete(req.Token, acmeResults(), nil)
	pending, _ := s.Debounced("acme corp")

	s.Reset()

	assert.Empty(t, s.Query())
	assert.Nil(t, s.Results())
	assert.Empty(t, s.Err())
	assert.False(t, s.Loading())
	assert.False(t, s.Complete(pending.Token, acmeResults(), nil))

	_, ok := s.Debounced("acme")
	assert.True(t, ok, "same query after reset is a fresh search")
}
