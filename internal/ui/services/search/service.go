package search

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"posearch/internal/domain"
	"posearch/internal/eventbus"
)

// FailureMessage is the only error text shown for a failed search
const FailureMessage = "Search failed: Could not connect to the server."

// Service owns the query, results and cursor of the search overlay
type Service struct {
	state   *State
	bus     eventbus.EventBus
	minLen  int
	staleFn func() // called when a superseded response is dropped
}

// NewService creates a new search service
func NewService(bus eventbus.EventBus, minQueryLength int) *Service {
	if minQueryLength <= 0 {
		minQueryLength = 2
	}
	return &Service{
		state:  &State{},
		bus:    bus,
		minLen: minQueryLength,
	}
}

// SetStaleFunction sets the hook run for each discarded response
func (s *Service) SetStaleFunction(fn func()) {
	s.staleFn = fn
}

// SetQuery stores the raw query on every keystroke
func (s *Service) SetQuery(query string) {
	s.state.Query = query
}

// Debounced handles a query that has been stable for the debounce delay.
// It returns the request to issue, or false when nothing should be sent.
func (s *Service) Debounced(query string) (Request, bool) {
	if query == s.state.Debounced {
		return Request{}, false
	}
	s.state.Debounced = query

	// any response still in flight belongs to an older query now
	s.state.token++

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < s.minLen {
		s.state.Results = nil
		s.state.Flat = nil
		s.state.Active = 0
		s.state.Err = ""
		s.state.Loading = false
		return Request{}, false
	}

	s.state.Loading = true
	s.state.Err = ""

	req := Request{Query: trimmed, Token: s.state.token}
	s.publish(eventbus.SearchStartedEvent{Query: req.Query, Token: req.Token})
	return req, true
}

// Complete applies the response for the request carrying token. Responses
// for superseded requests are dropped and Complete returns false.
func (s *Service) Complete(token uint64, res *domain.SearchResults, err error) bool {
	if token != s.state.token {
		log.Printf("search: dropping stale response for token %d (current %d)", token, s.state.token)
		if s.staleFn != nil {
			s.staleFn()
		}
		s.publish(eventbus.SearchDiscardedEvent{Query: s.state.Debounced, Token: token})
		return false
	}

	s.state.Loading = false
	s.state.Active = 0

	if err != nil {
		s.state.Err = FailureMessage
		s.state.Results = nil
		s.state.Flat = nil
		s.publish(eventbus.SearchFailedEvent{Query: s.state.Debounced, Token: token, Err: err})
		return true
	}

	if res == nil {
		res = &domain.SearchResults{}
	}
	s.state.Err = ""
	s.state.Results = res
	s.state.Flat = Flatten(res)

	log.Printf("search: '%s' returned %d POs, %d lines, %d vendors",
		s.state.Debounced, len(res.POs), len(res.Lines), len(res.Vendors))

	s.publish(eventbus.SearchCompletedEvent{
		Query:   s.state.Debounced,
		Token:   token,
		POs:     len(res.POs),
		Lines:   len(res.Lines),
		Vendors: len(res.Vendors),
	})
	return true
}

// Move shifts the active index by delta, clamped to the list. It reports
// whether the index changed.
func (s *Service) Move(delta int) bool {
	n := len(s.state.Flat)
	if n == 0 {
		return false
	}
	next := s.state.Active + delta
	if next < 0 {
		next = 0
	}
	if next > n-1 {
		next = n - 1
	}
	if next == s.state.Active {
		return false
	}
	s.state.Active = next
	return true
}

// Active returns the highlighted result
func (s *Service) Active() (FlatResult, bool) {
	if s.state.Active < 0 || s.state.Active >= len(s.state.Flat) {
		return nil, false
	}
	return s.state.Flat[s.state.Active], true
}

// ActiveIndex returns the cursor into Flat
func (s *Service) ActiveIndex() int {
	return s.state.Active
}

// Query returns the raw query
func (s *Service) Query() string {
	return s.state.Query
}

// Results returns the last applied results, nil when there are none
func (s *Service) Results() *domain.SearchResults {
	return s.state.Results
}

// Flat returns the flattened results
func (s *Service) Flat() []FlatResult {
	return s.state.Flat
}

// Loading reports whether a request is outstanding
func (s *Service) Loading() bool {
	return s.state.Loading
}

// Err returns the user facing error, if any
func (s *Service) Err() string {
	return s.state.Err
}

// StatusLine returns the message shown in place of (or above) the list
func (s *Service) StatusLine() string {
	switch {
	case s.state.Loading:
		return "Searching..."
	case s.state.Err != "":
		return s.state.Err
	case s.state.Results != nil && len(s.state.Flat) == 0:
		return fmt.Sprintf("No results found for '%s'.", strings.TrimSpace(s.state.Debounced))
	}
	return ""
}

// Reset clears everything so the next open starts fresh
func (s *Service) Reset() {
	s.state.Query = ""
	s.state.Debounced = ""
	s.state.Results = nil
	s.state.Flat = nil
	s.state.Active = 0
	s.state.Loading = false
	s.state.Err = ""
	s.state.token++
}

func (s *Service) publish(e eventbus.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
