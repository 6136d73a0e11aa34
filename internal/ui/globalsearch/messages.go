package globalsearch

import "posearch/internal/domain"

// debounceMsg fires once the query has been stable for the debounce delay
type debounceMsg struct {
	id    uint64
	query string
}

// resultsMsg carries the response for the search issued with token
type resultsMsg struct {
	token   uint64
	results *domain.SearchResults
	err     error
}
