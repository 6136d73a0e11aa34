package search

import "posearch/internal/domain"

// Flatten concatenates results as POs, then lines, then vendors. The order
// decides where group headers fall, so it must not change.
func Flatten(res *domain.SearchResults) []FlatResult {
	if res == nil {
		return nil
	}
	out := make([]FlatResult, 0, res.Total())
	for _, po := range res.POs {
		out = append(out, POItem{PO: po})
	}
	for _, line := range res.Lines {
		out = append(out, LineItem{Line: line})
	}
	for _, v := range res.Vendors {
		out = append(out, VendorItem{Vendor: v})
	}
	return out
}

// HeaderBefore returns the header to render before items[i], if any
func HeaderBefore(items []FlatResult, i int) (string, bool) {
	if i < 0 || i >= len(items) {
		return "", false
	}
	if i == 0 || items[i].Kind() != items[i-1].Kind() {
		return items[i].Kind().Header(), true
	}
	return "", false
}

// Rows expands items into the rendered row sequence with headers interleaved
func Rows(items []FlatResult) []Row {
	rows := make([]Row, 0, len(items)+3)
	for i := range items {
		if h, ok := HeaderBefore(items, i); ok {
			rows = append(rows, Row{Header: h, ItemIndex: i})
		}
		rows = append(rows, Row{ItemIndex: i})
	}
	return rows
}

// RowOf returns the rendered row index of items[i]
func RowOf(items []FlatResult, i int) int {
	if i < 0 || i >= len(items) {
		return -1
	}
	headers := 0
	for j := 0; j <= i; j++ {
		if _, ok := HeaderBefore(items, j); ok {
			headers++
		}
	}
	return i + headers
}
