package search

import "posearch/internal/domain"

// Kind identifies which backend category a flattened result came from
type Kind int

const (
	KindPO Kind = iota
	KindLine
	KindVendor
)

// Header returns the group heading shown above a run of results
func (k Kind) Header() string {
	switch k {
	case KindPO:
		return "Purchase Orders"
	case KindLine:
		return "Products"
	case KindVendor:
		return "Vendors"
	}
	return ""
}

func (k Kind) String() string {
	switch k {
	case KindPO:
		return "po"
	case KindLine:
		return "line"
	case KindVendor:
		return "vendor"
	}
	return "unknown"
}

// FlatResult is one entry of the navigable list. It is implemented only by
// POItem, LineItem and VendorItem; switch on the concrete type.
type FlatResult interface {
	Kind() Kind
	flatResult()
}

// POItem wraps a purchase order match
type POItem struct {
	PO domain.POResult
}

// LineItem wraps a line item match
type LineItem struct {
	Line domain.LineResult
}

// VendorItem wraps a vendor match
type VendorItem struct {
	Vendor domain.VendorResult
}

func (POItem) Kind() Kind     { return KindPO }
func (LineItem) Kind() Kind   { return KindLine }
func (VendorItem) Kind() Kind { return KindVendor }

func (POItem) flatResult()     {}
func (LineItem) flatResult()   {}
func (VendorItem) flatResult() {}

// Request is a search the caller should issue. Token identifies it so a
// late response for an older request can be told apart.
type Request struct {
	Query string
	Token uint64
}

// Row is one rendered line of the result list: either a group header or
// the item at ItemIndex.
type Row struct {
	Header    string
	ItemIndex int
}

// IsHeader reports whether the row is a group heading
func (r Row) IsHeader() bool {
	return r.Header != ""
}

// State holds search state
type State struct {
	Query     string
	Debounced string
	Results   *domain.SearchResults
	Flat      []FlatResult
	Active    int
	Loading   bool
	Err       string
	token     uint64
}
