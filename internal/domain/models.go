package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a backend identifier. The backend emits ids as either JSON strings
// or numbers depending on the table, so both decode into the same form.
type ID string

// UnmarshalJSON accepts "abc", 42 and null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// VendorResult is a vendor match
type VendorResult struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	POCount int    `json:"po_count"`
}

// POResult is a purchase order match with its line totals
type POResult struct {
	ID            ID      `json:"id"`
	PONumber      string  `json:"po_number"`
	VendorName    string  `json:"vendor_name"`
	CreatedAt     string  `json:"created_at"`
	TotalLinesQty float64 `json:"total_lines_qty"`
	EstCost       float64 `json:"est_cost"`
}

// LineResult is a purchase order line item match
type LineResult struct {
	LineID      ID      `json:"line_id"`
	POID        ID      `json:"po_id"`
	PONumber    string  `json:"po_number"`
	VendorName  string  `json:"vendor_name"`
	ProductName string  `json:"product_name_raw"`
	SynergyID   string  `json:"synergy_id"`
	UPC         string  `json:"upc"`
	ASIN        string  `json:"asin"`
	Qty         int     `json:"qty"`
	UnitCost    float64 `json:"unit_cost"`
}

// SearchResults is one response from the search endpoint
type SearchResults struct {
	Vendors []VendorResult `json:"vendors"`
	POs     []POResult     `json:"pos"`
	Lines   []LineResult   `json:"lines"`
}

// Total returns the number of matches across all categories
func (r *SearchResults) Total() int {
	if r == nil {
		return 0
	}
	return len(r.Vendors) + len(r.POs) + len(r.Lines)
}

// POPick is handed to the caller when a purchase order is selected
type POPick struct {
	ID       ID
	PONumber string
}

// LinePick is handed to the caller when a line item is selected
type LinePick struct {
	POID   ID
	LineID ID
}
