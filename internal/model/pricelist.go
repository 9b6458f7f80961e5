package model

const (
	DefaultPriceCategory = "General"
	DefaultPriceUnit     = "Per Piece"
)

// PriceListItem is one row of the admin-maintained medicine price list
type PriceListItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Generic  string `json:"generic"`
	Company  string `json:"company"`
	Price    string `json:"price"`
	Category string `json:"category,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// UpsertPriceItemRequest updates the item named by ID, or inserts a new one
// when ID is empty.
type UpsertPriceItemRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Generic  string `json:"generic"`
	Company  string `json:"company"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
}
