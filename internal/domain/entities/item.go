package entities

import "time"

// ItemCategory classifies catalog items and estimate/invoice line items.
type ItemCategory string

const (
	ItemCategoryLabor     ItemCategory = "labor"
	ItemCategoryMaterials ItemCategory = "materials"
	ItemCategoryOther     ItemCategory = "other"
)

func (c ItemCategory) Valid() bool {
	switch c {
	case ItemCategoryLabor, ItemCategoryMaterials, ItemCategoryOther:
		return true
	}
	return false
}

// CatalogItem is a saved billable item available for one-click insertion
// into an estimate.
//
// Storage model (DynamoDB):
//   - PK: id
type CatalogItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Category    ItemCategory `json:"category"`
	Rate        float64      `json:"rate"`
	Taxable     bool         `json:"tax"`
	UserID      string       `json:"user_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
