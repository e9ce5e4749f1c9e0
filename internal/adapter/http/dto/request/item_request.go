package request

import (
	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase"
)

type CatalogItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Rate        float64 `json:"rate"`
	Taxable     bool    `json:"tax"`
}

func (r CatalogItemRequest) ToNewCatalogItem(userID string) usecase.NewCatalogItem {
	return usecase.NewCatalogItem{
		Name:        r.Name,
		Description: r.Description,
		Category:    entities.ItemCategory(r.Category),
		Rate:        r.Rate,
		Taxable:     r.Taxable,
		UserID:      userID,
	}
}

// CatalogItemUpdateRequest is a partial update payload; absent fields are
// left untouched.
type CatalogItemUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Rate        *float64 `json:"rate"`
	Taxable     *bool    `json:"tax"`
}

func (r CatalogItemUpdateRequest) ToCatalogItemUpdate() usecase.CatalogItemUpdate {
	upd := usecase.CatalogItemUpdate{
		Name:        r.Name,
		Description: r.Description,
		Rate:        r.Rate,
		Taxable:     r.Taxable,
	}
	if r.Category != nil {
		category := entities.ItemCategory(*r.Category)
		upd.Category = &category
	}
	return upd
}
