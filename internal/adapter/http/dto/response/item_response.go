package response

import (
	"time"

	"billingapp/internal/domain/entities"
)

type CatalogItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Rate        float64   `json:"rate"`
	Taxable     bool      `json:"tax"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromCatalogItem(it entities.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Category:    string(it.Category),
		Rate:        it.Rate,
		Taxable:     it.Taxable,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func FromCatalogItems(items []entities.CatalogItem) []CatalogItemResponse {
	out := make([]CatalogItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, FromCatalogItem(it))
	}
	return out
}
