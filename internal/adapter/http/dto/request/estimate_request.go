package request

import (
	"errors"
	"strings"
	"time"

	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase"
)

var ErrInvalidLineItemPayload = errors.New("invalid line item payload")

// LineItemRequest mirrors one billable row. The client may send a stale
// total; the editing session recomputes it server-side.
type LineItemRequest struct {
	ID          string  `json:"id"`
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Taxable     bool    `json:"tax"`
	Total       float64 `json:"total"`
	Category    string  `json:"category"`
}

func (r LineItemRequest) ToLineItem() (entities.LineItem, error) {
	if strings.TrimSpace(r.ID) == "" {
		return entities.LineItem{}, ErrInvalidLineItemPayload
	}
	return entities.LineItem{
		ID:          strings.TrimSpace(r.ID),
		Description: r.Description,
		Quantity:    r.Quantity,
		Rate:        r.Rate,
		Taxable:     r.Taxable,
		Total:       r.Total,
		Category:    entities.ItemCategory(r.Category),
	}, nil
}

type EstimateRequest struct {
	ClientID       string            `json:"client_id" binding:"required"`
	Date           time.Time         `json:"date"`
	ExpirationDate time.Time         `json:"expiration_date"`
	TaxRate        float64           `json:"tax_rate"`
	Items          []LineItemRequest `json:"items"`
	Notes          string            `json:"notes"`
	Terms          string            `json:"terms"`
}

func (r EstimateRequest) ToNewEstimate(userID string) (usecase.NewEstimate, error) {
	items, err := resolveLineItems(r.Items)
	if err != nil {
		return usecase.NewEstimate{}, err
	}
	return usecase.NewEstimate{
		ClientID:       r.ClientID,
		Date:           r.Date,
		ExpirationDate: r.ExpirationDate,
		TaxRate:        r.TaxRate,
		Items:          items,
		Notes:          r.Notes,
		Terms:          r.Terms,
		UserID:         userID,
	}, nil
}

// EstimateUpdateRequest is a partial update payload; absent fields are left
// untouched. A non-nil Items replaces the whole item set.
type EstimateUpdateRequest struct {
	Date           *time.Time         `json:"date"`
	ExpirationDate *time.Time         `json:"expiration_date"`
	TaxRate        *float64           `json:"tax_rate"`
	Items          *[]LineItemRequest `json:"items"`
	Notes          *string            `json:"notes"`
	Terms          *string            `json:"terms"`
}

func (r EstimateUpdateRequest) ToEstimateUpdate() (usecase.EstimateUpdate, error) {
	upd := usecase.EstimateUpdate{
		Date:           r.Date,
		ExpirationDate: r.ExpirationDate,
		TaxRate:        r.TaxRate,
		Notes:          r.Notes,
		Terms:          r.Terms,
	}
	if r.Items != nil {
		items, err := resolveLineItems(*r.Items)
		if err != nil {
			return usecase.EstimateUpdate{}, err
		}
		upd.Items = &items
	}
	return upd, nil
}

func resolveLineItems(reqs []LineItemRequest) ([]entities.LineItem, error) {
	items := make([]entities.LineItem, 0, len(reqs))
	for _, ir := range reqs {
		item, err := ir.ToLineItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
