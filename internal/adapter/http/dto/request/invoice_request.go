package request

import (
	"time"

	"billingapp/internal/usecase"
)

type InvoiceRequest struct {
	ClientID   string            `json:"client_id" binding:"required"`
	Date       time.Time         `json:"date"`
	DueDate    time.Time         `json:"due_date"`
	TaxRate    float64           `json:"tax_rate"`
	Items      []LineItemRequest `json:"items"`
	Notes      string            `json:"notes"`
	Terms      string            `json:"terms"`
	EstimateID string            `json:"estimate_id"`
}

func (r InvoiceRequest) ToNewInvoice(userID string) (usecase.NewInvoice, error) {
	items, err := resolveLineItems(r.Items)
	if err != nil {
		return usecase.NewInvoice{}, err
	}
	return usecase.NewInvoice{
		ClientID:   r.ClientID,
		Date:       r.Date,
		DueDate:    r.DueDate,
		TaxRate:    r.TaxRate,
		Items:      items,
		Notes:      r.Notes,
		Terms:      r.Terms,
		EstimateID: r.EstimateID,
		UserID:     userID,
	}, nil
}

// InvoiceFromEstimateRequest derives a new invoice from an existing
// estimate; DueDate defaults server-side when zero.
type InvoiceFromEstimateRequest struct {
	EstimateID string    `json:"estimate_id" binding:"required"`
	DueDate    time.Time `json:"due_date"`
}

// InvoiceUpdateRequest is a partial update payload; absent fields are left
// untouched. A non-nil Items replaces the whole item set.
type InvoiceUpdateRequest struct {
	Date    *time.Time         `json:"date"`
	DueDate *time.Time         `json:"due_date"`
	TaxRate *float64           `json:"tax_rate"`
	Items   *[]LineItemRequest `json:"items"`
	Notes   *string            `json:"notes"`
	Terms   *string            `json:"terms"`
}

func (r InvoiceUpdateRequest) ToInvoiceUpdate() (usecase.InvoiceUpdate, error) {
	upd := usecase.InvoiceUpdate{
		Date:    r.Date,
		DueDate: r.DueDate,
		TaxRate: r.TaxRate,
		Notes:   r.Notes,
		Terms:   r.Terms,
	}
	if r.Items != nil {
		items, err := resolveLineItems(*r.Items)
		if err != nil {
			return usecase.InvoiceUpdate{}, err
		}
		upd.Items = &items
	}
	return upd, nil
}
