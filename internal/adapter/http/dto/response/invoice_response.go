package response

import (
	"time"

	"billingapp/internal/domain/entities"
)

type InvoiceResponse struct {
	ID         string             `json:"id"`
	ClientID   string             `json:"client_id"`
	ClientName string             `json:"client_name"`
	Status     string             `json:"status"`
	Date       time.Time          `json:"date"`
	DueDate    time.Time          `json:"due_date"`
	Items      []LineItemResponse `json:"items"`
	Subtotal   float64            `json:"subtotal"`
	TaxRate    float64            `json:"tax_rate"`
	TaxAmount  float64            `json:"tax_amount"`
	Total      float64            `json:"total"`
	Notes      string             `json:"notes,omitempty"`
	Terms      string             `json:"terms,omitempty"`
	EstimateID string             `json:"estimate_id,omitempty"`
	PaidDate   *time.Time         `json:"paid_date,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func FromInvoice(inv entities.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:         inv.ID,
		ClientID:   inv.ClientID,
		ClientName: inv.ClientName,
		Status:     string(inv.Status),
		Date:       inv.Date,
		DueDate:    inv.DueDate,
		Items:      fromLineItems(inv.Items),
		Subtotal:   inv.Subtotal,
		TaxRate:    inv.TaxRate,
		TaxAmount:  inv.TaxAmount,
		Total:      inv.Total,
		Notes:      inv.Notes,
		Terms:      inv.Terms,
		EstimateID: inv.EstimateID,
		PaidDate:   inv.PaidDate,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
}

func FromInvoices(invoices []entities.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, FromInvoice(inv))
	}
	return out
}
