package response

import (
	"time"

	"billingapp/internal/domain/entities"
)

type LineItemResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Taxable     bool    `json:"tax"`
	Total       float64 `json:"total"`
	Category    string  `json:"category"`
}

func fromLineItems(items []entities.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LineItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Taxable:     it.Taxable,
			Total:       it.Total,
			Category:    string(it.Category),
		})
	}
	return out
}

// EstimateResponse carries both the row id and the human-readable estimate
// number; they are the same value by construction.
type EstimateResponse struct {
	ID             string             `json:"id"`
	EstimateNumber string             `json:"estimate_number"`
	ClientID       string             `json:"client_id"`
	ClientName     string             `json:"client_name"`
	Status         string             `json:"status"`
	Date           time.Time          `json:"date"`
	ExpirationDate time.Time          `json:"expiration_date"`
	Items          []LineItemResponse `json:"items"`
	Subtotal       float64            `json:"subtotal"`
	TaxRate        float64            `json:"tax_rate"`
	TaxAmount      float64            `json:"tax_amount"`
	Total          float64            `json:"total"`
	Notes          string             `json:"notes,omitempty"`
	Terms          string             `json:"terms,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func FromEstimate(e entities.Estimate) EstimateResponse {
	return EstimateResponse{
		ID:             e.ID,
		EstimateNumber: e.ID,
		ClientID:       e.ClientID,
		ClientName:     e.ClientName,
		Status:         string(e.Status),
		Date:           e.Date,
		ExpirationDate: e.ExpirationDate,
		Items:          fromLineItems(e.Items),
		Subtotal:       e.Subtotal,
		TaxRate:        e.TaxRate,
		TaxAmount:      e.TaxAmount,
		Total:          e.Total,
		Notes:          e.Notes,
		Terms:          e.Terms,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromEstimates(estimates []entities.Estimate) []EstimateResponse {
	out := make([]EstimateResponse, 0, len(estimates))
	for _, e := range estimates {
		out = append(out, FromEstimate(e))
	}
	return out
}
