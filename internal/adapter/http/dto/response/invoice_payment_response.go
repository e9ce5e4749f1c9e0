package response

import (
	"time"

	"billingapp/internal/domain/entities"
)

type InvoicePaymentResponse struct {
	ID              string                 `json:"id"`
	InvoiceID       string                 `json:"invoice_id"`
	Date            time.Time              `json:"date"`
	Status          string                 `json:"status"`
	ProviderPayload map[string]interface{} `json:"provider_payload,omitempty"`
}

func FromInvoicePayment(p entities.InvoicePayment) InvoicePaymentResponse {
	return InvoicePaymentResponse{
		ID:              p.ID,
		InvoiceID:       p.InvoiceID,
		Date:            p.Date,
		Status:          string(p.Status),
		ProviderPayload: p.ProviderPayload,
	}
}
