package entities

import (
	"encoding/json"
	"time"
)

// PaymentStatus represents the payment processing outcome.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusDeclined PaymentStatus = "declined"
)

// InvoicePayment records a settlement attempt against an invoice.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (invoice_id-index): invoice_id
//
// Provider payload:
//   - ProviderPayloadRaw keeps the original body (JSON) for traceability.
//   - ProviderPayload is an optional parsed representation, useful for
//     querying/debugging. Both are persisted because provider schemas vary.
type InvoicePayment struct {
	ID        string        `json:"id"`
	InvoiceID string        `json:"invoice_id"`
	Date      time.Time     `json:"date"`
	Status    PaymentStatus `json:"status"`

	ProviderPayloadRaw json.RawMessage        `json:"provider_payload_raw,omitempty"`
	ProviderPayload    map[string]interface{} `json:"provider_payload,omitempty"`
}
