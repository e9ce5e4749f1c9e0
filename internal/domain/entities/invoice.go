package entities

import "time"

// InvoiceStatus represents the lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice is a bill issued to a client, optionally derived from an approved
// estimate (EstimateID keeps the linkage).
//
// Storage model (DynamoDB):
//   - invoices table, PK: id
//   - invoice_items table, PK: id, GSI invoice_id-index
type Invoice struct {
	ID         string        `json:"id"`
	ClientID   string        `json:"client_id"`
	ClientName string        `json:"client_name"`
	Status     InvoiceStatus `json:"status"`
	Date       time.Time     `json:"date"`
	DueDate    time.Time     `json:"due_date"`
	Items      []LineItem    `json:"items"`
	Subtotal   float64       `json:"subtotal"`
	TaxRate    float64       `json:"tax_rate"`
	TaxAmount  float64       `json:"tax_amount"`
	Total      float64       `json:"total"`
	Notes      string        `json:"notes,omitempty"`
	Terms      string        `json:"terms,omitempty"`
	EstimateID string        `json:"estimate_id,omitempty"`
	PaidDate   *time.Time    `json:"paid_date,omitempty"`
	UserID     string        `json:"user_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
