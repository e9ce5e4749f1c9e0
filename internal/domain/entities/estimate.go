package entities

import "time"

// EstimateStatus represents the lifecycle of an estimate.
//
// Domain notes:
//   - Estimates start as drafts, are sent to the client (pending), and end
//     approved or declined.
type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusPending  EstimateStatus = "pending"
	EstimateStatusApproved EstimateStatus = "approved"
	EstimateStatusDeclined EstimateStatus = "declined"
)

// LineItem is one billable row on an estimate or invoice.
//
// Invariant: Total == Quantity * Rate after every mutation. The editing
// session (internal/domain/billing) recomputes Total whenever either factor
// changes; repositories persist the stored value as-is.
//
// The Taxable flag is informational only: tax applies uniformly to the whole
// subtotal, not per line.
type LineItem struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Quantity    float64      `json:"quantity"`
	Rate        float64      `json:"rate"`
	Taxable     bool         `json:"tax"`
	Total       float64      `json:"total"`
	Category    ItemCategory `json:"category"`
	CreatedAt   time.Time    `json:"created_at,omitempty"`
}

// Estimate is a quote issued to a client.
//
// Storage model (DynamoDB):
//   - estimates table, PK: id
//   - estimate_items table, PK: id, GSI estimate_id-index
//
// The ID is the human-readable estimate number ("JS-20250407-00"), generated
// once at creation and never mutated.
type Estimate struct {
	ID             string         `json:"id"`
	ClientID       string         `json:"client_id"`
	ClientName     string         `json:"client_name"`
	Status         EstimateStatus `json:"status"`
	Date           time.Time      `json:"date"`
	ExpirationDate time.Time      `json:"expiration_date"`
	Items          []LineItem     `json:"items"`
	Subtotal       float64        `json:"subtotal"`
	TaxRate        float64        `json:"tax_rate"`
	TaxAmount      float64        `json:"tax_amount"`
	Total          float64        `json:"total"`
	Notes          string         `json:"notes,omitempty"`
	Terms          string         `json:"terms,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
