package interfaces

import (
	"context"
	"time"

	"billingapp/internal/domain/entities"
)

// IInvoiceRepository abstracts DynamoDB persistence for Invoice and its
// line items. Item replacement follows the estimate repository's
// delete-then-insert contract.
type IInvoiceRepository interface {
	Create(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	GetByID(ctx context.Context, id string) (entities.Invoice, error)
	List(ctx context.Context) ([]entities.Invoice, error)
	Update(ctx context.Context, inv entities.Invoice) (entities.Invoice, error)
	ReplaceItems(ctx context.Context, invoiceID string, items []entities.LineItem) error
	MarkPaid(ctx context.Context, id string, paidDate time.Time) (entities.Invoice, error)
	Delete(ctx context.Context, id string) (bool, error)
}
