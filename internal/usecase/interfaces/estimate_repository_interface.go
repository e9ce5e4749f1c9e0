package interfaces

import (
	"context"

	"billingapp/internal/domain/entities"
)

// IEstimateRepository abstracts DynamoDB persistence for Estimate and its
// line items.
//
// The service must be able to:
//   - create an estimate header plus its items
//   - list existing identifiers for number generation
//   - replace the item set wholesale on update (delete-then-insert; the two
//     steps are not atomic, a failure in between strands an itemless
//     estimate, which is accepted behavior and not mitigated)
type IEstimateRepository interface {
	Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	List(ctx context.Context) ([]entities.Estimate, error)
	ListIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	ReplaceItems(ctx context.Context, estimateID string, items []entities.LineItem) error
	Delete(ctx context.Context, id string) (bool, error)
}
