package interfaces

import (
	"context"

	"billingapp/internal/domain/entities"
)

// IClientRepository abstracts DynamoDB persistence for Client.
//
// Not-found is reported as a zero-value Client, never an error, so callers
// can distinguish "absent" from "failed".
type IClientRepository interface {
	Create(ctx context.Context, c entities.Client) (entities.Client, error)
	GetByID(ctx context.Context, id string) (entities.Client, error)
	List(ctx context.Context) ([]entities.Client, error)
	Update(ctx context.Context, c entities.Client) (entities.Client, error)
	Delete(ctx context.Context, id string) (bool, error)
}
