package interfaces

import (
	"context"

	"billingapp/internal/domain/entities"
)

// ICatalogItemRepository abstracts DynamoDB persistence for CatalogItem.
type ICatalogItemRepository interface {
	Create(ctx context.Context, it entities.CatalogItem) (entities.CatalogItem, error)
	GetByID(ctx context.Context, id string) (entities.CatalogItem, error)
	List(ctx context.Context) ([]entities.CatalogItem, error)
	Update(ctx context.Context, it entities.CatalogItem) (entities.CatalogItem, error)
	Delete(ctx context.Context, id string) (bool, error)
}
