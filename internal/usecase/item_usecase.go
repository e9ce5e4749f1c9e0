package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCatalogItemNotFound = errors.New("catalog item not found")
	ErrInvalidItemID       = errors.New("invalid item id")
	ErrInvalidItemName     = errors.New("invalid item name")
	ErrInvalidItemRate     = errors.New("invalid item rate")
)

// ICatalogItemUseCase exposes the saved-items catalog. Estimates consume it
// for one-click line-item insertion.
type ICatalogItemUseCase interface {
	Create(ctx context.Context, in NewCatalogItem) (entities.CatalogItem, error)
	GetByID(ctx context.Context, id string) (entities.CatalogItem, error)
	List(ctx context.Context) ([]entities.CatalogItem, error)
	Update(ctx context.Context, id string, upd CatalogItemUpdate) (entities.CatalogItem, error)
	Delete(ctx context.Context, id string) error
}

type NewCatalogItem struct {
	Name        string
	Description string
	Category    entities.ItemCategory
	Rate        float64
	Taxable     bool
	UserID      string
}

// CatalogItemUpdate is a partial update; nil fields are left untouched.
type CatalogItemUpdate struct {
	Name        *string
	Description *string
	Category    *entities.ItemCategory
	Rate        *float64
	Taxable     *bool
}

type CatalogItemUseCase struct {
	repo interfaces.ICatalogItemRepository
	log  *zap.Logger
}

var _ ICatalogItemUseCase = (*CatalogItemUseCase)(nil)

func NewCatalogItemUseCase(repo interfaces.ICatalogItemRepository, log *zap.Logger) *CatalogItemUseCase {
	return &CatalogItemUseCase{repo: repo, log: log}
}

func (u *CatalogItemUseCase) Create(ctx context.Context, in NewCatalogItem) (entities.CatalogItem, error) {
	if strings.TrimSpace(in.Name) == "" {
		return entities.CatalogItem{}, ErrInvalidItemName
	}
	if in.Rate < 0 {
		return entities.CatalogItem{}, ErrInvalidItemRate
	}
	category := in.Category
	if !category.Valid() {
		category = entities.ItemCategoryOther
	}

	now := time.Now().UTC()
	it := entities.CatalogItem{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    category,
		Rate:        in.Rate,
		Taxable:     in.Taxable,
		UserID:      in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := u.repo.Create(ctx, it)
	if err != nil {
		u.log.Error("catalog item create failed", zap.Error(err))
		return entities.CatalogItem{}, err
	}
	u.log.Info("catalog item created", zap.String("item_id", created.ID))
	return created, nil
}

func (u *CatalogItemUseCase) GetByID(ctx context.Context, id string) (entities.CatalogItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.CatalogItem{}, ErrInvalidItemID
	}

	it, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.CatalogItem{}, err
	}
	if it.ID == "" {
		return entities.CatalogItem{}, ErrCatalogItemNotFound
	}
	return it, nil
}

// List returns all catalog items, newest first.
func (u *CatalogItemUseCase) List(ctx context.Context) ([]entities.CatalogItem, error) {
	items, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (u *CatalogItemUseCase) Update(ctx context.Context, id string, upd CatalogItemUpdate) (entities.CatalogItem, error) {
	existing, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.CatalogItem{}, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return entities.CatalogItem{}, ErrInvalidItemName
		}
		existing.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		existing.Description = *upd.Description
	}
	if upd.Category != nil {
		if !upd.Category.Valid() {
			existing.Category = entities.ItemCategoryOther
		} else {
			existing.Category = *upd.Category
		}
	}
	if upd.Rate != nil {
		if *upd.Rate < 0 {
			return entities.CatalogItem{}, ErrInvalidItemRate
		}
		existing.Rate = *upd.Rate
	}
	if upd.Taxable != nil {
		existing.Taxable = *upd.Taxable
	}
	existing.UpdatedAt = time.Now().UTC()

	updated, err := u.repo.Update(ctx, existing)
	if err != nil {
		u.log.Error("catalog item update failed", zap.String("item_id", id), zap.Error(err))
		return entities.CatalogItem{}, err
	}
	return updated, nil
}

func (u *CatalogItemUseCase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidItemID
	}

	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		u.log.Error("catalog item delete failed", zap.String("item_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return ErrCatalogItemNotFound
	}
	u.log.Info("catalog item deleted", zap.String("item_id", id))
	return nil
}
