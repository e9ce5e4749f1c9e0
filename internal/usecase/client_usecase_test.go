package usecase

import (
	"context"
	"errors"
	"testing"

	"billingapp/internal/domain/entities"
	mock_interfaces "billingapp/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newClientUseCaseForTest(t *testing.T) (*ClientUseCase, *mock_interfaces.MockIClientRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockIClientRepository(ctrl)
	return NewClientUseCase(repo, zap.NewNop()), repo
}

func TestClientUseCase_Create(t *testing.T) {
	t.Run("blank name", func(t *testing.T) {
		uc, _ := newClientUseCaseForTest(t)
		_, err := uc.Create(context.Background(), NewClient{Name: "   "})
		if !errors.Is(err, ErrInvalidClientName) {
			t.Fatalf("expected ErrInvalidClientName, got %v", err)
		}
	})

	t.Run("success trims fields", func(t *testing.T) {
		uc, repo := newClientUseCaseForTest(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, c entities.Client) (entities.Client, error) {
				if c.ID == "" {
					t.Fatalf("expected generated id")
				}
				if c.Name != "John Smith" || c.Email != "john@example.com" {
					t.Fatalf("fields not trimmed: %+v", c)
				}
				return c, nil
			},
		)

		_, err := uc.Create(context.Background(), NewClient{Name: " John Smith ", Email: " john@example.com "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestClientUseCase_Update(t *testing.T) {
	existing := entities.Client{ID: "c-1", Name: "John Smith", Email: "john@example.com"}

	t.Run("not found", func(t *testing.T) {
		uc, repo := newClientUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.Client{}, nil)

		_, err := uc.Update(context.Background(), "c-1", ClientUpdate{})
		if !errors.Is(err, ErrClientNotFound) {
			t.Fatalf("expected ErrClientNotFound, got %v", err)
		}
	})

	t.Run("partial update leaves other fields", func(t *testing.T) {
		uc, repo := newClientUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, c entities.Client) (entities.Client, error) {
				if c.Phone != "555-0100" || c.Email != "john@example.com" {
					t.Fatalf("unexpected client: %+v", c)
				}
				return c, nil
			},
		)

		phone := "555-0100"
		_, err := uc.Update(context.Background(), "c-1", ClientUpdate{Phone: &phone})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestCatalogItemUseCase_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockICatalogItemRepository(ctrl)
	uc := NewCatalogItemUseCase(repo, zap.NewNop())

	t.Run("negative rate rejected", func(t *testing.T) {
		_, err := uc.Create(context.Background(), NewCatalogItem{Name: "Paint", Rate: -1})
		if !errors.Is(err, ErrInvalidItemRate) {
			t.Fatalf("expected ErrInvalidItemRate, got %v", err)
		}
	})

	t.Run("invalid category falls back to other", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, it entities.CatalogItem) (entities.CatalogItem, error) {
				if it.Category != entities.ItemCategoryOther {
					t.Fatalf("expected other, got %q", it.Category)
				}
				return it, nil
			},
		)

		_, err := uc.Create(context.Background(), NewCatalogItem{Name: "Paint", Rate: 12, Category: "bogus"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
