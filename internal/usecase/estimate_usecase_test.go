package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"billingapp/internal/domain/entities"
	mock_interfaces "billingapp/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var testClock = func() time.Time {
	return time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
}

func newEstimateUseCaseForTest(t *testing.T) (*EstimateUseCase, *mock_interfaces.MockIEstimateRepository, *mock_interfaces.MockIClientRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockIEstimateRepository(ctrl)
	clients := mock_interfaces.NewMockIClientRepository(ctrl)
	uc := NewEstimateUseCase(repo, clients, zap.NewNop())
	uc.now = testClock
	return uc, repo, clients
}

func TestEstimateUseCase_Create(t *testing.T) {
	t.Run("invalid client id", func(t *testing.T) {
		uc, _, _ := newEstimateUseCaseForTest(t)
		_, err := uc.Create(context.Background(), NewEstimate{ClientID: "   "})
		if !errors.Is(err, ErrInvalidClientID) {
			t.Fatalf("expected ErrInvalidClientID, got %v", err)
		}
	})

	t.Run("client not found", func(t *testing.T) {
		uc, _, clients := newEstimateUseCaseForTest(t)
		clients.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.Client{}, nil)

		_, err := uc.Create(context.Background(), NewEstimate{ClientID: "c-1"})
		if !errors.Is(err, ErrClientNotFound) {
			t.Fatalf("expected ErrClientNotFound, got %v", err)
		}
	})

	t.Run("invalid line item aborts creation", func(t *testing.T) {
		uc, _, clients := newEstimateUseCaseForTest(t)
		clients.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.Client{ID: "c-1", Name: "John Smith"}, nil)

		_, err := uc.Create(context.Background(), NewEstimate{
			ClientID: "c-1",
			Items:    []entities.LineItem{{ID: "i-1"}}, // no description
		})
		if !errors.Is(err, ErrInvalidLineItem) {
			t.Fatalf("expected ErrInvalidLineItem, got %v", err)
		}
	})

	t.Run("create success computes totals and number", func(t *testing.T) {
		uc, repo, clients := newEstimateUseCaseForTest(t)
		clients.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.Client{ID: "c-1", Name: "John Smith"}, nil)
		repo.EXPECT().ListIDs(gomock.Any()).Return([]string{"JS-20250407-00"}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Estimate{})).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.ID != "JS-20250407-01" {
					t.Fatalf("unexpected estimate number %q", e.ID)
				}
				if e.ClientName != "John Smith" || e.Status != entities.EstimateStatusDraft {
					t.Fatalf("unexpected estimate: %+v", e)
				}
				if e.Subtotal != 25 || e.TaxAmount != 2.5 || e.Total != 27.5 {
					t.Fatalf("unexpected totals: %+v", e)
				}
				if len(e.Items) != 2 {
					t.Fatalf("expected 2 items, got %d", len(e.Items))
				}
				if e.Items[0].Total != 20 || e.Items[1].Total != 5 {
					t.Fatalf("unexpected item totals: %+v", e.Items)
				}
				if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
					t.Fatalf("expected timestamps")
				}
				return e, nil
			},
		)

		created, err := uc.Create(context.Background(), NewEstimate{
			ClientID: " c-1 ",
			TaxRate:  10,
			Items: []entities.LineItem{
				{ID: "i-1", Description: "Labor", Quantity: 2, Rate: 10},
				{ID: "i-2", Description: "Paint", Quantity: 1, Rate: 5},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ID != "JS-20250407-01" {
			t.Fatalf("unexpected id %q", created.ID)
		}
	})

	t.Run("zero quantity corrected before totals", func(t *testing.T) {
		uc, repo, clients := newEstimateUseCaseForTest(t)
		clients.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.Client{ID: "c-1", Name: "John Smith"}, nil)
		repo.EXPECT().ListIDs(gomock.Any()).Return(nil, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.Items[0].Quantity != 1 || e.Items[0].Total != 30 {
					t.Fatalf("expected quantity corrected to 1 with total 30, got %+v", e.Items[0])
				}
				return e, nil
			},
		)

		_, err := uc.Create(context.Background(), NewEstimate{
			ClientID: "c-1",
			Items:    []entities.LineItem{{ID: "i-1", Description: "Labor", Quantity: 0, Rate: 30}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("repo list ids error", func(t *testing.T) {
		uc, repo, clients := newEstimateUseCaseForTest(t)
		clients.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.Client{ID: "c-1", Name: "John Smith"}, nil)
		repo.EXPECT().ListIDs(gomock.Any()).Return(nil, errors.New("db"))

		_, err := uc.Create(context.Background(), NewEstimate{ClientID: "c-1"})
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestEstimateUseCase_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc, _, _ := newEstimateUseCaseForTest(t)
		_, err := uc.GetByID(context.Background(), "  ")
		if !errors.Is(err, ErrInvalidEstimateID) {
			t.Fatalf("expected ErrInvalidEstimateID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc, repo, _ := newEstimateUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), "JS-20250407-00").Return(entities.Estimate{}, nil)

		_, err := uc.GetByID(context.Background(), "JS-20250407-00")
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})
}

func TestEstimateUseCase_Update(t *testing.T) {
	existing := entities.Estimate{
		ID:         "JS-20250407-00",
		ClientID:   "c-1",
		ClientName: "John Smith",
		Status:     entities.EstimateStatusDraft,
		TaxRate:    10,
		Items:      []entities.LineItem{{ID: "i-1", Description: "Labor", Quantity: 2, Rate: 10, Total: 20}},
		Subtotal:   20, TaxAmount: 2, Total: 22,
	}

	t.Run("tax rate change alone recomputes totals", func(t *testing.T) {
		uc, repo, _ := newEstimateUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.TaxRate != 20 || e.TaxAmount != 4 || e.Total != 24 {
					t.Fatalf("unexpected totals: %+v", e)
				}
				if len(e.Items) != 1 {
					t.Fatalf("items must be untouched")
				}
				return e, nil
			},
		)

		rate := 20.0
		_, err := uc.Update(context.Background(), existing.ID, EstimateUpdate{TaxRate: &rate})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("items replacement goes through delete-then-insert", func(t *testing.T) {
		uc, repo, _ := newEstimateUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
		repo.EXPECT().ReplaceItems(gomock.Any(), existing.ID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, items []entities.LineItem) error {
				if len(items) != 1 || items[0].Total != 50 {
					t.Fatalf("unexpected replacement items: %+v", items)
				}
				return nil
			},
		)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
				if e.Subtotal != 50 || e.TaxAmount != 5 || e.Total != 55 {
					t.Fatalf("unexpected totals: %+v", e)
				}
				return e, nil
			},
		)

		items := []entities.LineItem{{ID: "i-2", Description: "Tiles", Quantity: 5, Rate: 10}}
		_, err := uc.Update(context.Background(), existing.ID, EstimateUpdate{Items: &items})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("row gone before update maps to not found", func(t *testing.T) {
		uc, repo, _ := newEstimateUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.Estimate{}, nil)

		rate := 20.0
		_, err := uc.Update(context.Background(), existing.ID, EstimateUpdate{TaxRate: &rate})
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})

	t.Run("replacement failure surfaces", func(t *testing.T) {
		uc, repo, _ := newEstimateUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
		repo.EXPECT().ReplaceItems(gomock.Any(), existing.ID, gomock.Any()).Return(errors.New("insert failed"))

		items := []entities.LineItem{{ID: "i-2", Description: "Tiles", Quantity: 5, Rate: 10}}
		_, err := uc.Update(context.Background(), existing.ID, EstimateUpdate{Items: &items})
		if err == nil || err.Error() != "insert failed" {
			t.Fatalf("expected insert failed, got %v", err)
		}
	})
}

func TestEstimateUseCase_StatusTransitions(t *testing.T) {
	existing := entities.Estimate{ID: "JS-20250407-00", Status: entities.EstimateStatusDraft}

	cases := []struct {
		name string
		call func(uc *EstimateUseCase) (entities.Estimate, error)
		want entities.EstimateStatus
	}{
		{"pending", func(uc *EstimateUseCase) (entities.Estimate, error) {
			return uc.MarkPending(context.Background(), existing.ID)
		}, entities.EstimateStatusPending},
		{"approved", func(uc *EstimateUseCase) (entities.Estimate, error) {
			return uc.Approve(context.Background(), existing.ID)
		}, entities.EstimateStatusApproved},
		{"declined", func(uc *EstimateUseCase) (entities.Estimate, error) {
			return uc.Decline(context.Background(), existing.ID)
		}, entities.EstimateStatusDeclined},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, repo, _ := newEstimateUseCaseForTest(t)
			repo.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
			repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
					if e.Status != tc.want {
						t.Fatalf("expected status %q, got %q", tc.want, e.Status)
					}
					return e, nil
				},
			)

			got, err := tc.call(uc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got.Status)
			}
		})
	}

	t.Run("row gone before status update maps to not found", func(t *testing.T) {
		uc, repo, _ := newEstimateUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.Estimate{}, nil)

		_, err := uc.Approve(context.Background(), existing.ID)
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})
}

func TestEstimateUseCase_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		uc, repo, _ := newEstimateUseCaseForTest(t)
		repo.EXPECT().Delete(gomock.Any(), "missing").Return(false, nil)

		err := uc.Delete(context.Background(), "missing")
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		uc, repo, _ := newEstimateUseCaseForTest(t)
		repo.EXPECT().Delete(gomock.Any(), "JS-20250407-00").Return(true, nil)

		if err := uc.Delete(context.Background(), "JS-20250407-00"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
