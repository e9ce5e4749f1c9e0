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

func newInvoiceUseCaseForTest(t *testing.T) (*InvoiceUseCase, *mock_interfaces.MockIInvoiceRepository, *mock_interfaces.MockIEstimateRepository, *mock_interfaces.MockIClientRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockIInvoiceRepository(ctrl)
	estimates := mock_interfaces.NewMockIEstimateRepository(ctrl)
	clients := mock_interfaces.NewMockIClientRepository(ctrl)
	uc := NewInvoiceUseCase(repo, estimates, clients, zap.NewNop())
	uc.now = testClock
	return uc, repo, estimates, clients
}

func TestInvoiceUseCase_Create(t *testing.T) {
	t.Run("client not found", func(t *testing.T) {
		uc, _, _, clients := newInvoiceUseCaseForTest(t)
		clients.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.Client{}, nil)

		_, err := uc.Create(context.Background(), NewInvoice{ClientID: "c-1"})
		if !errors.Is(err, ErrClientNotFound) {
			t.Fatalf("expected ErrClientNotFound, got %v", err)
		}
	})

	t.Run("success with computed totals", func(t *testing.T) {
		uc, repo, _, clients := newInvoiceUseCaseForTest(t)
		clients.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.Client{ID: "c-1", Name: "John Smith"}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, inv entities.Invoice) (entities.Invoice, error) {
				if inv.ID == "" {
					t.Fatalf("expected generated id")
				}
				if inv.Status != entities.InvoiceStatusDraft {
					t.Fatalf("expected draft, got %q", inv.Status)
				}
				if inv.Subtotal != 100 || inv.TaxAmount != 10 || inv.Total != 110 {
					t.Fatalf("unexpected totals: %+v", inv)
				}
				return inv, nil
			},
		)

		_, err := uc.Create(context.Background(), NewInvoice{
			ClientID: "c-1",
			TaxRate:  10,
			Items:    []entities.LineItem{{ID: "i-1", Description: "Labor", Quantity: 4, Rate: 25}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestInvoiceUseCase_CreateFromEstimate(t *testing.T) {
	estimate := entities.Estimate{
		ID:         "JS-20250407-00",
		ClientID:   "c-1",
		ClientName: "John Smith",
		Status:     entities.EstimateStatusApproved,
		TaxRate:    10,
		Items:      []entities.LineItem{{ID: "i-1", Description: "Labor", Quantity: 2, Rate: 10, Total: 20}},
		Subtotal:   20, TaxAmount: 2, Total: 22,
		Notes: "note", Terms: "terms",
	}

	t.Run("estimate not found", func(t *testing.T) {
		uc, _, estimates, _ := newInvoiceUseCaseForTest(t)
		estimates.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.Estimate{}, nil)

		_, err := uc.CreateFromEstimate(context.Background(), "missing", time.Time{})
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})

	t.Run("copies estimate with fresh item ids and default due date", func(t *testing.T) {
		uc, repo, estimates, _ := newInvoiceUseCaseForTest(t)
		estimates.EXPECT().GetByID(gomock.Any(), estimate.ID).Return(estimate, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, inv entities.Invoice) (entities.Invoice, error) {
				if inv.EstimateID != estimate.ID {
					t.Fatalf("expected estimate link, got %q", inv.EstimateID)
				}
				if inv.ClientID != "c-1" || inv.ClientName != "John Smith" {
					t.Fatalf("client not copied: %+v", inv)
				}
				if inv.Subtotal != 20 || inv.TaxAmount != 2 || inv.Total != 22 {
					t.Fatalf("totals not copied: %+v", inv)
				}
				if len(inv.Items) != 1 || inv.Items[0].ID == "i-1" {
					t.Fatalf("item ids must be regenerated: %+v", inv.Items)
				}
				want := testClock().UTC().AddDate(0, 0, 30)
				if !inv.DueDate.Equal(want) {
					t.Fatalf("expected due date %v, got %v", want, inv.DueDate)
				}
				return inv, nil
			},
		)

		_, err := uc.CreateFromEstimate(context.Background(), estimate.ID, time.Time{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestInvoiceUseCase_Update(t *testing.T) {
	existing := entities.Invoice{
		ID:       "inv-1",
		ClientID: "c-1",
		Status:   entities.InvoiceStatusDraft,
		TaxRate:  10,
		Items:    []entities.LineItem{{ID: "i-1", Description: "Labor", Quantity: 2, Rate: 10, Total: 20}},
		Subtotal: 20, TaxAmount: 2, Total: 22,
	}

	t.Run("row gone before update maps to not found", func(t *testing.T) {
		uc, repo, _, _ := newInvoiceUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), existing.ID).Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.Invoice{}, nil)

		rate := 20.0
		_, err := uc.Update(context.Background(), existing.ID, InvoiceUpdate{TaxRate: &rate})
		if !errors.Is(err, ErrInvoiceNotFound) {
			t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
		}
	})
}

func TestInvoiceUseCase_SendAndMarkOverdue(t *testing.T) {
	existing := entities.Invoice{ID: "inv-1", Status: entities.InvoiceStatusDraft}

	t.Run("send", func(t *testing.T) {
		uc, repo, _, _ := newInvoiceUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, inv entities.Invoice) (entities.Invoice, error) {
				if inv.Status != entities.InvoiceStatusSent {
					t.Fatalf("expected sent, got %q", inv.Status)
				}
				return inv, nil
			},
		)

		if _, err := uc.Send(context.Background(), "inv-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("row gone before send maps to not found", func(t *testing.T) {
		uc, repo, _, _ := newInvoiceUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.Invoice{}, nil)

		_, err := uc.Send(context.Background(), "inv-1")
		if !errors.Is(err, ErrInvoiceNotFound) {
			t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
		}
	})

	t.Run("mark overdue", func(t *testing.T) {
		uc, repo, _, _ := newInvoiceUseCaseForTest(t)
		repo.EXPECT().GetByID(gomock.Any(), "inv-1").Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, inv entities.Invoice) (entities.Invoice, error) {
				if inv.Status != entities.InvoiceStatusOverdue {
					t.Fatalf("expected overdue, got %q", inv.Status)
				}
				return inv, nil
			},
		)

		if _, err := uc.MarkOverdue(context.Background(), "inv-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestInvoiceUseCase_Delete(t *testing.T) {
	uc, repo, _, _ := newInvoiceUseCaseForTest(t)
	repo.EXPECT().Delete(gomock.Any(), "missing").Return(false, nil)

	err := uc.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}
