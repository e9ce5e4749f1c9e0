package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"billingapp/internal/domain/entities"
	mock_interfaces "billingapp/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type paymentMocks struct {
	repo     *mock_interfaces.MockIInvoicePaymentRepository
	invoices *mock_interfaces.MockIInvoiceRepository
	gateway  *mock_interfaces.MockIPaymentGateway
}

func newPaymentUseCaseForTest(t *testing.T) (*InvoicePaymentUseCase, paymentMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := paymentMocks{
		repo:     mock_interfaces.NewMockIInvoicePaymentRepository(ctrl),
		invoices: mock_interfaces.NewMockIInvoiceRepository(ctrl),
		gateway:  mock_interfaces.NewMockIPaymentGateway(ctrl),
	}
	uc := NewInvoicePaymentUseCase(m.repo, m.invoices, m.gateway, zap.NewNop())
	uc.now = testClock
	return uc, m
}

func sentInvoice() entities.Invoice {
	return entities.Invoice{
		ID:         "inv-1",
		ClientName: "John Smith",
		Status:     entities.InvoiceStatusSent,
		Total:      150.5,
	}
}

func TestInvoicePaymentUseCase_CreateAndSettle(t *testing.T) {
	t.Setenv("PAYMENT_GATEWAY_MOCK", "")
	t.Setenv("MERCADOPAGO_MOCK", "")

	payload := json.RawMessage(`{"payer":{"id":"cust-1"},"payment_method_id":"pix"}`)

	t.Run("empty invoice id", func(t *testing.T) {
		uc, _ := newPaymentUseCaseForTest(t)
		_, err := uc.CreateAndSettle(context.Background(), "  ", payload)
		if !errors.Is(err, ErrInvalidInvoiceID) {
			t.Fatalf("expected ErrInvalidInvoiceID, got %v", err)
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		uc, _ := newPaymentUseCaseForTest(t)
		_, err := uc.CreateAndSettle(context.Background(), "inv-1", json.RawMessage("{not json"))
		if !errors.Is(err, ErrInvalidProviderPayload) {
			t.Fatalf("expected ErrInvalidProviderPayload, got %v", err)
		}
	})

	t.Run("invoice not found", func(t *testing.T) {
		uc, m := newPaymentUseCaseForTest(t)
		m.invoices.EXPECT().GetByID(gomock.Any(), "inv-1").Return(entities.Invoice{}, nil)

		_, err := uc.CreateAndSettle(context.Background(), "inv-1", payload)
		if !errors.Is(err, ErrInvoiceNotFound) {
			t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
		}
	})

	t.Run("draft invoice is not payable", func(t *testing.T) {
		uc, m := newPaymentUseCaseForTest(t)
		inv := sentInvoice()
		inv.Status = entities.InvoiceStatusDraft
		m.invoices.EXPECT().GetByID(gomock.Any(), "inv-1").Return(inv, nil)

		_, err := uc.CreateAndSettle(context.Background(), "inv-1", payload)
		if !errors.Is(err, ErrInvoiceNotPayable) {
			t.Fatalf("expected ErrInvoiceNotPayable, got %v", err)
		}
	})

	t.Run("approved payment marks invoice paid", func(t *testing.T) {
		uc, m := newPaymentUseCaseForTest(t)
		m.invoices.EXPECT().GetByID(gomock.Any(), "inv-1").Return(sentInvoice(), nil)
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, enriched json.RawMessage) (string, string, json.RawMessage, error) {
				var req map[string]any
				if err := json.Unmarshal(enriched, &req); err != nil {
					t.Fatalf("enriched payload not json: %v", err)
				}
				if req["transaction_amount"] != 150.5 {
					t.Fatalf("amount not forced from invoice: %v", req["transaction_amount"])
				}
				if req["external_reference"] != "inv-1" {
					t.Fatalf("missing external_reference: %v", req)
				}
				return "pay-1", "approved", json.RawMessage(`{"id":"pay-1","status":"approved"}`), nil
			},
		)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.InvoicePayment) (entities.InvoicePayment, error) {
				if p.ID != "pay-1" || p.InvoiceID != "inv-1" || p.Status != entities.PaymentStatusApproved {
					t.Fatalf("unexpected payment: %+v", p)
				}
				if p.ProviderPayload["status"] != "approved" {
					t.Fatalf("provider payload not parsed: %+v", p.ProviderPayload)
				}
				return p, nil
			},
		)
		m.invoices.EXPECT().MarkPaid(gomock.Any(), "inv-1", testClock().UTC()).Return(entities.Invoice{}, nil)

		created, err := uc.CreateAndSettle(context.Background(), "inv-1", payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Status != entities.PaymentStatusApproved {
			t.Fatalf("expected approved, got %q", created.Status)
		}
	})

	t.Run("declined payment leaves invoice untouched", func(t *testing.T) {
		uc, m := newPaymentUseCaseForTest(t)
		m.invoices.EXPECT().GetByID(gomock.Any(), "inv-1").Return(sentInvoice(), nil)
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			Return("pay-2", "rejected", json.RawMessage(`{"id":"pay-2","status":"rejected"}`), nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.InvoicePayment) (entities.InvoicePayment, error) {
				return p, nil
			},
		)

		created, err := uc.CreateAndSettle(context.Background(), "inv-1", payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Status != entities.PaymentStatusDeclined {
			t.Fatalf("expected declined, got %q", created.Status)
		}
	})

	t.Run("gateway bad request classified", func(t *testing.T) {
		uc, m := newPaymentUseCaseForTest(t)
		m.invoices.EXPECT().GetByID(gomock.Any(), "inv-1").Return(sentInvoice(), nil)
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			Return("", "", nil, errors.New(`mercadopago: {"error":"bad_request","status":400}`))

		_, err := uc.CreateAndSettle(context.Background(), "inv-1", payload)
		if !errors.Is(err, ErrPaymentGatewayBadRequest) {
			t.Fatalf("expected ErrPaymentGatewayBadRequest, got %v", err)
		}
	})

	t.Run("gateway unauthorized classified", func(t *testing.T) {
		uc, m := newPaymentUseCaseForTest(t)
		m.invoices.EXPECT().GetByID(gomock.Any(), "inv-1").Return(sentInvoice(), nil)
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			Return("", "", nil, errors.New("mercadopago: unauthorized"))

		_, err := uc.CreateAndSettle(context.Background(), "inv-1", payload)
		if !errors.Is(err, ErrPaymentGatewayUnauthorized) {
			t.Fatalf("expected ErrPaymentGatewayUnauthorized, got %v", err)
		}
	})

	t.Run("mock mode accepts empty payload and draft invoice", func(t *testing.T) {
		t.Setenv("PAYMENT_GATEWAY_MOCK", "true")
		uc, m := newPaymentUseCaseForTest(t)
		inv := sentInvoice()
		inv.Status = entities.InvoiceStatusDraft
		m.invoices.EXPECT().GetByID(gomock.Any(), "inv-1").Return(inv, nil)
		m.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			Return("pay-3", "approved", json.RawMessage(`{"id":"pay-3"}`), nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.InvoicePayment) (entities.InvoicePayment, error) {
				return p, nil
			},
		)
		m.invoices.EXPECT().MarkPaid(gomock.Any(), "inv-1", gomock.Any()).Return(entities.Invoice{}, nil)

		if _, err := uc.CreateAndSettle(context.Background(), "inv-1", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestInvoicePaymentUseCase_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		uc, m := newPaymentUseCaseForTest(t)
		m.repo.EXPECT().GetByID(gomock.Any(), "pay-1").Return(entities.InvoicePayment{}, nil)

		_, err := uc.GetByID(context.Background(), "pay-1")
		if !errors.Is(err, ErrInvoicePaymentNotFound) {
			t.Fatalf("expected ErrInvoicePaymentNotFound, got %v", err)
		}
	})
}

func TestInvoicePaymentUseCase_ListByInvoiceID(t *testing.T) {
	uc, m := newPaymentUseCaseForTest(t)
	m.repo.EXPECT().ListByInvoiceID(gomock.Any(), "inv-1").
		Return([]entities.InvoicePayment{{ID: "pay-1"}, {ID: "pay-2"}}, nil)

	payments, err := uc.ListByInvoiceID(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
}
