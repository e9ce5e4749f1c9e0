package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"billingapp/internal/adapter/http/handlers/mocks"
	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestInvoicePaymentHandler_CreatePaymentByInvoiceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("PAYMENT_GATEWAY_MOCK", "")
	t.Setenv("MERCADOPAGO_MOCK", "")

	t.Run("invalid body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoicePaymentUseCase(ctrl)
		h := NewInvoicePaymentHandler(uc)

		r := gin.New()
		r.POST("/v1/payments/:invoice_id", h.CreatePaymentByInvoiceID)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/inv-1", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("envelope payload is unwrapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoicePaymentUseCase(ctrl)
		h := NewInvoicePaymentHandler(uc)

		r := gin.New()
		r.POST("/v1/payments/:invoice_id", h.CreatePaymentByInvoiceID)

		uc.EXPECT().CreateAndSettle(gomock.Any(), "inv-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, payload json.RawMessage) (entities.InvoicePayment, error) {
				var m map[string]any
				if err := json.Unmarshal(payload, &m); err != nil {
					t.Fatalf("payload not json: %v", err)
				}
				if m["payment_method_id"] != "pix" {
					t.Fatalf("envelope not unwrapped: %v", m)
				}
				return entities.InvoicePayment{
					ID:        "pay-1",
					InvoiceID: "inv-1",
					Date:      time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC),
					Status:    entities.PaymentStatusApproved,
				}, nil
			},
		)

		body := `{"provider_payload":{"payment_method_id":"pix"}}`
		req := httptest.NewRequest(http.MethodPost, "/v1/payments/inv-1", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var resp map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if resp["status"] != "approved" || resp["invoice_id"] != "inv-1" {
			t.Fatalf("unexpected response: %v", resp)
		}
	})

	t.Run("not payable maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoicePaymentUseCase(ctrl)
		h := NewInvoicePaymentHandler(uc)

		r := gin.New()
		r.POST("/v1/payments/:invoice_id", h.CreatePaymentByInvoiceID)

		uc.EXPECT().CreateAndSettle(gomock.Any(), "inv-1", gomock.Any()).
			Return(entities.InvoicePayment{}, usecase.ErrInvoiceNotPayable)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/inv-1", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("gateway unauthorized maps to 502", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoicePaymentUseCase(ctrl)
		h := NewInvoicePaymentHandler(uc)

		r := gin.New()
		r.POST("/v1/payments/:invoice_id", h.CreatePaymentByInvoiceID)

		uc.EXPECT().CreateAndSettle(gomock.Any(), "inv-1", gomock.Any()).
			Return(entities.InvoicePayment{}, usecase.ErrPaymentGatewayUnauthorized)

		req := httptest.NewRequest(http.MethodPost, "/v1/payments/inv-1", bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})
}

func TestInvoicePaymentHandler_GetPaymentByInvoiceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("no payments", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoicePaymentUseCase(ctrl)
		h := NewInvoicePaymentHandler(uc)

		r := gin.New()
		r.GET("/v1/payments/:invoice_id", h.GetPaymentByInvoiceID)

		uc.EXPECT().ListByInvoiceID(gomock.Any(), "inv-1").Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/inv-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("returns the latest payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoicePaymentUseCase(ctrl)
		h := NewInvoicePaymentHandler(uc)

		r := gin.New()
		r.GET("/v1/payments/:invoice_id", h.GetPaymentByInvoiceID)

		older := entities.InvoicePayment{ID: "pay-1", InvoiceID: "inv-1", Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}
		newer := entities.InvoicePayment{ID: "pay-2", InvoiceID: "inv-1", Date: time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC), Status: entities.PaymentStatusApproved}
		uc.EXPECT().ListByInvoiceID(gomock.Any(), "inv-1").Return([]entities.InvoicePayment{older, newer}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/inv-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var resp map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if resp["id"] != "pay-2" {
			t.Fatalf("expected latest payment, got %v", resp["id"])
		}
	})
}
