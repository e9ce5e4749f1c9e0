package handlers

import (
	"bytes"
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

func TestInvoiceHandler_CreateInvoiceFromEstimate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing estimate id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		r := gin.New()
		r.POST("/v1/invoices/from-estimate", h.CreateInvoiceFromEstimate)

		req := httptest.NewRequest(http.MethodPost, "/v1/invoices/from-estimate", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("estimate not found maps to 404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		r := gin.New()
		r.POST("/v1/invoices/from-estimate", h.CreateInvoiceFromEstimate)

		uc.EXPECT().CreateFromEstimate(gomock.Any(), "missing", time.Time{}).
			Return(entities.Invoice{}, usecase.ErrEstimateNotFound)

		req := httptest.NewRequest(http.MethodPost, "/v1/invoices/from-estimate", bytes.NewBufferString(`{"estimate_id":"missing"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success returns 201 with estimate link", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInvoiceUseCase(ctrl)
		h := NewInvoiceHandler(uc)

		r := gin.New()
		r.POST("/v1/invoices/from-estimate", h.CreateInvoiceFromEstimate)

		uc.EXPECT().CreateFromEstimate(gomock.Any(), "JS-20250407-00", time.Time{}).
			Return(entities.Invoice{
				ID:         "inv-1",
				EstimateID: "JS-20250407-00",
				Status:     entities.InvoiceStatusDraft,
				Total:      27.5,
			}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/invoices/from-estimate", bytes.NewBufferString(`{"estimate_id":"JS-20250407-00"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}

		var resp map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if resp["estimate_id"] != "JS-20250407-00" {
			t.Fatalf("unexpected response: %v", resp)
		}
	})
}

func TestInvoiceHandler_SendInvoice(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIInvoiceUseCase(ctrl)
	h := NewInvoiceHandler(uc)

	r := gin.New()
	r.PATCH("/v1/invoices/:invoice_id/send", h.SendInvoice)

	uc.EXPECT().Send(gomock.Any(), "inv-1").
		Return(entities.Invoice{ID: "inv-1", Status: entities.InvoiceStatusSent}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/v1/invoices/inv-1/send", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["status"] != "sent" {
		t.Fatalf("unexpected status: %v", resp["status"])
	}
}
