package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	response "billingapp/internal/adapter/http/dto/response"
	"billingapp/internal/usecase"
	"billingapp/pkg"

	"github.com/gin-gonic/gin"
)

// InvoicePaymentHandler handles HTTP requests for invoice payments.
type InvoicePaymentHandler struct {
	usecase usecase.IInvoicePaymentUseCase
}

func NewInvoicePaymentHandler(uc usecase.IInvoicePaymentUseCase) *InvoicePaymentHandler {
	return &InvoicePaymentHandler{usecase: uc}
}

// CreatePaymentByInvoiceID settles an invoice through the payment provider.
// The body is forwarded to the provider; it may be wrapped in a
// {"provider_payload": {...}} envelope or sent bare.
func (h *InvoicePaymentHandler) CreatePaymentByInvoiceID(c *gin.Context) {
	invoiceID := c.Param("invoice_id")
	mockMode := usecase.IsPaymentGatewayMockEnabled()

	payload, err := readProviderPayload(c)
	if err != nil {
		if mockMode {
			payload = json.RawMessage("{}")
		} else {
			appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
	}

	created, err := h.usecase.CreateAndSettle(c.Request.Context(), invoiceID, payload)
	if err != nil {
		appErr := mapInvoicePaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromInvoicePayment(created))
}

// GetPaymentByInvoiceID returns the latest payment for an invoice.
func (h *InvoicePaymentHandler) GetPaymentByInvoiceID(c *gin.Context) {
	invoiceID := c.Param("invoice_id")

	payments, err := h.usecase.ListByInvoiceID(c.Request.Context(), invoiceID)
	if err != nil {
		appErr := mapInvoicePaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	if len(payments) == 0 {
		appErr := pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	latest := payments[0]
	for _, p := range payments[1:] {
		if p.Date.After(latest.Date) {
			latest = p
		}
	}

	c.JSON(http.StatusOK, response.FromInvoicePayment(latest))
}

func readProviderPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if wrapped, ok := envelope["provider_payload"]; ok {
			if len(strings.TrimSpace(string(wrapped))) == 0 || strings.TrimSpace(string(wrapped)) == "null" {
				return nil, errors.New("provider_payload cannot be empty")
			}
			return wrapped, nil
		}
	}

	return json.RawMessage(raw), nil
}

func mapInvoicePaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInvoiceID), errors.Is(err, usecase.ErrInvalidProviderPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvoiceNotPayable):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_PAYABLE", "Invoice is not in a payable status", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this payment provider context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider rejected the configured credentials", http.StatusBadGateway)
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvoicePaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
