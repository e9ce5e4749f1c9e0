package handlers

import (
	"context"
	"errors"
	"net/http"

	request "billingapp/internal/adapter/http/dto/request"
	response "billingapp/internal/adapter/http/dto/response"
	"billingapp/internal/domain/entities"
	"billingapp/internal/usecase"
	"billingapp/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidInvoicePayload = pkg.NewDomainErrorSimple("INVALID_INVOICE_INPUT", "Invalid invoice payload", http.StatusBadRequest)

// InvoiceHandler handles HTTP requests for invoices.
type InvoiceHandler struct {
	usecase usecase.IInvoiceUseCase
}

func NewInvoiceHandler(uc usecase.IInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{usecase: uc}
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var payload request.InvoiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidInvoicePayload.HTTPStatus, errInvalidInvoicePayload.ToHTTPError())
		return
	}

	in, err := payload.ToNewInvoice(userID(c))
	if err != nil {
		c.JSON(errInvalidInvoicePayload.HTTPStatus, errInvalidInvoicePayload.ToHTTPError())
		return
	}

	invoice, err := h.usecase.Create(c.Request.Context(), in)
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromInvoice(invoice))
}

// CreateInvoiceFromEstimate derives a draft invoice from an existing
// estimate, copying its client, items, and totals.
func (h *InvoiceHandler) CreateInvoiceFromEstimate(c *gin.Context) {
	var payload request.InvoiceFromEstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidInvoicePayload.HTTPStatus, errInvalidInvoicePayload.ToHTTPError())
		return
	}

	invoice, err := h.usecase.CreateFromEstimate(c.Request.Context(), payload.EstimateID, payload.DueDate)
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromInvoice(invoice))
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.usecase.GetByID(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromInvoice(invoice))
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.usecase.List(c.Request.Context())
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromInvoices(invoices))
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var payload request.InvoiceUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidInvoicePayload.HTTPStatus, errInvalidInvoicePayload.ToHTTPError())
		return
	}

	upd, err := payload.ToInvoiceUpdate()
	if err != nil {
		c.JSON(errInvalidInvoicePayload.HTTPStatus, errInvalidInvoicePayload.ToHTTPError())
		return
	}

	invoice, err := h.usecase.Update(c.Request.Context(), c.Param("invoice_id"), upd)
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromInvoice(invoice))
}

func (h *InvoiceHandler) SendInvoice(c *gin.Context) {
	h.patchInvoiceStatus(c, h.usecase.Send)
}

func (h *InvoiceHandler) MarkInvoiceOverdue(c *gin.Context) {
	h.patchInvoiceStatus(c, h.usecase.MarkOverdue)
}

func (h *InvoiceHandler) patchInvoiceStatus(
	c *gin.Context,
	updater func(ctx context.Context, id string) (entities.Invoice, error),
) {
	invoice, err := updater(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromInvoice(invoice))
}

func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("invoice_id")); err != nil {
		appErr := mapInvoiceError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.Status(http.StatusNoContent)
}

func mapInvoiceError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInvoiceID), errors.Is(err, usecase.ErrInvalidClientID),
		errors.Is(err, usecase.ErrInvalidEstimateID), errors.Is(err, usecase.ErrInvalidLineItem):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrClientNotFound):
		return pkg.NewDomainErrorSimple("CLIENT_NOT_FOUND", "Client not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		return pkg.NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
