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

var errInvalidEstimatePayload = pkg.NewDomainErrorSimple("INVALID_ESTIMATE_INPUT", "Invalid estimate payload", http.StatusBadRequest)

// EstimateHandler handles HTTP requests for estimates.
//
// The estimate id in the path is the human-readable estimate number
// ("JS-20250407-00"); the two are the same value by construction.
type EstimateHandler struct {
	usecase usecase.IEstimateUseCase
}

func NewEstimateHandler(uc usecase.IEstimateUseCase) *EstimateHandler {
	return &EstimateHandler{usecase: uc}
}

func (h *EstimateHandler) CreateEstimate(c *gin.Context) {
	var payload request.EstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidEstimatePayload.HTTPStatus, errInvalidEstimatePayload.ToHTTPError())
		return
	}

	in, err := payload.ToNewEstimate(userID(c))
	if err != nil {
		c.JSON(errInvalidEstimatePayload.HTTPStatus, errInvalidEstimatePayload.ToHTTPError())
		return
	}

	estimate, err := h.usecase.Create(c.Request.Context(), in)
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromEstimate(estimate))
}

func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	estimate, err := h.usecase.GetByID(c.Request.Context(), c.Param("estimate_id"))
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

func (h *EstimateHandler) ListEstimates(c *gin.Context) {
	estimates, err := h.usecase.List(c.Request.Context())
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromEstimates(estimates))
}

func (h *EstimateHandler) UpdateEstimate(c *gin.Context) {
	var payload request.EstimateUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidEstimatePayload.HTTPStatus, errInvalidEstimatePayload.ToHTTPError())
		return
	}

	upd, err := payload.ToEstimateUpdate()
	if err != nil {
		c.JSON(errInvalidEstimatePayload.HTTPStatus, errInvalidEstimatePayload.ToHTTPError())
		return
	}

	estimate, err := h.usecase.Update(c.Request.Context(), c.Param("estimate_id"), upd)
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

func (h *EstimateHandler) MarkEstimatePending(c *gin.Context) {
	h.patchEstimateStatus(c, h.usecase.MarkPending)
}

func (h *EstimateHandler) ApproveEstimate(c *gin.Context) {
	h.patchEstimateStatus(c, h.usecase.Approve)
}

func (h *EstimateHandler) DeclineEstimate(c *gin.Context) {
	h.patchEstimateStatus(c, h.usecase.Decline)
}

func (h *EstimateHandler) patchEstimateStatus(
	c *gin.Context,
	updater func(ctx context.Context, id string) (entities.Estimate, error),
) {
	estimate, err := updater(c.Request.Context(), c.Param("estimate_id"))
	if err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromEstimate(estimate))
}

func (h *EstimateHandler) DeleteEstimate(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("estimate_id")); err != nil {
		appErr := mapEstimateError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.Status(http.StatusNoContent)
}

func mapEstimateError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidEstimateID), errors.Is(err, usecase.ErrInvalidClientID), errors.Is(err, usecase.ErrInvalidLineItem):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrClientNotFound):
		return pkg.NewDomainErrorSimple("CLIENT_NOT_FOUND", "Client not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrEstimateNumberTaken):
		return pkg.NewDomainErrorSimple("ESTIMATE_NUMBER_TAKEN", "Estimate number already exists", http.StatusConflict)
	case errors.Is(err, usecase.ErrEstimateNotFound):
		return pkg.NewDomainErrorSimple("ESTIMATE_NOT_FOUND", "Estimate not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
