package handlers

import (
	"errors"
	"net/http"

	request "billingapp/internal/adapter/http/dto/request"
	response "billingapp/internal/adapter/http/dto/response"
	"billingapp/internal/usecase"
	"billingapp/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidItemPayload = pkg.NewDomainErrorSimple("INVALID_ITEM_INPUT", "Invalid catalog item payload", http.StatusBadRequest)

// CatalogItemHandler handles HTTP requests for saved billable items.
type CatalogItemHandler struct {
	usecase usecase.ICatalogItemUseCase
}

func NewCatalogItemHandler(uc usecase.ICatalogItemUseCase) *CatalogItemHandler {
	return &CatalogItemHandler{usecase: uc}
}

func (h *CatalogItemHandler) CreateItem(c *gin.Context) {
	var payload request.CatalogItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidItemPayload.HTTPStatus, errInvalidItemPayload.ToHTTPError())
		return
	}

	item, err := h.usecase.Create(c.Request.Context(), payload.ToNewCatalogItem(userID(c)))
	if err != nil {
		appErr := mapItemError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromCatalogItem(item))
}

func (h *CatalogItemHandler) GetItem(c *gin.Context) {
	item, err := h.usecase.GetByID(c.Request.Context(), c.Param("item_id"))
	if err != nil {
		appErr := mapItemError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromCatalogItem(item))
}

func (h *CatalogItemHandler) ListItems(c *gin.Context) {
	items, err := h.usecase.List(c.Request.Context())
	if err != nil {
		appErr := mapItemError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromCatalogItems(items))
}

func (h *CatalogItemHandler) UpdateItem(c *gin.Context) {
	var payload request.CatalogItemUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidItemPayload.HTTPStatus, errInvalidItemPayload.ToHTTPError())
		return
	}

	item, err := h.usecase.Update(c.Request.Context(), c.Param("item_id"), payload.ToCatalogItemUpdate())
	if err != nil {
		appErr := mapItemError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromCatalogItem(item))
}

func (h *CatalogItemHandler) DeleteItem(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("item_id")); err != nil {
		appErr := mapItemError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.Status(http.StatusNoContent)
}

func mapItemError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidItemID), errors.Is(err, usecase.ErrInvalidItemName), errors.Is(err, usecase.ErrInvalidItemRate):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrCatalogItemNotFound):
		return pkg.NewDomainErrorSimple("ITEM_NOT_FOUND", "Catalog item not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
