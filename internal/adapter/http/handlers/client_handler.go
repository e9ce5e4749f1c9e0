package handlers

import (
	"errors"
	"net/http"
	"strings"

	request "billingapp/internal/adapter/http/dto/request"
	response "billingapp/internal/adapter/http/dto/response"
	"billingapp/internal/usecase"
	"billingapp/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidClientPayload = pkg.NewDomainErrorSimple("INVALID_CLIENT_INPUT", "Invalid client payload", http.StatusBadRequest)

// ClientHandler handles HTTP requests for clients.
type ClientHandler struct {
	usecase usecase.IClientUseCase
}

func NewClientHandler(uc usecase.IClientUseCase) *ClientHandler {
	return &ClientHandler{usecase: uc}
}

// userID extracts the acting user from the X-User-ID header. Requests
// arrive pre-authenticated; the gateway strips anything it did not issue.
func userID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("X-User-ID"))
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var payload request.ClientRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidClientPayload.HTTPStatus, errInvalidClientPayload.ToHTTPError())
		return
	}

	client, err := h.usecase.Create(c.Request.Context(), payload.ToNewClient(userID(c)))
	if err != nil {
		appErr := mapClientError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromClient(client))
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.usecase.GetByID(c.Request.Context(), c.Param("client_id"))
	if err != nil {
		appErr := mapClientError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromClient(client))
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.usecase.List(c.Request.Context())
	if err != nil {
		appErr := mapClientError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromClients(clients))
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var payload request.ClientUpdateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidClientPayload.HTTPStatus, errInvalidClientPayload.ToHTTPError())
		return
	}

	client, err := h.usecase.Update(c.Request.Context(), c.Param("client_id"), payload.ToClientUpdate())
	if err != nil {
		appErr := mapClientError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromClient(client))
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("client_id")); err != nil {
		appErr := mapClientError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.Status(http.StatusNoContent)
}

func mapClientError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidClientID), errors.Is(err, usecase.ErrInvalidClientName):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrClientNotFound):
		return pkg.NewDomainErrorSimple("CLIENT_NOT_FOUND", "Client not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
