package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookstore-api/internal/domains/order/model"
	"bookstore-api/internal/domains/order/service"
	"bookstore-api/internal/shared/middleware"
	"bookstore-api/internal/shared/response"
	"bookstore-api/pkg/logger"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /transactions (protected): the checkout endpoint.
func (h *OrderHandler) Create(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Cart items are required")
		return
	}

	order, err := h.service.Checkout(c.Request.Context(), identity.ID, req)
	if err != nil {
		var insufficient *model.InsufficientStockError
		switch {
		case errors.Is(err, model.ErrUnauthenticated):
			response.Unauthorized(c, "Authentication required")
		case errors.Is(err, model.ErrEmptyCart):
			response.BadRequest(c, "Cart must not be empty")
		case errors.Is(err, model.ErrBookNotFound):
			response.NotFound(c, "One or more books not found")
		case errors.As(err, &insufficient):
			response.ErrorWithDetails(c, http.StatusBadRequest, "INSUFFICIENT_STOCK", insufficient.Error(), gin.H{
				"book_id":   insufficient.BookID,
				"requested": insufficient.Requested,
				"available": insufficient.Available,
			})
		case errors.Is(err, model.ErrTransactionFailed):
			response.ErrorResponse(c, http.StatusInternalServerError, "TRANSACTION_FAILED", "Transaction could not be completed")
		default:
			h.handleError(c, err, "Failed to create transaction")
		}
		return
	}

	response.Success(c, http.StatusCreated, order)
}

// List handles GET /transactions (protected): the caller's orders,
// newest first.
func (h *OrderHandler) List(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := h.service.ListByUser(c.Request.Context(), identity.ID)
	if err != nil {
		h.handleError(c, err, "Failed to list transactions")
		return
	}

	response.Success(c, http.StatusOK, orders)
}

// GetByID handles GET /transactions/:id (protected). Orders owned by
// another user are indistinguishable from missing ones.
func (h *OrderHandler) GetByID(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction id")
		return
	}

	order, err := h.service.GetByIDAndUser(c.Request.Context(), id, identity.ID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			response.NotFound(c, "Transaction not found")
			return
		}
		h.handleError(c, err, "Failed to retrieve transaction")
		return
	}

	response.Success(c, http.StatusOK, order)
}

// Statistics handles GET /transactions/statistics (protected).
func (h *OrderHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Failed to compute statistics")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *OrderHandler) handleError(c *gin.Context, err error, message string) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", vErrs)
		return
	}

	logger.Error(message, err)
	response.InternalServerError(c, message)
}
