package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookstore-api/internal/domains/user"
	"bookstore-api/internal/shared/middleware"
	"bookstore-api/internal/shared/response"
	"bookstore-api/pkg/logger"
)

type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required")
		return
	}

	dto, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			response.Conflict(c, "Email has already been used")
			return
		}
		h.handleError(c, err, "Failed to register user")
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(c, "User with this email not found")
		case errors.Is(err, user.ErrInvalidCredentials):
			response.Unauthorized(c, "Invalid credentials")
		default:
			h.handleError(c, err, "Failed to login")
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetMe handles GET /auth/me (protected)
func (h *UserHandler) GetMe(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	dto, err := h.service.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(c, "User profile not found")
			return
		}
		h.handleError(c, err, "Failed to retrieve user profile")
		return
	}

	response.Success(c, http.StatusOK, dto)
}

func (h *UserHandler) handleError(c *gin.Context, err error, message string) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", vErrs)
		return
	}

	logger.Error(message, err)
	response.InternalServerError(c, message)
}
