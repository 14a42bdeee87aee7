package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookstore-api/internal/domains/genre/model"
	"bookstore-api/internal/domains/genre/service"
	"bookstore-api/internal/shared/response"
	"bookstore-api/pkg/logger"
)

type GenreHandler struct {
	service service.GenreService
}

func NewGenreHandler(service service.GenreService) *GenreHandler {
	return &GenreHandler{service: service}
}

// Create handles POST /genres (protected)
func (h *GenreHandler) Create(c *gin.Context) {
	var req model.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Genre name is required")
		return
	}

	g, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrGenreNameExists) {
			response.Conflict(c, "Genre with this name already exists")
			return
		}
		h.handleError(c, err, "Failed to create genre")
		return
	}

	response.Success(c, http.StatusCreated, g)
}

// List handles GET /genres
func (h *GenreHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	genres, total, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		h.handleError(c, err, "Failed to list genres")
		return
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	response.SuccessWithMeta(c, http.StatusOK, genres, &response.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	})
}

// GetByID handles GET /genres/:id, returning the genre with its active books.
func (h *GenreHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid genre id")
		return
	}

	detail, err := h.service.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrGenreNotFound) {
			response.NotFound(c, "Genre not found")
			return
		}
		h.handleError(c, err, "Failed to retrieve genre")
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// Update handles PATCH /genres/:id (protected)
func (h *GenreHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid genre id")
		return
	}

	var req model.UpdateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "New genre name is required")
		return
	}

	g, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrGenreNotFound):
			response.NotFound(c, "Genre not found")
		case errors.Is(err, model.ErrGenreNameExists):
			response.Conflict(c, "Genre with this name already exists")
		default:
			h.handleError(c, err, "Failed to update genre")
		}
		return
	}

	response.Success(c, http.StatusOK, g)
}

// Delete handles DELETE /genres/:id (protected)
func (h *GenreHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid genre id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		var inUse *model.GenreInUseError
		switch {
		case errors.Is(err, model.ErrGenreNotFound):
			response.NotFound(c, "Genre not found")
		case errors.As(err, &inUse):
			response.ErrorResponse(c, http.StatusConflict, "GENRE_IN_USE", inUse.Error())
		default:
			h.handleError(c, err, "Failed to delete genre")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Genre deleted successfully"})
}

func (h *GenreHandler) handleError(c *gin.Context, err error, message string) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", vErrs)
		return
	}

	logger.Error(message, err)
	response.InternalServerError(c, message)
}
