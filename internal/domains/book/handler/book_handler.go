package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookstore-api/internal/domains/book/model"
	"bookstore-api/internal/domains/book/service"
	"bookstore-api/internal/shared/response"
	"bookstore-api/pkg/logger"
)

type BookHandler struct {
	service service.BookService
}

func NewBookHandler(service service.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /books (protected)
func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid book payload")
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrGenreNotFound):
			response.NotFound(c, "Genre not found")
		case errors.Is(err, model.ErrTitleExists):
			response.Conflict(c, "Book with this title already exists")
		default:
			h.handleError(c, err, "Failed to create book")
		}
		return
	}

	response.Success(c, http.StatusCreated, b)
}

// List handles GET /books with optional title and genre filters.
func (h *BookHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	q := model.ListBooksQuery{
		Page:    page,
		Limit:   limit,
		Title:   c.Query("title"),
		GenreID: c.Query("genre_id"),
	}

	books, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, err, "Failed to list books")
		return
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	})
}

// ListByGenre handles GET /books/genre/:genre_id
func (h *BookHandler) ListByGenre(c *gin.Context) {
	genreID, err := uuid.Parse(c.Param("genre_id"))
	if err != nil {
		response.BadRequest(c, "Invalid genre id")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	books, total, err := h.service.ListByGenre(c.Request.Context(), genreID, page, limit)
	if err != nil {
		if errors.Is(err, model.ErrGenreNotFound) {
			response.NotFound(c, "Genre not found")
			return
		}
		h.handleError(c, err, "Failed to list books by genre")
		return
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	})
}

// GetByID handles GET /books/:id
func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			response.NotFound(c, "Book not found")
			return
		}
		h.handleError(c, err, "Failed to retrieve book")
		return
	}

	response.Success(c, http.StatusOK, b)
}

// Update handles PATCH /books/:id (protected)
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid book payload")
		return
	}

	b, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoUpdateFields):
			response.BadRequest(c, "No update data provided")
		case errors.Is(err, model.ErrBookNotFound):
			response.NotFound(c, "Book not found")
		case errors.Is(err, model.ErrGenreNotFound):
			response.NotFound(c, "Genre not found")
		case errors.Is(err, model.ErrTitleExists):
			response.Conflict(c, "Book with this title already exists")
		default:
			h.handleError(c, err, "Failed to update book")
		}
		return
	}

	response.Success(c, http.StatusOK, b)
}

// Delete handles DELETE /books/:id (protected)
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			response.NotFound(c, "Book not found")
			return
		}
		h.handleError(c, err, "Failed to delete book")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

func (h *BookHandler) handleError(c *gin.Context, err error, message string) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed", vErrs)
		return
	}

	logger.Error(message, err)
	response.InternalServerError(c, message)
}
