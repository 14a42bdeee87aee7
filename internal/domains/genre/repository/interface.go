package repository

import (
	"context"

	"github.com/google/uuid"

	"bookstore-api/internal/domains/genre/model"
)

// GenreRepository is the catalog store contract for genres. Soft-deleted
// rows are filtered inside every query.
type GenreRepository interface {
	Create(ctx context.Context, g *model.Genre) error
	List(ctx context.Context, page, limit int) ([]model.Genre, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Genre, error)
	Update(ctx context.Context, g *model.Genre) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ExistsActive backs the book create/update genre check.
	ExistsActive(ctx context.Context, id uuid.UUID) (bool, error)
}
