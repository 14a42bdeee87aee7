package repository

import (
	"context"

	"github.com/google/uuid"

	"bookstore-api/internal/domains/book/model"
)

// BookRepository is the catalog store contract for books. Every read
// excludes soft-deleted rows; the filter lives in the implementation's
// query construction, not in callers.
type BookRepository interface {
	Create(ctx context.Context, b *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// GetByIDs resolves a batch of ids in one query, active rows only.
	// Missing or deleted ids are simply absent from the result; callers
	// check set-completeness themselves.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Book, error)

	List(ctx context.Context, q model.ListBooksQuery) ([]model.Book, int, error)
	ListByGenre(ctx context.Context, genreID uuid.UUID, page, limit int) ([]model.Book, int, error)
	Update(ctx context.Context, b *model.Book) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// CountActiveInGenre backs the genre delete guard.
	CountActiveInGenre(ctx context.Context, genreID uuid.UUID) (int, error)

	// InvalidateDetail drops cached detail entries after a stock mutation
	// that bypassed Update, such as a checkout decrement.
	InvalidateDetail(ctx context.Context, ids ...uuid.UUID)
}
