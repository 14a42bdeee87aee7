package model

import (
	"time"

	"github.com/google/uuid"

	bookmodel "bookstore-api/internal/domains/book/model"
)

// Genre is the catalog grouping entity, soft-deleted like books. A genre
// cannot be deleted while any non-deleted book still references it.
type Genre struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// GenreDetail is the detail projection: the genre plus its active books.
type GenreDetail struct {
	Genre
	Books []bookmodel.Book `json:"books"`
}
