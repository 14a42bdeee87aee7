package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is the catalog entity. A non-nil DeletedAt excludes the row from
// every catalog and checkout read; order history keeps referencing it.
type Book struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Writer          string          `json:"writer"`
	Publisher       string          `json:"publisher"`
	PublicationYear int             `json:"publication_year"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	StockQuantity   int             `json:"stock_quantity"`
	GenreID         uuid.UUID       `json:"genre_id"`
	Genre           *GenreRef       `json:"genre,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       *time.Time      `json:"-"`
}

// GenreRef is the genre projection embedded in book responses. Declared
// here to keep the book and genre packages free of import cycles.
type GenreRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
