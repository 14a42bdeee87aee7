package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// CreateBookRequest carries every required catalog field. Price arrives as
// a string so it parses straight into a decimal without a float stop-over.
type CreateBookRequest struct {
	Title           string  `json:"title" binding:"required"`
	Writer          string  `json:"writer" binding:"required"`
	Publisher       string  `json:"publisher" binding:"required"`
	PublicationYear int     `json:"publication_year" binding:"required"`
	Description     *string `json:"description"`
	Price           string  `json:"price" binding:"required"`
	StockQuantity   *int    `json:"stock_quantity" binding:"required"`
	GenreID         string  `json:"genre_id" binding:"required"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Writer, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Publisher, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.PublicationYear, validation.Required, validation.Min(1)),
		validation.Field(&r.Price, validation.Required, validation.By(validatePositivePrice)),
		validation.Field(&r.StockQuantity, validation.NotNil, validation.Min(0)),
		validation.Field(&r.GenreID, validation.Required, is.UUIDv4),
	)
}

// UpdateBookRequest: nil fields are left unchanged.
type UpdateBookRequest struct {
	Title           *string `json:"title"`
	Writer          *string `json:"writer"`
	Publisher       *string `json:"publisher"`
	PublicationYear *int    `json:"publication_year"`
	Description     *string `json:"description"`
	Price           *string `json:"price"`
	StockQuantity   *int    `json:"stock_quantity"`
	GenreID         *string `json:"genre_id"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Writer, validation.NilOrNotEmpty),
		validation.Field(&r.Publisher, validation.NilOrNotEmpty),
		validation.Field(&r.PublicationYear, validation.Min(1)),
		validation.Field(&r.Price, validation.By(validateOptionalPositivePrice)),
		validation.Field(&r.StockQuantity, validation.Min(0)),
		validation.Field(&r.GenreID, validation.When(r.GenreID != nil, is.UUIDv4)),
	)
}

// IsEmpty reports whether the update carries no changes at all.
func (r UpdateBookRequest) IsEmpty() bool {
	return r.Title == nil && r.Writer == nil && r.Publisher == nil &&
		r.PublicationYear == nil && r.Description == nil && r.Price == nil &&
		r.StockQuantity == nil && r.GenreID == nil
}

// ListBooksQuery holds pagination and filters for the catalog listing.
type ListBooksQuery struct {
	Page    int
	Limit   int
	Title   string
	GenreID string
}

func validatePositivePrice(value interface{}) error {
	s, _ := value.(string)
	return checkPositivePrice(s)
}

func validateOptionalPositivePrice(value interface{}) error {
	p, _ := value.(*string)
	if p == nil {
		return nil
	}
	return checkPositivePrice(*p)
}

func checkPositivePrice(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return validation.NewError("validation_price", "price must be a decimal number")
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return validation.NewError("validation_price_positive", "price must be greater than zero")
	}
	return nil
}
