package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CartItem is one requested line in a checkout.
type CartItem struct {
	BookID   string `json:"book_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

func (i CartItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.BookID, validation.Required, is.UUIDv4),
		validation.Field(&i.Quantity, validation.Required, validation.Min(1)),
	)
}

// CreateTransactionRequest is the checkout payload: a non-empty cart.
type CreateTransactionRequest struct {
	Items []CartItem `json:"items" binding:"required"`
}

func (r CreateTransactionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items,
			validation.Required.Error("cart must not be empty"),
			validation.Length(1, 0),
		),
	)
}
