package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validCreateRequest() CreateBookRequest {
	stock := 10
	return CreateBookRequest{
		Title:           "Dune",
		Writer:          "Frank Herbert",
		Publisher:       "Chilton Books",
		PublicationYear: 1965,
		Price:           "9.99",
		StockQuantity:   &stock,
		GenreID:         uuid.NewString(),
	}
}

func TestCreateBookRequestValid(t *testing.T) {
	assert.NoError(t, validCreateRequest().Validate())
}

func TestCreateBookRequestPriceMustBeDecimal(t *testing.T) {
	req := validCreateRequest()
	req.Price = "nine dollars"
	assert.Error(t, req.Validate())
}

func TestCreateBookRequestPriceMustBePositive(t *testing.T) {
	req := validCreateRequest()
	req.Price = "0"
	assert.Error(t, req.Validate())

	req.Price = "-5.00"
	assert.Error(t, req.Validate())
}

func TestCreateBookRequestStockRequired(t *testing.T) {
	req := validCreateRequest()
	req.StockQuantity = nil
	assert.Error(t, req.Validate())
}

func TestCreateBookRequestZeroStockAllowed(t *testing.T) {
	req := validCreateRequest()
	zero := 0
	req.StockQuantity = &zero
	assert.NoError(t, req.Validate())
}

func TestCreateBookRequestGenreIDMustBeUUID(t *testing.T) {
	req := validCreateRequest()
	req.GenreID = "not-a-uuid"
	assert.Error(t, req.Validate())
}

func TestUpdateBookRequestIsEmpty(t *testing.T) {
	assert.True(t, UpdateBookRequest{}.IsEmpty())

	title := "New Title"
	assert.False(t, UpdateBookRequest{Title: &title}.IsEmpty())
}

func TestUpdateBookRequestOptionalPrice(t *testing.T) {
	assert.NoError(t, UpdateBookRequest{}.Validate())

	bad := "free"
	assert.Error(t, UpdateBookRequest{Price: &bad}.Validate())

	good := "12.50"
	assert.NoError(t, UpdateBookRequest{Price: &good}.Validate())
}
