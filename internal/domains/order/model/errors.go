package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrEmptyCart       = errors.New("cart must not be empty")
	ErrBookNotFound    = errors.New("one or more books not found")
	ErrOrderNotFound   = errors.New("order not found")

	// ErrStockConflict marks a conditional stock decrement that affected no
	// row: a concurrent checkout drained the stock between validation and
	// commit. The transaction repository returns it from inside the atomic
	// unit so the whole write rolls back.
	ErrStockConflict = errors.New("stock changed during checkout")

	ErrTransactionFailed = errors.New("transaction could not be completed")
)

// InsufficientStockError reports the first cart line whose quantity
// exceeds current stock, naming the book and what is available.
type InsufficientStockError struct {
	BookID    string
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.Title, e.Requested, e.Available)
}
