package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is an immutable purchase record. Orders and their items are
// created together in one transaction and never mutated afterward.
type Order struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []OrderItem     `json:"items,omitempty"`
}

// OrderItem freezes price times quantity at purchase time; later catalog
// price changes never touch it.
type OrderItem struct {
	ID       uuid.UUID       `json:"id"`
	OrderID  uuid.UUID       `json:"order_id"`
	BookID   uuid.UUID       `json:"book_id"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Book     *BookSummary    `json:"book,omitempty"`
}

// BookSummary is the minimal book projection attached to order items
// for display. It is read through the order join, without the
// soft-delete filter, so history survives catalog deletions.
type BookSummary struct {
	ID     uuid.UUID       `json:"id"`
	Title  string          `json:"title"`
	Writer string          `json:"writer"`
	Price  decimal.Decimal `json:"price"`
}

// StockDecrement is one planned stock mutation inside a checkout
// transaction.
type StockDecrement struct {
	BookID   uuid.UUID
	Quantity int
}

// TopSellingBook is one row of the best-seller report.
type TopSellingBook struct {
	BookID    uuid.UUID `json:"book_id"`
	Quantity  int       `json:"quantity"`
	BookTitle string    `json:"book_title"`
	Writer    string    `json:"writer"`
}

// Statistics aggregates the full order history. TotalRevenue is a
// decimal string with two fraction digits, never a float.
type Statistics struct {
	TotalOrders     int              `json:"totalOrders"`
	TotalRevenue    string           `json:"totalRevenue"`
	TopSellingBooks []TopSellingBook `json:"topSellingBooks"`
}
