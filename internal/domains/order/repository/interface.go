package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookstore-api/internal/domains/order/model"
)

// OrderRepository is the order history store. CreateOrder is the only
// write; everything else is read-only aggregation and retrieval.
type OrderRepository interface {
	// CreateOrder persists the order, its items, and the stock decrements
	// as one atomic unit. Each decrement is conditional: it applies only
	// while enough stock remains, and a decrement that matches no row
	// aborts the whole unit with ErrStockConflict.
	CreateOrder(ctx context.Context, order *model.Order, items []model.OrderItem, decrements []model.StockDecrement) error

	// GetByIDAndUser returns one order with its items, only if owned by
	// userID.
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error)

	// ListByUser returns the user's orders newest first, items included.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	CountOrders(ctx context.Context) (int, error)
	SumRevenue(ctx context.Context) (decimal.Decimal, error)
	TopSellingBooks(ctx context.Context, limit int) ([]model.TopSellingBook, error)
}
