package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bookstore-api/internal/domains/order/model"
	"bookstore-api/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) CreateOrder(ctx context.Context, order *model.Order, items []model.OrderItem, decrements []model.StockDecrement) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		const insertOrder = `
			INSERT INTO orders (id, user_id, total_price)
			VALUES ($1, $2, $3)
			RETURNING created_at
		`
		err := tx.QueryRow(ctx, insertOrder, order.ID, order.UserID, order.TotalPrice).
			Scan(&order.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		const insertItem = `
			INSERT INTO order_items (id, order_id, book_id, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5)
		`
		for i := range items {
			items[i].OrderID = order.ID
			_, err := tx.Exec(ctx, insertItem,
				items[i].ID, order.ID, items[i].BookID, items[i].Quantity, items[i].Subtotal)
			if err != nil {
				return fmt.Errorf("failed to insert order item: %w", err)
			}
		}

		// Conditional decrement: the WHERE clause re-verifies stock at
		// commit time, so a concurrent checkout can never push stock
		// negative. Zero rows affected means another transaction won.
		const decrementStock = `
			UPDATE books
			SET stock_quantity = stock_quantity - $1, updated_at = now()
			WHERE id = $2 AND deleted_at IS NULL AND stock_quantity >= $1
		`
		for _, d := range decrements {
			tag, err := tx.Exec(ctx, decrementStock, d.Quantity, d.BookID)
			if err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return model.ErrStockConflict
			}
		}

		return nil
	})
}

const orderItemColumns = `
	oi.id, oi.order_id, oi.book_id, oi.quantity, oi.subtotal,
	b.id, b.title, b.writer, b.price
`

func (r *postgresRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	const query = `
		SELECT id, user_id, total_price, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`

	var o model.Order
	err := r.pool.QueryRow(ctx, query, id, userID).
		Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}

	return &o, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	const query = `
		SELECT id, user_id, total_price, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order rows: %w", err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	itemsByOrder, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []model.OrderItem{}
		}
	}

	return orders, nil
}

// loadItems fetches items for a batch of orders with their book
// projections. The join deliberately skips the soft-delete filter so
// history stays readable after a book leaves the catalog.
func (r *postgresRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	query := `
		SELECT ` + orderItemColumns + `
		FROM order_items oi
		JOIN books b ON b.id = oi.book_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var item model.OrderItem
		var book model.BookSummary
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.BookID, &item.Quantity, &item.Subtotal,
			&book.ID, &book.Title, &book.Writer, &book.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		item.Book = &book
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order item rows: %w", err)
	}

	return result, nil
}

func (r *postgresRepository) CountOrders(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) SumRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_price), 0) FROM orders`,
	).Scan(&revenue)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return revenue, nil
}

func (r *postgresRepository) TopSellingBooks(ctx context.Context, limit int) ([]model.TopSellingBook, error) {
	// Ties break on book_id ascending so the report is stable across calls.
	const query = `
		SELECT oi.book_id, SUM(oi.quantity) AS sold, b.title, b.writer
		FROM order_items oi
		JOIN books b ON b.id = oi.book_id
		GROUP BY oi.book_id, b.title, b.writer
		ORDER BY sold DESC, oi.book_id ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top selling books: %w", err)
	}
	defer rows.Close()

	books := []model.TopSellingBook{}
	for rows.Next() {
		var b model.TopSellingBook
		if err := rows.Scan(&b.BookID, &b.Quantity, &b.BookTitle, &b.Writer); err != nil {
			return nil, fmt.Errorf("failed to scan top selling book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top selling rows: %w", err)
	}

	return books, nil
}
