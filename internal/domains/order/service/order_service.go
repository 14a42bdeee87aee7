package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookmodel "bookstore-api/internal/domains/book/model"
	bookrepo "bookstore-api/internal/domains/book/repository"
	"bookstore-api/internal/domains/order/model"
	"bookstore-api/internal/domains/order/repository"
	"bookstore-api/pkg/cache"
	"bookstore-api/pkg/logger"
)

const (
	statisticsCacheKey = "transactions:statistics"
	statisticsCacheTTL = time.Minute

	topSellersLimit = 5
)

type OrderService interface {
	// Checkout validates the cart against current stock, computes exact
	// decimal totals, and persists order + items + decrements atomically.
	Checkout(ctx context.Context, userID uuid.UUID, req model.CreateTransactionRequest) (*model.Order, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error)
	Statistics(ctx context.Context) (*model.Statistics, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	bookRepo  bookrepo.BookRepository
	cache     cache.Cache
}

func NewOrderService(orderRepo repository.OrderRepository, bookRepo bookrepo.BookRepository, c cache.Cache) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		cache:     c,
	}
}

func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req model.CreateTransactionRequest) (*model.Order, error) {
	if userID == uuid.Nil {
		return nil, model.ErrUnauthenticated
	}
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyCart
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cart, bookIDs, err := parseCart(req.Items)
	if err != nil {
		return nil, err
	}

	books, err := s.bookRepo.GetByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}

	// Set-completeness: the resolved set must match the requested id set
	// exactly. A deleted or unknown book fails the whole cart, and a
	// duplicated cart line is rejected instead of silently collapsed.
	byID := make(map[uuid.UUID]*bookmodel.Book, len(books))
	for i := range books {
		byID[books[i].ID] = &books[i]
	}
	if len(byID) != len(bookIDs) {
		return nil, model.ErrBookNotFound
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(cart))
	decrements := make([]model.StockDecrement, 0, len(cart))
	for _, line := range cart {
		book := byID[line.bookID]
		if line.quantity > book.StockQuantity {
			return nil, &model.InsufficientStockError{
				BookID:    book.ID.String(),
				Title:     book.Title,
				Requested: line.quantity,
				Available: book.StockQuantity,
			}
		}

		subtotal := book.Price.Mul(decimal.NewFromInt(int64(line.quantity)))
		total = total.Add(subtotal)

		items = append(items, model.OrderItem{
			ID:       uuid.New(),
			BookID:   book.ID,
			Quantity: line.quantity,
			Subtotal: subtotal,
		})
		decrements = append(decrements, model.StockDecrement{
			BookID:   book.ID,
			Quantity: line.quantity,
		})
	}

	order := &model.Order{
		ID:         uuid.New(),
		UserID:     userID,
		TotalPrice: total,
	}
	if err := s.orderRepo.CreateOrder(ctx, order, items, decrements); err != nil {
		if errors.Is(err, model.ErrStockConflict) {
			return nil, model.ErrTransactionFailed
		}
		return nil, err
	}

	s.bookRepo.InvalidateDetail(ctx, bookIDs...)
	s.invalidateStatistics(ctx)

	return s.orderRepo.GetByIDAndUser(ctx, order.ID, userID)
}

func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderService) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	return s.orderRepo.GetByIDAndUser(ctx, id, userID)
}

// Statistics aggregates the full order history, served cache-aside with a
// short TTL and invalidated on every successful checkout.
func (s *orderService) Statistics(ctx context.Context) (*model.Statistics, error) {
	var cached model.Statistics
	if found, err := s.cache.Get(ctx, statisticsCacheKey, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		logger.Warn("read statistics cache", err)
	}

	totalOrders, err := s.orderRepo.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.SumRevenue(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.orderRepo.TopSellingBooks(ctx, topSellersLimit)
	if err != nil {
		return nil, err
	}

	stats := &model.Statistics{
		TotalOrders:     totalOrders,
		TotalRevenue:    revenue.StringFixed(2),
		TopSellingBooks: top,
	}

	if err := s.cache.Set(ctx, statisticsCacheKey, stats, statisticsCacheTTL); err != nil {
		logger.Warn("write statistics cache", err)
	}

	return stats, nil
}

func (s *orderService) invalidateStatistics(ctx context.Context) {
	if err := s.cache.Delete(ctx, statisticsCacheKey); err != nil {
		logger.Warn("invalidate statistics cache", err)
	}
}

type cartLine struct {
	bookID   uuid.UUID
	quantity int
}

func parseCart(items []model.CartItem) ([]cartLine, []uuid.UUID, error) {
	cart := make([]cartLine, 0, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.BookID)
		if err != nil {
			return nil, nil, model.ErrBookNotFound
		}
		cart = append(cart, cartLine{bookID: id, quantity: item.Quantity})
		ids = append(ids, id)
	}
	return cart, ids, nil
}
