package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "bookstore-api/internal/domains/book/model"
	"bookstore-api/internal/domains/order/model"
)

// fakeBookStore holds books in memory and backs both the book and order
// repository fakes, so checkout decrements are visible to later reads.
type fakeBookStore struct {
	books map[uuid.UUID]*bookmodel.Book
}

func newFakeBookStore(books ...*bookmodel.Book) *fakeBookStore {
	s := &fakeBookStore{books: make(map[uuid.UUID]*bookmodel.Book)}
	for _, b := range books {
		s.books[b.ID] = b
	}
	return s
}

type fakeBookRepo struct {
	store *fakeBookStore
}

func (r *fakeBookRepo) Create(ctx context.Context, b *bookmodel.Book) error {
	r.store.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	b, ok := r.store.books[id]
	if !ok || b.DeletedAt != nil {
		return nil, bookmodel.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]bookmodel.Book, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	result := []bookmodel.Book{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if b, ok := r.store.books[id]; ok && b.DeletedAt == nil {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *fakeBookRepo) List(ctx context.Context, q bookmodel.ListBooksQuery) ([]bookmodel.Book, int, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) ListByGenre(ctx context.Context, genreID uuid.UUID, page, limit int) ([]bookmodel.Book, int, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, b *bookmodel.Book) error { return nil }

func (r *fakeBookRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	b, ok := r.store.books[id]
	if !ok || b.DeletedAt != nil {
		return bookmodel.ErrBookNotFound
	}
	now := time.Now()
	b.DeletedAt = &now
	return nil
}

func (r *fakeBookRepo) CountActiveInGenre(ctx context.Context, genreID uuid.UUID) (int, error) {
	return 0, nil
}

func (r *fakeBookRepo) InvalidateDetail(ctx context.Context, ids ...uuid.UUID) {}

// fakeOrderRepo persists orders in memory. CreateOrder applies
// conditional decrements against the shared book store with the same
// all-or-nothing semantics as the SQL implementation.
type fakeOrderRepo struct {
	store  *fakeBookStore
	orders map[uuid.UUID]*model.Order

	countCalls int
}

func newFakeOrderRepo(store *fakeBookStore) *fakeOrderRepo {
	return &fakeOrderRepo{store: store, orders: make(map[uuid.UUID]*model.Order)}
}

func (r *fakeOrderRepo) CreateOrder(ctx context.Context, order *model.Order, items []model.OrderItem, decrements []model.StockDecrement) error {
	// verify every decrement before applying any, mirroring rollback
	for _, d := range decrements {
		b, ok := r.store.books[d.BookID]
		if !ok || b.DeletedAt != nil || b.StockQuantity < d.Quantity {
			return model.ErrStockConflict
		}
	}
	for _, d := range decrements {
		r.store.books[d.BookID].StockQuantity -= d.Quantity
	}

	order.CreatedAt = time.Now()
	stored := *order
	stored.Items = make([]model.OrderItem, len(items))
	for i, item := range items {
		item.OrderID = order.ID
		if b, ok := r.store.books[item.BookID]; ok {
			item.Book = &model.BookSummary{ID: b.ID, Title: b.Title, Writer: b.Writer, Price: b.Price}
		}
		stored.Items[i] = item
	}
	r.orders[order.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.UserID != userID {
		return nil, model.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	result := []model.Order{}
	for _, o := range r.orders {
		if o.UserID == userID {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) CountOrders(ctx context.Context) (int, error) {
	r.countCalls++
	return len(r.orders), nil
}

func (r *fakeOrderRepo) SumRevenue(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, o := range r.orders {
		sum = sum.Add(o.TotalPrice)
	}
	return sum, nil
}

func (r *fakeOrderRepo) TopSellingBooks(ctx context.Context, limit int) ([]model.TopSellingBook, error) {
	totals := make(map[uuid.UUID]int)
	for _, o := range r.orders {
		for _, item := range o.Items {
			totals[item.BookID] += item.Quantity
		}
	}
	result := []model.TopSellingBook{}
	for id, qty := range totals {
		row := model.TopSellingBook{BookID: id, Quantity: qty}
		if b, ok := r.store.books[id]; ok {
			row.BookTitle = b.Title
			row.Writer = b.Writer
		}
		result = append(result, row)
	}
	// quantity descending, book id ascending
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].Quantity > result[i].Quantity ||
				(result[j].Quantity == result[i].Quantity && result[j].BookID.String() < result[i].BookID.String()) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = data
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

func newTestService(books ...*bookmodel.Book) (OrderService, *fakeBookStore, *fakeOrderRepo) {
	store := newFakeBookStore(books...)
	orderRepo := newFakeOrderRepo(store)
	svc := NewOrderService(orderRepo, &fakeBookRepo{store: store}, newMemoryCache())
	return svc, store, orderRepo
}

func testBook(title string, price string, stock int) *bookmodel.Book {
	return &bookmodel.Book{
		ID:            uuid.New(),
		Title:         title,
		Writer:        "Test Writer",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		GenreID:       uuid.New(),
	}
}

func cartOf(items ...model.CartItem) model.CreateTransactionRequest {
	return model.CreateTransactionRequest{Items: items}
}

func TestCheckoutSuccess(t *testing.T) {
	book := testBook("Dune", "10.00", 5)
	svc, store, _ := newTestService(book)
	userID := uuid.New()

	order, err := svc.Checkout(context.Background(), userID,
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, userID, order.UserID)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("30.00")),
		"total_price = %s", order.TotalPrice)
	assert.Equal(t, 2, store.books[book.ID].StockQuantity)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, book.ID, item.BookID)
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.Subtotal.Equal(decimal.RequireFromString("30.00")))
	require.NotNil(t, item.Book)
	assert.Equal(t, "Dune", item.Book.Title)
}

func TestCheckoutTotalUsesPriceAtCheckoutTime(t *testing.T) {
	book := testBook("Dune", "12.50", 10)
	svc, store, _ := newTestService(book)
	userID := uuid.New()

	order, err := svc.Checkout(context.Background(), userID,
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 2}))
	require.NoError(t, err)

	// a later price change must not touch the frozen subtotal
	store.books[book.ID].Price = decimal.RequireFromString("99.99")

	got, err := svc.GetByIDAndUser(context.Background(), order.ID, userID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, got.Items[0].Subtotal.Equal(decimal.RequireFromString("25.00")))
}

func TestCheckoutInsufficientStock(t *testing.T) {
	book := testBook("Dune", "10.00", 2)
	svc, store, repo := newTestService(book)

	_, err := svc.Checkout(context.Background(), uuid.New(),
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 5}))

	var insufficient *model.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, book.ID.String(), insufficient.BookID)
	assert.Equal(t, 5, insufficient.Requested)
	assert.Equal(t, 2, insufficient.Available)

	assert.Equal(t, 2, store.books[book.ID].StockQuantity)
	assert.Empty(t, repo.orders)
}

func TestCheckoutAllOrNothing(t *testing.T) {
	okBook := testBook("Dune", "10.00", 5)
	shortBook := testBook("Hyperion", "8.00", 1)
	svc, store, repo := newTestService(okBook, shortBook)

	_, err := svc.Checkout(context.Background(), uuid.New(), cartOf(
		model.CartItem{BookID: okBook.ID.String(), Quantity: 2},
		model.CartItem{BookID: shortBook.ID.String(), Quantity: 3},
	))

	var insufficient *model.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	// no stock mutated anywhere in the cart
	assert.Equal(t, 5, store.books[okBook.ID].StockQuantity)
	assert.Equal(t, 1, store.books[shortBook.ID].StockQuantity)
	assert.Empty(t, repo.orders)
}

func TestCheckoutUnknownBook(t *testing.T) {
	book := testBook("Dune", "10.00", 5)
	svc, _, repo := newTestService(book)

	_, err := svc.Checkout(context.Background(), uuid.New(), cartOf(
		model.CartItem{BookID: book.ID.String(), Quantity: 1},
		model.CartItem{BookID: uuid.NewString(), Quantity: 1},
	))

	assert.ErrorIs(t, err, model.ErrBookNotFound)
	assert.Empty(t, repo.orders)
}

func TestCheckoutSoftDeletedBook(t *testing.T) {
	book := testBook("Dune", "10.00", 5)
	now := time.Now()
	book.DeletedAt = &now
	svc, store, repo := newTestService(book)

	_, err := svc.Checkout(context.Background(), uuid.New(),
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 1}))

	assert.ErrorIs(t, err, model.ErrBookNotFound)
	assert.Equal(t, 5, store.books[book.ID].StockQuantity)
	assert.Empty(t, repo.orders)
}

func TestCheckoutDuplicateCartLines(t *testing.T) {
	book := testBook("Dune", "10.00", 5)
	svc, _, repo := newTestService(book)

	_, err := svc.Checkout(context.Background(), uuid.New(), cartOf(
		model.CartItem{BookID: book.ID.String(), Quantity: 1},
		model.CartItem{BookID: book.ID.String(), Quantity: 2},
	))

	assert.ErrorIs(t, err, model.ErrBookNotFound)
	assert.Empty(t, repo.orders)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Checkout(context.Background(), uuid.New(), cartOf())
	assert.ErrorIs(t, err, model.ErrEmptyCart)
}

func TestCheckoutUnauthenticated(t *testing.T) {
	book := testBook("Dune", "10.00", 5)
	svc, _, _ := newTestService(book)

	_, err := svc.Checkout(context.Background(), uuid.Nil,
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 1}))
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestCheckoutInvalidQuantity(t *testing.T) {
	book := testBook("Dune", "10.00", 5)
	svc, _, repo := newTestService(book)

	_, err := svc.Checkout(context.Background(), uuid.New(),
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: -1}))
	assert.Error(t, err)
	assert.Empty(t, repo.orders)
}

func TestSequentialCheckoutsDecrementMonotonically(t *testing.T) {
	book := testBook("Dune", "10.00", 5)
	svc, store, _ := newTestService(book)
	userID := uuid.New()

	_, err := svc.Checkout(context.Background(), userID,
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 3}))
	require.NoError(t, err)
	assert.Equal(t, 2, store.books[book.ID].StockQuantity)

	_, err = svc.Checkout(context.Background(), userID,
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 2}))
	require.NoError(t, err)
	assert.Equal(t, 0, store.books[book.ID].StockQuantity)

	// stock is exhausted; a third checkout must fail, never go negative
	_, err = svc.Checkout(context.Background(), userID,
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 1}))
	assert.Error(t, err)
	assert.Equal(t, 0, store.books[book.ID].StockQuantity)
}

func TestCheckoutCommitTimeConflict(t *testing.T) {
	book := testBook("Dune", "10.00", 5)
	store := newFakeBookStore(book)
	orderRepo := newFakeOrderRepo(store)
	bookRepo := &fakeBookRepo{store: store}
	svc := NewOrderService(orderRepo, &staleReadBookRepo{fakeBookRepo: bookRepo, reportStock: 5}, newMemoryCache())

	// another checkout drained the stock after our validation snapshot
	store.books[book.ID].StockQuantity = 1

	_, err := svc.Checkout(context.Background(), uuid.New(),
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 3}))
	assert.ErrorIs(t, err, model.ErrTransactionFailed)
	assert.Equal(t, 1, store.books[book.ID].StockQuantity)
	assert.Empty(t, orderRepo.orders)
}

// staleReadBookRepo serves reads from an outdated stock snapshot so the
// commit-time conditional decrement is the only thing standing between a
// race and negative stock.
type staleReadBookRepo struct {
	*fakeBookRepo
	reportStock int
}

func (r *staleReadBookRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]bookmodel.Book, error) {
	books, err := r.fakeBookRepo.GetByIDs(ctx, ids)
	for i := range books {
		books[i].StockQuantity = r.reportStock
	}
	return books, err
}

func TestOrderDetailScopedToOwner(t *testing.T) {
	book := testBook("Dune", "10.00", 5)
	svc, _, _ := newTestService(book)
	owner := uuid.New()

	order, err := svc.Checkout(context.Background(), owner,
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.GetByIDAndUser(context.Background(), order.ID, uuid.New())
	assert.ErrorIs(t, err, model.ErrOrderNotFound)

	got, err := svc.GetByIDAndUser(context.Background(), order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestStatistics(t *testing.T) {
	bookA := testBook("Dune", "10.00", 10)
	bookB := testBook("Hyperion", "45.50", 10)
	svc, _, _ := newTestService(bookA, bookB)
	userID := uuid.New()

	_, err := svc.Checkout(context.Background(), userID,
		cartOf(model.CartItem{BookID: bookA.ID.String(), Quantity: 3}))
	require.NoError(t, err)
	_, err = svc.Checkout(context.Background(), userID,
		cartOf(model.CartItem{BookID: bookB.ID.String(), Quantity: 1}))
	require.NoError(t, err)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, "75.50", stats.TotalRevenue)

	require.Len(t, stats.TopSellingBooks, 2)
	assert.Equal(t, bookA.ID, stats.TopSellingBooks[0].BookID)
	assert.Equal(t, 3, stats.TopSellingBooks[0].Quantity)
	assert.Equal(t, "Dune", stats.TopSellingBooks[0].BookTitle)
}

func TestStatisticsEmptyHistory(t *testing.T) {
	svc, _, _ := newTestService()

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalOrders)
	assert.Equal(t, "0.00", stats.TotalRevenue)
	assert.Empty(t, stats.TopSellingBooks)
}

func TestStatisticsCachedBetweenCalls(t *testing.T) {
	book := testBook("Dune", "10.00", 10)
	svc, _, repo := newTestService(book)
	userID := uuid.New()

	_, err := svc.Checkout(context.Background(), userID,
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 1}))
	require.NoError(t, err)

	first, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	second, err := svc.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.countCalls, "second call should hit the cache")

	// a checkout invalidates the cached report
	_, err = svc.Checkout(context.Background(), userID,
		cartOf(model.CartItem{BookID: book.ID.String(), Quantity: 1}))
	require.NoError(t, err)

	third, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, third.TotalOrders)
	assert.Equal(t, 2, repo.countCalls)
}
