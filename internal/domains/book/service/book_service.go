package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookstore-api/internal/domains/book/model"
	"bookstore-api/internal/domains/book/repository"
	genrerepo "bookstore-api/internal/domains/genre/repository"
)

type BookService interface {
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, q model.ListBooksQuery) ([]model.Book, int, error)
	ListByGenre(ctx context.Context, genreID uuid.UUID, page, limit int) ([]model.Book, int, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookService struct {
	bookRepo  repository.BookRepository
	genreRepo genrerepo.GenreRepository
}

func NewBookService(bookRepo repository.BookRepository, genreRepo genrerepo.GenreRepository) BookService {
	return &bookService{
		bookRepo:  bookRepo,
		genreRepo: genreRepo,
	}
}

func (s *bookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	genreID, err := uuid.Parse(req.GenreID)
	if err != nil {
		return nil, model.ErrGenreNotFound
	}
	exists, err := s.genreRepo.ExistsActive(ctx, genreID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrGenreNotFound
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, err
	}

	b := &model.Book{
		ID:              uuid.New(),
		Title:           req.Title,
		Writer:          req.Writer,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		Price:           price,
		StockQuantity:   *req.StockQuantity,
		GenreID:         genreID,
	}
	if err := s.bookRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	return s.bookRepo.GetByID(ctx, b.ID)
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

func (s *bookService) List(ctx context.Context, q model.ListBooksQuery) ([]model.Book, int, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}
	return s.bookRepo.List(ctx, q)
}

func (s *bookService) ListByGenre(ctx context.Context, genreID uuid.UUID, page, limit int) ([]model.Book, int, error) {
	exists, err := s.genreRepo.ExistsActive(ctx, genreID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, model.ErrGenreNotFound
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.bookRepo.ListByGenre(ctx, genreID, page, limit)
}

// Update applies only the fields present in the request. An update with no
// fields at all is rejected rather than silently succeeding.
func (s *bookService) Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	if req.IsEmpty() {
		return nil, model.ErrNoUpdateFields
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Writer != nil {
		b.Writer = *req.Writer
	}
	if req.Publisher != nil {
		b.Publisher = *req.Publisher
	}
	if req.PublicationYear != nil {
		b.PublicationYear = *req.PublicationYear
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return nil, err
		}
		b.Price = price
	}
	if req.StockQuantity != nil {
		b.StockQuantity = *req.StockQuantity
	}
	if req.GenreID != nil {
		genreID, err := uuid.Parse(*req.GenreID)
		if err != nil {
			return nil, model.ErrGenreNotFound
		}
		exists, err := s.genreRepo.ExistsActive(ctx, genreID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, model.ErrGenreNotFound
		}
		b.GenreID = genreID
	}

	if err := s.bookRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	return s.bookRepo.GetByID(ctx, id)
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.bookRepo.SoftDelete(ctx, id)
}
