package service

import (
	"context"

	"github.com/google/uuid"

	bookrepo "bookstore-api/internal/domains/book/repository"
	"bookstore-api/internal/domains/genre/model"
	"bookstore-api/internal/domains/genre/repository"
)

type GenreService interface {
	Create(ctx context.Context, req model.CreateGenreRequest) (*model.Genre, error)
	List(ctx context.Context, page, limit int) ([]model.Genre, int, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*model.GenreDetail, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateGenreRequest) (*model.Genre, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type genreService struct {
	genreRepo repository.GenreRepository
	bookRepo  bookrepo.BookRepository
}

func NewGenreService(genreRepo repository.GenreRepository, bookRepo bookrepo.BookRepository) GenreService {
	return &genreService{
		genreRepo: genreRepo,
		bookRepo:  bookRepo,
	}
}

func (s *genreService) Create(ctx context.Context, req model.CreateGenreRequest) (*model.Genre, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g := &model.Genre{
		ID:   uuid.New(),
		Name: req.Name,
	}
	if err := s.genreRepo.Create(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *genreService) List(ctx context.Context, page, limit int) ([]model.Genre, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.genreRepo.List(ctx, page, limit)
}

// GetDetail returns the genre together with its active books.
func (s *genreService) GetDetail(ctx context.Context, id uuid.UUID) (*model.GenreDetail, error) {
	g, err := s.genreRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	books, _, err := s.bookRepo.ListByGenre(ctx, id, 1, 100)
	if err != nil {
		return nil, err
	}

	return &model.GenreDetail{Genre: *g, Books: books}, nil
}

func (s *genreService) Update(ctx context.Context, id uuid.UUID, req model.UpdateGenreRequest) (*model.Genre, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := s.genreRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g.Name = req.Name
	if err := s.genreRepo.Update(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// Delete soft-deletes a genre, refusing while active books still
// reference it.
func (s *genreService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.genreRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.bookRepo.CountActiveInGenre(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &model.GenreInUseError{ActiveBooks: count}
	}

	return s.genreRepo.SoftDelete(ctx, id)
}
