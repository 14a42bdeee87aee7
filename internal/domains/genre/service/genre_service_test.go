package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "bookstore-api/internal/domains/book/model"
	"bookstore-api/internal/domains/genre/model"
)

type fakeGenreRepo struct {
	genres  map[uuid.UUID]*model.Genre
	deleted map[uuid.UUID]bool
}

func newFakeGenreRepo(genres ...*model.Genre) *fakeGenreRepo {
	r := &fakeGenreRepo{
		genres:  make(map[uuid.UUID]*model.Genre),
		deleted: make(map[uuid.UUID]bool),
	}
	for _, g := range genres {
		r.genres[g.ID] = g
	}
	return r
}

func (r *fakeGenreRepo) Create(ctx context.Context, g *model.Genre) error {
	for _, existing := range r.genres {
		if existing.Name == g.Name && !r.deleted[existing.ID] {
			return model.ErrGenreNameExists
		}
	}
	r.genres[g.ID] = g
	return nil
}

func (r *fakeGenreRepo) List(ctx context.Context, page, limit int) ([]model.Genre, int, error) {
	result := []model.Genre{}
	for _, g := range r.genres {
		if !r.deleted[g.ID] {
			result = append(result, *g)
		}
	}
	return result, len(result), nil
}

func (r *fakeGenreRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	g, ok := r.genres[id]
	if !ok || r.deleted[id] {
		return nil, model.ErrGenreNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGenreRepo) Update(ctx context.Context, g *model.Genre) error {
	if _, ok := r.genres[g.ID]; !ok || r.deleted[g.ID] {
		return model.ErrGenreNotFound
	}
	r.genres[g.ID] = g
	return nil
}

func (r *fakeGenreRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.genres[id]; !ok || r.deleted[id] {
		return model.ErrGenreNotFound
	}
	r.deleted[id] = true
	return nil
}

func (r *fakeGenreRepo) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.genres[id]
	return ok && !r.deleted[id], nil
}

// countingBookRepo satisfies just what the genre service reaches for.
type countingBookRepo struct {
	activeByGenre map[uuid.UUID]int
	books         map[uuid.UUID][]bookmodel.Book
}

func (r *countingBookRepo) Create(ctx context.Context, b *bookmodel.Book) error { return nil }

func (r *countingBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	return nil, bookmodel.ErrBookNotFound
}

func (r *countingBookRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]bookmodel.Book, error) {
	return nil, nil
}

func (r *countingBookRepo) List(ctx context.Context, q bookmodel.ListBooksQuery) ([]bookmodel.Book, int, error) {
	return nil, 0, nil
}

func (r *countingBookRepo) ListByGenre(ctx context.Context, genreID uuid.UUID, page, limit int) ([]bookmodel.Book, int, error) {
	books := r.books[genreID]
	return books, len(books), nil
}

func (r *countingBookRepo) Update(ctx context.Context, b *bookmodel.Book) error { return nil }

func (r *countingBookRepo) SoftDelete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *countingBookRepo) CountActiveInGenre(ctx context.Context, genreID uuid.UUID) (int, error) {
	return r.activeByGenre[genreID], nil
}

func (r *countingBookRepo) InvalidateDetail(ctx context.Context, ids ...uuid.UUID) {}

func TestGenreDeleteBlockedWhileBooksRemain(t *testing.T) {
	genre := &model.Genre{ID: uuid.New(), Name: "Science Fiction"}
	genreRepo := newFakeGenreRepo(genre)
	bookRepo := &countingBookRepo{activeByGenre: map[uuid.UUID]int{genre.ID: 3}}
	svc := NewGenreService(genreRepo, bookRepo)

	err := svc.Delete(context.Background(), genre.ID)

	var inUse *model.GenreInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, 3, inUse.ActiveBooks)
	assert.False(t, genreRepo.deleted[genre.ID])
}

func TestGenreDeleteSucceedsWhenEmpty(t *testing.T) {
	genre := &model.Genre{ID: uuid.New(), Name: "Science Fiction"}
	genreRepo := newFakeGenreRepo(genre)
	bookRepo := &countingBookRepo{activeByGenre: map[uuid.UUID]int{}}
	svc := NewGenreService(genreRepo, bookRepo)

	err := svc.Delete(context.Background(), genre.ID)
	require.NoError(t, err)
	assert.True(t, genreRepo.deleted[genre.ID])

	_, err = svc.GetDetail(context.Background(), genre.ID)
	assert.ErrorIs(t, err, model.ErrGenreNotFound)
}

func TestGenreDeleteNotFound(t *testing.T) {
	svc := NewGenreService(newFakeGenreRepo(), &countingBookRepo{})

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrGenreNotFound)
}

func TestGenreCreateDuplicateName(t *testing.T) {
	existing := &model.Genre{ID: uuid.New(), Name: "Fantasy"}
	svc := NewGenreService(newFakeGenreRepo(existing), &countingBookRepo{})

	_, err := svc.Create(context.Background(), model.CreateGenreRequest{Name: "Fantasy"})
	assert.ErrorIs(t, err, model.ErrGenreNameExists)
}

func TestGenreCreateValidation(t *testing.T) {
	svc := NewGenreService(newFakeGenreRepo(), &countingBookRepo{})

	_, err := svc.Create(context.Background(), model.CreateGenreRequest{Name: ""})
	assert.Error(t, err)
}

func TestGenreDetailIncludesBooks(t *testing.T) {
	genre := &model.Genre{ID: uuid.New(), Name: "Fantasy"}
	books := []bookmodel.Book{
		{ID: uuid.New(), Title: "The Hobbit", GenreID: genre.ID},
		{ID: uuid.New(), Title: "Earthsea", GenreID: genre.ID},
	}
	bookRepo := &countingBookRepo{books: map[uuid.UUID][]bookmodel.Book{genre.ID: books}}
	svc := NewGenreService(newFakeGenreRepo(genre), bookRepo)

	detail, err := svc.GetDetail(context.Background(), genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", detail.Name)
	assert.Len(t, detail.Books, 2)
}

func TestGenreUpdate(t *testing.T) {
	genre := &model.Genre{ID: uuid.New(), Name: "Sci Fi"}
	svc := NewGenreService(newFakeGenreRepo(genre), &countingBookRepo{})

	updated, err := svc.Update(context.Background(), genre.ID, model.UpdateGenreRequest{Name: "Science Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", updated.Name)
}
