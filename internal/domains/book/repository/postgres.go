package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-api/internal/domains/book/model"
	"bookstore-api/pkg/cache"
	"bookstore-api/pkg/logger"
)

const (
	bookDetailCacheKeyPrefix = "book:detail:"
	bookDetailCacheTTL       = 5 * time.Minute
)

const bookColumns = `
	b.id, b.title, b.writer, b.publisher, b.publication_year, b.description,
	b.price, b.stock_quantity, b.genre_id, b.created_at, b.updated_at,
	g.id, g.name
`

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) BookRepository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) error {
	const query = `
		INSERT INTO books (
			id, title, writer, publisher, publication_year,
			description, price, stock_quantity, genre_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		b.ID,
		b.Title,
		b.Writer,
		b.Publisher,
		b.PublicationYear,
		b.Description,
		b.Price,
		b.StockQuantity,
		b.GenreID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return model.ErrTitleExists
			case "23503":
				return model.ErrGenreNotFound
			}
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := bookDetailCacheKeyPrefix + id.String()

	var cached model.Book
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN genres g ON g.id = b.genre_id
		WHERE b.id = $1 AND b.deleted_at IS NULL
	`

	b, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, b, bookDetailCacheTTL); err != nil {
		// cache failure must not fail the read
		logger.Warn("cache book detail", err)
	}

	return b, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN genres g ON g.id = b.genre_id
		WHERE b.id = ANY($1) AND b.deleted_at IS NULL
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get books by ids: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

func (r *postgresRepository) List(ctx context.Context, q model.ListBooksQuery) ([]model.Book, int, error) {
	where := "b.deleted_at IS NULL"
	args := []any{}
	argPos := 1

	if q.Title != "" {
		where += fmt.Sprintf(" AND b.title ILIKE $%d", argPos)
		args = append(args, "%"+q.Title+"%")
		argPos++
	}
	if q.GenreID != "" {
		where += fmt.Sprintf(" AND b.genre_id = $%d", argPos)
		args = append(args, q.GenreID)
		argPos++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM books b WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+bookColumns+`
		FROM books b
		JOIN genres g ON g.id = b.genre_id
		WHERE %s
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (r *postgresRepository) ListByGenre(ctx context.Context, genreID uuid.UUID, page, limit int) ([]model.Book, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM books WHERE genre_id = $1 AND deleted_at IS NULL`, genreID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count books by genre: %w", err)
	}

	query := `
		SELECT ` + bookColumns + `
		FROM books b
		JOIN genres g ON g.id = b.genre_id
		WHERE b.genre_id = $1 AND b.deleted_at IS NULL
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, genreID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books by genre: %w", err)
	}
	defer rows.Close()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) error {
	const query = `
		UPDATE books
		SET title = $1, writer = $2, publisher = $3, publication_year = $4,
		    description = $5, price = $6, stock_quantity = $7, genre_id = $8,
		    updated_at = now()
		WHERE id = $9 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		b.Title,
		b.Writer,
		b.Publisher,
		b.PublicationYear,
		b.Description,
		b.Price,
		b.StockQuantity,
		b.GenreID,
		b.ID,
	).Scan(&b.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBookNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return model.ErrTitleExists
			case "23503":
				return model.ErrGenreNotFound
			}
		}
		return fmt.Errorf("failed to update book: %w", err)
	}

	r.invalidateDetail(ctx, b.ID)
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE books
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	r.invalidateDetail(ctx, id)
	return nil
}

func (r *postgresRepository) CountActiveInGenre(ctx context.Context, genreID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM books WHERE genre_id = $1 AND deleted_at IS NULL`, genreID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active books in genre: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) InvalidateDetail(ctx context.Context, ids ...uuid.UUID) {
	for _, id := range ids {
		r.invalidateDetail(ctx, id)
	}
}

func (r *postgresRepository) invalidateDetail(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, bookDetailCacheKeyPrefix+id.String()); err != nil {
		logger.Warn("invalidate book detail cache", err)
	}
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	var genre model.GenreRef
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Writer,
		&b.Publisher,
		&b.PublicationYear,
		&b.Description,
		&b.Price,
		&b.StockQuantity,
		&b.GenreID,
		&b.CreatedAt,
		&b.UpdatedAt,
		&genre.ID,
		&genre.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}
	b.Genre = &genre
	return &b, nil
}

func collectBooks(rows pgx.Rows) ([]model.Book, error) {
	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read book rows: %w", err)
	}
	return books, nil
}
