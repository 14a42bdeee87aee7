package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-api/internal/domains/genre/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) GenreRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, g *model.Genre) error {
	const query = `
		INSERT INTO genres (id, name)
		VALUES ($1, $2)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, g.ID, g.Name).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrGenreNameExists
		}
		return fmt.Errorf("failed to create genre: %w", err)
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context, page, limit int) ([]model.Genre, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM genres WHERE deleted_at IS NULL`,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count genres: %w", err)
	}

	const query = `
		SELECT id, name, created_at, updated_at
		FROM genres
		WHERE deleted_at IS NULL
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	genres := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read genre rows: %w", err)
	}

	return genres, total, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Genre, error) {
	const query = `
		SELECT id, name, created_at, updated_at
		FROM genres
		WHERE id = $1 AND deleted_at IS NULL
	`

	var g model.Genre
	err := r.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrGenreNotFound
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}

	return &g, nil
}

func (r *postgresRepository) Update(ctx context.Context, g *model.Genre) error {
	const query = `
		UPDATE genres
		SET name = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, g.Name, g.ID).Scan(&g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrGenreNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrGenreNameExists
		}
		return fmt.Errorf("failed to update genre: %w", err)
	}

	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE genres
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete genre: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrGenreNotFound
	}

	return nil
}

func (r *postgresRepository) ExistsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM genres WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check genre exists: %w", err)
	}
	return exists, nil
}
