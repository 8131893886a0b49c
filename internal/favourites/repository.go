// Package favourites persists the user's pinned movies in Postgres, in an
// explicit user-controlled order.
package favourites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dr-cinema/dr-cinema/internal/domain"
)

// ErrNotFound indicates the requested favourite does not exist.
var ErrNotFound = errors.New("favourites: not found")

// Repository provides persistence helpers for favourites.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository backed by the provided pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const favouriteColumns = `id, movie_id, title, poster, position, created_at`

// AddParams bundles the fields required to pin a movie.
type AddParams struct {
	MovieID string
	Title   string
	Poster  string
}

// List returns all favourites ordered by position.
func (r *Repository) List(ctx context.Context) ([]domain.Favourite, error) {
	query := fmt.Sprintf(`SELECT %s FROM favourites ORDER BY position ASC`, favouriteColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Favourite, 0)
	for rows.Next() {
		fav, err := scanFavourite(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, fav)
	}
	return items, rows.Err()
}

// Add pins a movie at the end of the list. Adding an already pinned movie
// refreshes its title and poster and returns the existing row.
func (r *Repository) Add(ctx context.Context, params AddParams) (domain.Favourite, error) {
	if params.MovieID == "" || params.Title == "" {
		return domain.Favourite{}, fmt.Errorf("favourites: movie id and title are required")
	}

	query := fmt.Sprintf(`
        INSERT INTO favourites (id, movie_id, title, poster, position)
        VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(position) + 1, 0) FROM favourites))
        ON CONFLICT (movie_id) DO UPDATE
        SET title = EXCLUDED.title, poster = EXCLUDED.poster
        RETURNING %s
    `, favouriteColumns)

	row := r.pool.QueryRow(ctx, query, uuid.NewString(), params.MovieID, params.Title, params.Poster)
	return scanFavourite(row)
}

// Remove unpins a favourite by id and compacts the remaining positions.
func (r *Repository) Remove(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM favourites WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := compactPositions(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Move places a favourite at a new zero-based position, shifting the
// others. Positions past the end clamp to the end.
func (r *Repository) Move(ctx context.Context, id string, position int) ([]domain.Favourite, error) {
	if position < 0 {
		position = 0
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, fmt.Sprintf(`SELECT %s FROM favourites ORDER BY position ASC FOR UPDATE`, favouriteColumns))
	if err != nil {
		return nil, err
	}
	items := make([]domain.Favourite, 0)
	for rows.Next() {
		fav, err := scanFavourite(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, fav)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	from := -1
	for i, fav := range items {
		if fav.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, ErrNotFound
	}
	if position >= len(items) {
		position = len(items) - 1
	}

	moved := items[from]
	without := make([]domain.Favourite, 0, len(items)-1)
	without = append(without, items[:from]...)
	without = append(without, items[from+1:]...)

	reordered := make([]domain.Favourite, 0, len(items))
	reordered = append(reordered, without[:position]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, without[position:]...)

	for i := range reordered {
		if reordered[i].Position == i {
			continue
		}
		reordered[i].Position = i
		if _, err := tx.Exec(ctx, `UPDATE favourites SET position = $2 WHERE id = $1`, reordered[i].ID, i); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return reordered, nil
}

func compactPositions(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
        UPDATE favourites SET position = ranked.new_position
        FROM (
            SELECT id, ROW_NUMBER() OVER (ORDER BY position ASC) - 1 AS new_position
            FROM favourites
        ) AS ranked
        WHERE favourites.id = ranked.id AND favourites.position <> ranked.new_position
    `)
	return err
}

func scanFavourite(row pgx.Row) (domain.Favourite, error) {
	var fav domain.Favourite
	err := row.Scan(&fav.ID, &fav.MovieID, &fav.Title, &fav.Poster, &fav.Position, &fav.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Favourite{}, ErrNotFound
		}
		return domain.Favourite{}, err
	}
	return fav, nil
}
