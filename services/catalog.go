package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/justbri/topmovies/database"
	"github.com/justbri/topmovies/metrics"
	"github.com/justbri/topmovies/models"
)

// Catalog persists Movie records. Every mutation is a single transaction.
type Catalog struct {
	db *database.DB
}

func NewCatalog(db *database.DB) *Catalog {
	return &Catalog{db: db}
}

const movieColumns = `id, title, year, description, rating, review, img_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (models.Movie, error) {
	var m models.Movie
	var review sql.NullString
	err := row.Scan(&m.ID, &m.Title, &m.Year, &m.Description, &m.Rating, &review, &m.ImageURL, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return models.Movie{}, err
	}
	m.Review = review.String
	return m, nil
}

// nullableReview stores an empty review as NULL so "no review yet" never
// collides with anything a user can type.
func nullableReview(review string) sql.NullString {
	return sql.NullString{String: review, Valid: review != ""}
}

// Insert stores a new movie and returns its id. The movie's ID field is ignored.
func (c *Catalog) Insert(ctx context.Context, m models.Movie) (int, error) {
	var id int
	err := c.withTx(ctx, "insert", func(tx *sql.Tx) error {
		query := `
			INSERT INTO movies (title, year, description, rating, review, img_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query, m.Title, m.Year, m.Description, m.Rating, nullableReview(m.Review), m.ImageURL).Scan(&id)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("insert %q: %w", m.Title, ErrDuplicateTitle)
			}
			return fmt.Errorf("failed to insert movie: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("Movie added", "id", id, "title", m.Title)
	return id, nil
}

func (c *Catalog) Get(ctx context.Context, id int) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	m, err := scanMovie(c.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movie %d: %w", id, ErrMovieNotFound)
		}
		metrics.DBErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return &m, nil
}

// UpdateReview sets the user's rating and review for a movie.
func (c *Catalog) UpdateReview(ctx context.Context, id int, rating float64, review string) error {
	return c.withTx(ctx, "update", func(tx *sql.Tx) error {
		query := `UPDATE movies SET rating = $1, review = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`
		res, err := tx.ExecContext(ctx, query, rating, nullableReview(review), id)
		if err != nil {
			return fmt.Errorf("failed to update movie %d: %w", id, err)
		}
		return expectOneRow(res, id)
	})
}

func (c *Catalog) Delete(ctx context.Context, id int) error {
	err := c.withTx(ctx, "delete", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete movie %d: %w", id, err)
		}
		return expectOneRow(res, id)
	})
	if err == nil {
		slog.Info("Movie deleted", "id", id)
	}
	return err
}

// ListByRating returns every movie ordered by rating ascending, ties by id.
func (c *Catalog) ListByRating(ctx context.Context) ([]models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY rating ASC, id ASC`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		metrics.DBErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return n, nil
}

func (c *Catalog) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		metrics.DBErrors.WithLabelValues(op).Inc()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Rollback failed", "op", op, "error", rbErr)
		}
		if !errors.Is(err, ErrMovieNotFound) && !errors.Is(err, ErrDuplicateTitle) {
			metrics.DBErrors.WithLabelValues(op).Inc()
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		metrics.DBErrors.WithLabelValues(op).Inc()
		return fmt.Errorf("failed to commit %s: %w", op, err)
	}
	return nil
}

func expectOneRow(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("movie %d: %w", id, ErrMovieNotFound)
	}
	return nil
}
