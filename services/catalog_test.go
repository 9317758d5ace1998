package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/justbri/topmovies/database"
	"github.com/justbri/topmovies/models"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "movies.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewCatalog(db)
}

func mustCount(t *testing.T, c *Catalog) int {
	t.Helper()
	n, err := c.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func mustInsert(t *testing.T, c *Catalog, m models.Movie) int {
	t.Helper()
	id, err := c.Insert(context.Background(), m)
	if err != nil {
		t.Fatalf("insert %q: %v", m.Title, err)
	}
	return id
}

func TestCatalog_InsertAndGet(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	id := mustInsert(t, c, models.Movie{
		Title:       "Phone Booth",
		Year:        2002,
		Description: "A man is held in a phone booth by a sniper.",
		ImageURL:    "https://image.tmdb.org/t/p/w500/poster.jpg",
	})
	if id <= 0 {
		t.Fatalf("insert returned id %d", id)
	}

	got, err := c.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Phone Booth" || got.Year != 2002 || got.Rating != 0 {
		t.Errorf("unexpected movie: %+v", got)
	}
	if got.Review != "" || got.HasReview() {
		t.Errorf("review = %q, want none", got.Review)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestCatalog_InsertDuplicateTitle(t *testing.T) {
	c := newTestCatalog(t)

	mustInsert(t, c, models.Movie{Title: "Alien", Year: 1979})
	before := mustCount(t, c)

	_, err := c.Insert(context.Background(), models.Movie{Title: "Alien", Year: 1986})
	if !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("insert duplicate: got %v, want ErrDuplicateTitle", err)
	}

	if after := mustCount(t, c); after != before {
		t.Errorf("count changed from %d to %d after failed insert", before, after)
	}
}

func TestCatalog_GetNotFound(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Get(context.Background(), 42)
	if !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("get missing: got %v, want ErrMovieNotFound", err)
	}
}

func TestCatalog_UpdateReview(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	id := mustInsert(t, c, models.Movie{Title: "Drive"})

	if err := c.UpdateReview(ctx, id, 7.5, "Loved the soundtrack."); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := c.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Rating != 7.5 || got.Review != "Loved the soundtrack." {
		t.Errorf("after update: rating %v review %q", got.Rating, got.Review)
	}

	if err := c.UpdateReview(ctx, id+100, 1, "x"); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("update missing: got %v, want ErrMovieNotFound", err)
	}
}

func TestCatalog_ReviewNullVersusLiteral(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	id := mustInsert(t, c, models.Movie{Title: "Drive"})

	var stored sql.NullString
	if err := c.db.QueryRowContext(ctx, `SELECT review FROM movies WHERE id = $1`, id).Scan(&stored); err != nil {
		t.Fatalf("read review: %v", err)
	}
	if stored.Valid {
		t.Errorf("new movie review stored as %q, want NULL", stored.String)
	}

	if err := c.UpdateReview(ctx, id, 6, "NULL"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := c.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Review != "NULL" || !got.HasReview() {
		t.Errorf("typed review %q lost, HasReview = %v", got.Review, got.HasReview())
	}
}

func TestCatalog_Delete(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	id := mustInsert(t, c, models.Movie{Title: "Heat"})
	mustInsert(t, c, models.Movie{Title: "Ronin"})

	if err := c.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, id); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("get after delete: got %v, want ErrMovieNotFound", err)
	}
	if n := mustCount(t, c); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestCatalog_DeleteNotFound(t *testing.T) {
	c := newTestCatalog(t)
	mustInsert(t, c, models.Movie{Title: "Heat"})
	before := mustCount(t, c)

	err := c.Delete(context.Background(), 999)
	if !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("delete missing: got %v, want ErrMovieNotFound", err)
	}
	if after := mustCount(t, c); after != before {
		t.Errorf("count changed from %d to %d", before, after)
	}
}

func TestCatalog_ListByRating(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	empty, err := c.ListByRating(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty catalog listed %d movies", len(empty))
	}

	for _, m := range []models.Movie{
		{Title: "A", Rating: 9.0},
		{Title: "B", Rating: 5.0},
		{Title: "C", Rating: 7.0},
		{Title: "D", Rating: 5.0},
	} {
		mustInsert(t, c, m)
	}

	movies, err := c.ListByRating(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var titles []string
	for _, m := range movies {
		titles = append(titles, m.Title)
	}
	want := []string{"B", "D", "C", "A"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles = %v, want %v", titles, want)
		}
	}

	ranked := RankMovies(movies)
	if ranked[len(ranked)-1].Title != "A" || ranked[len(ranked)-1].Ranking != 1 {
		t.Errorf("best movie ranked %+v", ranked[len(ranked)-1])
	}
}
