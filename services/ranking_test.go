package services

import (
	"reflect"
	"testing"

	"github.com/justbri/topmovies/models"
)

func rankOf(t *testing.T, ranked []models.Movie, title string) int {
	t.Helper()
	for _, m := range ranked {
		if m.Title == title {
			return m.Ranking
		}
	}
	t.Fatalf("movie %q missing from ranked list", title)
	return 0
}

func TestRankMovies_Scenario(t *testing.T) {
	movies := []models.Movie{
		{ID: 1, Title: "A", Rating: 9.0},
		{ID: 2, Title: "B", Rating: 5.0},
		{ID: 3, Title: "C", Rating: 7.0},
	}

	ranked := RankMovies(movies)

	want := map[string]int{"A": 1, "C": 2, "B": 3}
	for title, rank := range want {
		if got := rankOf(t, ranked, title); got != rank {
			t.Errorf("rank of %s = %d, want %d", title, got, rank)
		}
	}

	// Output is ascending by rating: the lowest rank number comes last.
	if ranked[0].Title != "B" || ranked[2].Title != "A" {
		t.Errorf("unexpected order: %v, %v, %v", ranked[0].Title, ranked[1].Title, ranked[2].Title)
	}
}

func TestRankMovies_LowestIsCountHighestIsOne(t *testing.T) {
	tests := []struct {
		name    string
		ratings []float64
	}{
		{"already sorted", []float64{1, 2, 3, 4, 5}},
		{"reverse sorted", []float64{10, 8.5, 6, 2.5, 0}},
		{"shuffled", []float64{4.4, 9.9, 0.1, 7.7, 3.3, 5.5}},
		{"two", []float64{6, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var movies []models.Movie
			lowest, highest := 0, 0
			for i, r := range tt.ratings {
				movies = append(movies, models.Movie{ID: i + 1, Rating: r})
				if r < tt.ratings[lowest] {
					lowest = i
				}
				if r > tt.ratings[highest] {
					highest = i
				}
			}

			ranked := RankMovies(movies)
			n := len(movies)
			for _, m := range ranked {
				if m.ID == lowest+1 && m.Ranking != n {
					t.Errorf("lowest rated movie has rank %d, want %d", m.Ranking, n)
				}
				if m.ID == highest+1 && m.Ranking != 1 {
					t.Errorf("highest rated movie has rank %d, want 1", m.Ranking)
				}
			}
		})
	}
}

func TestRankMovies_Idempotent(t *testing.T) {
	movies := []models.Movie{
		{ID: 1, Title: "A", Rating: 3},
		{ID: 2, Title: "B", Rating: 8},
		{ID: 3, Title: "C", Rating: 8},
		{ID: 4, Title: "D", Rating: 1},
	}

	first := RankMovies(movies)
	second := RankMovies(first)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("ranking twice changed the result:\n%v\n%v", first, second)
	}
}

func TestRankMovies_EmptyAndSingle(t *testing.T) {
	if got := RankMovies(nil); len(got) != 0 {
		t.Errorf("RankMovies(nil) = %v, want empty", got)
	}

	got := RankMovies([]models.Movie{{ID: 7, Rating: 4}})
	if len(got) != 1 || got[0].Ranking != 1 {
		t.Errorf("single movie ranked %v, want rank 1", got)
	}
}

func TestRankMovies_DoesNotMutateInput(t *testing.T) {
	movies := []models.Movie{
		{ID: 1, Rating: 9},
		{ID: 2, Rating: 1},
	}

	RankMovies(movies)

	if movies[0].ID != 1 || movies[0].Ranking != 0 || movies[1].Ranking != 0 {
		t.Errorf("input was modified: %v", movies)
	}
}

func TestRankMovies_TiesKeepInputOrder(t *testing.T) {
	movies := []models.Movie{
		{ID: 1, Rating: 5},
		{ID: 2, Rating: 5},
		{ID: 3, Rating: 5},
	}

	ranked := RankMovies(movies)

	for i, m := range ranked {
		if m.ID != i+1 {
			t.Fatalf("tie order changed: %v", ranked)
		}
		if m.Ranking != 3-i {
			t.Errorf("movie %d rank = %d, want %d", m.ID, m.Ranking, 3-i)
		}
	}
}
