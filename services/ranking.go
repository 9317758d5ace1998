package services

import (
	"cmp"
	"slices"

	"github.com/justbri/topmovies/models"
)

// RankMovies returns a copy of movies ordered by rating ascending with Ranking
// set so that the highest rated movie is 1 and the lowest is len(movies).
// Movies with equal ratings keep their relative input order.
func RankMovies(movies []models.Movie) []models.Movie {
	ranked := slices.Clone(movies)
	slices.SortStableFunc(ranked, func(a, b models.Movie) int {
		return cmp.Compare(a.Rating, b.Rating)
	})

	n := len(ranked)
	for i := range ranked {
		ranked[i].Ranking = n - i
	}
	return ranked
}
