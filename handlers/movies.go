package handlers

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/justbri/topmovies/models"
	"github.com/justbri/topmovies/services"
	"github.com/justbri/topmovies/shared/format"
	"github.com/justbri/topmovies/shared/logger"
	"github.com/justbri/topmovies/validation"
)

type homeData struct {
	page
	Movies []models.Movie
}

// Home lists every movie with its rank, best first.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.ListByRating(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ranked := services.RankMovies(movies)
	slices.Reverse(ranked)

	h.render(w, r, http.StatusOK, "index", homeData{
		page:   h.flashes(w, r),
		Movies: ranked,
	})
}

type editData struct {
	page
	Movie  *models.Movie
	Form   rateFormView
	Errors validation.FieldErrors
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "movieID")
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid movie id.")
		return
	}

	movie, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "edit", editData{
		page:  h.flashes(w, r),
		Movie: movie,
		Form:  rateFormViewFor(movie),
	})
}

// EditSubmit stores a new rating and review. Invalid input re-renders the
// form and leaves the stored movie untouched.
func (h *Handler) EditSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "movieID")
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid movie id.")
		return
	}

	movie, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	form, view, errs := parseRateMovieForm(r)
	if len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "edit", editData{
			page:   h.flashes(w, r),
			Movie:  movie,
			Form:   view,
			Errors: errs,
		})
		return
	}

	if err := h.catalog.UpdateReview(r.Context(), id, form.Rating, form.Review); err != nil {
		h.fail(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("Movie rated",
		"id", id,
		"rating", form.Rating,
		"review", format.Preview(form.Review, 40))

	h.flash(w, r, services.FlashSuccess, fmt.Sprintf("Updated %s.", movie.Title))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "movieID")
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid movie id.")
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.flash(w, r, services.FlashSuccess, "Movie deleted.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
