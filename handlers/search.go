package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/justbri/topmovies/models"
	"github.com/justbri/topmovies/services"
	"github.com/justbri/topmovies/validation"
)

type addData struct {
	page
	Form   AddMovieForm
	Errors validation.FieldErrors
}

func (h *Handler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "add", addData{page: h.flashes(w, r)})
}

// AddSubmit validates the title and hands it to the selection page.
func (h *Handler) AddSubmit(w http.ResponseWriter, r *http.Request) {
	form, errs := parseAddMovieForm(r)
	if len(errs) > 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "add", addData{
			page:   h.flashes(w, r),
			Form:   form,
			Errors: errs,
		})
		return
	}

	http.Redirect(w, r, "/select?movie_title="+url.QueryEscape(form.Title), http.StatusSeeOther)
}

type candidateView struct {
	models.Candidate
	PosterURL string
}

type selectData struct {
	page
	Query      string
	Candidates []candidateView
}

func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("movie_title"))
	if query == "" {
		h.flash(w, r, services.FlashWarning, "Enter a movie title to search for.")
		http.Redirect(w, r, "/add", http.StatusSeeOther)
		return
	}

	candidates, err := h.metadata.SearchMovies(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	views := make([]candidateView, 0, len(candidates))
	for _, c := range candidates {
		views = append(views, candidateView{
			Candidate: c,
			PosterURL: services.PosterURL(h.imageBaseURL, c.PosterPath),
		})
	}

	h.render(w, r, http.StatusOK, "select", selectData{
		page:       h.flashes(w, r),
		Query:      query,
		Candidates: views,
	})
}

// NewEntry creates a movie from the chosen search result. Nothing is stored
// unless the metadata lookup returns a complete record.
func (h *Handler) NewEntry(w http.ResponseWriter, r *http.Request) {
	externalID, err := idParam(r, "externalID")
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid movie id.")
		return
	}

	detail, err := h.metadata.MovieDetails(r.Context(), externalID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	movie := models.Movie{
		Title:       detail.Title,
		Year:        services.YearFromReleaseDate(detail.ReleaseDate),
		Description: detail.Overview,
		Rating:      0,
		ImageURL:    services.PosterURL(h.imageBaseURL, detail.PosterPath),
	}

	id, err := h.catalog.Insert(r.Context(), movie)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.flash(w, r, services.FlashSuccess, fmt.Sprintf("Added %s. Now give it a rating.", movie.Title))
	http.Redirect(w, r, "/edit/"+strconv.Itoa(id), http.StatusSeeOther)
}
