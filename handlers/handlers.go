package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/justbri/topmovies/models"
	"github.com/justbri/topmovies/services"
	"github.com/justbri/topmovies/shared/logger"
	"github.com/justbri/topmovies/templates"
)

// Catalog is the part of the movie store the handlers use.
type Catalog interface {
	Insert(ctx context.Context, m models.Movie) (int, error)
	Get(ctx context.Context, id int) (*models.Movie, error)
	UpdateReview(ctx context.Context, id int, rating float64, review string) error
	Delete(ctx context.Context, id int) error
	ListByRating(ctx context.Context) ([]models.Movie, error)
}

type Deps struct {
	Catalog      Catalog
	Metadata     services.MetadataSource
	Sessions     *services.SessionStore
	ImageBaseURL string
}

type Handler struct {
	catalog      Catalog
	metadata     services.MetadataSource
	sessions     *services.SessionStore
	imageBaseURL string
	pages        map[string]*template.Template
}

var pageNames = []string{"index", "add", "select", "edit", "error"}

func New(deps Deps) (*Handler, error) {
	if deps.Catalog == nil || deps.Metadata == nil || deps.Sessions == nil {
		return nil, errors.New("handlers: catalog, metadata and sessions are required")
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := loadTemplate(name)
		if err != nil {
			return nil, err
		}
		pages[name] = tmpl
	}

	return &Handler{
		catalog:      deps.Catalog,
		metadata:     deps.Metadata,
		sessions:     deps.Sessions,
		imageBaseURL: deps.ImageBaseURL,
		pages:        pages,
	}, nil
}

// loadTemplate parses a page together with the shared layout and navigation.
func loadTemplate(name string) (*template.Template, error) {
	tmpl, err := template.New(name).ParseFS(templates.FS,
		"layouts/base.html",
		"pages/"+name+".html",
		"components/navigation.html",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// page carries what the base layout needs on every page.
type page struct {
	Flashes []services.Flash
}

// render executes a page into a buffer first so a template error still
// produces a clean 500 instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "base", data); err != nil {
		logger.FromContext(r.Context()).Error("Error executing template", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) flashes(w http.ResponseWriter, r *http.Request) page {
	return page{Flashes: h.sessions.Flashes(w, r)}
}

func (h *Handler) flash(w http.ResponseWriter, r *http.Request, level, message string) {
	if err := h.sessions.AddFlash(w, r, level, message); err != nil {
		logger.FromContext(r.Context()).Warn("Failed to save flash message", "error", err)
	}
}

type errorPage struct {
	page
	Status     int
	StatusText string
	Message    string
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "error", errorPage{
		page:       h.flashes(w, r),
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    message,
	})
}

// fail maps a store or metadata error onto a visible failure response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	switch {
	case errors.Is(err, services.ErrMovieNotFound):
		log.Warn("Movie not found", "path", r.URL.Path, "error", err)
		h.renderError(w, r, http.StatusNotFound, "Movie not found.")
	case errors.Is(err, services.ErrDuplicateTitle):
		log.Warn("Duplicate movie title", "error", err)
		h.renderError(w, r, http.StatusConflict, "That movie is already in your list.")
	case errors.Is(err, services.ErrRemoteService):
		log.Error("Movie database request failed", "error", err)
		h.renderError(w, r, http.StatusBadGateway, "The movie database could not be reached or sent an incomplete answer. Nothing was saved.")
	default:
		log.Error("Request failed", "path", r.URL.Path, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong.")
	}
}

// idParam parses a positive integer route parameter.
func idParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}
