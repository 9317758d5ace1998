package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/justbri/topmovies/middleware"
)

// Routes wires every page onto a chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Home)
	r.Get("/add", h.AddForm)
	r.Post("/add", h.AddSubmit)
	r.Get("/select", h.Select)
	r.Get("/new_entry/{externalID}", h.NewEntry)
	r.Get("/edit/{movieID}", h.EditForm)
	r.Post("/edit/{movieID}", h.EditSubmit)
	r.Get("/delete/{movieID}", h.Delete)
	r.Post("/delete/{movieID}", h.Delete)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, r, http.StatusNotFound, "Page not found.")
	})

	return r
}
