package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/justbri/topmovies/shared/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing one set by an upstream proxy.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
	})
}
