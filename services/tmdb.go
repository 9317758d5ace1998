package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/justbri/topmovies/config"
	"github.com/justbri/topmovies/metrics"
	"github.com/justbri/topmovies/models"
	sharedhttp "github.com/justbri/topmovies/shared/http"
	"github.com/justbri/topmovies/validation"
)

// MetadataSource looks movies up in an external metadata service.
type MetadataSource interface {
	SearchMovies(ctx context.Context, title string) ([]models.Candidate, error)
	MovieDetails(ctx context.Context, externalID int) (*models.MovieDetail, error)
}

type tmdbSearchResponse struct {
	Results []models.Candidate `json:"results"`
}

// TMDBClient talks to The Movie Database v3 API.
type TMDBClient struct {
	cfg     config.TMDBConfig
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[any]
}

const tmdbBreakerName = "tmdb-api"

func NewTMDBClient(cfg config.TMDBConfig) *TMDBClient {
	metrics.CircuitBreakerState.WithLabelValues(tmdbBreakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        tmdbBreakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A well-formed answer we refuse to use says nothing about availability,
			// and neither does a caller giving up.
			return err == nil || errors.Is(err, errIncompleteDetail) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &TMDBClient{
		cfg:     cfg,
		client:  sharedhttp.NewClient(cfg.Timeout),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		cb:      cb,
	}
}

var errIncompleteDetail = errors.New("incomplete movie detail")

// SearchMovies returns the candidates TMDB lists for a title query.
func (c *TMDBClient) SearchMovies(ctx context.Context, title string) ([]models.Candidate, error) {
	var resp tmdbSearchResponse
	err := c.call(ctx, "search", "/search/movie", map[string]string{"query": title}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("search %q: response has no results field: %w", title, ErrRemoteService)
	}

	for i := range resp.Results {
		resp.Results[i].Year = YearFromReleaseDate(resp.Results[i].ReleaseDate)
	}
	return resp.Results, nil
}

// MovieDetails fetches the full record for a TMDB movie id.
func (c *TMDBClient) MovieDetails(ctx context.Context, externalID int) (*models.MovieDetail, error) {
	var detail models.MovieDetail
	path := "/movie/" + strconv.Itoa(externalID)
	if err := c.call(ctx, "details", path, map[string]string{"language": "en-US"}, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *TMDBClient) call(ctx context.Context, op, path string, params map[string]string, out any) error {
	if err := ctx.Err(); err != nil {
		metrics.RecordMetadataRequest(op, "cancelled", 0)
		return fmt.Errorf("tmdb %s: %w: %w", op, ErrRemoteService, err)
	}

	start := time.Now()
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.fetch(ctx, path, params, out)
	})

	result := "success"
	if err != nil {
		result = "failure"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			result = "rejected"
		case errors.Is(err, context.Canceled):
			result = "cancelled"
		}
	}
	metrics.RecordMetadataRequest(op, result, time.Since(start))

	if err != nil {
		slog.Error("TMDB request failed", "op", op, "path", path, "error", err)
		return fmt.Errorf("tmdb %s: %w: %w", op, ErrRemoteService, err)
	}
	return nil
}

func (c *TMDBClient) fetch(ctx context.Context, path string, params map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	query := map[string]string{}
	for k, v := range params {
		query[k] = v
	}
	headers := map[string]string{"Accept": "application/json"}
	if c.cfg.APIToken != "" {
		headers["Authorization"] = bearer(c.cfg.APIToken)
	} else {
		query["api_key"] = c.cfg.APIKey
	}

	apiURL, err := sharedhttp.BuildQueryURL(strings.TrimSuffix(c.cfg.BaseURL, "/")+path, query)
	if err != nil {
		return err
	}

	resp, err := sharedhttp.MakeRequest(ctx, apiURL, headers, c.client)
	if err != nil {
		return err
	}
	if err := sharedhttp.DecodeJSONResponse(resp, out); err != nil {
		return err
	}

	if detail, ok := out.(*models.MovieDetail); ok {
		if err := validation.Struct(detail); err != nil {
			return fmt.Errorf("%w: %v", errIncompleteDetail, err)
		}
	}
	return nil
}

// bearer accepts tokens with or without the "Bearer " prefix.
func bearer(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

// PosterURL joins the image base and a TMDB poster path. An empty path gives
// an empty URL.
func PosterURL(imageBase, posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return strings.TrimSuffix(imageBase, "/") + "/" + strings.TrimPrefix(posterPath, "/")
}

// YearFromReleaseDate extracts the year of a "YYYY-MM-DD" date, or 0.
func YearFromReleaseDate(date string) int {
	yearStr, _, _ := strings.Cut(date, "-")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0
	}
	return year
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
