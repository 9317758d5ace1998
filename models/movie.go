package models

import "time"

type Movie struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	Rating      float64   `json:"rating"`
	Ranking     int       `json:"ranking,omitempty"` // derived on read, never stored
	Review      string    `json:"review"`            // empty until reviewed, stored as NULL
	ImageURL    string    `json:"img_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasReview reports whether the user has written a review yet.
func (m Movie) HasReview() bool {
	return m.Review != ""
}

// Candidate is an unconfirmed search result from the metadata service.
type Candidate struct {
	ExternalID  int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Year        int    `json:"year"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
}

// MovieDetail is the full metadata record used to create a Movie.
type MovieDetail struct {
	ExternalID  int    `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required,max=250"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
}
