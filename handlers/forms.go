package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/justbri/topmovies/models"
	"github.com/justbri/topmovies/validation"
)

type AddMovieForm struct {
	Title string `form:"title" validate:"required,max=250"`
}

type RateMovieForm struct {
	Rating float64 `form:"rating" validate:"gte=0,lte=10"`
	Review string  `form:"review" validate:"max=250"`
}

// rateFormView holds the raw submitted strings so an invalid form is shown
// back exactly as typed.
type rateFormView struct {
	Rating string
	Review string
}

func rateFormViewFor(m *models.Movie) rateFormView {
	return rateFormView{
		Rating: strconv.FormatFloat(m.Rating, 'f', -1, 64),
		Review: m.Review,
	}
}

func parseAddMovieForm(r *http.Request) (AddMovieForm, validation.FieldErrors) {
	form := AddMovieForm{Title: strings.TrimSpace(r.PostFormValue("title"))}
	return form, validateForm(form)
}

func parseRateMovieForm(r *http.Request) (RateMovieForm, rateFormView, validation.FieldErrors) {
	view := rateFormView{
		Rating: strings.TrimSpace(r.PostFormValue("rating")),
		Review: strings.TrimSpace(r.PostFormValue("review")),
	}
	form := RateMovieForm{Review: view.Review}

	if view.Rating == "" {
		return form, view, validation.FieldErrors{"rating": "this field is required"}
	}
	// Plain decimals only: ParseFloat alone would also take hex floats, NaN and Inf.
	if !validation.IsDecimal(view.Rating) {
		return form, view, validation.FieldErrors{"rating": "must be a number"}
	}
	rating, err := strconv.ParseFloat(view.Rating, 64)
	if err != nil {
		return form, view, validation.FieldErrors{"rating": "must be a number"}
	}
	form.Rating = rating

	return form, view, validateForm(form)
}

func validateForm(form any) validation.FieldErrors {
	err := validation.Struct(form)
	if err == nil {
		return nil
	}
	if fe, ok := err.(validation.FieldErrors); ok {
		return fe
	}
	return validation.FieldErrors{"form": err.Error()}
}
