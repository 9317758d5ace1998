package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestBuildQueryURL(t *testing.T) {
	got, err := BuildQueryURL("https://api.themoviedb.org/3/search/movie", map[string]string{
		"query":   "Phone Booth",
		"api_key": "",
	})
	if err != nil {
		t.Fatalf("BuildQueryURL: %v", err)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse %q: %v", got, err)
	}
	if u.Query().Get("query") != "Phone Booth" {
		t.Errorf("query = %q", u.Query().Get("query"))
	}
	if u.Query().Has("api_key") {
		t.Error("empty parameter was kept")
	}

	if _, err := BuildQueryURL("://bad", nil); err == nil {
		t.Error("invalid base url accepted")
	}
}

func TestMakeRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		if r.URL.Path == "/missing" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"results":[{"id":1}]}`))
	}))
	defer srv.Close()

	client := NewClient(time.Second)
	headers := map[string]string{"Accept": "application/json"}

	resp, err := MakeRequest(context.Background(), srv.URL+"/ok", headers, client)
	if err != nil {
		t.Fatalf("MakeRequest: %v", err)
	}
	var out struct {
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	if err := DecodeJSONResponse(resp, &out); err != nil {
		t.Fatalf("DecodeJSONResponse: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].ID != 1 {
		t.Errorf("decoded %+v", out)
	}

	_, err = MakeRequest(context.Background(), srv.URL+"/missing", headers, client)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("got %v, want status 404 error", err)
	}
}
