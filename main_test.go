package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/justbri/topmovies/models"
	"github.com/justbri/topmovies/services"
)

func TestPrintRanked(t *testing.T) {
	var buf bytes.Buffer
	printRanked(&buf, services.RankMovies([]models.Movie{
		{ID: 1, Title: "Alpha", Rating: 9},
		{ID: 2, Title: "Bravo", Rating: 5},
		{ID: 3, Title: "Charlie", Rating: 7},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"1. Alpha", "2. Charlie", "3. Bravo"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestPrintRanked_Empty(t *testing.T) {
	var buf bytes.Buffer
	printRanked(&buf, nil)

	if !strings.Contains(buf.String(), "No movies yet") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate", "list", "delete"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not found: %v", name, err)
		}
	}
}
