package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ponderrr/smartadvisor/pkg/generator"
)

func TestNewItemCarriesCandidateFields(t *testing.T) {
	year := 2010
	rating := 8.8
	item := NewItem(generator.Candidate{
		Title:       "Inception",
		Author:      "",
		Description: "A heist inside dreams",
		AgeRating:   "PG-13",
		Genres:      []string{"Sci-Fi", "Thriller"},
		Year:        &year,
		Rating:      &rating,
	})

	assert.Equal(t, "Inception", item.Title)
	assert.Equal(t, "A heist inside dreams", item.Description)
	assert.Equal(t, "PG-13", item.AgeRating)
	assert.Equal(t, []string{"Sci-Fi", "Thriller"}, item.Genres)
	assert.Equal(t, &rating, item.Rating)
}

func TestApplyToNilEnrichmentLeavesItemUntouched(t *testing.T) {
	item := NewItem(generator.Candidate{Title: "Dune", Description: "Desert planet"})

	var e *Enrichment
	e.ApplyTo(&item)

	assert.Equal(t, "Dune", item.Title)
	assert.Equal(t, "Desert planet", item.Description)
	assert.Empty(t, item.CatalogId)
}

func TestApplyToOverwritesWithCatalogFields(t *testing.T) {
	runtime := 148
	rating := 8.8
	item := NewItem(generator.Candidate{Title: "Inception", Description: "Short blurb"})

	e := &Enrichment{
		CatalogId:   "27205",
		PosterPath:  "https://image.tmdb.org/t/p/w500/poster.jpg",
		ReleaseDate: "2010-07-16",
		Runtime:     &runtime,
		Rating:      &rating,
	}
	e.ApplyTo(&item)

	assert.Equal(t, "27205", item.CatalogId)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", item.PosterPath)
	assert.Equal(t, "2010-07-16", item.ReleaseDate)
	assert.Equal(t, &runtime, item.Runtime)
	assert.Equal(t, &rating, item.Rating)
}

func TestApplyToDescriptionPolicy(t *testing.T) {
	longDescription := strings.Repeat("a", minDescriptionLength)

	tests := []struct {
		name        string
		existing    string
		fromCatalog string
		want        string
	}{
		{
			name:        "short description replaced",
			existing:    "Too short",
			fromCatalog: "A long catalog synopsis",
			want:        "A long catalog synopsis",
		},
		{
			name:        "long description kept",
			existing:    longDescription,
			fromCatalog: "A long catalog synopsis",
			want:        longDescription,
		},
		{
			name:        "short description kept when catalog silent",
			existing:    "Too short",
			fromCatalog: "",
			want:        "Too short",
		},
		{
			name:        "empty description replaced",
			existing:    "",
			fromCatalog: "A long catalog synopsis",
			want:        "A long catalog synopsis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := NewItem(generator.Candidate{Title: "X", Description: tt.existing})
			e := &Enrichment{Description: tt.fromCatalog}
			e.ApplyTo(&item)
			assert.Equal(t, tt.want, item.Description)
		})
	}
}

func TestApplyToEmptyEnrichmentKeepsRawFields(t *testing.T) {
	rating := 7.5
	item := NewItem(generator.Candidate{
		Title:       "Contact",
		Author:      "Carl Sagan",
		Description: "First contact through radio astronomy",
		Rating:      &rating,
	})

	e := &Enrichment{}
	e.ApplyTo(&item)

	assert.Equal(t, "Carl Sagan", item.Author)
	assert.Equal(t, &rating, item.Rating)
	assert.Empty(t, item.PosterPath)
}
