// Package catalog augments generated recommendation candidates with
// metadata from external read-only catalogs. Lookups are best effort:
// a failed or empty lookup degrades to "no enrichment", never an error.
package catalog

import (
	"context"

	"github.com/ponderrr/smartadvisor/pkg/generator"
)

// minDescriptionLength is the threshold below which a generator-provided
// description is replaced by the catalog's description when one exists.
const minDescriptionLength = 100

// Enrichment is a typed partial update produced by a catalog lookup.
// Zero-valued fields mean the catalog had nothing to say for that slot.
type Enrichment struct {
	CatalogId   string
	PosterPath  string
	Description string
	ReleaseDate string
	Publisher   string
	Runtime     *int
	PageCount   *int
	Rating      *float64
}

// Enricher looks up one candidate in an external catalog. A nil result
// means no enrichment is available; implementations never return errors.
type Enricher interface {
	Enrich(ctx context.Context, candidate generator.Candidate) *Enrichment
}

// Item is a candidate after merge, carrying both the generator's raw
// fields and whatever the catalog contributed.
type Item struct {
	Title       string
	Author      string
	Description string
	AgeRating   string
	Genres      []string
	Rating      *float64
	CatalogId   string
	PosterPath  string
	ReleaseDate string
	Publisher   string
	Runtime     *int
	PageCount   *int
}

// NewItem seeds an item with the candidate's raw fields.
func NewItem(c generator.Candidate) Item {
	return Item{
		Title:       c.Title,
		Author:      c.Author,
		Description: c.Description,
		AgeRating:   c.AgeRating,
		Genres:      c.Genres,
		Rating:      c.Rating,
	}
}

// ApplyTo merges catalog fields into an item. Non-empty catalog values
// overwrite; the generator's description survives unless it is shorter
// than minDescriptionLength and the catalog supplied one.
func (e *Enrichment) ApplyTo(item *Item) {
	if e == nil {
		return
	}

	if e.CatalogId != "" {
		item.CatalogId = e.CatalogId
	}
	if e.PosterPath != "" {
		item.PosterPath = e.PosterPath
	}
	if e.ReleaseDate != "" {
		item.ReleaseDate = e.ReleaseDate
	}
	if e.Publisher != "" {
		item.Publisher = e.Publisher
	}
	if e.Runtime != nil {
		item.Runtime = e.Runtime
	}
	if e.PageCount != nil {
		item.PageCount = e.PageCount
	}
	if e.Rating != nil {
		item.Rating = e.Rating
	}
	if e.Description != "" && len(item.Description) < minDescriptionLength {
		item.Description = e.Description
	}
}
