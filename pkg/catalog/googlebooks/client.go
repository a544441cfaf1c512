// Package googlebooks enriches book candidates using the Google Books API.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ponderrr/smartadvisor/internal/pkg/logger"
	"github.com/ponderrr/smartadvisor/pkg/catalog"
	"github.com/ponderrr/smartadvisor/pkg/generator"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1"

	// Catalog descriptions can run to whole plot summaries; cap what we take.
	maxDescriptionLength = 500
)

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *cache.Cache
	log     logger.ILogger
}

var _ catalog.Enricher = &Client{}

func NewClient(apiKey string, log logger.ILogger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache.New(30*time.Minute, 10*time.Minute),
		log:   log,
	}
}

// NewClientWithBaseURL keeps the same behaviour but talks to a custom
// endpoint. Intended for tests.
func NewClientWithBaseURL(apiKey, baseURL string, log logger.ILogger) *Client {
	c := NewClient(apiKey, log)
	c.baseURL = baseURL
	return c
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type volumeInfo struct {
	Description         string   `json:"description"`
	PublishedDate       string   `json:"publishedDate"`
	PageCount           *int     `json:"pageCount"`
	Publisher           string   `json:"publisher"`
	AverageRating       *float64 `json:"averageRating"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

// Enrich looks the candidate up by title and author. The Google Books
// API works without a key, so a missing key narrows nothing here; any
// lookup failure degrades to a nil enrichment.
func (c *Client) Enrich(ctx context.Context, candidate generator.Candidate) *catalog.Enrichment {
	cacheKey := "book:" + candidate.Title + ":" + candidate.Author
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*catalog.Enrichment)
	}

	info, ok := c.search(ctx, candidate)
	if !ok {
		return nil
	}

	description := info.Description
	if len(description) > maxDescriptionLength {
		description = description[:maxDescriptionLength] + "..."
	}

	enrichment := &catalog.Enrichment{
		CatalogId:   extractISBN(info),
		Description: description,
		ReleaseDate: info.PublishedDate,
		Publisher:   info.Publisher,
		PageCount:   info.PageCount,
		Rating:      info.AverageRating,
		PosterPath:  info.ImageLinks.Thumbnail,
	}

	c.cache.Set(cacheKey, enrichment, cache.DefaultExpiration)
	return enrichment
}

func (c *Client) search(ctx context.Context, candidate generator.Candidate) (*volumeInfo, bool) {
	query := "intitle:" + candidate.Title
	if candidate.Author != "" {
		query += "+inauthor:" + candidate.Author
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(1))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	var result volumesResponse
	if err := c.getJSON(ctx, c.baseURL+"/volumes?"+params.Encode(), &result); err != nil {
		c.log.Warn("googlebooks", "book search failed", map[string]interface{}{
			"title": candidate.Title,
			"error": err.Error(),
		})
		return nil, false
	}

	if len(result.Items) == 0 {
		return nil, false
	}
	return &result.Items[0].VolumeInfo, true
}

func extractISBN(info *volumeInfo) string {
	for _, identifier := range info.IndustryIdentifiers {
		if identifier.Type == "ISBN_13" || identifier.Type == "ISBN_10" {
			return identifier.Identifier
		}
	}
	return ""
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}
