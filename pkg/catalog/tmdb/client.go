// Package tmdb enriches movie candidates using The Movie Database API.
package tmdb

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
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	client       *http.Client
	cache        *cache.Cache
	log          logger.ILogger
}

var _ catalog.Enricher = &Client{}

func NewClient(apiKey string, log logger.ILogger) *Client {
	return &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		// Popular titles repeat across sessions, so keeping lookups warm
		// for a while avoids re-hitting the catalog.
		cache: cache.New(30*time.Minute, 10*time.Minute),
		log:   log,
	}
}

// NewClientWithBaseURL keeps the same behaviour but talks to a custom
// endpoint. Intended for tests.
func NewClientWithBaseURL(apiKey, baseURL, imageBaseURL string, log logger.ILogger) *Client {
	c := NewClient(apiKey, log)
	c.baseURL = baseURL
	c.imageBaseURL = imageBaseURL
	return c
}

type searchResponse struct {
	Results []struct {
		Id int `json:"id"`
	} `json:"results"`
}

type movieDetails struct {
	Id          int      `json:"id"`
	Overview    string   `json:"overview"`
	PosterPath  string   `json:"poster_path"`
	ReleaseDate string   `json:"release_date"`
	Runtime     *int     `json:"runtime"`
	VoteAverage *float64 `json:"vote_average"`
}

// Enrich looks the candidate up by title (and year when present). Any
// failure along the way degrades to a nil enrichment.
func (c *Client) Enrich(ctx context.Context, candidate generator.Candidate) *catalog.Enrichment {
	if c.apiKey == "" {
		return nil
	}

	cacheKey := "movie:" + candidate.Title
	if candidate.Year != nil {
		cacheKey += ":" + strconv.Itoa(*candidate.Year)
	}
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*catalog.Enrichment)
	}

	movieId, ok := c.search(ctx, candidate)
	if !ok {
		return nil
	}

	details, ok := c.details(ctx, movieId)
	if !ok {
		return nil
	}

	enrichment := &catalog.Enrichment{
		CatalogId:   strconv.Itoa(details.Id),
		Description: details.Overview,
		ReleaseDate: details.ReleaseDate,
		Runtime:     details.Runtime,
		Rating:      details.VoteAverage,
	}
	if details.PosterPath != "" {
		enrichment.PosterPath = c.imageBaseURL + details.PosterPath
	}

	c.cache.Set(cacheKey, enrichment, cache.DefaultExpiration)
	return enrichment
}

func (c *Client) search(ctx context.Context, candidate generator.Candidate) (int, bool) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", candidate.Title)
	if candidate.Year != nil {
		params.Set("year", strconv.Itoa(*candidate.Year))
	}

	var result searchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search/movie?"+params.Encode(), &result); err != nil {
		c.log.Warn("tmdb", "movie search failed", map[string]interface{}{
			"title": candidate.Title,
			"error": err.Error(),
		})
		return 0, false
	}

	if len(result.Results) == 0 {
		return 0, false
	}
	return result.Results[0].Id, true
}

func (c *Client) details(ctx context.Context, movieId int) (*movieDetails, bool) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)

	var details movieDetails
	if err := c.getJSON(ctx, fmt.Sprintf("%s/movie/%d?%s", c.baseURL, movieId, params.Encode()), &details); err != nil {
		c.log.Warn("tmdb", "movie details failed", map[string]interface{}{
			"movie_id": movieId,
			"error":    err.Error(),
		})
		return nil, false
	}
	return &details, true
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
