package googlebooks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ponderrr/smartadvisor/pkg/generator"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestEnrichHappyPath(t *testing.T) {
	body := `{"items":[{"volumeInfo":{
		"description":"Set on the desert planet Arrakis.",
		"publishedDate":"1965-08-01",
		"pageCount":412,
		"publisher":"Chilton Books",
		"averageRating":4.5,
		"industryIdentifiers":[{"type":"ISBN_13","identifier":"9780441013593"}],
		"imageLinks":{"thumbnail":"https://books.example/dune.jpg"}
	}}]}`
	srv := newTestServer(t, body, http.StatusOK)
	defer srv.Close()

	client := NewClientWithBaseURL("", srv.URL, nopLogger{})
	e := client.Enrich(context.Background(), generator.Candidate{Title: "Dune", Author: "Frank Herbert"})

	assert.NotNil(t, e)
	assert.Equal(t, "9780441013593", e.CatalogId)
	assert.Equal(t, "Set on the desert planet Arrakis.", e.Description)
	assert.Equal(t, "1965-08-01", e.ReleaseDate)
	assert.Equal(t, "Chilton Books", e.Publisher)
	assert.Equal(t, 412, *e.PageCount)
	assert.Equal(t, 4.5, *e.Rating)
	assert.Equal(t, "https://books.example/dune.jpg", e.PosterPath)
}

func TestEnrichWorksWithoutAPIKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		w.Write([]byte(`{"items":[{"volumeInfo":{"description":"keyless"}}]}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("", srv.URL, nopLogger{})
	e := client.Enrich(context.Background(), generator.Candidate{Title: "Dune"})

	assert.NotNil(t, e)
	assert.Empty(t, gotKey)
}

func TestEnrichLongDescriptionTruncated(t *testing.T) {
	long := strings.Repeat("x", maxDescriptionLength+200)
	body := fmt.Sprintf(`{"items":[{"volumeInfo":{"description":"%s"}}]}`, long)
	srv := newTestServer(t, body, http.StatusOK)
	defer srv.Close()

	client := NewClientWithBaseURL("", srv.URL, nopLogger{})
	e := client.Enrich(context.Background(), generator.Candidate{Title: "Dune"})

	assert.NotNil(t, e)
	assert.Len(t, e.Description, maxDescriptionLength+3)
	assert.True(t, strings.HasSuffix(e.Description, "..."))
}

func TestEnrichNoItemsReturnsNil(t *testing.T) {
	srv := newTestServer(t, `{"items":[]}`, http.StatusOK)
	defer srv.Close()

	client := NewClientWithBaseURL("", srv.URL, nopLogger{})
	e := client.Enrich(context.Background(), generator.Candidate{Title: "Unknown Book"})
	assert.Nil(t, e)
}

func TestEnrichUpstreamErrorReturnsNil(t *testing.T) {
	srv := newTestServer(t, `{"error":"quota"}`, http.StatusForbidden)
	defer srv.Close()

	client := NewClientWithBaseURL("", srv.URL, nopLogger{})
	e := client.Enrich(context.Background(), generator.Candidate{Title: "Dune"})
	assert.Nil(t, e)
}

func TestExtractISBNPrefersKnownTypes(t *testing.T) {
	info := &volumeInfo{}
	info.IndustryIdentifiers = []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	}{
		{Type: "OTHER", Identifier: "junk"},
		{Type: "ISBN_10", Identifier: "0441013597"},
	}
	assert.Equal(t, "0441013597", extractISBN(info))

	empty := &volumeInfo{}
	assert.Equal(t, "", extractISBN(empty))
}
