package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCandidates(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		err         error
		contentType ContentType
		wantErr     bool
		wantMovies  int
		wantBooks   int
	}{
		{
			name:        "movie only",
			response:    `{"movies":[{"title":"Inception","description":"A heist inside dreams","age_rating":"PG-13","genres":["Sci-Fi"],"year":2010}]}`,
			contentType: ContentTypeMovie,
			wantMovies:  1,
		},
		{
			name:        "book only",
			response:    `{"books":[{"title":"Dune","author":"Frank Herbert","description":"Desert planet politics","age_rating":"Adult","genres":["Sci-Fi"]}]}`,
			contentType: ContentTypeBook,
			wantBooks:   1,
		},
		{
			name:        "both types",
			response:    `{"movies":[{"title":"Arrival"}],"books":[{"title":"Contact","author":"Carl Sagan"}]}`,
			contentType: ContentTypeBoth,
			wantMovies:  1,
			wantBooks:   1,
		},
		{
			name:        "off type arrays ignored",
			response:    `{"movies":[{"title":"Arrival"}],"books":[{"title":"Contact"}]}`,
			contentType: ContentTypeMovie,
			wantMovies:  1,
			wantBooks:   0,
		},
		{
			name:        "not json",
			response:    `You should really watch Inception, it is great.`,
			contentType: ContentTypeMovie,
			wantErr:     true,
		},
		{
			name:        "empty arrays rejected",
			response:    `{"movies":[],"books":[]}`,
			contentType: ContentTypeBoth,
			wantErr:     true,
		},
		{
			name:        "only off type results rejected",
			response:    `{"books":[{"title":"Dune"}]}`,
			contentType: ContentTypeMovie,
			wantErr:     true,
		},
		{
			name:        "provider failure propagates",
			err:         errors.New("upstream timeout"),
			contentType: ContentTypeMovie,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeLLM{response: tt.response, err: tt.err}
			source := NewLLMCandidateSource(provider)

			set, err := source.GenerateCandidates(context.Background(), tt.contentType, nil, PromptContext{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, set.Movies, tt.wantMovies)
			assert.Len(t, set.Books, tt.wantBooks)
			assert.NotNil(t, set.Movies)
			assert.NotNil(t, set.Books)
		})
	}
}

func TestGenerateCandidatesPromptCarriesAnswers(t *testing.T) {
	provider := &fakeLLM{response: `{"movies":[{"title":"Arrival"}]}`}
	source := NewLLMCandidateSource(provider)

	pairs := []QAPair{
		{Question: "What genres do you enjoy?", Answer: "science fiction"},
		{Question: "Recent or classic?", Answer: "recent"},
	}

	_, err := source.GenerateCandidates(context.Background(), ContentTypeMovie, pairs, PromptContext{})
	assert.NoError(t, err)

	userPrompt := provider.lastMessages[1].Content
	assert.Contains(t, userPrompt, "Q: What genres do you enjoy?")
	assert.Contains(t, userPrompt, "A: science fiction")
	assert.Contains(t, userPrompt, "exactly 1 movie")
}

func TestCandidateFieldsTrimmed(t *testing.T) {
	provider := &fakeLLM{response: `{"movies":[{"title":"  Arrival  ","description":" spare and moving ","age_rating":" PG-13 "}]}`}
	source := NewLLMCandidateSource(provider)

	set, err := source.GenerateCandidates(context.Background(), ContentTypeMovie, nil, PromptContext{})
	assert.NoError(t, err)
	assert.Equal(t, "Arrival", set.Movies[0].Title)
	assert.Equal(t, "spare and moving", set.Movies[0].Description)
	assert.Equal(t, "PG-13", set.Movies[0].AgeRating)
}
