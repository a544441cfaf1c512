package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ponderrr/smartadvisor/pkg/llm"
)

const candidateSystemPrompt = `You are a movie and book recommendation expert.
You must recommend real, existing titles only.
Always return valid JSON in the exact format requested.`

type LLMCandidateSource struct {
	provider llm.LLMProvider
}

var _ CandidateSource = &LLMCandidateSource{}

func NewLLMCandidateSource(provider llm.LLMProvider) *LLMCandidateSource {
	return &LLMCandidateSource{
		provider: provider,
	}
}

type candidatePayload struct {
	Movies []candidateItem `json:"movies"`
	Books  []candidateItem `json:"books"`
}

type candidateItem struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	AgeRating   string   `json:"age_rating"`
	Genres      []string `json:"genres"`
	Year        *int     `json:"year"`
	Rating      *float64 `json:"rating"`
}

func (s *LLMCandidateSource) GenerateCandidates(ctx context.Context, contentType ContentType, pairs []QAPair, promptCtx PromptContext) (*CandidateSet, error) {
	var qaLines []string
	for _, pair := range pairs {
		qaLines = append(qaLines, fmt.Sprintf("Q: %s\nA: %s", pair.Question, pair.Answer))
	}
	qaText := strings.Join(qaLines, "\n")

	var target string
	switch contentType {
	case ContentTypeMovie:
		target = "exactly 1 movie"
	case ContentTypeBook:
		target = "exactly 1 book"
	default:
		target = "exactly 1 movie and exactly 1 book"
	}

	userPrompt := fmt.Sprintf(`Based on these preferences, recommend %s:

%s

Requirements:
- Only recommend real, existing titles
- Provide specific reasons why each recommendation matches their answers
- Include accurate information

Return JSON in this exact format:
{
    "movies": [
        {
            "title": "Real Movie Title",
            "description": "Why this movie is good and matches their preferences",
            "age_rating": "PG-13",
            "genres": ["Action", "Adventure"],
            "year": 2020
        }
    ],
    "books": [
        {
            "title": "Real Book Title",
            "author": "Author Name",
            "description": "Why this book matches their preferences",
            "age_rating": "Adult",
            "genres": ["Fiction", "Adventure"]
        }
    ]
}

For movie request: include only "movies" array with 1 item
For book request: include only "books" array with 1 item
For both: include both arrays with 1 item each

Recommend %s.%s`, target, qaText, target, contextHints(promptCtx))

	raw, err := s.provider.Chat(ctx,
		[]llm.Message{
			{Role: "system", Content: candidateSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(1500),
		llm.WithJSONOutput(),
	)
	if err != nil {
		return nil, fmt.Errorf("candidate generation call: %w", err)
	}

	var payload candidatePayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, fmt.Errorf("candidate response is not valid JSON: %w", err)
	}

	set := &CandidateSet{
		Movies: []Candidate{},
		Books:  []Candidate{},
	}

	if contentType.WantsMovies() {
		for _, item := range payload.Movies {
			set.Movies = append(set.Movies, item.toCandidate())
		}
	}
	if contentType.WantsBooks() {
		for _, item := range payload.Books {
			set.Books = append(set.Books, item.toCandidate())
		}
	}

	if set.Total() == 0 {
		return nil, fmt.Errorf("candidate response contained no recommendations")
	}

	return set, nil
}

func (c candidateItem) toCandidate() Candidate {
	return Candidate{
		Title:       strings.TrimSpace(c.Title),
		Author:      strings.TrimSpace(c.Author),
		Description: strings.TrimSpace(c.Description),
		AgeRating:   strings.TrimSpace(c.AgeRating),
		Genres:      c.Genres,
		Year:        c.Year,
		Rating:      c.Rating,
	}
}
