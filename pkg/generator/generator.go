// Package generator turns a chat-capable language model into two typed
// sources: one producing elicitation questions, one producing
// recommendation candidates from collected answers.
package generator

import (
	"context"
)

// ContentType selects which kind of recommendation a session is about.
type ContentType string

const (
	ContentTypeMovie ContentType = "movie"
	ContentTypeBook  ContentType = "book"
	ContentTypeBoth  ContentType = "both"
)

func (t ContentType) WantsMovies() bool {
	return t == ContentTypeMovie || t == ContentTypeBoth
}

func (t ContentType) WantsBooks() bool {
	return t == ContentTypeBook || t == ContentTypeBoth
}

// PromptContext carries optional hints that shape the prompt sent upstream.
// It never filters or validates the model output.
type PromptContext struct {
	UserAge            *int
	AccessibilityNeeds []string
	PreferredLanguage  string
}

// Question is one elicitation question with its 1-based position.
type Question struct {
	Text  string
	Order int
}

// QAPair is one answered question, sent downstream verbatim.
type QAPair struct {
	Question string
	Answer   string
}

// Candidate is the raw, unenriched output of the candidate source.
// A candidate without a title is unusable and gets dropped by the caller.
type Candidate struct {
	Title       string
	Author      string
	Description string
	AgeRating   string
	Genres      []string
	Year        *int
	Rating      *float64
}

// CandidateSet groups candidates by content type. Arrays not matching the
// requested content type are empty, never nil.
type CandidateSet struct {
	Movies []Candidate
	Books  []Candidate
}

func (s *CandidateSet) Total() int {
	return len(s.Movies) + len(s.Books)
}

type QuestionSource interface {
	GenerateQuestions(ctx context.Context, contentType ContentType, count int, promptCtx PromptContext) ([]Question, error)
}

type CandidateSource interface {
	GenerateCandidates(ctx context.Context, contentType ContentType, pairs []QAPair, promptCtx PromptContext) (*CandidateSet, error)
}
