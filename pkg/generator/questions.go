package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ponderrr/smartadvisor/pkg/llm"
)

const questionSystemPrompt = "You are an expert recommendation assistant. Generate thoughtful questions. Always return valid JSON."

type LLMQuestionSource struct {
	provider llm.LLMProvider
}

var _ QuestionSource = &LLMQuestionSource{}

func NewLLMQuestionSource(provider llm.LLMProvider) *LLMQuestionSource {
	return &LLMQuestionSource{
		provider: provider,
	}
}

type questionPayload struct {
	Questions []questionItem `json:"questions"`
}

type questionItem struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

func (s *LLMQuestionSource) GenerateQuestions(ctx context.Context, contentType ContentType, count int, promptCtx PromptContext) ([]Question, error) {
	userPrompt := fmt.Sprintf(`Generate exactly %d personalized questions to help recommend %s.

Return ONLY a JSON object with a "questions" array:
{
    "questions": [
        {"text": "What genres do you enjoy most?", "order": 1},
        {"text": "Do you prefer recent releases or classics?", "order": 2}
    ]
}

Generate exactly %d questions.%s`, count, typeText(contentType), count, contextHints(promptCtx))

	raw, err := s.provider.Chat(ctx,
		[]llm.Message{
			{Role: "system", Content: questionSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(1000),
		llm.WithJSONOutput(),
	)
	if err != nil {
		return nil, fmt.Errorf("question generation call: %w", err)
	}

	items, err := parseQuestions(raw)
	if err != nil {
		return nil, err
	}

	if len(items) != count {
		return nil, fmt.Errorf("expected %d questions, got %d", count, len(items))
	}

	questions := make([]Question, len(items))
	for i, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			return nil, fmt.Errorf("question %d has empty text", i+1)
		}
		order := item.Order
		if order <= 0 {
			order = i + 1
		}
		questions[i] = Question{Text: text, Order: order}
	}

	// Renumber so order values are contiguous and unique regardless of
	// what the model handed back.
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})
	for i := range questions {
		questions[i].Order = i + 1
	}

	return questions, nil
}

// parseQuestions accepts either the documented envelope or a bare array.
func parseQuestions(raw string) ([]questionItem, error) {
	raw = strings.TrimSpace(raw)

	var payload questionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload.Questions != nil {
		return payload.Questions, nil
	}

	var items []questionItem
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return items, nil
	}

	return nil, fmt.Errorf("question response is not valid JSON in the expected shape")
}
