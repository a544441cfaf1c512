package generator

import (
	"fmt"
	"strings"
)

func typeText(t ContentType) string {
	switch t {
	case ContentTypeMovie:
		return "movies"
	case ContentTypeBook:
		return "books"
	default:
		return "movies and books"
	}
}

// contextHints renders the optional prompt context as extra instructions.
// Returns "" when there is nothing to say.
func contextHints(promptCtx PromptContext) string {
	var hints []string

	if promptCtx.UserAge != nil {
		hints = append(hints, fmt.Sprintf("The user is %d years old; keep suggestions age-appropriate.", *promptCtx.UserAge))
	}
	if len(promptCtx.AccessibilityNeeds) > 0 {
		hints = append(hints, fmt.Sprintf("The user has these accessibility needs: %s.", strings.Join(promptCtx.AccessibilityNeeds, ", ")))
	}
	if promptCtx.PreferredLanguage != "" {
		hints = append(hints, fmt.Sprintf("The user prefers content in %s.", promptCtx.PreferredLanguage))
	}

	if len(hints) == 0 {
		return ""
	}
	return "\n\n" + strings.Join(hints, "\n")
}
