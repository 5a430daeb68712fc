// Package llm holds code shared by the provider adapters: parsing the
// model's JSON review out of a raw completion.
package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/akarpov87/patchnote/internal/domain"
)

// jsonBlockRe matches a fenced code block. Greedy so that code fences
// nested inside comment bodies do not cut the block short.
var jsonBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*([\\s\\S]*)```")

// ExtractJSON pulls the JSON payload out of a completion that may wrap
// it in a markdown code fence. Returns the input trimmed if no fence is
// present, since the prompt asks for bare JSON.
func ExtractJSON(text string) string {
	matches := jsonBlockRe.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return strings.TrimSpace(text)
}

// ParseReview parses a completion into a structured review.
//
// The model is instructed to emit {"pr_comment": ..., "file_comments":
// [...]}. A response that cannot be parsed, even after repair, or that
// lacks the pr_comment key fails the whole review attempt: posting a
// partial review would be worse than reporting the failure.
func ParseReview(text string) (domain.Review, error) {
	payload := ExtractJSON(text)

	raw := struct {
		PRComment    *string                `json:"pr_comment"`
		FileComments []domain.ReviewComment `json:"file_comments"`
	}{}

	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		// Models occasionally emit trailing commas or unquoted keys.
		repaired, repairErr := jsonrepair.JSONRepair(payload)
		if repairErr != nil {
			return domain.Review{}, fmt.Errorf("parse review JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			return domain.Review{}, fmt.Errorf("parse review JSON after repair: %w", err)
		}
	}

	if raw.PRComment == nil {
		return domain.Review{}, fmt.Errorf("review JSON missing pr_comment")
	}

	return domain.Review{
		PRComment:    *raw.PRComment,
		FileComments: raw.FileComments,
	}, nil
}
