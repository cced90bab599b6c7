package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hkdse-prep/backend/internal/models"
)

// GenerationError marks a generative response that could not be used,
// whether malformed JSON or non-JSON text. Callers recover by serving from the
// fallback bank; the failure is never surfaced to the end caller.
type GenerationError struct {
	Raw string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("unusable generation response: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseQuestion normalizes and parses one generated question. The
// upstream service is instructed to return bare JSON but sometimes
// wraps it in a fenced code block anyway, so fences are stripped first.
func ParseQuestion(responseBody string) (*models.Question, error) {
	cleaned := StripCodeFences(responseBody)

	var q models.Question
	if err := json.Unmarshal([]byte(cleaned), &q); err != nil {
		return nil, &GenerationError{Raw: responseBody, Err: err}
	}

	return &q, nil
}

// StripCodeFences removes an optional leading code-fence marker (with
// its language tag) and an optional trailing marker, then trims
// whitespace. Unfenced input passes through unchanged.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
