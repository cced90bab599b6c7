package grading

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// Category tags a grading-service failure. Unlike question generation
// there is no offline fallback for image grading, so each category maps
// to a distinct, actionable user-facing message.
type Category string

const (
	CategoryAuth      Category = "auth"
	CategoryQuota     Category = "quota"
	CategoryTransient Category = "transient"
)

// ServiceError is a tagged external-service failure.
type ServiceError struct {
	Category Category
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("grading service failure (%s): %v", e.Category, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// UserMessage is the human-readable text surfaced to the caller.
func (e *ServiceError) UserMessage() string {
	switch e.Category {
	case CategoryAuth:
		return "❌ API Key 錯誤，請檢查環境變數"
	case CategoryQuota:
		return "❌ API 額度不足，請升級計劃"
	default:
		return "❌ OCR 識別失敗，請重試"
	}
}

// Classify maps an external-service failure onto a ServiceError.
// Structured SDK status codes are checked first; matching substrings of
// the error message is kept only as a last resort against providers
// that expose nothing better. Anything unrecognized is transient.
func Classify(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}

	var anthErr *anthropic.Error
	if errors.As(err, &anthErr) {
		switch anthErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &ServiceError{Category: CategoryAuth, Err: err}
		case http.StatusTooManyRequests, http.StatusPaymentRequired:
			return &ServiceError{Category: CategoryQuota, Err: err}
		}
		return &ServiceError{Category: CategoryTransient, Err: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &ServiceError{Category: CategoryAuth, Err: err}
		case http.StatusTooManyRequests, http.StatusPaymentRequired:
			return &ServiceError{Category: CategoryQuota, Err: err}
		}
		return &ServiceError{Category: CategoryTransient, Err: err}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized"):
		return &ServiceError{Category: CategoryAuth, Err: err}
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit"):
		return &ServiceError{Category: CategoryQuota, Err: err}
	}
	return &ServiceError{Category: CategoryTransient, Err: err}
}
