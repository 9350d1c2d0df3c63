package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey means the provider credential is absent from the environment.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not configured in the server environment")
	// ErrTimeout means the provider did not answer within the request deadline.
	ErrTimeout = errors.New("llm request timeout")
	// ErrEmptyResponse means the provider answered without any content.
	ErrEmptyResponse = errors.New("llm returned empty content")
	// ErrMalformedResponse means the provider content was not valid JSON.
	ErrMalformedResponse = errors.New("llm returned malformed JSON")
)

// UpstreamError carries the provider HTTP status for non-2xx answers.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	switch e.Status {
	case 429:
		return "Rate limit exceeded. Please try again later."
	case 402:
		return "AI credits exhausted. Please add credits to continue."
	default:
		return fmt.Sprintf("llm provider failed with status %d: %s", e.Status, e.Body)
	}
}

// IsRateLimited reports whether the upstream rejected the call for quota reasons.
func (e *UpstreamError) IsRateLimited() bool {
	return e.Status == 429 || e.Status == 402
}
