package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for policy extraction.
type Client interface {
	ExtractPolicy(ctx context.Context, input ExtractInput) (json.RawMessage, error)
	Health(ctx context.Context) error
}

// ExtractInput captures the inputs needed for policy extraction.
type ExtractInput struct {
	PolicyText string
	FileName   string
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// ExtractPolicy returns ErrNotImplemented.
func (PlaceholderClient) ExtractPolicy(ctx context.Context, input ExtractInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}

// Health returns ErrNotImplemented.
func (PlaceholderClient) Health(ctx context.Context) error {
	_ = ctx
	return ErrNotImplemented
}
