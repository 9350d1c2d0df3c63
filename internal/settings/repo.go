package settings

import (
	"context"
	"errors"
)

// ErrNotFound indicates no settings row exists for the user yet.
var ErrNotFound = errors.New("settings not found")

// Repo abstracts settings persistence.
type Repo interface {
	Get(ctx context.Context, userID string) (CompanySettings, error)
	Upsert(ctx context.Context, settings CompanySettings) error
}
