package settings

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores settings in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]CompanySettings
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]CompanySettings)}
}

// Get returns the user's settings.
func (r *MemoryRepo) Get(ctx context.Context, userID string) (CompanySettings, error) {
	if err := ctx.Err(); err != nil {
		return CompanySettings{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	settings, ok := r.byUser[userID]
	if !ok {
		return CompanySettings{}, ErrNotFound
	}
	return settings, nil
}

// Upsert inserts or replaces the user's settings.
func (r *MemoryRepo) Upsert(ctx context.Context, settings CompanySettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	settings.UpdatedAt = time.Now().UTC()
	r.byUser[settings.UserID] = settings
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
