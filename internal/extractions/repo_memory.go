package extractions

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores extractions in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Extraction
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Extraction)}
}

// Create stores the extraction.
func (r *MemoryRepo) Create(ctx context.Context, extraction Extraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[extraction.ID] = extraction
	return nil
}

// GetByID returns an extraction scoped to its owner.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, extractionID string) (Extraction, error) {
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	extraction, ok := r.byID[extractionID]
	if !ok || extraction.UserID != userID {
		return Extraction{}, ErrNotFound
	}
	return extraction, nil
}

// ListByUser returns extractions for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var out []Extraction
	for _, extraction := range r.byID {
		if extraction.UserID == userID {
			out = append(out, extraction)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Extraction{}, nil
	}
	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// Delete removes an extraction owned by the user.
func (r *MemoryRepo) Delete(ctx context.Context, userID, extractionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	extraction, ok := r.byID[extractionID]
	if !ok || extraction.UserID != userID {
		return ErrNotFound
	}
	delete(r.byID, extractionID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
