package policies

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores policies in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Policy
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Policy)}
}

// Create stores the policy.
func (r *MemoryRepo) Create(ctx context.Context, policy Policy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[policy.ID] = policy
	return nil
}

// GetByID returns a policy scoped to its owner.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, policyID string) (Policy, error) {
	if err := ctx.Err(); err != nil {
		return Policy{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	policy, ok := r.byID[policyID]
	if !ok || policy.UserID != userID {
		return Policy{}, ErrNotFound
	}
	return policy, nil
}

// ListByUser returns policies for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Policy, error) {
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
	var out []Policy
	for _, policy := range r.byID {
		if policy.UserID == userID {
			out = append(out, policy)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Policy{}, nil
	}
	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// Update overwrites an existing policy.
func (r *MemoryRepo) Update(ctx context.Context, policy Policy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[policy.ID]
	if !ok || existing.UserID != policy.UserID {
		return ErrNotFound
	}
	policy.CreatedAt = existing.CreatedAt
	policy.UpdatedAt = time.Now().UTC()
	r.byID[policy.ID] = policy
	return nil
}

// Delete removes a policy owned by the user.
func (r *MemoryRepo) Delete(ctx context.Context, userID, policyID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	policy, ok := r.byID[policyID]
	if !ok || policy.UserID != userID {
		return ErrNotFound
	}
	delete(r.byID, policyID)
	return nil
}

// CountByClient counts policies attached to a client.
func (r *MemoryRepo) CountByClient(ctx context.Context, userID, clientID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, policy := range r.byID {
		if policy.UserID == userID && policy.ClientID != nil && *policy.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

var _ Repo = (*MemoryRepo)(nil)
