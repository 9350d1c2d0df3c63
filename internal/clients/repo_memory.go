package clients

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores clients in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Client
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Client)}
}

// Create stores the client.
func (r *MemoryRepo) Create(ctx context.Context, client Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[client.ID] = client
	return nil
}

// GetByID returns a client scoped to its owner.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, clientID string) (Client, error) {
	if err := ctx.Err(); err != nil {
		return Client{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.byID[clientID]
	if !ok || client.UserID != userID {
		return Client{}, ErrNotFound
	}
	return client, nil
}

// ListByUser returns clients for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Client, error) {
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
	var out []Client
	for _, client := range r.byID {
		if client.UserID == userID {
			out = append(out, client)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Client{}, nil
	}
	end := len(out)
	if offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// Update overwrites an existing client.
func (r *MemoryRepo) Update(ctx context.Context, client Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[client.ID]
	if !ok || existing.UserID != client.UserID {
		return ErrNotFound
	}
	client.CreatedAt = existing.CreatedAt
	client.UpdatedAt = time.Now().UTC()
	r.byID[client.ID] = client
	return nil
}

// Delete removes a client owned by the user.
func (r *MemoryRepo) Delete(ctx context.Context, userID, clientID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.byID[clientID]
	if !ok || client.UserID != userID {
		return ErrNotFound
	}
	delete(r.byID, clientID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
