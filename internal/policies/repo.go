package policies

import "context"

// Repo abstracts policy persistence.
type Repo interface {
	Create(ctx context.Context, policy Policy) error
	GetByID(ctx context.Context, userID, policyID string) (Policy, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Policy, error)
	Update(ctx context.Context, policy Policy) error
	Delete(ctx context.Context, userID, policyID string) error
	CountByClient(ctx context.Context, userID, clientID string) (int, error)
}
