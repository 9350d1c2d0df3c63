package clients

import "context"

// Repo abstracts client persistence.
type Repo interface {
	Create(ctx context.Context, client Client) error
	GetByID(ctx context.Context, userID, clientID string) (Client, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Client, error)
	Update(ctx context.Context, client Client) error
	Delete(ctx context.Context, userID, clientID string) error
}
