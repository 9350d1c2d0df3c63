package extractions

import "context"

// Repo abstracts extraction persistence.
type Repo interface {
	Create(ctx context.Context, extraction Extraction) error
	GetByID(ctx context.Context, userID, extractionID string) (Extraction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Extraction, error)
	Delete(ctx context.Context, userID, extractionID string) error
}
