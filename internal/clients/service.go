package clients

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PolicyCounter reports how many policies are attached to a client.
type PolicyCounter interface {
	CountByClient(ctx context.Context, userID, clientID string) (int, error)
}

// Service implements client business logic over a Repo.
type Service struct {
	Repo     Repo
	Policies PolicyCounter
}

// NewService constructs a Service.
func NewService(repo Repo, policies PolicyCounter) *Service {
	return &Service{Repo: repo, Policies: policies}
}

// CreateInput carries the writable fields of a client.
type CreateInput struct {
	Name  string
	Email *string
	Phone *string
	Notes *string
}

// Create inserts a new client for the user.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (Client, error) {
	now := time.Now().UTC()
	client := Client{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, client); err != nil {
		return Client{}, err
	}
	return client, nil
}

// Get returns a client scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, clientID string) (Client, error) {
	return s.Repo.GetByID(ctx, userID, clientID)
}

// ListItem is a client plus its policy count.
type ListItem struct {
	Client
	PoliciesCount int
}

// List returns the user's clients with per-client policy counts.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]ListItem, error) {
	list, err := s.Repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]ListItem, 0, len(list))
	for _, client := range list {
		count := 0
		if s.Policies != nil {
			if n, err := s.Policies.CountByClient(ctx, userID, client.ID); err == nil {
				count = n
			}
		}
		items = append(items, ListItem{Client: client, PoliciesCount: count})
	}
	return items, nil
}

// Update overwrites the mutable fields of an existing client.
func (s *Service) Update(ctx context.Context, userID, clientID string, input CreateInput) (Client, error) {
	existing, err := s.Repo.GetByID(ctx, userID, clientID)
	if err != nil {
		return Client{}, err
	}
	existing.Name = input.Name
	existing.Email = input.Email
	existing.Phone = input.Phone
	existing.Notes = input.Notes
	existing.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, existing); err != nil {
		return Client{}, err
	}
	return existing, nil
}

// Delete removes a client owned by the user.
func (s *Service) Delete(ctx context.Context, userID, clientID string) error {
	return s.Repo.Delete(ctx, userID, clientID)
}
