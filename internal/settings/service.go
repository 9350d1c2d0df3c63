package settings

import (
	"context"
	"errors"
)

// Service implements settings business logic over a Repo.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Get returns the user's settings. A user who never saved settings gets an
// empty record rather than an error.
func (s *Service) Get(ctx context.Context, userID string) (CompanySettings, error) {
	settings, err := s.Repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return CompanySettings{UserID: userID}, nil
		}
		return CompanySettings{}, err
	}
	return settings, nil
}

// Save replaces the user's settings.
func (s *Service) Save(ctx context.Context, settings CompanySettings) (CompanySettings, error) {
	if err := s.Repo.Upsert(ctx, settings); err != nil {
		return CompanySettings{}, err
	}
	return s.Get(ctx, settings.UserID)
}
