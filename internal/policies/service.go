package policies

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service implements policy business logic over a Repo.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateInput carries the writable fields of a policy.
type CreateInput struct {
	ClientID      *string
	PolicyNumber  string
	Carrier       string
	PolicyType    *string
	EffectiveDate *string
	ExpiryDate    *string
	PremiumAmount *string
	PDFURL        string
}

// Create inserts a new policy for the user.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (Policy, error) {
	now := time.Now().UTC()
	pdfURL := input.PDFURL
	if pdfURL == "" {
		pdfURL = PlaceholderPDFURL
	}
	policy := Policy{
		ID:            uuid.NewString(),
		UserID:        userID,
		ClientID:      input.ClientID,
		PolicyNumber:  input.PolicyNumber,
		Carrier:       input.Carrier,
		PolicyType:    input.PolicyType,
		EffectiveDate: input.EffectiveDate,
		ExpiryDate:    input.ExpiryDate,
		PremiumAmount: input.PremiumAmount,
		PDFURL:        pdfURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, policy); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

// CreatePlaceholder inserts a pending policy row for an upload that has not
// been analyzed yet. The policy number encodes the upload time so repeated
// uploads never collide.
func (s *Service) CreatePlaceholder(ctx context.Context, userID string) (Policy, error) {
	return s.Create(ctx, userID, CreateInput{
		PolicyNumber: fmt.Sprintf("UPLOAD-%d", time.Now().UnixMilli()),
		Carrier:      PlaceholderCarrier,
		PDFURL:       PlaceholderPDFURL,
	})
}

// Get returns a policy scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, policyID string) (Policy, error) {
	return s.Repo.GetByID(ctx, userID, policyID)
}

// List returns the user's policies, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Policy, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Update overwrites the mutable fields of an existing policy.
func (s *Service) Update(ctx context.Context, userID, policyID string, input CreateInput) (Policy, error) {
	existing, err := s.Repo.GetByID(ctx, userID, policyID)
	if err != nil {
		return Policy{}, err
	}
	existing.ClientID = input.ClientID
	existing.PolicyNumber = input.PolicyNumber
	existing.Carrier = input.Carrier
	existing.PolicyType = input.PolicyType
	existing.EffectiveDate = input.EffectiveDate
	existing.ExpiryDate = input.ExpiryDate
	existing.PremiumAmount = input.PremiumAmount
	if input.PDFURL != "" {
		existing.PDFURL = input.PDFURL
	}
	existing.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, existing); err != nil {
		return Policy{}, err
	}
	return existing, nil
}

// Delete removes a policy owned by the user.
func (s *Service) Delete(ctx context.Context, userID, policyID string) error {
	return s.Repo.Delete(ctx, userID, policyID)
}

// CountByClient counts policies attached to a client.
func (s *Service) CountByClient(ctx context.Context, userID, clientID string) (int, error) {
	return s.Repo.CountByClient(ctx, userID, clientID)
}
