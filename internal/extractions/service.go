package extractions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"policy-backend/internal/extract"
	"policy-backend/internal/llm"
	"policy-backend/internal/policies"
	"policy-backend/internal/shared/metrics"
	"policy-backend/internal/shared/storage/object"
	"policy-backend/internal/shared/telemetry"
	"policy-backend/internal/summary"
)

// Fallback modes for summaries that fail shape validation.
const (
	FallbackFail        = "fail"
	FallbackPlaceholder = "placeholder"
)

// DefaultMaxStoredTextChars caps the raw text kept with each extraction.
const DefaultMaxStoredTextChars = 50000

// Service runs the extraction pipeline: policy text in, validated summary out,
// with a history row and a pending policy created along the way.
type Service struct {
	Repo               Repo
	Policies           *policies.Service
	Store              object.ObjectStore
	LLM                llm.Client
	Provider           string
	Model              string
	Fallback           string
	MaxStoredTextChars int
}

// Result carries the extraction plus non-fatal pipeline outcomes. PersistErr
// is set when the summary was produced but saving it failed; callers should
// still return the summary to the user.
type Result struct {
	Extraction   Extraction
	UsedFallback bool
	PersistErr   error
}

// ExtractFromText runs the pipeline on text the caller already extracted.
func (s *Service) ExtractFromText(ctx context.Context, userID, pdfText, fileName string) (Result, error) {
	if userID == "" {
		return Result{}, errors.New("userID is required")
	}
	if s.LLM == nil {
		return Result{}, errors.New("missing llm client")
	}
	if err := extract.CheckReadable(pdfText); err != nil {
		return Result{}, err
	}

	metrics.IncExtractionStarted()
	startedAt := time.Now().UTC()

	raw, err := s.LLM.ExtractPolicy(ctx, llm.ExtractInput{PolicyText: pdfText, FileName: fileName})
	if err != nil {
		s.observeFailure(userID, fileName, startedAt, err)
		return Result{}, err
	}

	normalized, usedFallback, err := s.normalize(raw)
	if err != nil {
		s.observeFailure(userID, fileName, startedAt, err)
		return Result{}, err
	}

	policyID := s.createPendingPolicy(ctx, userID)

	extraction := Extraction{
		ID:        uuid.NewString(),
		UserID:    userID,
		PolicyID:  policyID,
		FileName:  fileName,
		RawText:   capText(pdfText, s.maxStoredChars()),
		Summary:   normalized,
		Provider:  s.Provider,
		Model:     s.Model,
		CreatedAt: time.Now().UTC(),
	}

	result := Result{Extraction: extraction, UsedFallback: usedFallback}
	if err := s.Repo.Create(ctx, extraction); err != nil {
		result.PersistErr = fmt.Errorf("%w: %v", ErrPersistence, err)
		telemetry.Warn("extraction.persist_failed", map[string]any{
			"user_id":       userID,
			"extraction_id": extraction.ID,
			"error":         err.Error(),
		})
	}

	completedAt := time.Now().UTC()
	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(float64(completedAt.Sub(startedAt).Milliseconds()))
	telemetry.Info("extraction.completed", map[string]any{
		"user_id":       userID,
		"extraction_id": extraction.ID,
		"file_name":     fileName,
		"used_fallback": usedFallback,
		"duration_ms":   completedAt.Sub(startedAt).Milliseconds(),
	})
	return result, nil
}

// ExtractFromUpload stores an uploaded PDF, extracts its text, then runs the
// text pipeline.
func (s *Service) ExtractFromUpload(ctx context.Context, userID, fileName string, file io.Reader) (Result, error) {
	if s.Store == nil {
		return Result{}, errors.New("missing object store")
	}
	key, _, mimeType, err := s.Store.Save(ctx, userID, fileName, file)
	if err != nil {
		return Result{}, fmt.Errorf("store upload: %w", err)
	}
	text, err := extract.ExtractText(ctx, s.Store, key, mimeType, fileName)
	if err != nil {
		return Result{}, err
	}
	return s.ExtractFromText(ctx, userID, text, fileName)
}

// Get returns an extraction scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, extractionID string) (Extraction, error) {
	return s.Repo.GetByID(ctx, userID, extractionID)
}

// List returns the user's extraction history, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Extraction, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes an extraction owned by the user.
func (s *Service) Delete(ctx context.Context, userID, extractionID string) error {
	return s.Repo.Delete(ctx, userID, extractionID)
}

// normalize parses the model output and coerces it into the summary shape.
// When the shape is wrong and the service is configured for it, the canned
// placeholder summary is used instead of failing the whole request.
func (s *Service) normalize(raw json.RawMessage) (map[string]any, bool, error) {
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if s.Fallback == FallbackPlaceholder {
			return summary.Placeholder(), true, nil
		}
		return nil, false, fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}
	normalized, err := summary.Normalize(parsed)
	if err != nil {
		if s.Fallback == FallbackPlaceholder {
			return summary.Placeholder(), true, nil
		}
		return nil, false, err
	}
	return normalized, false, nil
}

// createPendingPolicy creates the placeholder policy row linked to this
// extraction. Failure is non-fatal; the summary matters more than the link.
func (s *Service) createPendingPolicy(ctx context.Context, userID string) *string {
	if s.Policies == nil {
		return nil
	}
	policy, err := s.Policies.CreatePlaceholder(ctx, userID)
	if err != nil {
		telemetry.Warn("extraction.policy_create_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil
	}
	return &policy.ID
}

func (s *Service) observeFailure(userID, fileName string, startedAt time.Time, err error) {
	completedAt := time.Now().UTC()
	metrics.IncExtractionFailed()
	metrics.ObserveExtractionDurationMs(float64(completedAt.Sub(startedAt).Milliseconds()))
	telemetry.Error("extraction.failed", map[string]any{
		"user_id":     userID,
		"file_name":   fileName,
		"error":       err.Error(),
		"duration_ms": completedAt.Sub(startedAt).Milliseconds(),
	})
}

func (s *Service) maxStoredChars() int {
	if s.MaxStoredTextChars > 0 {
		return s.MaxStoredTextChars
	}
	return DefaultMaxStoredTextChars
}

func capText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}
