package extractions

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"policy-backend/internal/extract"
	"policy-backend/internal/llm"
	"policy-backend/internal/policies"
	"policy-backend/internal/summary"
)

type fakeLLM struct {
	raw   json.RawMessage
	err   error
	calls int
}

func (f *fakeLLM) ExtractPolicy(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

func (f *fakeLLM) Health(ctx context.Context) error { return nil }

type failingRepo struct {
	Repo
	createErr error
}

func (r *failingRepo) Create(ctx context.Context, extraction Extraction) error {
	return r.createErr
}

type failingPolicyRepo struct {
	policies.Repo
	createErr error
}

func (r *failingPolicyRepo) Create(ctx context.Context, policy policies.Policy) error {
	return r.createErr
}

func readableText() string {
	return strings.Repeat("Commercial property policy issued by Acme Mutual. ", 5)
}

func newTestService(client llm.Client) (*Service, *MemoryRepo, *policies.Service) {
	repo := NewMemoryRepo()
	policySvc := policies.NewService(policies.NewMemoryRepo())
	svc := &Service{
		Repo:     repo,
		Policies: policySvc,
		LLM:      client,
		Provider: "openai",
		Model:    "o1",
		Fallback: FallbackFail,
	}
	return svc, repo, policySvc
}

func TestExtractFromTextHappyPath(t *testing.T) {
	client := &fakeLLM{raw: json.RawMessage(`{
		"Core Policy Identification": {
			"policy_number": "PN-77",
			"insurer_company": "Acme Mutual"
		},
		"key_coverages": ["Property damage"],
		"notes_for_client": ["Review annually.", "Check exclusions."]
	}`)}
	svc, repo, policySvc := newTestService(client)

	result, err := svc.ExtractFromText(context.Background(), "user-1", readableText(), "policy.pdf")
	if err != nil {
		t.Fatalf("ExtractFromText: %v", err)
	}
	extraction := result.Extraction
	if extraction.Summary["policy_number"] != "PN-77" {
		t.Fatalf("nested field not flattened: %v", extraction.Summary["policy_number"])
	}
	if extraction.Summary["notes_for_client"] != "Review annually.\n\nCheck exclusions." {
		t.Fatalf("notes not joined: %v", extraction.Summary["notes_for_client"])
	}
	if extraction.Summary["policy_type"] != nil {
		t.Fatalf("absent scalar not nulled: %v", extraction.Summary["policy_type"])
	}
	if result.UsedFallback {
		t.Fatal("fallback should not trigger on valid output")
	}

	stored, err := repo.GetByID(context.Background(), "user-1", extraction.ID)
	if err != nil {
		t.Fatalf("extraction not persisted: %v", err)
	}
	if stored.FileName != "policy.pdf" {
		t.Fatalf("unexpected file name: %s", stored.FileName)
	}

	if extraction.PolicyID == nil {
		t.Fatal("expected a pending policy to be created")
	}
	policy, err := policySvc.Get(context.Background(), "user-1", *extraction.PolicyID)
	if err != nil {
		t.Fatalf("pending policy missing: %v", err)
	}
	if policy.Carrier != policies.PlaceholderCarrier {
		t.Fatalf("unexpected carrier: %s", policy.Carrier)
	}
}

func TestExtractFromTextRejectsUnreadableText(t *testing.T) {
	client := &fakeLLM{raw: json.RawMessage(`{}`)}
	svc, repo, _ := newTestService(client)

	_, err := svc.ExtractFromText(context.Background(), "user-1", "too short", "policy.pdf")
	if !errors.Is(err, extract.ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
	if client.calls != 0 {
		t.Fatal("model should not be called for unreadable text")
	}
	list, _ := repo.ListByUser(context.Background(), "user-1", 50, 0)
	if len(list) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestExtractFromTextInvalidShapeFails(t *testing.T) {
	client := &fakeLLM{raw: json.RawMessage(`{"key_coverages": "not a list"}`)}
	svc, _, _ := newTestService(client)

	_, err := svc.ExtractFromText(context.Background(), "user-1", readableText(), "policy.pdf")
	if !errors.Is(err, summary.ErrInvalidShape) {
		t.Fatalf("expected ErrInvalidShape, got %v", err)
	}
}

func TestExtractFromTextInvalidShapePlaceholderFallback(t *testing.T) {
	client := &fakeLLM{raw: json.RawMessage(`{"key_coverages": "not a list"}`)}
	svc, _, _ := newTestService(client)
	svc.Fallback = FallbackPlaceholder

	result, err := svc.ExtractFromText(context.Background(), "user-1", readableText(), "policy.pdf")
	if err != nil {
		t.Fatalf("ExtractFromText: %v", err)
	}
	if !result.UsedFallback {
		t.Fatal("expected fallback summary")
	}
	overview, _ := result.Extraction.Summary["policy_overview"].(string)
	if !strings.Contains(overview, "Unable to parse policy details") {
		t.Fatalf("unexpected fallback overview: %q", overview)
	}
}

func TestExtractFromTextCapsStoredText(t *testing.T) {
	client := &fakeLLM{raw: json.RawMessage(`{}`)}
	svc, _, _ := newTestService(client)
	svc.MaxStoredTextChars = 100

	long := strings.Repeat("x", 500)
	result, err := svc.ExtractFromText(context.Background(), "user-1", long, "policy.pdf")
	if err != nil {
		t.Fatalf("ExtractFromText: %v", err)
	}
	if len(result.Extraction.RawText) != 100 {
		t.Fatalf("expected stored text capped at 100, got %d", len(result.Extraction.RawText))
	}
}

func TestExtractFromTextPersistFailureIsNonFatal(t *testing.T) {
	client := &fakeLLM{raw: json.RawMessage(`{"policy_number":"PN-1"}`)}
	svc, repo, _ := newTestService(client)
	svc.Repo = &failingRepo{Repo: repo, createErr: errors.New("db down")}

	result, err := svc.ExtractFromText(context.Background(), "user-1", readableText(), "policy.pdf")
	if err != nil {
		t.Fatalf("persist failure should not fail the extraction: %v", err)
	}
	if !errors.Is(result.PersistErr, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", result.PersistErr)
	}
	if result.Extraction.Summary["policy_number"] != "PN-1" {
		t.Fatal("summary should still be returned")
	}
}

func TestExtractFromTextPolicyCreateFailureIsNonFatal(t *testing.T) {
	client := &fakeLLM{raw: json.RawMessage(`{"policy_number":"PN-9"}`)}
	svc, repo, _ := newTestService(client)
	svc.Policies = policies.NewService(&failingPolicyRepo{
		Repo:      policies.NewMemoryRepo(),
		createErr: errors.New("db down"),
	})

	result, err := svc.ExtractFromText(context.Background(), "user-1", readableText(), "policy.pdf")
	if err != nil {
		t.Fatalf("pending policy failure should not fail the extraction: %v", err)
	}
	if result.Extraction.PolicyID != nil {
		t.Fatalf("expected nil policyID, got %v", *result.Extraction.PolicyID)
	}
	if result.Extraction.Summary["policy_number"] != "PN-9" {
		t.Fatal("summary should still be returned")
	}
	stored, err := repo.GetByID(context.Background(), "user-1", result.Extraction.ID)
	if err != nil {
		t.Fatalf("extraction should still be persisted: %v", err)
	}
	if stored.PolicyID != nil {
		t.Fatal("persisted extraction should not reference a policy")
	}
}

func TestExtractFromTextStoredTextCapKeepsValidUTF8(t *testing.T) {
	client := &fakeLLM{raw: json.RawMessage(`{}`)}
	svc, _, _ := newTestService(client)
	svc.MaxStoredTextChars = 101

	long := strings.Repeat("ü", 200)
	result, err := svc.ExtractFromText(context.Background(), "user-1", long, "policy.pdf")
	if err != nil {
		t.Fatalf("ExtractFromText: %v", err)
	}
	raw := result.Extraction.RawText
	if !utf8.ValidString(raw) {
		t.Fatal("capped text contains invalid UTF-8")
	}
	if len(raw) != 100 {
		t.Fatalf("expected cap to back off to the rune boundary at 100, got %d", len(raw))
	}
}

func TestExtractFromTextPropagatesModelErrors(t *testing.T) {
	client := &fakeLLM{err: llm.ErrMissingAPIKey}
	svc, repo, _ := newTestService(client)

	_, err := svc.ExtractFromText(context.Background(), "user-1", readableText(), "policy.pdf")
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	list, _ := repo.ListByUser(context.Background(), "user-1", 50, 0)
	if len(list) != 0 {
		t.Fatal("nothing should be persisted on model failure")
	}
}
