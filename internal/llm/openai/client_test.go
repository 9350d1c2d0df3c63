package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"policy-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "o1", 0)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.baseURL = srv.URL
	return client
}

func chatHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format, got %q", req.ResponseFormat.Type)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("expected a single user message")
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestExtractPolicyReturnsRawJSON(t *testing.T) {
	client := newTestClient(t, chatHandler(t, `{"policy_number":"ABC-123"}`))

	raw, err := client.ExtractPolicy(context.Background(), llm.ExtractInput{PolicyText: "some policy text", FileName: "policy.pdf"})
	if err != nil {
		t.Fatalf("ExtractPolicy: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if parsed["policy_number"] != "ABC-123" {
		t.Fatalf("unexpected result: %v", parsed)
	}
}

func TestExtractPolicyUnwrapsCodeFences(t *testing.T) {
	client := newTestClient(t, chatHandler(t, "```json\n{\"policy_type\":\"Cyber\"}\n```"))

	raw, err := client.ExtractPolicy(context.Background(), llm.ExtractInput{PolicyText: "text"})
	if err != nil {
		t.Fatalf("ExtractPolicy: %v", err)
	}
	if string(raw) != `{"policy_type":"Cyber"}` {
		t.Fatalf("unexpected raw: %s", raw)
	}
}

func TestExtractPolicyMissingKey(t *testing.T) {
	client, err := NewClient("", "o1", 0)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.ExtractPolicy(context.Background(), llm.ExtractInput{PolicyText: "text"})
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestExtractPolicyUpstreamStatuses(t *testing.T) {
	cases := []struct {
		status  int
		message string
	}{
		{429, "Rate limit exceeded"},
		{402, "AI credits exhausted"},
		{500, "status 500"},
	}
	for _, tc := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream unhappy", tc.status)
		})
		_, err := client.ExtractPolicy(context.Background(), llm.ExtractInput{PolicyText: "text"})
		var upstream *llm.UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("status %d: expected UpstreamError, got %v", tc.status, err)
		}
		if upstream.Status != tc.status {
			t.Fatalf("expected status %d, got %d", tc.status, upstream.Status)
		}
		if !strings.Contains(upstream.Error(), tc.message) {
			t.Fatalf("status %d: unexpected message %q", tc.status, upstream.Error())
		}
	}
}

func TestExtractPolicyEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})
	_, err := client.ExtractPolicy(context.Background(), llm.ExtractInput{PolicyText: "text"})
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestExtractPolicyMalformedContent(t *testing.T) {
	client := newTestClient(t, chatHandler(t, "The policy covers buildings and contents."))
	_, err := client.ExtractPolicy(context.Background(), llm.ExtractInput{PolicyText: "text"})
	if !errors.Is(err, llm.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestExtractPolicyTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	client.httpClient.Timeout = 20 * time.Millisecond

	_, err := client.ExtractPolicy(context.Background(), llm.ExtractInput{PolicyText: "text"})
	if !errors.Is(err, llm.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestHealthUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	err := client.Health(context.Background())
	var upstream *llm.UpstreamError
	if !errors.As(err, &upstream) || upstream.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 UpstreamError, got %v", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                          `{"a":1}`,
		"```json\n{\"a\":1}\n```":          `{"a":1}`,
		"```\n{\"a\":1}\n```":              `{"a":1}`,
		"prefix ```json\n{\"a\":1}``` end": `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripCodeFences(in); got != want {
			t.Fatalf("stripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}
