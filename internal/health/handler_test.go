package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/llm"
)

type healthyAI struct{ err error }

func (a healthyAI) ExtractPolicy(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	return nil, llm.ErrNotImplemented
}

func (a healthyAI) Health(ctx context.Context) error { return a.err }

func serveHealth(t *testing.T, h *Handler) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestHealthWithoutDependencies(t *testing.T) {
	resp := serveHealth(t, NewHandler(nil, nil))
	if resp["ok"] != true {
		t.Fatalf("expected ok true, got %v", resp["ok"])
	}
	if resp["db"] != "skipped" || resp["ai"] != "skipped" {
		t.Fatalf("expected skipped checks, got %v", resp)
	}
}

func TestHealthAIUnconfigured(t *testing.T) {
	resp := serveHealth(t, NewHandler(nil, healthyAI{err: llm.ErrMissingAPIKey}))
	if resp["ai"] != "unconfigured" {
		t.Fatalf("expected unconfigured ai, got %v", resp["ai"])
	}
}

func TestHealthAIOk(t *testing.T) {
	resp := serveHealth(t, NewHandler(nil, healthyAI{}))
	if resp["ai"] != "ok" {
		t.Fatalf("expected ok ai, got %v", resp["ai"])
	}
}
