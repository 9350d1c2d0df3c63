// Package health reports whether the server and its dependencies can serve
// extraction traffic.
package health

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/llm"
	"policy-backend/internal/shared/server/respond"
)

const checkTimeout = 5 * time.Second

// Handler answers health probes.
type Handler struct {
	DB *sql.DB
	AI llm.Client
}

// NewHandler constructs a Handler.
func NewHandler(db *sql.DB, ai llm.Client) *Handler {
	return &Handler{DB: db, AI: ai}
}

// RegisterRoutes attaches the health route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.getHealth)
}

func (h *Handler) getHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	respond.JSON(c, http.StatusOK, gin.H{
		"ok": true,
		"db": h.checkDB(ctx),
		"ai": h.checkAI(ctx),
	})
}

func (h *Handler) checkDB(ctx context.Context) string {
	if h.DB == nil {
		return "skipped"
	}
	if err := h.DB.PingContext(ctx); err != nil {
		return "error"
	}
	return "ok"
}

func (h *Handler) checkAI(ctx context.Context) string {
	if h.AI == nil {
		return "skipped"
	}
	if err := h.AI.Health(ctx); err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return "unconfigured"
		}
		return "error"
	}
	return "ok"
}
