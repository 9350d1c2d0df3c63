package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/shared/server/middleware"
	"policy-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the settings service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches settings routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.getSettings)
	rg.PUT("/settings", h.putSettings)
}

type settingsRequest struct {
	CompanyName *string `json:"companyName"`
	LogoURL     *string `json:"logoUrl"`
	BrandColor  *string `json:"brandColor"`
}

func (h *Handler) getSettings(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	settings, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch settings", nil)
		return
	}
	respond.JSON(c, http.StatusOK, settingsJSON(settings))
}

func (h *Handler) putSettings(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	saved, err := h.Svc.Save(c.Request.Context(), CompanySettings{
		UserID:      userID,
		CompanyName: req.CompanyName,
		LogoURL:     req.LogoURL,
		BrandColor:  req.BrandColor,
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save settings", nil)
		return
	}
	respond.JSON(c, http.StatusOK, settingsJSON(saved))
}

func settingsJSON(settings CompanySettings) gin.H {
	return gin.H{
		"companyName": settings.CompanyName,
		"logoUrl":     settings.LogoURL,
		"brandColor":  settings.BrandColor,
		"updatedAt":   settings.UpdatedAt,
	}
}
