package policies

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/shared/server/middleware"
	"policy-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the policies service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches policy routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/policies", h.createPolicy)
	rg.GET("/policies", h.listPolicies)
	rg.GET("/policies/:id", h.getPolicy)
	rg.PUT("/policies/:id", h.updatePolicy)
	rg.DELETE("/policies/:id", h.deletePolicy)
}

type policyRequest struct {
	ClientID      *string `json:"clientId"`
	PolicyNumber  string  `json:"policyNumber"`
	Carrier       string  `json:"carrier"`
	PolicyType    *string `json:"policyType"`
	EffectiveDate *string `json:"effectiveDate"`
	ExpiryDate    *string `json:"expiryDate"`
	PremiumAmount *string `json:"premiumAmount"`
	PDFURL        string  `json:"pdfUrl"`
}

func (req policyRequest) toInput() CreateInput {
	return CreateInput{
		ClientID:      req.ClientID,
		PolicyNumber:  strings.TrimSpace(req.PolicyNumber),
		Carrier:       strings.TrimSpace(req.Carrier),
		PolicyType:    req.PolicyType,
		EffectiveDate: req.EffectiveDate,
		ExpiryDate:    req.ExpiryDate,
		PremiumAmount: req.PremiumAmount,
		PDFURL:        strings.TrimSpace(req.PDFURL),
	}
}

func (h *Handler) createPolicy(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	input := req.toInput()
	if input.PolicyNumber == "" || input.Carrier == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "policyNumber and carrier are required", nil)
		return
	}

	policy, err := h.Svc.Create(c.Request.Context(), userID, input)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create policy", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, policyJSON(policy))
}

func (h *Handler) listPolicies(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 50
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list policies", nil)
		return
	}
	resp := make([]gin.H, 0, len(list))
	for _, policy := range list {
		resp = append(resp, policyJSON(policy))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) getPolicy(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	policyID := c.Param("id")

	policy, err := h.Svc.Get(c.Request.Context(), userID, policyID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "policy not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch policy", nil)
		}
		return
	}
	c.Set("policyId", policy.ID)
	respond.JSON(c, http.StatusOK, policyJSON(policy))
}

func (h *Handler) updatePolicy(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	policyID := c.Param("id")

	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	input := req.toInput()
	if input.PolicyNumber == "" || input.Carrier == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "policyNumber and carrier are required", nil)
		return
	}

	policy, err := h.Svc.Update(c.Request.Context(), userID, policyID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "policy not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update policy", nil)
		}
		return
	}
	c.Set("policyId", policy.ID)
	respond.JSON(c, http.StatusOK, policyJSON(policy))
}

func (h *Handler) deletePolicy(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	policyID := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), userID, policyID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "policy not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete policy", nil)
		}
		return
	}
	c.Set("policyId", policyID)
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func policyJSON(policy Policy) gin.H {
	return gin.H{
		"id":            policy.ID,
		"clientId":      policy.ClientID,
		"policyNumber":  policy.PolicyNumber,
		"carrier":       policy.Carrier,
		"policyType":    policy.PolicyType,
		"effectiveDate": policy.EffectiveDate,
		"expiryDate":    policy.ExpiryDate,
		"premiumAmount": policy.PremiumAmount,
		"pdfUrl":        policy.PDFURL,
		"createdAt":     policy.CreatedAt,
		"updatedAt":     policy.UpdatedAt,
	}
}
