package clients

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/shared/server/middleware"
	"policy-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the clients service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches client routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/clients", h.createClient)
	rg.GET("/clients", h.listClients)
	rg.GET("/clients/:id", h.getClient)
	rg.PUT("/clients/:id", h.updateClient)
	rg.DELETE("/clients/:id", h.deleteClient)
}

type clientRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

func (req clientRequest) toInput() CreateInput {
	return CreateInput{
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	}
}

func (h *Handler) createClient(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	input := req.toInput()
	if input.Name == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}

	client, err := h.Svc.Create(c.Request.Context(), userID, input)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create client", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, clientJSON(client))
}

func (h *Handler) listClients(c *gin.Context) {
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

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list clients", nil)
		return
	}
	resp := make([]gin.H, 0, len(items))
	for _, item := range items {
		body := clientJSON(item.Client)
		body["policiesCount"] = item.PoliciesCount
		resp = append(resp, body)
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) getClient(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	clientID := c.Param("id")

	client, err := h.Svc.Get(c.Request.Context(), userID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "client not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch client", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, clientJSON(client))
}

func (h *Handler) updateClient(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	clientID := c.Param("id")

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	input := req.toInput()
	if input.Name == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}

	client, err := h.Svc.Update(c.Request.Context(), userID, clientID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "client not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update client", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, clientJSON(client))
}

func (h *Handler) deleteClient(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	clientID := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), userID, clientID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "client not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete client", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func clientJSON(client Client) gin.H {
	return gin.H{
		"id":        client.ID,
		"name":      client.Name,
		"email":     client.Email,
		"phone":     client.Phone,
		"notes":     client.Notes,
		"createdAt": client.CreatedAt,
		"updatedAt": client.UpdatedAt,
	}
}
