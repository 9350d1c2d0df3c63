package extractions

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/extract"
	"policy-backend/internal/llm"
	"policy-backend/internal/shared/server/middleware"
	"policy-backend/internal/shared/server/respond"
	"policy-backend/internal/summary"
)

const maxUploadSize = 10 << 20 // 10 MB

// Handler wires HTTP handlers to the extractions service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches extraction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extractions", h.createExtraction)
	rg.POST("/extractions/upload", h.uploadAndExtract)
	rg.GET("/extractions", h.listExtractions)
	rg.GET("/extractions/:id", h.getExtraction)
	rg.DELETE("/extractions/:id", h.deleteExtraction)
}

type extractRequest struct {
	PDFText  string `json:"pdfText"`
	FileName string `json:"fileName"`
}

func (h *Handler) createExtraction(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.PDFText) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pdfText is required"})
		return
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = "document.pdf"
	}

	result, err := h.Svc.ExtractFromText(c.Request.Context(), userID, req.PDFText, fileName)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	h.respondResult(c, result)
}

func (h *Handler) uploadAndExtract(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	result, err := h.Svc.ExtractFromUpload(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	h.respondResult(c, result)
}

func (h *Handler) respondResult(c *gin.Context, result Result) {
	c.Set("extractionId", result.Extraction.ID)
	if result.Extraction.PolicyID != nil {
		c.Set("policyId", *result.Extraction.PolicyID)
	}
	body := gin.H{
		"success":    true,
		"extraction": extractionJSON(result.Extraction),
	}
	if result.PersistErr != nil {
		body["warning"] = "extraction could not be saved to history"
	}
	respond.JSON(c, http.StatusOK, body)
}

func (h *Handler) listExtractions(c *gin.Context) {
	if isGuest, ok := c.Get("isGuest"); ok {
		if guest, ok2 := isGuest.(bool); ok2 && guest {
			respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to view history", nil)
			return
		}
	}
	userID := middleware.UserIDFromContext(c)

	limit := 50
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list extractions", nil)
		return
	}
	resp := make([]gin.H, 0, len(list))
	for _, extraction := range list {
		resp = append(resp, extractionJSON(extraction))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) getExtraction(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	extractionID := c.Param("id")

	extraction, err := h.Svc.Get(c.Request.Context(), userID, extractionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "extraction not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch extraction", nil)
		}
		return
	}
	c.Set("extractionId", extraction.ID)
	respond.JSON(c, http.StatusOK, extractionJSON(extraction))
}

func (h *Handler) deleteExtraction(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	extractionID := c.Param("id")

	if err := h.Svc.Delete(c.Request.Context(), userID, extractionID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "extraction not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete extraction", nil)
		}
		return
	}
	c.Set("extractionId", extractionID)
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

// respondPipelineError maps pipeline failures onto the flat error shape the
// extraction endpoints expose: {error, details, hint}.
func respondPipelineError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	hint := ""

	var upstream *llm.UpstreamError
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		status = http.StatusInternalServerError
		hint = "OPENAI_API_KEY is missing from server environment."
	case errors.Is(err, extract.ErrNoText):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, summary.ErrInvalidShape):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, llm.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.As(err, &upstream):
		switch upstream.Status {
		case http.StatusTooManyRequests:
			status = http.StatusTooManyRequests
		case http.StatusPaymentRequired:
			status = http.StatusPaymentRequired
		default:
			status = http.StatusBadGateway
		}
	case errors.Is(err, llm.ErrEmptyResponse), errors.Is(err, llm.ErrMalformedResponse):
		status = http.StatusBadGateway
	}

	body := gin.H{
		"error":   "Failed to analyze policy document",
		"details": err.Error(),
	}
	if hint != "" {
		body["hint"] = hint
	}
	c.JSON(status, body)
}

func extractionJSON(extraction Extraction) gin.H {
	return gin.H{
		"id":        extraction.ID,
		"fileName":  extraction.FileName,
		"policyId":  extraction.PolicyID,
		"summary":   extraction.Summary,
		"rawText":   extraction.RawText,
		"provider":  extraction.Provider,
		"model":     extraction.Model,
		"createdAt": extraction.CreatedAt,
	}
}
