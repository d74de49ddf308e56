package tts

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"legaldoc-backend/internal/llm"
	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/server/respond"
)

// Handler proxies text-to-speech requests to the provider.
type Handler struct {
	LLM   llm.Client
	Model string
	// MaxTextBytes caps the input text size; zero disables the limit.
	MaxTextBytes int
}

// NewHandler constructs a Handler.
func NewHandler(client llm.Client, model string, maxTextBytes int) *Handler {
	return &Handler{LLM: client, Model: model, MaxTextBytes: maxTextBytes}
}

// RegisterRoutes attaches the speech route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/text-to-speech", h.synthesize)
}

type speechRequest struct {
	Text        string `json:"text"`
	VoiceName   string `json:"voiceName"`
	StylePrompt string `json:"stylePrompt"`
}

func (h *Handler) synthesize(c *gin.Context) {
	var req speechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}
	if h.MaxTextBytes > 0 && len(req.Text) > h.MaxTextBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			fmt.Sprintf("text exceeds the maximum length of %d bytes", h.MaxTextBytes), nil)
		return
	}

	metrics.IncTTSRequest()
	result, err := h.LLM.Synthesize(c.Request.Context(), req.Text, req.VoiceName, req.StylePrompt)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			respond.Error(c, http.StatusInternalServerError, "provider_not_configured", "speech provider is not configured", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "provider_error", err.Error(), nil)
		return
	}

	respond.OK(c, gin.H{
		"success":   true,
		"audioData": result.AudioBase64,
		"mimeType":  result.MimeType,
		"metadata": gin.H{
			"responseId": uuid.NewString(),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"model":      h.Model,
		},
	})
}
