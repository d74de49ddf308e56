package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/llm"
	"legaldoc-backend/internal/shared/server/respond"
	"legaldoc-backend/internal/shared/telemetry"
)

// Handler wires question answering to HTTP, in both single-shot and
// event-stream forms.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches question routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ask-question", h.ask)
	rg.POST("/ask-question-stream", h.askStream)
}

type askRequest struct {
	Question            string          `json:"question"`
	AnalysisID          string          `json:"analysisId"`
	Context             json.RawMessage `json:"context"`
	ConversationHistory []llm.Turn      `json:"conversationHistory"`
	OriginalText        string          `json:"originalText"`
}

func (h *Handler) bindAndValidate(c *gin.Context) (askRequest, bool) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return req, false
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "question is required", nil)
		return req, false
	}
	if len(req.Context) == 0 || string(req.Context) == "null" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis context is required", nil)
		return req, false
	}
	return req, true
}

func (h *Handler) ask(c *gin.Context) {
	req, ok := h.bindAndValidate(c)
	if !ok {
		return
	}

	answer, meta, err := h.Svc.Ask(c.Request.Context(), req.Question, req.Context, req.ConversationHistory, req.OriginalText)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			respond.Error(c, http.StatusInternalServerError, "provider_not_configured", "question provider is not configured", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "provider_error", err.Error(), nil)
		return
	}

	respond.OK(c, gin.H{
		"success":  true,
		"answer":   answer,
		"metadata": meta,
	})
}

// askStream validates synchronously, then commits to event-stream semantics:
// once headers are written, any failure is delivered in-band as a final
// error event rather than an HTTP status change.
func (h *Handler) askStream(c *gin.Context) {
	req, ok := h.bindAndValidate(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeaderNow()

	writeEvent := func(payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		// best-effort once the client may be gone
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
			return
		}
		c.Writer.Flush()
	}

	// The provider call runs to completion even if the client disconnects;
	// writes after a disconnect are best-effort with no delivery guarantee.
	ctx := context.WithoutCancel(c.Request.Context())

	fullText, meta, err := h.Svc.Stream(ctx, req.Question, req.Context, req.ConversationHistory, req.OriginalText, func(chunk string) error {
		writeEvent(gin.H{"type": "chunk", "text": chunk})
		return nil
	})
	if err != nil {
		telemetry.Error("questions.stream_failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"err":        err.Error(),
		})
		writeEvent(gin.H{"error": err.Error()})
		return
	}

	writeEvent(gin.H{
		"type":     "done",
		"fullText": fullText,
		"metadata": meta,
	})
}
