package analysis

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/extract"
	"legaldoc-backend/internal/llm"
	"legaldoc-backend/internal/shared/server/respond"
	"legaldoc-backend/internal/shared/telemetry"
	"legaldoc-backend/internal/shared/util"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc     *Service
	TempDir string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, tempDir string) *Handler {
	return &Handler{Svc: svc, TempDir: tempDir}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-document", h.analyze)
}

type jsonRequest struct {
	Text    string          `json:"text"`
	Parties json.RawMessage `json:"parties"`
	Email   string          `json:"email"`
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	var in Input
	var tempPath string
	// Guaranteed cleanup on every exit path; removal failures are logged only.
	defer func() {
		RemoveTempFile(tempPath)
	}()

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		in.Text = strings.TrimSpace(c.PostForm("text"))
		in.Email = strings.TrimSpace(c.PostForm("email"))
		in.Parties = parseParties(c, json.RawMessage(c.PostForm("parties")))

		fileHeader, err := c.FormFile("document")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			// multipart parse failure, typically an upload past the body cap
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read uploaded form; uploads are limited to 10MB", nil)
			return
		}
		if err == nil {
			name, err := util.SanitizeFileName(fileHeader.Filename)
			if err != nil {
				respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
				return
			}
			ext := filepath.Ext(name)
			if !AllowedExtension(ext) {
				respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported file type; allowed: .pdf, .doc, .docx, .txt", nil)
				return
			}
			src, err := fileHeader.Open()
			if err != nil {
				respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read uploaded file", nil)
				return
			}
			defer src.Close()
			tempPath, err = SaveTempFile(h.TempDir, ext, src)
			if err != nil {
				respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store uploaded file", nil)
				return
			}
			in.FilePath = tempPath
			in.FileExt = ext
		}
	} else {
		var req jsonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "missing_input", ErrMissingInput.Error(), nil)
			return
		}
		in.Text = strings.TrimSpace(req.Text)
		in.Email = strings.TrimSpace(req.Email)
		in.Parties = parseParties(c, req.Parties)
	}

	out, err := h.Svc.Analyze(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Set("analysisId", out.Analysis.Metadata.AnalysisID)

	resp := gin.H{
		"success":      true,
		"analysis":     out.Analysis,
		"originalText": out.OriginalText,
		"metadata":     out.Analysis.Metadata,
	}
	if out.UserInfo != nil {
		resp["userInfo"] = out.UserInfo
	}
	respond.OK(c, resp)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingInput):
		respond.Error(c, http.StatusBadRequest, "missing_input", err.Error(), nil)
	case errors.Is(err, ErrTooShort):
		respond.Error(c, http.StatusBadRequest, "content_too_short", err.Error(), nil)
	case errors.Is(err, ErrTooLong):
		respond.Error(c, http.StatusBadRequest, "content_too_long", err.Error(), nil)
	case errors.Is(err, ErrMissingEmail):
		respond.Error(c, http.StatusBadRequest, "missing_email", err.Error(), nil)
	case errors.Is(err, ErrUnknownAccount):
		respond.Error(c, http.StatusForbidden, "account_required", err.Error(), nil)
	case errors.Is(err, extract.ErrUnsupported):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, extract.ErrExtraction):
		// decoder details are logged, not exposed
		telemetry.Error("analysis.extraction_failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"err":        err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "extraction_error", "failed to extract text from document", nil)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusInternalServerError, "provider_not_configured", "analysis provider is not configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "provider_error", err.Error(), nil)
	}
}

// parseParties accepts party metadata as a native JSON object or a
// JSON-encoded string. Parse failures are logged and treated as no parties.
func parseParties(c *gin.Context, raw json.RawMessage) llm.Parties {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return llm.Parties{}
	}
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
			trimmed = strings.TrimSpace(inner)
		}
	}
	var parties llm.Parties
	if err := json.Unmarshal([]byte(trimmed), &parties); err != nil {
		telemetry.Info("analysis.parties_parse_failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"err":        err.Error(),
		})
		return llm.Parties{}
	}
	return parties
}
