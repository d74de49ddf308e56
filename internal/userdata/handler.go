package userdata

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/shared/server/respond"
)

// Handler exposes the user-data store over HTTP. It is a thin pass-through:
// no business logic beyond key construction and validation.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches user-data routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/save-user-data", h.save)
	rg.GET("/get-user-data/:email", h.get)
	rg.DELETE("/delete-user-data/:email/:serial", h.delete)
}

type saveRequest struct {
	Email  string          `json:"email"`
	Serial *int            `json:"serial"`
	Data   json.RawMessage `json:"data"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email is required", nil)
		return
	}
	if req.Serial == nil || *req.Serial < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "serial must be a non-negative integer", nil)
		return
	}
	if len(req.Data) == 0 {
		req.Data = json.RawMessage("{}")
	}
	if !json.Valid(req.Data) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "data must be valid JSON", nil)
		return
	}

	operation, err := h.Repo.Save(c.Request.Context(), req.Email, *req.Serial, req.Data)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "store_error", err.Error(), nil)
		return
	}

	respond.OK(c, gin.H{
		"success":   true,
		"operation": operation,
		"email":     req.Email,
		"serial":    *req.Serial,
	})
}

func (h *Handler) get(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email is required", nil)
		return
	}

	records, err := h.Repo.Get(c.Request.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no data found for this email", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "store_error", err.Error(), nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"records": records,
	})
}

func (h *Handler) delete(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email is required", nil)
		return
	}
	serial, err := strconv.Atoi(c.Param("serial"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "serial must be an integer", nil)
		return
	}

	if err := h.Repo.Delete(c.Request.Context(), email, serial); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no data found for this email and serial", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "store_error", err.Error(), nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"deleted": gin.H{"email": email, "serial": serial},
	})
}
