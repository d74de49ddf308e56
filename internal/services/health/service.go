package health

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Service reports liveness and provider readiness.
type Service struct {
	ProviderConfigured bool
}

// NewService constructs a Service.
func NewService(providerConfigured bool) *Service {
	return &Service{ProviderConfigured: providerConfigured}
}

// Status returns the health payload.
func (s *Service) Status() gin.H {
	return gin.H{
		"status":           "ok",
		"message":          "Legal document analyzer is running",
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"geminiConfigured": s.ProviderConfigured,
	}
}
