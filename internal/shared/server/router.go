package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/analysis"
	"legaldoc-backend/internal/questions"
	"legaldoc-backend/internal/services/health"
	"legaldoc-backend/internal/shared/config"
	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/server/middleware"
	"legaldoc-backend/internal/tts"
	"legaldoc-backend/internal/userdata"
)

// RouterDeps carries the handlers wired into the engine.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	AnalysisHandler *analysis.Handler
	QuestionHandler *questions.Handler
	TTSHandler      *tts.Handler
	UserDataHandler *userdata.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Max:    deps.Config.RateLimitMax,
		Window: deps.Config.RateLimitWindow,
	}))

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Health.Status())
	})
	deps.AnalysisHandler.RegisterRoutes(api)
	deps.QuestionHandler.RegisterRoutes(api)
	deps.TTSHandler.RegisterRoutes(api)
	deps.UserDataHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
