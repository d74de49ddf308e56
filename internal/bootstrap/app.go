package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/account"
	"legaldoc-backend/internal/analysis"
	"legaldoc-backend/internal/llm"
	"legaldoc-backend/internal/llm/gemini"
	"legaldoc-backend/internal/questions"
	"legaldoc-backend/internal/services/health"
	"legaldoc-backend/internal/shared/config"
	"legaldoc-backend/internal/shared/server"
	"legaldoc-backend/internal/shared/storage/db"
	"legaldoc-backend/internal/tts"
	"legaldoc-backend/internal/userdata"
)

var errDatabaseRequired = errors.New("DATABASE_URL is required")

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	LLM          llm.Client
	UserDataRepo userdata.Repo
	Sweeper      *analysis.Sweeper

	HealthService   *health.Service
	AnalysisService *analysis.Service
	QuestionService *questions.Service
	AccountService  *account.Service

	AnalysisHandler *analysis.Handler
	QuestionHandler *questions.Handler
	TTSHandler      *tts.Handler
	UserDataHandler *userdata.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Health:          app.HealthService,
		AnalysisHandler: app.AnalysisHandler,
		QuestionHandler: app.QuestionHandler,
		TTSHandler:      app.TTSHandler,
		UserDataHandler: app.UserDataHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory user data store")
			return nil, nil
		}
		return nil, errDatabaseRequired
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory user data store: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("bootstrap: migrations failed: %v", err)
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildServices(app *App) error {
	cfg := app.Config

	var dataRepo userdata.Repo
	if app.DB != nil {
		dataRepo = &userdata.PGRepo{DB: app.DB}
	} else {
		dataRepo = userdata.NewMemoryRepo()
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	providerConfigured := strings.TrimSpace(cfg.GeminiAPIKey) != ""
	if providerConfigured {
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTTSModel)
		if err != nil {
			return err
		}
		llmClient = client
	}

	accountSvc := account.NewService(dataRepo)
	analysisSvc := &analysis.Service{
		LLM:            llmClient,
		Model:          cfg.GeminiModel,
		Accounts:       accountSvc,
		EnableAccounts: cfg.EnableAccounts,
		RequireAccount: cfg.RequireAccount,
	}
	questionSvc := &questions.Service{
		LLM:   llmClient,
		Model: cfg.GeminiModel,
	}

	app.LLM = llmClient
	app.UserDataRepo = dataRepo
	app.Sweeper = analysis.NewSweeper(cfg.TempDir)
	app.HealthService = health.NewService(providerConfigured)
	app.AnalysisService = analysisSvc
	app.QuestionService = questionSvc
	app.AccountService = accountSvc
	app.AnalysisHandler = analysis.NewHandler(analysisSvc, cfg.TempDir)
	app.QuestionHandler = questions.NewHandler(questionSvc)
	app.TTSHandler = tts.NewHandler(llmClient, cfg.GeminiTTSModel, cfg.TTSMaxBytes)
	app.UserDataHandler = userdata.NewHandler(dataRepo)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
