// Package bootstrap wires configuration, storage, the model client, and HTTP
// handlers into a runnable application.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/clients"
	"policy-backend/internal/extractions"
	"policy-backend/internal/health"
	"policy-backend/internal/llm"
	openai "policy-backend/internal/llm/openai"
	"policy-backend/internal/policies"
	"policy-backend/internal/settings"
	"policy-backend/internal/shared/config"
	"policy-backend/internal/shared/server"
	"policy-backend/internal/shared/storage/db"
	"policy-backend/internal/shared/storage/object"
	localstore "policy-backend/internal/shared/storage/object/local"
	s3store "policy-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	ExtractionsRepo extractions.Repo
	PoliciesRepo    policies.Repo
	ClientsRepo     clients.Repo
	SettingsRepo    settings.Repo

	ExtractionsService *extractions.Service
	PoliciesService    *policies.Service
	ClientsService     *clients.Service
	SettingsService    *settings.Service

	ExtractionsHandler *extractions.Handler
	PoliciesHandler    *policies.Handler
	ClientsHandler     *clients.Handler
	SettingsHandler    *settings.Handler
	HealthHandler      *health.Handler
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      app.Config,
		Health:      app.HealthHandler,
		Extractions: app.ExtractionsHandler,
		Policies:    app.PoliciesHandler,
		Clients:     app.ClientsHandler,
		Settings:    app.SettingsHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var extractionsRepo extractions.Repo
	var policiesRepo policies.Repo
	var clientsRepo clients.Repo
	var settingsRepo settings.Repo

	if app.DB != nil {
		extractionsRepo = &extractions.PGRepo{DB: app.DB}
		policiesRepo = &policies.PGRepo{DB: app.DB}
		clientsRepo = &clients.PGRepo{DB: app.DB}
		settingsRepo = &settings.PGRepo{DB: app.DB}
	} else {
		extractionsRepo = extractions.NewMemoryRepo()
		policiesRepo = policies.NewMemoryRepo()
		clientsRepo = clients.NewMemoryRepo()
		settingsRepo = settings.NewMemoryRepo()
	}

	var llmClient llm.Client
	switch app.Config.LLMProvider {
	case "openai":
		openaiClient, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), app.Config.LLMModel, app.Config.MaxPromptChars)
		if err != nil {
			return err
		}
		llmClient = openaiClient
	case "", "placeholder":
		llmClient = llm.PlaceholderClient{}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", app.Config.LLMProvider)
	}

	policiesSvc := policies.NewService(policiesRepo)
	clientsSvc := clients.NewService(clientsRepo, policiesSvc)
	settingsSvc := settings.NewService(settingsRepo)
	extractionsSvc := &extractions.Service{
		Repo:               extractionsRepo,
		Policies:           policiesSvc,
		Store:              app.Store,
		LLM:                llmClient,
		Provider:           app.Config.LLMProvider,
		Model:              app.Config.LLMModel,
		Fallback:           app.Config.ExtractionFallback,
		MaxStoredTextChars: app.Config.MaxStoredTextChars,
	}

	app.LLM = llmClient
	app.ExtractionsRepo = extractionsRepo
	app.PoliciesRepo = policiesRepo
	app.ClientsRepo = clientsRepo
	app.SettingsRepo = settingsRepo
	app.ExtractionsService = extractionsSvc
	app.PoliciesService = policiesSvc
	app.ClientsService = clientsSvc
	app.SettingsService = settingsSvc
	app.ExtractionsHandler = extractions.NewHandler(extractionsSvc)
	app.PoliciesHandler = policies.NewHandler(policiesSvc)
	app.ClientsHandler = clients.NewHandler(clientsSvc)
	app.SettingsHandler = settings.NewHandler(settingsSvc)
	app.HealthHandler = health.NewHandler(app.DB, llmClient)

	return nil
}
