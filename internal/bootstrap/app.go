package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"careercompass-backend/internal/analyses"
	googleauth "careercompass-backend/internal/auth"
	"careercompass-backend/internal/documents"
	"careercompass-backend/internal/llm"
	"careercompass-backend/internal/llm/gemini"
	"careercompass-backend/internal/roadmaps"
	"careercompass-backend/internal/shared/config"
	"careercompass-backend/internal/shared/server"
	"careercompass-backend/internal/shared/storage/db"
	"careercompass-backend/internal/shared/storage/object"
	localstore "careercompass-backend/internal/shared/storage/object/local"
	s3store "careercompass-backend/internal/shared/storage/object/s3"
	"careercompass-backend/internal/usage"
)

// App holds the wired dependencies for the API server.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	DocumentsRepo documents.DocumentsRepo
	AnalysesRepo  analyses.Repo
	RoadmapsRepo  roadmaps.Repo

	DocumentsService *documents.Service
	AnalysesService  *analyses.Service
	RoadmapsService  *roadmaps.Service
	UsageService     *usage.Service

	DocumentsHandler *documents.Handler
	AnalysisHandler  *analyses.Handler
	RoadmapHandler   *roadmaps.Handler
	UsageHandler     *usage.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares all dependencies and the router from configuration.
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

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    llmClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		AnalysisHandler: app.AnalysisHandler,
		RoadmapHandler:  app.RoadmapHandler,
		UsageHandler:    app.UsageHandler,
		GoogleAuth:      app.GoogleAuth,
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
		return nil, fmt.Errorf("run migrations: %w", err)
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

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.DryRun() {
		log.Printf("bootstrap: GOOGLE_API_KEY empty; model calls run in dry-run mode")
		return llm.DryRunClient{}, nil
	}
	return gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout)
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
	var docRepo documents.DocumentsRepo
	var analysisRepo analyses.Repo
	var roadmapRepo roadmaps.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		roadmapRepo = &roadmaps.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
		roadmapRepo = roadmaps.NewMemoryRepo()
	}

	var usageSvc *usage.Service
	if app.DB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		usageSvc = usage.NewService()
	}

	docSvc := &documents.Service{
		Store: app.Store,
		Repo:  docRepo,
	}

	analysisSvc := &analyses.Service{
		Repo:  analysisRepo,
		Docs:  docSvc,
		Usage: usageSvc,
		LLM:   app.LLM,
	}

	roadmapSvc := &roadmaps.Service{
		Repo:     roadmapRepo,
		Analyses: analysisSvc,
		Docs:     docSvc,
		Usage:    usageSvc,
		LLM:      app.LLM,
	}

	app.DocumentsRepo = docRepo
	app.AnalysesRepo = analysisRepo
	app.RoadmapsRepo = roadmapRepo
	app.DocumentsService = docSvc
	app.AnalysesService = analysisSvc
	app.RoadmapsService = roadmapSvc
	app.UsageService = usageSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.AnalysisHandler = analyses.NewHandler(analysisSvc)
	app.RoadmapHandler = roadmaps.NewHandler(roadmapSvc)
	app.UsageHandler = usage.NewHandler(usageSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
	)

	return nil
}
