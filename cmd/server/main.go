package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"adlens/internal/ai"
	"adlens/internal/auth"
	"adlens/internal/cache"
	"adlens/internal/config"
	"adlens/internal/db"
	"adlens/internal/handler"
	"adlens/internal/logger"
	"adlens/internal/media"
	"adlens/internal/model"
	"adlens/internal/pipeline"
	"adlens/internal/progress"
	"adlens/internal/queue"
	"adlens/internal/repository"
	"adlens/internal/router"
	"adlens/internal/service"
	"adlens/internal/storage"
	"adlens/internal/worker"
)

// @title Ad Analysis API
// @version 1.0
// @description Short-video ad analysis: upload a creative, follow the AI analysis live and browse scored reports.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if cfg.Database.Reset {
		log.Warn().Msg("Database reset requested, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.Database.Reset); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis unreachable, running without cache and token revocation")
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init")
	}

	jobs, err := queue.New(cfg.Queue, log)
	if err != nil {
		log.Fatal().Err(err).Msg("queue init")
	}
	defer jobs.Close()

	hub := progress.NewHub()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	analysisRepo := repository.NewAnalysisRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWT.Secret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize the analysis pipeline
	if cfg.AI.APIKey == "" {
		log.Warn().Msg("No AI API key configured, analyses will fail until one is set")
	}
	aiClient := ai.NewOpenAI(cfg.AI)
	analyzer := pipeline.NewAnalyzer(aiClient, cfg.AI.Model, cfg.AI.Language, log)

	// Initialize services
	userService := service.NewUserService(userRepo, cacheClient, log)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, log)
	analysisService := service.NewAnalysisService(analysisRepo, cacheClient, store, jobs, hub, analyzer, log)

	if _, err := userService.SeedUsers(ctx, service.DefaultUsers); err != nil {
		log.Fatal().Err(err).Msg("seed default users")
	}

	runner := pipeline.NewRunner(
		analyzer,
		aiClient,
		media.NewExtractor(cfg.Media.FFmpegPath, cfg.Media.FFprobePath),
		store,
		analysisService,
		pipeline.Config{
			WorkDir:           cfg.Media.WorkDir,
			PreliminaryFrames: cfg.Media.PreliminaryFrames,
			FullFrames:        cfg.Media.FullFrames,
			Language:          cfg.AI.Language,
			Placement:         model.Placement(cfg.AI.Placement),
		},
		log,
	)

	var analysisWorker *worker.AnalysisWorker
	if cfg.Worker.Count > 0 {
		analysisWorker = worker.NewAnalysisWorker(worker.NewWorkerPool(cfg.Worker.Count, log), jobs, runner, log)
		if err := analysisWorker.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("worker start")
		}
	} else {
		log.Info().Msg("Worker count is 0, this instance only serves the API")
	}

	var mediaHandler *handler.MediaHandler
	if local, ok := store.(*storage.Local); ok {
		mediaHandler = handler.NewMediaHandler(analysisService, local.Root())
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, log,
		router.Security{JWT: jwtService, Tokens: tokenStore, Users: userService},
		router.Handlers{
			Auth:     handler.NewAuthHandler(authService, userService),
			User:     handler.NewUserHandler(userService),
			Seed:     handler.NewSeedHandler(userService),
			Analysis: handler.NewAnalysisHandler(analysisService),
			Events:   handler.NewEventsHandler(analysisService, hub, cfg.CORS.FrontendURL, log),
			Media:    mediaHandler,
		},
	)

	go func() {
		addr := ":" + cfg.Server.Port
		log.Info().Str("addr", addr).Msg("Server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if analysisWorker != nil {
		analysisWorker.Stop()
	}
	log.Info().Msg("Server stopped")
}
