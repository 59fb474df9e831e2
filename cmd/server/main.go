package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	docapp "github.com/trackle/backend/internal/application/document"
	eventapp "github.com/trackle/backend/internal/application/event"
	identityapp "github.com/trackle/backend/internal/application/identity"
	projectapp "github.com/trackle/backend/internal/application/project"
	taskapp "github.com/trackle/backend/internal/application/task"
	"github.com/trackle/backend/internal/infrastructure/auth"
	"github.com/trackle/backend/internal/infrastructure/config"
	"github.com/trackle/backend/internal/infrastructure/logger"
	"github.com/trackle/backend/internal/infrastructure/persistence"
	"github.com/trackle/backend/internal/infrastructure/storage"
	"github.com/trackle/backend/internal/interfaces/http/handler"
	"github.com/trackle/backend/internal/interfaces/http/middleware"
	"github.com/trackle/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Trackle backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, token revocation disabled", zap.Error(err))
	} else {
		blacklist = redisBlacklist
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	fileStorage, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize file storage", zap.Error(err))
	}
	if s3Store, ok := fileStorage.(*storage.S3FileStorage); ok {
		if err := s3Store.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	incentiveRepo := persistence.NewGormIncentiveRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	projectService := projectapp.NewProjectService(projectRepo, log)
	documentService := docapp.NewDocumentService(documentRepo, projectRepo, fileStorage, log)
	incentiveEngine := taskapp.NewIncentiveEngine(taskRepo, log)
	taskService := taskapp.NewTaskService(taskRepo, projectRepo, incentiveEngine, log)
	incentiveService := taskapp.NewIncentiveService(incentiveRepo)
	eventService := eventapp.NewEventService(eventRepo, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecurityHeaders())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.MaxMultipartMemory = cfg.HTTP.MaxBodySize

	jwtAuth := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAuth(jwtAuth),
	)
	r.RegisterPublic(handler.NewSystemHandler(db))
	r.RegisterPublic(handler.NewAuthHandler(authService, jwtAuth))
	r.Register(handler.NewUserHandler(userService))
	r.Register(handler.NewProjectHandler(projectService))
	r.Register(handler.NewDocumentHandler(documentService))
	r.Register(handler.NewTaskHandler(taskService, incentiveService))
	r.Register(handler.NewIncentiveHandler(incentiveService))
	r.Register(handler.NewEventHandler(eventService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
