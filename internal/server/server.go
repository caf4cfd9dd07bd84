package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnly/internal/auth"
	"learnly/internal/config"
	"learnly/internal/database"
	"learnly/internal/handler"
	"learnly/internal/middleware"
	"learnly/internal/repository"
	"learnly/internal/repository/memory"
	"learnly/internal/repository/mongostore"
	"learnly/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Server struct {
	Engine  *gin.Engine
	Backend repository.Backend
	Config  *config.Config
	log     *zap.Logger
}

// Init opens the configured storage backend and builds the HTTP server on it.
func Init(cfg *config.Config, log *zap.Logger) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return New(cfg, backend, log), nil
}

// OpenBackend connects the store selected by STORE_DRIVER. The postgres
// schema is migrated before the backend is returned.
func OpenBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("❌ %w", err)
		}
		log.Info("✅ Connected to database", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

		migrator, err := database.NewMigrator(db)
		if err != nil {
			return nil, fmt.Errorf("❌ %w", err)
		}
		if err := migrator.Up(); err != nil {
			return nil, fmt.Errorf("❌ failed to apply migrations: %w", err)
		}
		log.Info("✅ Migrations applied")
		return repository.NewPostgresBackend(db), nil

	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("❌ failed to connect to MongoDB: %w", err)
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("❌ failed to create indexes: %w", err)
		}
		log.Info("✅ Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		return store, nil

	case config.DriverMemory:
		log.Warn("⚠️  Using in-memory store, data is lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("❌ unknown store driver %q", cfg.StoreDriver)
}

// New wires services, handlers and routes on top of backend.
func New(cfg *config.Config, backend repository.Backend, log *zap.Logger) *Server {
	r := gin.New()
	metrics := middleware.NewMetrics()
	r.Use(middleware.RequestLogger(log), gin.Recovery(), metrics.Middleware())

	svcCfg := service.Config{ToggleMode: cfg.ToggleMode, Location: cfg.Location}
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)

	// Initialize services
	authService := service.NewAuthService(auth.NewPasswordAuthenticator(backend.Users()), tokens, log)
	groupService := service.NewGroupService(backend.Groups(), svcCfg, log)
	taskService := service.NewTaskService(backend.Groups(), backend.Tasks(), svcCfg, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	groupHandler := handler.NewGroupHandler(groupService, taskService)
	taskHandler := handler.NewTaskHandler(taskService)
	healthHandler := handler.NewHealthHandler(backend)

	r.GET("/healthz", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	public := r.Group("/", middleware.RateLimit(limiter))
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	{
		authorized.POST("/logout", authHandler.Logout)
		authorized.GET("/me", authHandler.Me)

		// Group routes
		authorized.POST("/groups", groupHandler.Create)
		authorized.GET("/groups", groupHandler.GetAll)
		authorized.GET("/groups/:id", groupHandler.GetByID)
		authorized.POST("/groups/:id/join", groupHandler.Join)
		authorized.GET("/groups/:id/data", groupHandler.Data)

		// Task routes
		authorized.GET("/groups/:id/tasks", taskHandler.GetAll)
		authorized.POST("/groups/:id/tasks", taskHandler.Create)
		authorized.POST("/groups/:id/tasks/:task_id/toggle", taskHandler.Toggle)
	}

	return &Server{
		Engine:  r,
		Backend: backend,
		Config:  cfg,
		log:     log,
	}
}

// Run serves until SIGINT or SIGTERM, then drains requests and closes the backend.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         ":" + s.Config.ServerPort,
		Handler:      s.Engine,
		ReadTimeout:  s.Config.ReadTimeout,
		WriteTimeout: s.Config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("🚀 Server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		_ = s.Backend.Close()
		return fmt.Errorf("❌ failed to listen: %w", err)
	case <-quit:
	}
	s.log.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("❌ server forced to shutdown: %w", err)
	}
	if err := s.Backend.Close(); err != nil {
		s.log.Warn("failed to close storage backend", zap.Error(err))
	}

	s.log.Info("✅ Server exited properly")
	return nil
}
