package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"todo/internal/config"
	"todo/internal/handler"
	"todo/internal/logger"
	"todo/internal/middleware"
	"todo/internal/repository"
	"todo/internal/service"
	"todo/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

// Init applies migrations, opens the database and the blob store, and builds
// the HTTP server.
func Init(cfg *config.Config) (*Server, error) {
	if cfg.DBDriver != "sqlite" {
		if err := repository.Migrate(cfg.MigrationURL()); err != nil {
			return nil, fmt.Errorf("❌ failed to migrate DB: %w", err)
		}
	}

	db, err := repository.NewDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	logger.Info("✅ Connected to database", zap.String("driver", cfg.DBDriver))

	blobs, err := storage.NewBlobStore(cfg.StorageDir, cfg.StoragePublicURL)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to open storage: %w", err)
	}

	return New(cfg, db, blobs)
}

// New wires repositories, services and handlers on top of an open database
// and blob store, and installs the level catalog.
func New(cfg *config.Config, db *gorm.DB, blobs *storage.BlobStore) (*Server, error) {
	store := repository.NewStore(db)

	levelService := service.NewLevelService(store)
	if err := levelService.EnsureCatalog(context.Background(), service.DefaultLevels()); err != nil {
		return nil, fmt.Errorf("❌ failed to install levels: %w", err)
	}
	taskService := service.NewTaskService(store, levelService, blobs)
	subtaskService := service.NewSubtaskService(store)
	attachmentService := service.NewAttachmentService(store, blobs, cfg.MaxUploadBytes)

	userHandler := handler.NewUserHandler(store.Users, cfg.JWTSecret, cfg.JWTExpiry)
	taskHandler := handler.NewTaskHandler(taskService)
	subtaskHandler := handler.NewSubtaskHandler(subtaskService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	levelHandler := handler.NewLevelHandler(levelService)
	healthHandler := handler.NewHealthHandler(store)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Metrics())

	// Public routes
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if strings.HasPrefix(cfg.StoragePublicURL, "/") {
		r.StaticFS(cfg.StoragePublicURL, afero.NewHttpFs(blobs.Fs()).Dir("/"))
	}
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/tasks", taskHandler.List)
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/recycle-bin", taskHandler.RecycleBin)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PATCH("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/restore", taskHandler.Restore)

		authorized.GET("/tasks/:id/subtasks", subtaskHandler.List)
		authorized.POST("/tasks/:id/subtasks", subtaskHandler.Create)
		authorized.PATCH("/subtasks/:id", subtaskHandler.Rename)
		authorized.PATCH("/subtasks/:id/toggle", subtaskHandler.Toggle)
		authorized.DELETE("/subtasks/:id", subtaskHandler.Delete)

		authorized.POST("/tasks/:id/attachments", attachmentHandler.Upload)
		authorized.DELETE("/tasks/:id/attachments/:attachment_id", attachmentHandler.Delete)

		authorized.GET("/dashboard", levelHandler.Dashboard)
		authorized.GET("/levels", levelHandler.Catalog)
		authorized.POST("/level/seen", levelHandler.MarkSeen)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("❌ failed to listen: %w", err)
	case <-quit:
	}
	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("❌ server forced to shutdown: %w", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("✅ Server exited properly")
	return nil
}
