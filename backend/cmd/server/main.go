package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"relation-kg/backend/internal/api"
	"relation-kg/backend/internal/imagemap"
	"relation-kg/backend/internal/media"
	"relation-kg/backend/internal/person"
	"relation-kg/backend/internal/relation"
	"relation-kg/backend/internal/stats"
	"relation-kg/backend/pkg/config"
	"relation-kg/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting relation graph API server...",
		zap.String("env", cfg.Env),
		zap.String("data_dir", cfg.DataDir),
	)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := newRouter(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize stores", zap.Error(err))
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newRouter wires the file-backed stores into the HTTP routes
func newRouter(cfg *config.Config, log *zap.Logger) (*gin.Engine, error) {
	idPolicy, err := relation.ParseIDPolicy(cfg.RelationIDPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid relation id policy: %w", err)
	}
	relations := relation.NewStore(cfg.RelationFile,
		relation.WithLogger(log.Named("relation")),
		relation.WithIDPolicy(idPolicy),
	)
	images := imagemap.NewStore(cfg.ImageMapFile, log.Named("imagemap"))
	files, err := media.NewLocalStorage(cfg.ImageDir, log.Named("media"))
	if err != nil {
		return nil, fmt.Errorf("failed to open image directory: %w", err)
	}
	persons := person.NewDirectory(relations, images, files, log.Named("person"))
	dists := stats.Distributions{BigPath: cfg.BigRelationFile, SmallPath: cfg.SmallRelationFile}

	server := api.NewServer(relations, persons, dists, api.Options{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxUploadBytes:  int64(cfg.MaxUploadMB) << 20,
	}, log.Named("api"))

	router := gin.New()
	router.Use(api.Logger(log))
	router.Use(gin.Recovery())
	router.Use(api.CORS(cfg.CORSAllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server.RegisterRoutes(router)
	return router, nil
}
