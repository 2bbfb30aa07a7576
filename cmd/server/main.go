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
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"teamnet/internal/api"
	"teamnet/internal/assets"
	"teamnet/internal/cache"
	"teamnet/internal/graph"
	"teamnet/internal/handlers"
	"teamnet/internal/linkmeta"
	"teamnet/internal/mail"
	"teamnet/internal/views"
	"teamnet/pkg/config"
	"teamnet/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify Neo4j connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	// Connect to Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize dependencies
	repo := graph.NewRepository(driver)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create graph indexes", zap.Error(err))
	}

	store := cache.NewRedisStore(redisClient)
	builder := views.NewBuilder(repo, store)
	coordinator := cache.NewCoordinator(store)
	defer coordinator.Stop()

	var sender mail.Sender
	if cfg.SendgridAPIKey != "" {
		sender = mail.NewSendgridSender(cfg.SendgridAPIKey, cfg.SendgridFromEmail)
	} else {
		log.Warn("No Sendgrid API key configured, welcome mails disabled")
		sender = mail.NewNoopSender()
	}

	assetStore, err := assets.NewFileStore(cfg.AssetDir)
	if err != nil {
		log.Fatal("Failed to prepare asset directory", zap.Error(err))
	}

	h := handlers.New(repo, builder, coordinator, handlers.Options{
		Mail:        sender,
		Assets:      assetStore,
		Links:       linkmeta.NewHTTPFetcher(),
		JWTSecret:   cfg.JWTSecret,
		TokenExpiry: cfg.TokenExpiryDays,
	})

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(h, api.Options{
		Assets:    assetStore,
		StaticDir: assetStore.Dir(),
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight cache refreshes land before the coordinator stops
	coordinator.Flush()

	log.Info("Server exited")
}
