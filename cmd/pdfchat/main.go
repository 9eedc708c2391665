package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liliang-cn/pdfchat/internal/answer"
	"github.com/liliang-cn/pdfchat/internal/api"
	"github.com/liliang-cn/pdfchat/internal/auth"
	"github.com/liliang-cn/pdfchat/internal/config"
	"github.com/liliang-cn/pdfchat/internal/extract"
	"github.com/liliang-cn/pdfchat/internal/llm"
	"github.com/liliang-cn/pdfchat/internal/session"
	"github.com/liliang-cn/pdfchat/internal/store"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Document store over the local PDF directory
	documentStore, err := store.New(cfg.Storage.Documents, extract.NewPDFExtractor(), logger)
	if err != nil {
		logger.Fatal("Failed to initialize document store", zap.Error(err))
	}

	// Answer engine over the language-model boundary
	client := llm.NewClient(
		cfg.LLM.BaseURL,
		cfg.LLM.Model,
		cfg.LLM.MaxTokens,
		cfg.LLM.Temperature,
		cfg.LLMTimeout(),
	)
	engine := answer.NewEngine(client)

	// Session state machine
	authenticator := auth.New(cfg.Admin.PasswordHash)
	manager := session.NewManager(cfg.SessionTTL(), cfg.SessionCleanup())
	controller := session.NewController(documentStore, authenticator, engine, logger)

	// Setup router
	router := api.SetupRouter(manager, controller, api.RouterConfig{
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting PDF chat server",
			zap.String("address", cfg.Address()),
			zap.String("documents", cfg.Storage.Documents),
			zap.String("model", cfg.LLM.Model),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
