package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/PabloGalante/sequential-thinking/internal/adapters/http"
	"github.com/PabloGalante/sequential-thinking/internal/adapters/llm"
	memstore "github.com/PabloGalante/sequential-thinking/internal/adapters/storage/memory"
	"github.com/PabloGalante/sequential-thinking/internal/app/thinking"
	"github.com/PabloGalante/sequential-thinking/internal/config"
	"github.com/PabloGalante/sequential-thinking/internal/domain"
	"github.com/PabloGalante/sequential-thinking/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := observability.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		logger.Error("error initializing LLM client", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}
	logger.Info("LLM client ready", "provider", cfg.LLMProvider, "model", cfg.ModelName)

	// Sessions live in memory for the lifetime of the process.
	sessionStore := memstore.NewSessionStore()

	svc := thinking.NewService(llmClient, sessionStore, thinking.Options{
		Model:               cfg.ModelName,
		CollaboratorTimeout: cfg.CollaboratorTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Sequential Thinking API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func newLLMClient(ctx context.Context, cfg *config.Config) (domain.LLMClient, error) {
	switch cfg.LLMProvider {
	case config.ProviderMock:
		return llm.NewMockLLM(), nil
	case config.ProviderAnthropic:
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.ModelName), nil
	case config.ProviderVertex:
		client, err := llm.NewVertexClient(ctx, llm.VertexConfig{
			ProjectID: cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			APIKey:    cfg.GeminiAPIKey,
			ModelName: cfg.ModelName,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.ModelName), nil
	}
}
