// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"health-advisory-chat/internal/config"
	"health-advisory-chat/internal/domain/ports/adapter"
	aiAdapters "health-advisory-chat/internal/infra/adapters/ai"
	"health-advisory-chat/internal/infra/logging"
	"health-advisory-chat/internal/infra/memory"
	"health-advisory-chat/internal/infra/metrics"
	"health-advisory-chat/internal/infra/web"
	"health-advisory-chat/internal/infra/worker"
	"health-advisory-chat/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode (console logs, canned replies without a key)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}
	metrics.MustRegister()

	// ---- Session store ----
	store := memory.NewSessionStore()

	// ---- AI adapter (Gemini -> OpenAI-compatible -> canned) ----
	var ai adapter.AIServiceAdapter
	provider := ""
	switch {
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL,
			cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens, cfg.AI.Temperature)
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		provider = "gemini"
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL,
			cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens, cfg.AI.Temperature)
		if err != nil {
			log.Fatalf("openai adapter: %v", err)
		}
		provider = "openai"
	default:
		if !cfg.Runtime.Dev {
			log.Fatalf("no AI provider configured: set GEMINI_API_KEY or ai.gemini_key/ai.openai_key in %s", *cfgPath)
		}
		logger.Warn().Msg("no AI key configured; using canned replies")
		ai = aiAdapters.NewNoopAIAdapter(time.Second)
		provider = "noop"
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)
	logger.Info().Str("provider", provider).Str("model", cfg.AI.DefaultModel).Msg("AI adapter ready")

	// ---- Use cases ----
	pool := worker.NewPool(cfg.Chat.Workers, logger)
	pool.Start(ctx)
	defer pool.Stop()

	triageUC := usecase.NewTriageUseCase()
	chatUC := usecase.NewChatUseCase(store, ai, triageUC, pool, logger,
		provider, cfg.AI.DefaultModel, cfg.Chat.HistoryWindow, cfg.Runtime.Dev)
	searchUC := usecase.NewSearchUseCase(store)

	// ---- Chat API server ----
	srv := web.NewServer(chatUC, searchUC, nil, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", apiServer.Addr).Msg("chat api listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("api server error")
		}
	}()

	// ---- Admin server: health + metrics ----
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	adminServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.AdminPort),
		Handler: adminMux,
	}
	go func() {
		logger.Info().Str("addr", adminServer.Addr).Msg("admin listening")
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = apiServer.Shutdown(shutdownCtx)
	_ = adminServer.Shutdown(shutdownCtx)
}
