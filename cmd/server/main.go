package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/wealthops/risk-profiler/internal/agent"
	"github.com/wealthops/risk-profiler/internal/api"
	"github.com/wealthops/risk-profiler/internal/config"
	"github.com/wealthops/risk-profiler/internal/logging"
	"github.com/wealthops/risk-profiler/internal/profiler"
	"github.com/wealthops/risk-profiler/internal/report"
	"github.com/wealthops/risk-profiler/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	conv, pinger, cleanup, err := buildAgent(cfg)
	if err != nil {
		logger.Fatal("failed to create agent backend", zap.Error(err))
	}
	defer cleanup()

	sessions := store.NewMemory()
	reports := report.NewManager(cfg.ReportsDir, cfg.RetainLatest, logger)
	machine := profiler.NewMachine(sessions, conv, reports, logger)
	handler := api.NewHandler(machine, reports, pinger, logger)
	router := api.NewRouter(handler, logger)

	logger.Info("wealth risk profiler starting",
		zap.String("port", cfg.Port),
		zap.String("agent_provider", cfg.AgentProvider),
		zap.String("reports_dir", cfg.ReportsDir))

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// buildAgent selects the conversational backend: a local Ollama model by
// default, Gemini when AGENT_PROVIDER=gemini.
func buildAgent(cfg config.Config) (agent.Converser, agent.Pinger, func(), error) {
	switch cfg.AgentProvider {
	case config.ProviderGemini:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		g, err := agent.NewGeminiAgent(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, nil, err
		}
		return g, g, g.Close, nil
	default:
		o, err := agent.NewOllamaAgent(cfg.OllamaHost, cfg.OllamaModel)
		if err != nil {
			return nil, nil, nil, err
		}
		return o, o, func() {}, nil
	}
}
