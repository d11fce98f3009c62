// Package config collects service settings from the environment. A .env
// file is honored when present.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

type Config struct {
	Port          string
	AgentProvider string
	OllamaHost    string
	OllamaModel   string
	GeminiAPIKey  string
	GeminiModel   string
	ReportsDir    string
	RetainLatest  bool
	LogMode       string
}

// Load reads configuration from .env (if any) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          envOr("PORT", "8080"),
		AgentProvider: strings.ToLower(envOr("AGENT_PROVIDER", ProviderOllama)),
		OllamaHost:    envOr("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:   envOr("OLLAMA_MODEL", "llama3.2"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   envOr("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		ReportsDir:    envOr("REPORTS_DIR", "reports"),
		RetainLatest:  envOr("RETAIN_ONLY_LATEST", "true") != "false",
		LogMode:       envOr("LOG_MODE", "dev"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
