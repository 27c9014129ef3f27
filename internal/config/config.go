// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port      int `yaml:"port"`       // chat API
	AdminPort int `yaml:"admin_port"` // health + metrics
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AIConfig struct {
	GeminiKey       string  `yaml:"gemini_key"`
	GeminiURL       string  `yaml:"gemini_url"`
	OpenAIKey       string  `yaml:"openai_key"`
	OpenAIBaseURL   string  `yaml:"openai_base_url"`
	DefaultModel    string  `yaml:"default_model"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	ConcurrentLimit int     `yaml:"concurrent_limit"` // max concurrent AI calls
}

type ChatConfig struct {
	HistoryWindow int `yaml:"history_window"` // messages sent upstream per turn
	Workers       int `yaml:"workers"`        // async reply workers
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	AI     AIConfig     `yaml:"ai"`
	Chat   ChatConfig   `yaml:"chat"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML config file, applies defaults and the
// GEMINI_API_KEY and PORT environment overrides. A missing config file
// is not an error; the service can run on defaults plus environment
// alone.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults + env only
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// environment overrides
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.AI.GeminiKey = k
	}
	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("PORT: %w", err)
		}
		cfg.Server.Port = port
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.AdminPort <= 0 {
		cfg.Server.AdminPort = 9090
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gemini-2.0-flash-lite"
	}
	if cfg.AI.Temperature <= 0 {
		cfg.AI.Temperature = 0.7
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 500
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.Chat.HistoryWindow <= 0 {
		cfg.Chat.HistoryWindow = 15
	}
	if cfg.Chat.Workers <= 0 {
		cfg.Chat.Workers = 4
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
