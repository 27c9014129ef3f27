//go:build !integration

// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.AdminPort != 9090 {
		t.Errorf("admin port = %d", cfg.Server.AdminPort)
	}
	if cfg.AI.DefaultModel != "gemini-2.0-flash-lite" {
		t.Errorf("model = %q", cfg.AI.DefaultModel)
	}
	if cfg.AI.Temperature != 0.7 {
		t.Errorf("temperature = %v", cfg.AI.Temperature)
	}
	if cfg.AI.MaxOutputTokens != 500 {
		t.Errorf("max output tokens = %d", cfg.AI.MaxOutputTokens)
	}
	if cfg.Chat.HistoryWindow != 15 || cfg.Chat.Workers != 4 {
		t.Errorf("chat defaults = %+v", cfg.Chat)
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag not carried into runtime config")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
server:
  port: 8080
log:
  level: debug
  format: console
ai:
  default_model: gpt-4o-mini
  temperature: 0.2
chat:
  history_window: 5
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.AI.DefaultModel != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.AI.DefaultModel)
	}
	if cfg.AI.Temperature != 0.2 {
		t.Errorf("temperature = %v", cfg.AI.Temperature)
	}
	if cfg.Chat.HistoryWindow != 5 {
		t.Errorf("history window = %d", cfg.Chat.HistoryWindow)
	}
	// Unset fields still fall back to defaults.
	if cfg.Server.AdminPort != 9090 || cfg.Chat.Workers != 4 {
		t.Error("defaults not applied over partial file")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("PORT", "7001")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AI.GeminiKey != "env-key" {
		t.Errorf("gemini key = %q", cfg.AI.GeminiKey)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("port = %d", cfg.Server.Port)
	}

	t.Setenv("PORT", "not-a-number")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false); err == nil {
		t.Error("expected error for malformed PORT")
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path, false); err == nil {
		t.Error("expected parse error")
	}
}
