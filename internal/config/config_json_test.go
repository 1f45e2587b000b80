package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func TestNewConfigWithJSON(t *testing.T) {
	clearEnv(t)

	configPath := writeConfigFile(t, `{
		"server_address": "json:8080",
		"qr_api_base_url": "http://qr.json",
		"log_level": "warn",
		"toast_duration": "3s",
		"form_idle_ttl": "1h",
		"form_sweep_interval": "5m",
		"shutdown_timeout": "20s"
	}`)

	cfg, err := parse(newFlagSet(), []string{"-c", configPath})
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	if cfg.ServerAddress != "json:8080" {
		t.Errorf("parse() ServerAddress = %v, want %v", cfg.ServerAddress, "json:8080")
	}

	if cfg.APIBaseURL != "http://qr.json" {
		t.Errorf("parse() APIBaseURL = %v, want %v", cfg.APIBaseURL, "http://qr.json")
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("parse() LogLevel = %v, want warn", cfg.LogLevel)
	}

	if cfg.ToastDuration != 3*time.Second || cfg.FormIdleTTL != time.Hour ||
		cfg.SweepInterval != 5*time.Minute || cfg.ShutdownTimeout != 20*time.Second {
		t.Errorf("parse() durations = %v %v %v %v", cfg.ToastDuration, cfg.FormIdleTTL, cfg.SweepInterval, cfg.ShutdownTimeout)
	}

	if cfg.ConfigFile != configPath {
		t.Errorf("parse() ConfigFile = %v, want %v", cfg.ConfigFile, configPath)
	}
}

func TestNewConfigJSONFromEnv(t *testing.T) {
	clearEnv(t)

	configPath := writeConfigFile(t, `{"server_address": "json:9090"}`)
	t.Setenv("CONFIG", configPath)

	cfg, err := parse(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	if cfg.ServerAddress != "json:9090" {
		t.Errorf("parse() ServerAddress = %v, want %v", cfg.ServerAddress, "json:9090")
	}
}

func TestNewConfigJSONPriority(t *testing.T) {
	clearEnv(t)

	// The file sets both fields, a flag overrides one of them and the
	// environment overrides the flag.
	configPath := writeConfigFile(t, `{"server_address": "json:8080", "log_level": "error"}`)

	t.Setenv("SERVER_ADDRESS", "env:8080")

	cfg, err := parse(newFlagSet(), []string{"-c", configPath, "-a", "flag:8080", "-l", "debug"})
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	if cfg.ServerAddress != "env:8080" {
		t.Errorf("parse() ServerAddress = %v, want %v", cfg.ServerAddress, "env:8080")
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("parse() LogLevel = %v, want %v", cfg.LogLevel, "debug")
	}
}

func TestNewConfigJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Malformed JSON", content: `{"server_address":`},
		{name: "Malformed duration", content: `{"toast_duration": "five seconds"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			configPath := writeConfigFile(t, tt.content)

			if _, err := parse(newFlagSet(), []string{"-c", configPath}); err == nil {
				t.Errorf("parse() error = nil, want an error")
			}
		})
	}

	t.Run("Missing file", func(t *testing.T) {
		clearEnv(t)

		missing := filepath.Join(t.TempDir(), "missing.json")
		if _, err := parse(newFlagSet(), []string{"-c", missing}); err == nil {
			t.Errorf("parse() error = nil, want an error")
		}
	})
}
