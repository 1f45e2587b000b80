package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	DefaultServerAddress   = ":8080"
	DefaultAPIBaseURL      = "https://qrcode-microservice.onrender.com"
	DefaultLogLevel        = "info"
	DefaultToastDuration   = 5 * time.Second
	DefaultFormIdleTTL     = 30 * time.Minute
	DefaultSweepInterval   = time.Minute
	DefaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	ServerAddress   string        `env:"SERVER_ADDRESS"`
	APIBaseURL      string        `env:"QR_API_BASE_URL"`
	LogLevel        string        `env:"LOG_LEVEL"`
	ToastDuration   time.Duration `env:"TOAST_DURATION"`
	FormIdleTTL     time.Duration `env:"FORM_IDLE_TTL"`
	SweepInterval   time.Duration `env:"FORM_SWEEP_INTERVAL"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	ConfigFile      string        `env:"CONFIG"`
}

// fileConfig mirrors Config in the JSON config file. Durations use
// time.ParseDuration syntax ("5s", "30m").
type fileConfig struct {
	ServerAddress   string `json:"server_address"`
	APIBaseURL      string `json:"qr_api_base_url"`
	LogLevel        string `json:"log_level"`
	ToastDuration   string `json:"toast_duration"`
	FormIdleTTL     string `json:"form_idle_ttl"`
	SweepInterval   string `json:"form_sweep_interval"`
	ShutdownTimeout string `json:"shutdown_timeout"`
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress:   DefaultServerAddress,
		APIBaseURL:      DefaultAPIBaseURL,
		LogLevel:        DefaultLogLevel,
		ToastDuration:   DefaultToastDuration,
		FormIdleTTL:     DefaultFormIdleTTL,
		SweepInterval:   DefaultSweepInterval,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// NewConfig reads settings from the command line, an optional JSON file,
// a .env file and the environment. Environment variables win over flags,
// flags win over the file and the file wins over defaults.
func NewConfig() (*Config, error) {
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(flags *flag.FlagSet, args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	fromFlags := defaultConfig()
	flags.StringVar(&fromFlags.ServerAddress, "a", fromFlags.ServerAddress, "HTTP server address (e.g. localhost:8888)")
	flags.StringVar(&fromFlags.APIBaseURL, "b", fromFlags.APIBaseURL, "Base URL of the QR code service")
	flags.StringVar(&fromFlags.LogLevel, "l", fromFlags.LogLevel, "Log level (debug, info, warn, error)")
	flags.DurationVar(&fromFlags.ToastDuration, "t", fromFlags.ToastDuration, "How long notifications stay on screen")
	flags.DurationVar(&fromFlags.FormIdleTTL, "ttl", fromFlags.FormIdleTTL, "Evict form instances idle for longer than this (0 disables)")
	flags.DurationVar(&fromFlags.SweepInterval, "sweep", fromFlags.SweepInterval, "How often to look for idle form instances")
	flags.DurationVar(&fromFlags.ShutdownTimeout, "shutdown", fromFlags.ShutdownTimeout, "Graceful shutdown timeout")
	flags.StringVar(&fromFlags.ConfigFile, "c", "", "Path to a JSON config file")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	configFile := fromFlags.ConfigFile
	if envFile, ok := os.LookupEnv("CONFIG"); ok && envFile != "" {
		configFile = envFile
	}

	if configFile != "" {
		if err := cfg.loadFile(configFile); err != nil {
			return nil, err
		}
		cfg.ConfigFile = configFile
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.ServerAddress = fromFlags.ServerAddress
		case "b":
			cfg.APIBaseURL = fromFlags.APIBaseURL
		case "l":
			cfg.LogLevel = fromFlags.LogLevel
		case "t":
			cfg.ToastDuration = fromFlags.ToastDuration
		case "ttl":
			cfg.FormIdleTTL = fromFlags.FormIdleTTL
		case "sweep":
			cfg.SweepInterval = fromFlags.SweepInterval
		case "shutdown":
			cfg.ShutdownTimeout = fromFlags.ShutdownTimeout
		}
	})

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.ServerAddress != "" {
		c.ServerAddress = fc.ServerAddress
	}
	if fc.APIBaseURL != "" {
		c.APIBaseURL = fc.APIBaseURL
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"toast_duration", fc.ToastDuration, &c.ToastDuration},
		{"form_idle_ttl", fc.FormIdleTTL, &c.FormIdleTTL},
		{"form_sweep_interval", fc.SweepInterval, &c.SweepInterval},
		{"shutdown_timeout", fc.ShutdownTimeout, &c.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("config file field %s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	return nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.ServerAddress) == "" {
		return errors.New("server address is required")
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("QR API base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("QR API base URL %q must be an absolute http(s) URL", c.APIBaseURL)
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	if c.ToastDuration < 0 {
		return errors.New("toast duration must not be negative")
	}
	if c.FormIdleTTL > 0 && c.SweepInterval <= 0 {
		return errors.New("sweep interval must be positive when idle eviction is enabled")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	return nil
}
