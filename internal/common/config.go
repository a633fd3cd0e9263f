package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
	Session     SessionConfig `toml:"session"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds portfolio state storage configuration.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	MarketData MarketDataConfig `toml:"marketdata"`
	Gemini     GeminiConfig     `toml:"gemini"`
}

// MarketDataConfig holds quote provider configuration
type MarketDataConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *MarketDataConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the advisor call timeout. The oracle itself
// enforces no deadline, so the adapter imposes this one externally.
func (c *GeminiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// SessionConfig seeds the portfolio session on first run.
type SessionConfig struct {
	InitialCash      float64            `toml:"initial_cash"`
	InitialHoldings  map[string]int     `toml:"initial_holdings"`
	TargetAllocation map[string]float64 `toml:"target_allocation"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/state",
		},
		Clients: ClientsConfig{
			MarketData: MarketDataConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model:   "gemini-2.5-flash",
				Timeout: "60s",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Session: SessionConfig{
			InitialCash: 2500.00,
			InitialHoldings: map[string]int{
				"VTI":   12,
				"VTIAX": 8,
				"BND":   15,
				"VNQ":   5,
			},
			TargetAllocation: map[string]float64{
				"Stocks (US)":   60,
				"Stocks (Intl)": 20,
				"Bonds":         15,
				"Real Estate":   5,
			},
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FOLIO_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
}
