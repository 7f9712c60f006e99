package config

import (
	"os"
	"strconv"

	"diffexpr/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
	Report   ReportConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. The database is
// optional: with no URL configured, runs are kept in memory only.
type DatabaseConfig struct {
	URL string
}

// EngineConfig holds differential testing settings
type EngineConfig struct {
	Workers int
}

// ReportConfig holds default cutoffs for the actionable report and plots
type ReportConfig struct {
	PAdjCutoff   float64
	Log2FCCutoff float64
	HeatmapTopN  int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Engine: EngineConfig{
			Workers: getEnvIntOrDefault("ENGINE_WORKERS", 0),
		},
		Report: ReportConfig{
			PAdjCutoff:   getEnvFloatOrDefault("P_ADJ_CUTOFF", 0.05),
			Log2FCCutoff: getEnvFloatOrDefault("LOG2_FC_CUTOFF", 1.0),
			HeatmapTopN:  getEnvIntOrDefault("HEATMAP_TOP_N", 30),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Report.PAdjCutoff < 0 || config.Report.PAdjCutoff > 1 {
		return errors.ConfigInvalid("P_ADJ_CUTOFF must be within [0, 1]")
	}
	if config.Report.Log2FCCutoff < 0 {
		return errors.ConfigInvalid("LOG2_FC_CUTOFF must be non-negative")
	}
	if config.Report.HeatmapTopN <= 0 {
		return errors.ConfigInvalid("HEATMAP_TOP_N must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
