// Package config provides configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/prescripto/health-recommender/internal/domain"
)

// Manager implements the domain.ConfigManager interface using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from file, environment, and defaults
func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/prescripto/")

	viper.SetEnvPrefix("PRESCRIPTO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Config file is optional; defaults and env vars are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.request_timeout", "30s")
	viper.SetDefault("server.rate_limit_rps", 10)
	viper.SetDefault("server.rate_limit_burst", 20)

	// Dataset defaults follow the original data layout
	viper.SetDefault("data.dir", "datasets")
	viper.SetDefault("data.training_file", "Training.csv")
	viper.SetDefault("data.description_file", "description.csv")
	viper.SetDefault("data.precautions_file", "precautions_df.csv")
	viper.SetDefault("data.medications_file", "medications.csv")
	viper.SetDefault("data.diets_file", "diets.csv")
	viper.SetDefault("data.workouts_file", "workout_df.csv")

	// Classifier defaults
	viper.SetDefault("classifier.mode", "onnx")
	viper.SetDefault("classifier.model_path", "models/svc.onnx")
	viper.SetDefault("classifier.labels_path", "models/labels.txt")
	viper.SetDefault("classifier.input_name", "float_input")
	viper.SetDefault("classifier.output_name", "scores")
	viper.SetDefault("classifier.remote.timeout", "30s")
	viper.SetDefault("classifier.remote.rate_limit", 10)
	viper.SetDefault("classifier.remote.burst", 5)

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_entries", 1024)
	viper.SetDefault("cache.ttl", "24h")

	// History defaults
	viper.SetDefault("history.backend", "sqlite")
	viper.SetDefault("history.sqlite_path", defaultSQLitePath())
	viper.SetDefault("history.migrations_path", "migrations")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

func defaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "prescripto.db"
	}
	return filepath.Join(homeDir, ".prescripto", "history.db")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// Validate validates the configuration. A missing or unreadable training
// table is a fatal startup error: without it the symptom index cannot be
// built and there is no degraded mode.
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Data.Dir == "" {
		return fmt.Errorf("data directory is required")
	}
	if config.Data.TrainingFile == "" {
		return fmt.Errorf("training table file is required")
	}
	trainingPath := filepath.Join(config.Data.Dir, config.Data.TrainingFile)
	if _, err := os.Stat(trainingPath); err != nil {
		return fmt.Errorf("training table %s is not readable: %w", trainingPath, err)
	}

	switch config.Classifier.Mode {
	case "onnx":
		if config.Classifier.ModelPath == "" {
			return fmt.Errorf("classifier model path is required in onnx mode")
		}
		if config.Classifier.LabelsPath == "" {
			return fmt.Errorf("classifier labels path is required in onnx mode")
		}
	case "remote":
		if config.Classifier.Remote.BaseURL == "" {
			return fmt.Errorf("remote classifier base URL is required in remote mode")
		}
	default:
		return fmt.Errorf("invalid classifier mode: %s", config.Classifier.Mode)
	}

	switch config.History.Backend {
	case "none":
	case "sqlite":
		if config.History.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for the sqlite history backend")
		}
	case "postgres":
		if config.History.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for the postgres history backend")
		}
	default:
		return fmt.Errorf("invalid history backend: %s", config.History.Backend)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}
