package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Data       DataConfig       `mapstructure:"data"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Cache      CacheConfig      `mapstructure:"cache"`
	History    HistoryConfig    `mapstructure:"history"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// DataConfig locates the training table and the five reference tables.
// File names default to the original dataset layout.
type DataConfig struct {
	Dir             string `mapstructure:"dir"`
	TrainingFile    string `mapstructure:"training_file"`
	DescriptionFile string `mapstructure:"description_file"`
	PrecautionsFile string `mapstructure:"precautions_file"`
	MedicationsFile string `mapstructure:"medications_file"`
	DietsFile       string `mapstructure:"diets_file"`
	WorkoutsFile    string `mapstructure:"workouts_file"`
}

// ClassifierConfig selects and configures the classifier collaborator.
type ClassifierConfig struct {
	Mode       string                 `mapstructure:"mode"` // onnx or remote
	ModelPath  string                 `mapstructure:"model_path"`
	LabelsPath string                 `mapstructure:"labels_path"`
	OrtLibrary string                 `mapstructure:"ort_library"`
	InputName  string                 `mapstructure:"input_name"`
	OutputName string                 `mapstructure:"output_name"`
	Remote     RemoteClassifierConfig `mapstructure:"remote"`
}

// RemoteClassifierConfig configures the HTTP inference client.
type RemoteClassifierConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

// CacheConfig configures the prediction cache. The cache holds classifier
// outputs only; reference-table lookups are never cached.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	MaxEntries int           `mapstructure:"max_entries"`
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// HistoryConfig configures the prediction history store.
type HistoryConfig struct {
	Backend        string `mapstructure:"backend"` // none, sqlite, postgres
	SQLitePath     string `mapstructure:"sqlite_path"`
	DatabaseURL    string `mapstructure:"database_url"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
