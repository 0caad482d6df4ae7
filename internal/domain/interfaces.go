package domain

import (
	"context"
)

// Classifier maps an indicator vector to exactly one disease label. The
// vector length and element order must match the symptom index the vector
// was encoded with. Implementations are opaque to the core: confidence
// scores and alternative labels are not surfaced.
type Classifier interface {
	Predict(ctx context.Context, vector []float32) (DiseaseLabel, error)
	Close() error
}

// ConfigManager provides access to validated application configuration.
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	Validate() error
}
