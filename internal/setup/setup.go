// Package setup wires the application components together for the entry
// points: logger, reference tables, symptom index, classifier, cache, and
// history store.
package setup

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/prescripto/health-recommender/internal/cache"
	"github.com/prescripto/health-recommender/internal/classifier"
	"github.com/prescripto/health-recommender/internal/database"
	"github.com/prescripto/health-recommender/internal/dataset"
	"github.com/prescripto/health-recommender/internal/domain"
	"github.com/prescripto/health-recommender/internal/history"
	"github.com/prescripto/health-recommender/internal/service"
)

// App holds the wired components and owns their shutdown order.
type App struct {
	Logger    *logrus.Logger
	Predictor *service.PredictionService
	Store     history.Store

	classifier domain.Classifier
	cache      *cache.PredictionCache
}

// NewLogger builds the process logger from config.
func NewLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	if strings.ToLower(cfg.Format) == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// Build constructs the prediction service and its collaborators. Any failure
// here is a fatal startup error; there is no partial or degraded mode.
func Build(cfg *domain.Config) (*App, error) {
	logger := NewLogger(cfg.Logging)

	tables, err := dataset.Load(cfg.Data, logger)
	if err != nil {
		return nil, err
	}

	index, err := service.NewSymptomIndex(tables.Training)
	if err != nil {
		return nil, fmt.Errorf("building symptom index: %w", err)
	}

	clf, err := buildClassifier(cfg.Classifier, logger)
	if err != nil {
		return nil, err
	}

	var predictionCache *cache.PredictionCache
	if cfg.Cache.Enabled {
		predictionCache, err = cache.New(cfg.Cache, logger)
		if err != nil {
			clf.Close()
			return nil, fmt.Errorf("creating prediction cache: %w", err)
		}
	}

	store, err := buildHistoryStore(cfg.History, logger)
	if err != nil {
		clf.Close()
		if predictionCache != nil {
			predictionCache.Close()
		}
		return nil, err
	}

	predictor := service.NewPredictionService(
		logger,
		index,
		service.NewRecommender(tables),
		clf,
		predictionCache,
		store,
	)

	return &App{
		Logger:     logger,
		Predictor:  predictor,
		Store:      store,
		classifier: clf,
		cache:      predictionCache,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.WithError(err).Warn("Failed to close history store")
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Logger.WithError(err).Warn("Failed to close prediction cache")
		}
	}
	if err := a.classifier.Close(); err != nil {
		a.Logger.WithError(err).Warn("Failed to close classifier")
	}
}

func buildClassifier(cfg domain.ClassifierConfig, logger *logrus.Logger) (domain.Classifier, error) {
	switch cfg.Mode {
	case "onnx":
		return classifier.NewONNXClassifier(cfg, logger)
	case "remote":
		return classifier.NewRemoteClassifier(cfg.Remote, logger)
	default:
		return nil, fmt.Errorf("invalid classifier mode: %s", cfg.Mode)
	}
}

func buildHistoryStore(cfg domain.HistoryConfig, logger *logrus.Logger) (history.Store, error) {
	switch cfg.Backend {
	case "none", "":
		return nil, nil
	case "sqlite":
		store, err := history.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite history store: %w", err)
		}
		return store, nil
	case "postgres":
		runner, err := database.NewMigrationRunner(cfg.DatabaseURL, cfg.MigrationsPath, logger)
		if err != nil {
			return nil, fmt.Errorf("creating migration runner: %w", err)
		}
		if err := runner.Up(); err != nil {
			runner.Close()
			return nil, fmt.Errorf("migrating history schema: %w", err)
		}
		if err := runner.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close migration runner")
		}

		store, err := history.NewPostgresStoreFromURL(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("creating postgres history store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid history backend: %s", cfg.Backend)
	}
}
