package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/prescripto/health-recommender/internal/cache"
	"github.com/prescripto/health-recommender/internal/domain"
	"github.com/prescripto/health-recommender/internal/history"
)

// PredictionService orchestrates the full prediction workflow: encode the
// symptom set, obtain a disease label from the classifier collaborator, and
// resolve the label into an answer bundle. The index and reference tables are
// read-only after construction, so the service is safe to share across
// concurrent requests.
type PredictionService struct {
	logger      *logrus.Logger
	index       *SymptomIndex
	recommender *Recommender
	classifier  domain.Classifier
	cache       *cache.PredictionCache
	store       history.Store
}

// NewPredictionService creates a prediction service. Cache and store may be
// nil; both are optional.
func NewPredictionService(
	logger *logrus.Logger,
	index *SymptomIndex,
	recommender *Recommender,
	classifier domain.Classifier,
	predictionCache *cache.PredictionCache,
	store history.Store,
) *PredictionService {
	return &PredictionService{
		logger:      logger,
		index:       index,
		recommender: recommender,
		classifier:  classifier,
		cache:       predictionCache,
		store:       store,
	}
}

// Index returns the symptom index the service encodes against.
func (p *PredictionService) Index() *SymptomIndex {
	return p.index
}

// Recommender returns the lookup pipeline for direct label resolution.
func (p *PredictionService) Recommender() *Recommender {
	return p.recommender
}

// Predict runs one prediction over a symptom set.
func (p *PredictionService) Predict(ctx context.Context, symptoms []string) (*domain.PredictionResult, error) {
	startTime := time.Now()

	vector, unrecognized := p.index.Encode(symptoms)

	p.logger.WithFields(logrus.Fields{
		"symptom_count":      len(symptoms),
		"unrecognized_count": len(unrecognized),
	}).Info("Starting prediction")

	// Cache on the recognized subset only, so symptom sets differing just in
	// unknown names share an entry, matching the encoding semantics.
	known := make([]string, 0, len(symptoms))
	for _, name := range symptoms {
		if p.index.Contains(name) {
			known = append(known, name)
		}
	}

	disease, cached, err := p.classify(ctx, known, vector)
	if err != nil {
		return nil, fmt.Errorf("classifying symptom vector: %w", err)
	}

	bundle := p.recommender.Resolve(disease)

	result := &domain.PredictionResult{
		PredictionID:   uuid.New().String(),
		Bundle:         bundle,
		Unrecognized:   unrecognized,
		SymptomCount:   len(symptoms),
		ProcessingTime: time.Since(startTime),
		Timestamp:      time.Now().UTC(),
	}

	if p.store != nil {
		record := &history.PredictionRecord{
			ID:           result.PredictionID,
			Symptoms:     symptoms,
			Unrecognized: unrecognized,
			Disease:      string(disease),
			Description:  bundle.Description,
			CreatedAt:    result.Timestamp,
		}
		if err := p.store.Save(ctx, record); err != nil {
			// History is auxiliary; a write failure must not fail the prediction.
			p.logger.WithError(err).Warn("Failed to record prediction history")
		}
	}

	p.logger.WithFields(logrus.Fields{
		"prediction_id":   result.PredictionID,
		"disease":         string(disease),
		"cached":          cached,
		"processing_time": result.ProcessingTime,
	}).Info("Prediction completed")

	return result, nil
}

// classify obtains the disease label, consulting the prediction cache when
// one is configured. Only the classifier output is cached; the bundle is
// always resolved fresh.
func (p *PredictionService) classify(ctx context.Context, symptoms []string, vector []float32) (domain.DiseaseLabel, bool, error) {
	var key string
	if p.cache != nil {
		key = cache.Key(symptoms)
		if label, ok := p.cache.Get(ctx, key); ok {
			return label, true, nil
		}
	}

	label, err := p.classifier.Predict(ctx, vector)
	if err != nil {
		return "", false, err
	}

	if p.cache != nil {
		p.cache.Set(ctx, key, label)
	}
	return label, false, nil
}
