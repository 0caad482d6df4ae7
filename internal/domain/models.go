package domain

import (
	"time"
)

// DiseaseLabel is the opaque identifier produced by the classifier and used
// as the join key into the reference tables. Comparison is exact: no case
// folding, no trimming.
type DiseaseLabel string

// String returns the label as a plain string.
func (d DiseaseLabel) String() string {
	return string(d)
}

// Request/Response Models

// PredictRequest represents an incoming symptom-based prediction request.
type PredictRequest struct {
	Symptoms []string `json:"symptoms" binding:"required"`
}

// AnswerBundle is the assembled result of joining a disease label against all
// five reference tables. It is constructed fresh per lookup and never cached.
type AnswerBundle struct {
	Disease     DiseaseLabel `json:"disease"`
	Description string       `json:"description"`
	Precautions []string     `json:"precautions"`
	Medications []string     `json:"medications"`
	Diets       []string     `json:"diets"`
	Workouts    []string     `json:"workouts"`
}

// PredictionResult represents the response from a full prediction run:
// encode, classify, resolve.
type PredictionResult struct {
	PredictionID   string        `json:"prediction_id"`
	Bundle         AnswerBundle  `json:"result"`
	Unrecognized   []string      `json:"unrecognized_symptoms,omitempty"`
	SymptomCount   int           `json:"symptom_count"`
	ProcessingTime time.Duration `json:"processing_time"`
	Timestamp      time.Time     `json:"timestamp"`
}
