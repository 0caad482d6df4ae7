// Package history provides prediction history storage. Each record captures
// one prediction run: the symptoms entered, the predicted disease, and a
// snapshot of the description shown to the user. The answer bundle itself is
// never cached here; reports re-resolve against the live reference tables.
package history

import (
	"context"
	"io"
	"time"
)

// PredictionRecord represents one stored prediction.
type PredictionRecord struct {
	ID           string    `json:"id"`
	Symptoms     []string  `json:"symptoms"`
	Unrecognized []string  `json:"unrecognized_symptoms,omitempty"`
	Disease      string    `json:"disease"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store defines the interface for prediction history storage.
type Store interface {
	// Save stores a prediction record. The record ID must be set by the
	// caller and is unique per prediction.
	Save(ctx context.Context, record *PredictionRecord) error

	// Get retrieves a record by its prediction ID.
	Get(ctx context.Context, id string) (*PredictionRecord, error)

	// List returns records newest-first with pagination.
	List(ctx context.Context, limit, offset int) ([]*PredictionRecord, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// Delete removes a record by its prediction ID.
	Delete(ctx context.Context, id string) error

	// ExportJSON exports all records to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports records from a JSON reader. Records whose ID already
	// exists are skipped. Returns the number of imported and skipped entries.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// HistoryExport represents the JSON export format.
type HistoryExport struct {
	Version    string              `json:"version"`
	ExportedAt time.Time           `json:"exported_at"`
	Count      int                 `json:"count"`
	Records    []*PredictionRecord `json:"records"`
}

// ErrNotFound is returned by Get and Delete when no record matches the ID.
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return "prediction record not found: " + e.ID
}
