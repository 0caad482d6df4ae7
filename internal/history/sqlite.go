package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite history store. It creates the database
// file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		symptoms TEXT NOT NULL,
		unrecognized TEXT DEFAULT '[]',
		disease TEXT NOT NULL,
		description TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_disease ON predictions(disease);
	CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*PredictionRecord, error) {
	rec := &PredictionRecord{}
	var symptomsJSON, unrecognizedJSON string

	err := s.Scan(&rec.ID, &symptomsJSON, &unrecognizedJSON, &rec.Disease, &rec.Description, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(symptomsJSON), &rec.Symptoms); err != nil {
		return nil, fmt.Errorf("decoding symptoms column: %w", err)
	}
	if unrecognizedJSON != "" {
		if err := json.Unmarshal([]byte(unrecognizedJSON), &rec.Unrecognized); err != nil {
			return nil, fmt.Errorf("decoding unrecognized column: %w", err)
		}
	}
	return rec, nil
}

func encodeNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Save stores a prediction record.
func (s *SQLiteStore) Save(ctx context.Context, record *PredictionRecord) error {
	if record.ID == "" {
		return fmt.Errorf("record ID is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	symptomsJSON, err := encodeNames(record.Symptoms)
	if err != nil {
		return fmt.Errorf("encoding symptoms: %w", err)
	}
	unrecognizedJSON, err := encodeNames(record.Unrecognized)
	if err != nil {
		return fmt.Errorf("encoding unrecognized: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO predictions (id, symptoms, unrecognized, disease, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, symptomsJSON, unrecognizedJSON, record.Disease, record.Description, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Get retrieves a record by its prediction ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*PredictionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, symptoms, unrecognized, disease, description, created_at
		FROM predictions WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, &ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// List returns records newest-first with pagination.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*PredictionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symptoms, unrecognized, disease, description, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*PredictionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the total number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM predictions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// Delete removes a record by its prediction ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM predictions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &ErrNotFound{ID: id}
	}
	return nil
}

// ExportJSON exports all records to a JSON writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}

	records, err := s.List(ctx, int(count), 0)
	if err != nil {
		return err
	}

	export := HistoryExport{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Count:      len(records),
		Records:    records,
	}

	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

// ImportJSON imports records from a JSON reader, skipping existing IDs.
func (s *SQLiteStore) ImportJSON(ctx context.Context, reader io.Reader) (int, int, error) {
	var export HistoryExport
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode import: %w", err)
	}

	imported, skipped := 0, 0
	for _, rec := range export.Records {
		if _, err := s.Get(ctx, rec.ID); err == nil {
			skipped++
			continue
		}
		if err := s.Save(ctx, rec); err != nil {
			return imported, skipped, fmt.Errorf("failed to import record %s: %w", rec.ID, err)
		}
		imported++
	}
	return imported, skipped, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
