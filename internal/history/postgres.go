package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL history store. It expects the
// schema to already exist (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL history store from a
// connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Save stores a prediction record.
func (s *PostgresStore) Save(ctx context.Context, record *PredictionRecord) error {
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
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, symptomsJSON, unrecognizedJSON, record.Disease, record.Description, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Get retrieves a record by its prediction ID.
func (s *PostgresStore) Get(ctx context.Context, id string) (*PredictionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, symptoms, unrecognized, disease, description, created_at
		FROM predictions WHERE id = $1
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
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*PredictionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symptoms, unrecognized, disease, description, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
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
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM predictions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// Delete removes a record by its prediction ID.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM predictions WHERE id = $1", id)
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
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
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
func (s *PostgresStore) ImportJSON(ctx context.Context, reader io.Reader) (int, int, error) {
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
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
