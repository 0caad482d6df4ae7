package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/prescripto/health-recommender/internal/domain"
)

// Bundle holds all tables the service needs: the training table the symptom
// index is derived from, and the five reference tables keyed by disease name.
type Bundle struct {
	Training     *Table
	Descriptions *Table
	Precautions  *Table
	Medications  *Table
	Diets        *Table
	Workouts     *Table
}

// LoadCSV reads a CSV file into a Table. The first record is the header.
// Rows may be ragged; short rows read as empty cells.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table %s is empty", path)
	}

	return NewTable(records[0], records[1:]), nil
}

// Load reads the training table and all five reference tables configured in
// cfg. Any missing or malformed file is a fatal configuration error; there is
// no partial or degraded mode.
func Load(cfg domain.DataConfig, logger *logrus.Logger) (*Bundle, error) {
	load := func(name string) (*Table, error) {
		return LoadCSV(filepath.Join(cfg.Dir, name))
	}

	training, err := load(cfg.TrainingFile)
	if err != nil {
		return nil, fmt.Errorf("loading training table: %w", err)
	}
	descriptions, err := load(cfg.DescriptionFile)
	if err != nil {
		return nil, fmt.Errorf("loading description table: %w", err)
	}
	precautions, err := load(cfg.PrecautionsFile)
	if err != nil {
		return nil, fmt.Errorf("loading precautions table: %w", err)
	}
	medications, err := load(cfg.MedicationsFile)
	if err != nil {
		return nil, fmt.Errorf("loading medications table: %w", err)
	}
	diets, err := load(cfg.DietsFile)
	if err != nil {
		return nil, fmt.Errorf("loading diets table: %w", err)
	}
	workouts, err := load(cfg.WorkoutsFile)
	if err != nil {
		return nil, fmt.Errorf("loading workouts table: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"dir":          cfg.Dir,
		"symptoms":     len(training.Columns) - 1,
		"descriptions": descriptions.NumRows(),
		"precautions":  precautions.NumRows(),
		"medications":  medications.NumRows(),
		"diets":        diets.NumRows(),
		"workouts":     workouts.NumRows(),
	}).Info("Reference tables loaded")

	return &Bundle{
		Training:     training,
		Descriptions: descriptions,
		Precautions:  precautions,
		Medications:  medications,
		Diets:        diets,
		Workouts:     workouts,
	}, nil
}
