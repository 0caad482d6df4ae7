package service

import (
	"strings"

	"github.com/prescripto/health-recommender/internal/dataset"
	"github.com/prescripto/health-recommender/internal/domain"
)

// Reference table column names. The workout table follows a different,
// lower-cased naming convention than the other four.
const (
	colDisease     = "Disease"
	colDescription = "Description"
	colMedication  = "Medication"
	colDiet        = "Diet"

	colWorkoutDisease = "disease"
	colWorkout        = "workout"
)

var precautionColumns = []string{"Precaution_1", "Precaution_2", "Precaution_3", "Precaution_4"}

// Recommender joins a disease label against the five reference tables and
// assembles an answer bundle. Every call re-scans the in-memory tables; the
// tables are small and static for the process lifetime, so no caching layer
// sits in front of it.
type Recommender struct {
	tables *dataset.Bundle
}

// NewRecommender creates a recommender over loaded reference tables.
func NewRecommender(tables *dataset.Bundle) *Recommender {
	return &Recommender{tables: tables}
}

// Resolve assembles the answer bundle for a disease label. The join is exact
// case-sensitive string equality against the table key column. A label with
// zero matches in any table yields empty fields, never an error: the label
// vocabulary and the reference tables are maintained independently and are
// not assumed to be in lockstep.
func (r *Recommender) Resolve(disease domain.DiseaseLabel) domain.AnswerBundle {
	key := string(disease)

	return domain.AnswerBundle{
		Disease:     disease,
		Description: r.description(key),
		Precautions: r.precautions(key),
		Medications: r.column(r.tables.Medications, colDisease, colMedication, key),
		Diets:       r.column(r.tables.Diets, colDisease, colDiet, key),
		Workouts:    r.column(r.tables.Workouts, colWorkoutDisease, colWorkout, key),
	}
}

// description joins matched rows' description text with a single space, in
// table row order. Zero matches yield the empty string.
func (r *Recommender) description(key string) string {
	t := r.tables.Descriptions
	var parts []string
	for _, row := range t.Select(colDisease, key) {
		parts = append(parts, t.Get(row, colDescription))
	}
	return strings.Join(parts, " ")
}

// precautions takes the first matched row's four precaution fields in fixed
// order. Later matching rows are intentionally dropped. Empty fields are
// excluded but the order of present fields is preserved.
func (r *Recommender) precautions(key string) []string {
	t := r.tables.Precautions
	rows := t.Select(colDisease, key)
	if len(rows) == 0 {
		return nil
	}
	var out []string
	for _, col := range precautionColumns {
		if v := t.Get(rows[0], col); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// column collects the designated value column from every matched row in table
// order. No deduplication, no sorting.
func (r *Recommender) column(t *dataset.Table, keyCol, valCol, key string) []string {
	var out []string
	for _, row := range t.Select(keyCol, key) {
		out = append(out, t.Get(row, valCol))
	}
	return out
}
