package service

import (
	"fmt"

	"github.com/prescripto/health-recommender/internal/dataset"
)

// SymptomIndex is an immutable mapping from symptom name to its offset in the
// indicator vector. Names are case- and spelling-sensitive and must match the
// training-time vocabulary exactly. Built once at startup; offsets are a
// contiguous permutation of [0, N).
type SymptomIndex struct {
	offsets map[string]int
	names   []string
}

// NewSymptomIndex derives the index from the ordered column list of the
// training table. All columns except the trailing label column are feature
// columns. Fails when the table has fewer than two columns or carries a
// duplicate feature name.
func NewSymptomIndex(training *dataset.Table) (*SymptomIndex, error) {
	if training == nil {
		return nil, fmt.Errorf("training table is required")
	}
	if len(training.Columns) < 2 {
		return nil, fmt.Errorf("training table needs at least one feature column and a label column, got %d columns", len(training.Columns))
	}

	features := training.Columns[:len(training.Columns)-1]
	offsets := make(map[string]int, len(features))
	names := make([]string, len(features))
	for i, name := range features {
		if _, dup := offsets[name]; dup {
			return nil, fmt.Errorf("duplicate symptom column %q in training table", name)
		}
		offsets[name] = i
		names[i] = name
	}

	return &SymptomIndex{offsets: offsets, names: names}, nil
}

// Size returns the vocabulary size N.
func (s *SymptomIndex) Size() int {
	return len(s.names)
}

// Symptoms returns the vocabulary in index order. The returned slice is a
// copy; the index itself is never mutated.
func (s *SymptomIndex) Symptoms() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Contains reports whether a symptom name is part of the vocabulary.
func (s *SymptomIndex) Contains(name string) bool {
	_, ok := s.offsets[name]
	return ok
}

// Encode maps a set of symptom names to a fixed-length indicator vector of
// length Size(), with 1.0 at offsets of known names and 0.0 elsewhere.
// Unknown names contribute no signal and are returned in unrecognized (first
// occurrence order) so a caller can warn the user; they never cause an error.
// Duplicates have no additional effect. An empty or fully-unknown input
// yields the all-zero vector, which is still valid classifier input.
func (s *SymptomIndex) Encode(symptoms []string) (vector []float32, unrecognized []string) {
	vector = make([]float32, len(s.names))
	seen := make(map[string]bool, len(symptoms))
	for _, name := range symptoms {
		if seen[name] {
			continue
		}
		seen[name] = true
		if off, ok := s.offsets[name]; ok {
			vector[off] = 1.0
		} else {
			unrecognized = append(unrecognized, name)
		}
	}
	return vector, unrecognized
}
