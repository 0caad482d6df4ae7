package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prescripto/health-recommender/internal/dataset"
)

func testIndex(t *testing.T) *SymptomIndex {
	t.Helper()
	training := dataset.NewTable(
		[]string{"itching", "skin_rash", "nodal_skin_eruptions", "disease"},
		nil,
	)
	index, err := NewSymptomIndex(training)
	require.NoError(t, err)
	return index
}

func TestNewSymptomIndex(t *testing.T) {
	index := testIndex(t)

	assert.Equal(t, 3, index.Size())
	assert.Equal(t, []string{"itching", "skin_rash", "nodal_skin_eruptions"}, index.Symptoms())
	assert.True(t, index.Contains("itching"))
	assert.False(t, index.Contains("disease"), "label column is not part of the vocabulary")
}

func TestNewSymptomIndex_TooFewColumns(t *testing.T) {
	_, err := NewSymptomIndex(dataset.NewTable([]string{"disease"}, nil))
	assert.Error(t, err)

	_, err = NewSymptomIndex(dataset.NewTable(nil, nil))
	assert.Error(t, err)
}

func TestNewSymptomIndex_DuplicateColumn(t *testing.T) {
	_, err := NewSymptomIndex(dataset.NewTable([]string{"itching", "itching", "disease"}, nil))
	assert.Error(t, err)
}

func TestEncode_SingleSymptom(t *testing.T) {
	index := testIndex(t)

	vector, unrecognized := index.Encode([]string{"skin_rash"})

	assert.Equal(t, []float32{0.0, 1.0, 0.0}, vector)
	assert.Empty(t, unrecognized)
}

func TestEncode_EmptySetIsAllZero(t *testing.T) {
	index := testIndex(t)

	vector, unrecognized := index.Encode(nil)

	assert.Equal(t, []float32{0.0, 0.0, 0.0}, vector)
	assert.Empty(t, unrecognized)
}

func TestEncode_UnknownNamesIgnored(t *testing.T) {
	index := testIndex(t)

	withUnknown, unrecognized := index.Encode([]string{"itching", "sneezing", "headache"})
	knownOnly, _ := index.Encode([]string{"itching"})

	assert.Equal(t, knownOnly, withUnknown, "unknown names must contribute no signal")
	assert.Equal(t, []string{"sneezing", "headache"}, unrecognized)
}

func TestEncode_DuplicatesHaveNoEffect(t *testing.T) {
	index := testIndex(t)

	single, _ := index.Encode([]string{"itching"})
	duplicated, unrecognized := index.Encode([]string{"itching", "itching", "itching"})

	assert.Equal(t, single, duplicated)
	assert.Empty(t, unrecognized)
}

func TestEncode_LengthIsConstant(t *testing.T) {
	index := testIndex(t)

	inputs := [][]string{
		nil,
		{"itching"},
		{"itching", "skin_rash", "nodal_skin_eruptions"},
		{"completely", "unknown", "names"},
	}
	for _, input := range inputs {
		vector, _ := index.Encode(input)
		assert.Len(t, vector, index.Size())
		for _, v := range vector {
			assert.Contains(t, []float32{0.0, 1.0}, v)
		}
	}
}

func TestEncode_CaseSensitive(t *testing.T) {
	index := testIndex(t)

	vector, unrecognized := index.Encode([]string{"Itching"})

	assert.Equal(t, []float32{0.0, 0.0, 0.0}, vector)
	assert.Equal(t, []string{"Itching"}, unrecognized)
}
