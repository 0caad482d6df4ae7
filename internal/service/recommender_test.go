package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prescripto/health-recommender/internal/dataset"
	"github.com/prescripto/health-recommender/internal/domain"
)

func testBundle() *dataset.Bundle {
	return &dataset.Bundle{
		Training: dataset.NewTable([]string{"itching", "skin_rash", "disease"}, nil),
		Descriptions: dataset.NewTable(
			[]string{"Disease", "Description"},
			[][]string{
				{"Fungal infection", "A fungal infection is common."},
				{"Allergy", "An allergy is an immune response."},
			},
		),
		Precautions: dataset.NewTable(
			[]string{"Disease", "Precaution_1", "Precaution_2", "Precaution_3", "Precaution_4"},
			[][]string{
				{"Fungal infection", "bath twice", "", "keep area dry", "use clean cloths"},
				{"Fungal infection", "later row", "is", "silently", "dropped"},
			},
		),
		Medications: dataset.NewTable(
			[]string{"Disease", "Medication"},
			[][]string{
				{"Fungal infection", "A"},
				{"Allergy", "Antihistamines"},
				{"Fungal infection", "B"},
				{"Fungal infection", "C"},
			},
		),
		Diets: dataset.NewTable(
			[]string{"Disease", "Diet"},
			[][]string{
				{"Fungal infection", "Probiotics"},
				{"Fungal infection", "Garlic"},
			},
		),
		Workouts: dataset.NewTable(
			[]string{"disease", "workout"},
			[][]string{
				{"Fungal infection", "Avoid sugary foods"},
				{"Fungal infection", "Stay hydrated"},
			},
		),
	}
}

func TestResolve_JoinsAllTables(t *testing.T) {
	r := NewRecommender(testBundle())

	bundle := r.Resolve("Fungal infection")

	assert.Equal(t, domain.DiseaseLabel("Fungal infection"), bundle.Disease)
	assert.Equal(t, "A fungal infection is common.", bundle.Description)
	assert.Equal(t, []string{"A", "B", "C"}, bundle.Medications, "row order preserved, no dedup, no sort")
	assert.Equal(t, []string{"Probiotics", "Garlic"}, bundle.Diets)
	assert.Equal(t, []string{"Avoid sugary foods", "Stay hydrated"}, bundle.Workouts)
}

func TestResolve_PrecautionsFirstRowOnly(t *testing.T) {
	r := NewRecommender(testBundle())

	bundle := r.Resolve("Fungal infection")

	// First matched row only, empty fields filtered, order of present
	// fields preserved.
	assert.Equal(t, []string{"bath twice", "keep area dry", "use clean cloths"}, bundle.Precautions)
}

func TestResolve_UnknownLabelYieldsEmptyBundle(t *testing.T) {
	r := NewRecommender(testBundle())

	bundle := r.Resolve("No such disease")

	assert.Equal(t, domain.DiseaseLabel("No such disease"), bundle.Disease)
	assert.Equal(t, "", bundle.Description)
	assert.Empty(t, bundle.Precautions)
	assert.Empty(t, bundle.Medications)
	assert.Empty(t, bundle.Diets)
	assert.Empty(t, bundle.Workouts)
}

func TestResolve_CaseSensitiveJoin(t *testing.T) {
	r := NewRecommender(testBundle())

	bundle := r.Resolve("fungal infection")

	assert.Equal(t, "", bundle.Description, "lowercase label must not match")
	assert.Empty(t, bundle.Medications)
}

func TestResolve_MultiRowDescriptionJoinedBySpace(t *testing.T) {
	tables := testBundle()
	tables.Descriptions = dataset.NewTable(
		[]string{"Disease", "Description"},
		[][]string{
			{"Allergy", "First sentence."},
			{"Allergy", "Second sentence."},
		},
	)
	r := NewRecommender(tables)

	bundle := r.Resolve("Allergy")

	assert.Equal(t, "First sentence. Second sentence.", bundle.Description)
}

func TestResolve_Idempotent(t *testing.T) {
	r := NewRecommender(testBundle())

	first := r.Resolve("Fungal infection")
	second := r.Resolve("Fungal infection")

	assert.Equal(t, first, second)
}
