package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Select_ExactMatch(t *testing.T) {
	table := NewTable(
		[]string{"Disease", "Description"},
		[][]string{
			{"Fungal infection", "A fungal infection is common."},
			{"Allergy", "An allergy is an immune response."},
			{"Fungal infection", "Second row."},
		},
	)

	assert.Equal(t, []int{0, 2}, table.Select("Disease", "Fungal infection"))
	assert.Empty(t, table.Select("Disease", "fungal infection"), "join must be case-sensitive")
	assert.Empty(t, table.Select("Disease", "Unknown"))
	assert.Empty(t, table.Select("NoSuchColumn", "Fungal infection"))
}

func TestTable_Cell_RaggedRows(t *testing.T) {
	table := NewTable(
		[]string{"Disease", "Precaution_1", "Precaution_2"},
		[][]string{
			{"Allergy", "avoid dust"},
		},
	)

	assert.Equal(t, "avoid dust", table.Get(0, "Precaution_1"))
	assert.Equal(t, "", table.Get(0, "Precaution_2"), "missing cell reads as empty")
	assert.Equal(t, "", table.Get(5, "Disease"), "out-of-range row reads as empty")
	assert.Equal(t, "", table.Get(0, "missing"))
}

func TestTable_ColumnIndex(t *testing.T) {
	table := NewTable([]string{"disease", "workout"}, nil)

	assert.Equal(t, 0, table.ColumnIndex("disease"))
	assert.Equal(t, 1, table.ColumnIndex("workout"))
	assert.Equal(t, -1, table.ColumnIndex("Disease"), "column names are case-sensitive")
}
