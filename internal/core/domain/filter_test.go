package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter_Empty(t *testing.T) {
	filter, err := ParseFilter("")
	require.NoError(t, err)
	assert.Nil(t, filter)

	filter, err = ParseFilter("   ")
	require.NoError(t, err)
	assert.Nil(t, filter)
}

func TestParseFilter_SingleCondition(t *testing.T) {
	filter, err := ParseFilter("document_type eq pdf")
	require.NoError(t, err)
	require.Len(t, filter.Conditions, 1)

	cond := filter.Conditions[0]
	assert.Equal(t, "document_type", cond.Field)
	assert.Equal(t, OpEq, cond.Op)
	assert.Equal(t, "pdf", cond.Value)
}

func TestParseFilter_QuotedValue(t *testing.T) {
	filter, err := ParseFilter("source eq 'meeting notes.txt'")
	require.NoError(t, err)
	require.Len(t, filter.Conditions, 1)
	assert.Equal(t, "meeting notes.txt", filter.Conditions[0].Value)
}

func TestParseFilter_MultipleConditions(t *testing.T) {
	filter, err := ParseFilter("document_type eq md and modified ge 2024-01-01")
	require.NoError(t, err)
	require.Len(t, filter.Conditions, 2)

	assert.Equal(t, "document_type", filter.Conditions[0].Field)
	assert.Equal(t, "modified", filter.Conditions[1].Field)
	assert.Equal(t, OpGe, filter.Conditions[1].Op)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), filter.Conditions[1].Time)
}

func TestParseFilter_RFC3339Timestamp(t *testing.T) {
	filter, err := ParseFilter("created le 2024-06-15T10:30:00Z")
	require.NoError(t, err)
	require.Len(t, filter.Conditions, 1)
	assert.Equal(t, time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC), filter.Conditions[0].Time)
}

func TestParseFilter_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"unknown field", "colour eq red"},
		{"unknown operator", "source gt notes.txt"},
		{"range op on text field", "source ge notes.txt"},
		{"incomplete condition", "document_type eq"},
		{"missing and", "document_type eq pdf source eq a.txt"},
		{"bad timestamp", "modified ge yesterday"},
		{"unterminated quote", "source eq 'notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
