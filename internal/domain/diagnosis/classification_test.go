package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalClassificationConcatenatesInOrder(t *testing.T) {
	code, err := FinalClassification("P2", "O1", "T1", "B")
	require.NoError(t, err)
	assert.Equal(t, "P2O1T1B", code)
	assert.Len(t, code, 7)
}

func TestFinalClassificationIncomplete(t *testing.T) {
	cases := []struct {
		name             string
		p, o, tube, deep string
	}{
		{"missing peritoneum", "", "O1", "T1", "A"},
		{"missing ovary", "P1", "", "T1", "A"},
		{"missing tube", "P1", "O1", "", "A"},
		{"missing deep", "P1", "O1", "T1", ""},
		{"all missing", "", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, err := FinalClassification(tc.p, tc.o, tc.tube, tc.deep)
			assert.ErrorIs(t, err, ErrIncompleteClassification)
			assert.Empty(t, code, "partial code must never be produced")
		})
	}
}

func TestValidateAxes(t *testing.T) {
	assert.NoError(t, ValidateAxes("P1", "O2", "T3", "C"))
	assert.Error(t, ValidateAxes("P4", "O1", "T1", "A"))
	assert.Error(t, ValidateAxes("P1", "O0", "T1", "A"))
	assert.Error(t, ValidateAxes("P1", "O1", "T9", "A"))
	assert.Error(t, ValidateAxes("P1", "O1", "T1", "D"))
	assert.Error(t, ValidateAxes("p1", "O1", "T1", "A"), "codes are case sensitive")
}

func TestValidSizeBucket(t *testing.T) {
	assert.True(t, ValidSizeBucket("<3cm"))
	assert.True(t, ValidSizeBucket("3-7cm"))
	assert.True(t, ValidSizeBucket(">7cm"))
	assert.True(t, ValidSizeBucket(""), "size is optional")
	assert.False(t, ValidSizeBucket("8cm"))
	assert.False(t, ValidSizeBucket("large"))
}

func TestSeverityTier(t *testing.T) {
	cases := []struct {
		code  string
		label string
		rank  int
	}{
		{"P3O3T3C", "Grave", 3},
		{"P3O3T3A", "Moderado-Grave", 2},
		{"P3O3T1A", "Moderado-Grave", 2},
		{"P3O1T1A", "Moderado", 1},
		{"P1O1T1C", "Moderado", 1},
		{"P1O2T2A", "Leve", 0},
		{"P2O1T1B", "Leve", 0},
		{"P1O1T1A", "Leve", 0},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			got := SeverityTier(tc.code)
			assert.Equal(t, tc.label, got.Label)
			assert.Equal(t, tc.rank, got.Rank)
		})
	}
}

func TestSeverityTierTokenization(t *testing.T) {
	// The severe letter C must only count as the standalone deep code,
	// never as part of a graded token.
	got := SeverityTier("P1O1T1C")
	assert.Equal(t, "Moderado", got.Label)

	assert.Equal(t, []string{"P3", "O3", "T3", "C"}, tokenize("P3O3T3C"))
	assert.Equal(t, []string{"P2", "O1", "T1", "B"}, tokenize("P2O1T1B"))
}

func TestFinalClassificationRoundTrip(t *testing.T) {
	// Axis codes survive the concat and come back out of tokenize.
	code, err := FinalClassification("P1", "O3", "T2", "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "O3", "T2", "C"}, tokenize(code))
}
