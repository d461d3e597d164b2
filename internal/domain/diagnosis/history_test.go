package diagnosis

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diag(code string, createdAt time.Time) *Diagnosis {
	return &Diagnosis{
		ID:                  uuid.New(),
		FinalClassification: code,
		CreatedAt:           createdAt,
	}
}

func TestBuildHistoryEmpty(t *testing.T) {
	h := BuildHistory(nil)
	require.NotNil(t, h)
	assert.Equal(t, 0, h.Total)
	assert.Empty(t, h.LatestClassification)
	assert.Nil(t, h.LatestSeverity)
	assert.NotNil(t, h.Entries, "entries must serialize as [], not null")
	assert.Empty(t, h.Entries)
}

func TestBuildHistoryWorsening(t *testing.T) {
	now := time.Now()
	// Newest first: patient went from P1O1T1A (Leve) to P3O3T3C (Grave).
	h := BuildHistory([]*Diagnosis{
		diag("P3O3T3C", now),
		diag("P1O1T1A", now.Add(-24*time.Hour)),
	})

	require.Equal(t, 2, h.Total)
	assert.Equal(t, "P3O3T3C", h.LatestClassification)
	require.NotNil(t, h.LatestSeverity)
	assert.Equal(t, "Grave", h.LatestSeverity.Label)

	require.Len(t, h.Entries, 2)
	assert.Equal(t, TrendWorsening, h.Entries[0].Trend)
	assert.Empty(t, h.Entries[1].Trend, "oldest record carries no trend")
}

func TestBuildHistoryImproving(t *testing.T) {
	now := time.Now()
	h := BuildHistory([]*Diagnosis{
		diag("P1O1T1A", now),
		diag("P3O3T3C", now.Add(-24*time.Hour)),
	})

	require.Len(t, h.Entries, 2)
	assert.Equal(t, TrendImproving, h.Entries[0].Trend)
	assert.Equal(t, "Leve", h.LatestSeverity.Label)
}

func TestBuildHistoryStable(t *testing.T) {
	now := time.Now()
	// Different codes, same rank: still stable.
	h := BuildHistory([]*Diagnosis{
		diag("P3O1T1A", now),
		diag("P1O1T1C", now.Add(-24*time.Hour)),
	})

	require.Len(t, h.Entries, 2)
	assert.Equal(t, TrendStable, h.Entries[0].Trend)
}

func TestBuildHistoryPairwiseChain(t *testing.T) {
	now := time.Now()
	// Grave -> Leve -> Moderado-Grave reading newest to oldest.
	h := BuildHistory([]*Diagnosis{
		diag("P3O3T3C", now),
		diag("P1O1T1A", now.Add(-48*time.Hour)),
		diag("P3O3T1A", now.Add(-96*time.Hour)),
	})

	require.Len(t, h.Entries, 3)
	assert.Equal(t, TrendWorsening, h.Entries[0].Trend)
	assert.Equal(t, TrendImproving, h.Entries[1].Trend)
	assert.Empty(t, h.Entries[2].Trend)
	assert.Equal(t, "P3O3T3C", h.LatestClassification)
}

func TestBuildHistorySingleEntry(t *testing.T) {
	h := BuildHistory([]*Diagnosis{diag("P2O1T1B", time.Now())})

	require.Len(t, h.Entries, 1)
	assert.Empty(t, h.Entries[0].Trend)
	assert.Equal(t, "Leve", h.Entries[0].Severity.Label)
	assert.Equal(t, "P2O1T1B", h.LatestClassification)
}
