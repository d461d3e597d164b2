package diagnosis

// Trend describes how a diagnosis compares to the next-older record of
// the same patient.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// HistoryEntry is a diagnosis annotated with its severity tier and, when a
// predecessor exists, the trend relative to it. The oldest record of a
// patient carries no trend.
type HistoryEntry struct {
	*Diagnosis
	Severity Severity `json:"severity"`
	Trend    Trend    `json:"trend,omitempty"`
}

// History is the per-patient aggregate over all diagnoses, newest first.
type History struct {
	Total                int            `json:"total"`
	LatestClassification string         `json:"latestClassification,omitempty"`
	LatestSeverity       *Severity      `json:"latestSeverity,omitempty"`
	Entries              []HistoryEntry `json:"entries"`
}

// BuildHistory computes trend indicators over a patient's diagnoses. The
// input must be ordered newest first; each entry is compared against its
// immediate predecessor in time, i.e. the next element of the slice.
// Pure computation, no side effects.
func BuildHistory(diagnoses []*Diagnosis) *History {
	h := &History{
		Total:   len(diagnoses),
		Entries: make([]HistoryEntry, 0, len(diagnoses)),
	}
	if len(diagnoses) == 0 {
		return h
	}

	latest := SeverityTier(diagnoses[0].FinalClassification)
	h.LatestClassification = diagnoses[0].FinalClassification
	h.LatestSeverity = &latest

	for i, d := range diagnoses {
		entry := HistoryEntry{
			Diagnosis: d,
			Severity:  SeverityTier(d.FinalClassification),
		}
		if i+1 < len(diagnoses) {
			previous := SeverityTier(diagnoses[i+1].FinalClassification)
			entry.Trend = compareTrend(entry.Severity, previous)
		}
		h.Entries = append(h.Entries, entry)
	}

	return h
}

func compareTrend(current, previous Severity) Trend {
	switch {
	case current.Rank > previous.Rank:
		return TrendWorsening
	case current.Rank < previous.Rank:
		return TrendImproving
	default:
		return TrendStable
	}
}
