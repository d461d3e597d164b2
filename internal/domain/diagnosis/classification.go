package diagnosis

import (
	"errors"
	"fmt"
)

// The Enzian/Keckstein classification scores four anatomical axes. The
// first three carry a 1-3 compartment grade; the deep-endometriosis axis
// is a bare letter.
var (
	validPeritoneum = map[string]bool{"P1": true, "P2": true, "P3": true}
	validOvary      = map[string]bool{"O1": true, "O2": true, "O3": true}
	validTube       = map[string]bool{"T1": true, "T2": true, "T3": true}
	validDeep       = map[string]bool{"A": true, "B": true, "C": true}

	validSizes = map[string]bool{"<3cm": true, "3-7cm": true, ">7cm": true}
)

// severeMarkers are the axis codes that count toward the severity tier.
var severeMarkers = map[string]bool{"P3": true, "O3": true, "T3": true, "C": true}

// ErrIncompleteClassification is returned when any of the four axis codes
// is missing. A partial classification string is never produced.
var ErrIncompleteClassification = errors.New("all four axis codes are required")

// FinalClassification concatenates the four axis codes in the fixed order
// peritoneum, ovary, tube, deep-endometriosis (e.g. "P2O1T1B").
func FinalClassification(peritoneum, ovary, tube, deep string) (string, error) {
	if peritoneum == "" || ovary == "" || tube == "" || deep == "" {
		return "", ErrIncompleteClassification
	}
	return peritoneum + ovary + tube + deep, nil
}

// ValidateAxes checks each axis code against its enumeration.
func ValidateAxes(peritoneum, ovary, tube, deep string) error {
	if !validPeritoneum[peritoneum] {
		return fmt.Errorf("invalid peritoneum code %q", peritoneum)
	}
	if !validOvary[ovary] {
		return fmt.Errorf("invalid ovary code %q", ovary)
	}
	if !validTube[tube] {
		return fmt.Errorf("invalid tube code %q", tube)
	}
	if !validDeep[deep] {
		return fmt.Errorf("invalid deep-endometriosis code %q", deep)
	}
	return nil
}

// ValidSizeBucket reports whether s is an allowed lesion size bucket.
// The empty string is allowed: size is optional per axis.
func ValidSizeBucket(s string) bool {
	return s == "" || validSizes[s]
}

// Severity is the tier derived from a classification code. Rank is a total
// order (Leve < Moderado < Moderado-Grave < Grave) used for trend
// comparison between consecutive diagnoses.
type Severity struct {
	Label string `json:"label"`
	Rank  int    `json:"rank"`
}

var (
	severityMild           = Severity{Label: "Leve", Rank: 0}
	severityModerate       = Severity{Label: "Moderado", Rank: 1}
	severityModerateSevere = Severity{Label: "Moderado-Grave", Rank: 2}
	severitySevere         = Severity{Label: "Grave", Rank: 3}
)

// SeverityTier derives the severity tier of a classification code by
// splitting it into its axis tokens and counting members of the severe
// set {P3, O3, T3, C}.
func SeverityTier(code string) Severity {
	severe := 0
	for _, token := range tokenize(code) {
		if severeMarkers[token] {
			severe++
		}
	}

	switch {
	case severe >= 3:
		return severitySevere
	case severe == 2:
		return severityModerateSevere
	case severe == 1:
		return severityModerate
	default:
		return severityMild
	}
}

// tokenize splits a classification code into axis tokens: two characters
// for the graded compartments (letter followed by a digit), one character
// for the trailing deep-endometriosis letter.
func tokenize(code string) []string {
	var tokens []string
	for i := 0; i < len(code); {
		if i+1 < len(code) && code[i+1] >= '0' && code[i+1] <= '9' {
			tokens = append(tokens, code[i:i+2])
			i += 2
			continue
		}
		tokens = append(tokens, code[i:i+1])
		i++
	}
	return tokens
}
