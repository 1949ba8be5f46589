package result

import (
	"fmt"
	"strings"
)

// Classification bands.
const (
	ClassExceptional = "Exceptional"
	ClassVeryGood    = "Very Good"
	ClassGood        = "Good"
	ClassRegular     = "Regular"
	ClassInadequate  = "Inadequate"
	ClassRejected    = "Rejected"
	ClassError       = "Error"
)

// PassingScore is the minimum score counted as approved.
const PassingScore = 70

// Classify maps a score to its band.
func Classify(score int) string {
	switch {
	case score >= 90:
		return ClassExceptional
	case score >= 80:
		return ClassVeryGood
	case score >= PassingScore:
		return ClassGood
	case score >= 60:
		return ClassRegular
	case score >= 50:
		return ClassInadequate
	default:
		return ClassRejected
	}
}

// Summary is a one-line digest of the classification with the first two
// strengths and weaknesses.
func Summary(score int, classification string, strengths, weaknesses []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Candidate rated %s (%d/100).", classification, score)
	if len(strengths) > 0 {
		fmt.Fprintf(&b, " Key qualifications: %s.", strings.Join(firstN(strengths, 2), ", "))
	}
	if len(weaknesses) > 0 {
		fmt.Fprintf(&b, " Main gaps: %s.", strings.Join(firstN(weaknesses, 2), ", "))
	}
	return b.String()
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
