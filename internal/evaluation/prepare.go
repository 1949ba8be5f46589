package evaluation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	preparedLimit   = 5000
	preparedKeep    = 4500
	truncatedMarker = "\n\n[TEXT TRUNCATED]"

	minQualityLength = 50
	minSignificant   = 10
	minAlnumRatio    = 0.5
)

var (
	whitespace   = regexp.MustCompile(`\s+`)
	specialChars = regexp.MustCompile(`[^\p{L}\p{N}_\s@.\-(),;:!?]`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\(?\d{2}\)?[\s-]?\d{4,5}[\s-]?\d{4}`)

	sectionMarkers = []struct {
		pattern *regexp.Regexp
		marker  string
	}{
		{regexp.MustCompile(`(?i)\b(?:EXPERIÊNCIA|EXPERIENCE|HISTÓRICO|CARREIRA)\b`), "\n\nPROFESSIONAL EXPERIENCE:\n"},
		{regexp.MustCompile(`(?i)\b(?:FORMAÇÃO|EDUCAÇÃO|EDUCATION|ACADEMIC)\b`), "\n\nEDUCATION:\n"},
		{regexp.MustCompile(`(?i)\b(?:HABILIDADES|SKILLS|COMPETÊNCIAS)\b`), "\n\nSKILLS:\n"},
		{regexp.MustCompile(`(?i)\b(?:CERTIFICAÇÕES|CERTIFICATES|CURSOS)\b`), "\n\nCERTIFICATIONS:\n"},
	}
)

// PrepareText cleans résumé text before evaluation: whitespace is collapsed,
// unusual symbols are dropped, common section headings and the first email
// and phone are marked, and long texts are cut to 4500 characters.
func PrepareText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	cleaned := whitespace.ReplaceAllString(text, " ")
	cleaned = specialChars.ReplaceAllString(cleaned, "")

	for _, s := range sectionMarkers {
		cleaned = s.pattern.ReplaceAllLiteralString(cleaned, s.marker)
	}

	cleaned = markFirst(cleaned, emailPattern, "\n\nCONTACT - EMAIL: ")
	cleaned = markFirst(cleaned, phonePattern, "\n\nCONTACT - PHONE: ")

	if utf8.RuneCountInString(cleaned) > preparedLimit {
		cleaned = string([]rune(cleaned)[:preparedKeep]) + truncatedMarker
	}

	return strings.TrimSpace(cleaned)
}

func markFirst(text string, pattern *regexp.Regexp, label string) string {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + label + text[loc[0]:loc[1]] + "\n" + text[loc[1]:]
}

// QualityReport describes whether extracted text is usable for evaluation.
type QualityReport struct {
	Valid            bool   `json:"valid"`
	Reason           string `json:"reason,omitempty"`
	Score            int    `json:"score"`
	SignificantWords int    `json:"significant_words"`
	Length           int    `json:"length"`
}

// CheckQuality requires at least 50 characters, 10 words longer than three
// characters and a majority of alphanumeric characters.
func CheckQuality(text string) QualityReport {
	length := utf8.RuneCountInString(text)
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minQualityLength {
		return QualityReport{Reason: fmt.Sprintf("text is too short or empty (minimum %d characters)", minQualityLength), Length: length}
	}

	significant := 0
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) > 3 {
			significant++
		}
	}
	if significant < minSignificant {
		return QualityReport{Reason: "not enough significant words in the extracted text", SignificantWords: significant, Length: length}
	}

	alnum := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	if float64(alnum)/float64(length) < minAlnumRatio {
		return QualityReport{Reason: "too many non-alphanumeric characters, extraction probably failed", SignificantWords: significant, Length: length}
	}

	return QualityReport{
		Valid:            true,
		Score:            min(100, significant*100/50),
		SignificantWords: significant,
		Length:           length,
	}
}
