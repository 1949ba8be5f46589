package document

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/cv-evaluator/internal/heuristic"
	"github.com/spigell/cv-evaluator/internal/profile"
)

const (
	maxEmails   = 3
	maxPhones   = 2
	maxKeywords = 10
	nameLines   = 5
)

var (
	metadataPhone = regexp.MustCompile(`\(?\d{2}\)?[\s-]?\d{4,5}[\s-]?\d{4}|\+?\d{2}[\s-]?\(?\d{2}\)?[\s-]?\d{4,5}[\s-]?\d{4}`)
	nameRejects   = regexp.MustCompile(`@|tel|cel|phone|email`)

	keywordVocabulary = []string{
		"python", "javascript", "java", "c++", "c#", "php", "ruby", "go", "rust",
		"html", "css", "react", "angular", "vue", "node", "express", "django",
		"flask", "spring", "laravel", "sql", "mysql", "postgresql", "mongodb",
		"docker", "kubernetes", "aws", "azure", "gcp", "git", "github", "gitlab",
		"linux", "windows", "mac", "android", "ios", "flutter", "react native",
		"machine learning", "ai", "data science", "excel", "power bi", "tableau",
	}
)

// Metadata is a shallow summary of an extracted text.
type Metadata struct {
	TextLength    int      `json:"text_length"`
	Lines         int      `json:"lines"`
	Words         int      `json:"words"`
	Emails        []string `json:"emails"`
	Phones        []string `json:"phones"`
	CandidateName string   `json:"candidate_name"`
	Keywords      []string `json:"keywords"`
	Kind          Kind     `json:"kind"`
	Filename      string   `json:"filename"`
}

// ComputeMetadata summarises text without any network access.
func ComputeMetadata(text string, kind Kind, filename string) Metadata {
	emails := heuristic.Emails(text, maxEmails)
	if emails == nil {
		emails = []string{}
	}
	phones := metadataPhone.FindAllString(text, maxPhones)
	if phones == nil {
		phones = []string{}
	}

	return Metadata{
		TextLength:    utf8.RuneCountInString(text),
		Lines:         len(strings.Split(text, "\n")),
		Words:         len(strings.Fields(text)),
		Emails:        emails,
		Phones:        phones,
		CandidateName: guessName(text),
		Keywords:      Keywords(text),
		Kind:          kind,
		Filename:      filename,
	}
}

// Keywords returns up to ten title-cased technology keywords in vocabulary order.
func Keywords(text string) []string {
	lower := strings.ToLower(text)
	caser := cases.Title(language.Und)
	found := make([]string, 0, maxKeywords)
	for _, kw := range keywordVocabulary {
		if !strings.Contains(lower, kw) {
			continue
		}
		found = append(found, caser.String(kw))
		if len(found) == maxKeywords {
			break
		}
	}
	return found
}

// guessName picks the first of the leading lines that has no contact hints
// and no digit in its first ten characters.
func guessName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > nameLines {
		lines = lines[:nameLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= 5 || nameRejects.MatchString(strings.ToLower(line)) {
			continue
		}
		if strings.IndexFunc(prefix(line, 10), unicode.IsDigit) >= 0 {
			continue
		}
		return line
	}
	return profile.NotIdentified
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
