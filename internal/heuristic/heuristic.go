// Package heuristic extracts a best-effort candidate profile from résumé text
// with regular expressions and fixed vocabularies. It needs no network access
// and never fails.
package heuristic

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/cv-evaluator/internal/profile"
)

// Technologies groups vocabulary hits in vocabulary order.
type Technologies struct {
	Languages  []string
	Frameworks []string
	Tools      []string
}

// Count returns the number of detected technologies.
func (t Technologies) Count() int {
	return len(t.Languages) + len(t.Frameworks) + len(t.Tools)
}

// ExtractBasic builds a REGEX_BASIC profile from text.
func ExtractBasic(text string) profile.CandidateProfile {
	name := Name(text)
	email := Email(text)
	techs := DetectTechnologies(text)
	years := ExperienceYears(text)

	return profile.CandidateProfile{
		Personal: &profile.Personal{
			FullName: name,
			Email:    email,
			Phone:    Phone(text),
			LinkedIn: LinkedIn(text),
			GitHub:   GitHub(text),
			Address:  profile.NotIdentified,
			Website:  profile.NotIdentified,
		},
		Skills: &profile.Skills{
			Languages:      techs.Languages,
			Frameworks:     techs.Frameworks,
			DevOpsTools:    techs.Tools,
			TechnicalLevel: TechnicalLevel(years, techs),
		},
		Experience: &profile.Experience{
			Jobs:              []profile.Job{},
			TotalYears:        years,
			Areas:             Areas(text),
			CareerProgression: profile.NotIdentified,
		},
		Metrics: profile.Metrics{
			CompletenessScore: Completeness(name, email, techs),
			Seniority:         profile.Seniority(years),
		},
		Quality:     profile.QualityRegexBasic,
		ExtractedAt: time.Now(),
	}
}

// Email returns the first email address in text or the sentinel.
func Email(text string) string {
	if m := emailPattern.FindString(text); m != "" {
		return m
	}
	return profile.NotIdentified
}

// Emails returns up to limit email addresses in text order.
func Emails(text string, limit int) []string {
	return emailPattern.FindAllString(text, limit)
}

// Phone returns the first Brazilian style phone number or the sentinel.
func Phone(text string) string {
	if m := phonePattern.FindString(text); m != "" {
		return m
	}
	return profile.NotIdentified
}

// LinkedIn returns the normalised profile URL or the sentinel.
func LinkedIn(text string) string {
	if m := linkedInPattern.FindStringSubmatch(text); m != nil {
		return "https://linkedin.com/in/" + m[1]
	}
	return profile.NotIdentified
}

// GitHub returns the normalised profile URL or the sentinel.
func GitHub(text string) string {
	if m := gitHubPattern.FindStringSubmatch(text); m != nil {
		return "https://github.com/" + m[1]
	}
	return profile.NotIdentified
}

// Name guesses the candidate name from the first ten lines: the first line
// of two or more words, between 6 and 49 characters, without contact
// keywords and with less than 30% digits.
func Name(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		length := utf8.RuneCountInString(line)
		if length <= 5 || length >= 50 {
			continue
		}
		if contactKeywords.MatchString(strings.ToLower(line)) {
			continue
		}
		digits := len(digitPattern.FindAllString(line, -1))
		if float64(digits)/float64(length) >= 0.3 {
			continue
		}
		if len(strings.Fields(line)) >= 2 {
			return line
		}
	}

	return profile.NotIdentified
}

// DetectTechnologies matches the vocabularies as case-insensitive substrings.
func DetectTechnologies(text string) Technologies {
	lower := strings.ToLower(text)
	return Technologies{
		Languages:  matchVocabulary(lower, languageVocabulary),
		Frameworks: matchVocabulary(lower, frameworkVocabulary),
		Tools:      matchVocabulary(lower, toolVocabulary),
	}
}

func matchVocabulary(lower string, vocabulary []string) []string {
	found := make([]string, 0)
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

// ExperienceYears returns the largest explicit "N years of experience"
// mention. Without one, the number of employer keyword occurrences, counted
// as substrings, is used as a rough proxy.
func ExperienceYears(text string) float64 {
	lower := strings.ToLower(text)

	best := -1
	for _, pattern := range yearsPatterns {
		for _, m := range pattern.FindAllStringSubmatch(lower, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n > best {
				best = n
			}
		}
	}
	if best >= 0 {
		return float64(best)
	}

	employers := len(employerPattern.FindAllString(lower, -1))
	switch {
	case employers > 3:
		return 5
	case employers > 1:
		return 3
	default:
		return 1
	}
}

// Areas tags the fields of activity mentioned in text, at most five.
func Areas(text string) []string {
	lower := strings.ToLower(text)
	areas := make([]string, 0, maxAreas)
	for _, a := range areaVocabulary {
		for _, kw := range a.keywords {
			if strings.Contains(lower, kw) {
				areas = append(areas, a.label)
				break
			}
		}
		if len(areas) == maxAreas {
			break
		}
	}
	return areas
}

// TechnicalLevel combines experience and breadth into a coarse level.
func TechnicalLevel(years float64, techs Technologies) string {
	total := techs.Count()
	switch {
	case years >= 5 && total >= 10:
		return "Senior"
	case years >= 2 && total >= 5:
		return "Pleno"
	default:
		return "Junior"
	}
}

// Completeness awards 25 points each for a name, an email, any language and
// more than two languages.
func Completeness(name, email string, techs Technologies) int {
	score := 0
	if profile.Identified(name) {
		score += 25
	}
	if profile.Identified(email) {
		score += 25
	}
	if len(techs.Languages) > 0 {
		score += 25
	}
	if len(techs.Languages) > 2 {
		score += 25
	}
	return score
}
