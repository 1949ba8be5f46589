package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spigell/cv-evaluator/internal/profile"
)

const (
	maxSpecialties = 3
	maxStrengths   = 5
	maxGaps        = 3
)

var quantificationPattern = regexp.MustCompile(`\d+[%+\-]|\d+\s*(?:anos?|meses?|pessoas?|usuários?|projetos?|years?|months?|people|users?|projects?)`)

type specialty struct {
	label    string
	source   func(p *profile.CandidateProfile) string
	keywords []string
}

var specialties = []specialty{
	{label: "Frontend", source: frameworksText, keywords: []string{"react", "angular", "vue", "next"}},
	{label: "Backend", source: languagesText, keywords: []string{"python", "java", "node", "php"}},
	{label: "DevOps/Cloud", source: skillsText, keywords: []string{"docker", "kubernetes", "aws", "azure"}},
	{label: "Data Science", source: skillsText, keywords: []string{"machine learning", "tensorflow", "pandas", "sql"}},
}

// Enrich computes the derived metrics and the résumé analysis of p.
func Enrich(p *profile.CandidateProfile, text string) {
	years := p.TotalYears()
	p.Metrics = profile.Metrics{
		CompletenessScore: Completeness(p),
		Seniority:         profile.Seniority(years),
		Specialties:       Specialties(p),
		Strengths:         Strengths(p),
		Gaps:              Gaps(p),
	}
	p.Analysis = Analyze(text, years)
}

// Completeness is the share of name, email, jobs, languages and degrees
// that were found, as a percentage.
func Completeness(p *profile.CandidateProfile) int {
	filled := 0
	if p.Personal != nil && profile.Identified(p.Personal.FullName) {
		filled++
	}
	if p.Personal != nil && profile.Identified(p.Personal.Email) {
		filled++
	}
	if p.Experience != nil && len(p.Experience.Jobs) > 0 {
		filled++
	}
	if p.Skills != nil && len(p.Skills.Languages) > 0 {
		filled++
	}
	if p.Education != nil && len(p.Education.Degrees) > 0 {
		filled++
	}
	return filled * 100 / 5
}

// Specialties infers up to three specialty tags from the skills section.
func Specialties(p *profile.CandidateProfile) []string {
	found := make([]string, 0, maxSpecialties)
	for _, s := range specialties {
		haystack := s.source(p)
		for _, kw := range s.keywords {
			if strings.Contains(haystack, kw) {
				found = append(found, s.label)
				break
			}
		}
		if len(found) == maxSpecialties {
			break
		}
	}
	return found
}

// Strengths lists up to five rule-based strengths.
func Strengths(p *profile.CandidateProfile) []string {
	strengths := make([]string, 0, maxStrengths)

	if years := p.TotalYears(); years > 5 {
		strengths = append(strengths, fmt.Sprintf("Solid experience (%s years)", strconv.FormatFloat(years, 'f', -1, 64)))
	}
	if p.Skills != nil && len(p.Skills.Languages)+len(p.Skills.Frameworks) > 5 {
		strengths = append(strengths, "Broad technical range")
	}
	if p.Education != nil && len(p.Education.Degrees) > 0 {
		strengths = append(strengths, "Solid academic background")
	}
	if hasCertifications(p) {
		strengths = append(strengths, "Technical certifications")
	}

	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	return strengths
}

// Gaps lists up to three missing pieces of information.
func Gaps(p *profile.CandidateProfile) []string {
	gaps := make([]string, 0, 4)

	if p.Personal == nil || p.Personal.Email == profile.NotIdentified {
		gaps = append(gaps, "Email not identified")
	}
	if p.Personal == nil || p.Personal.Phone == profile.NotIdentified {
		gaps = append(gaps, "Phone not identified")
	}
	if p.TotalYears() < 2 {
		gaps = append(gaps, "Limited professional experience")
	}
	if !hasCertifications(p) {
		gaps = append(gaps, "No technical certifications")
	}

	if len(gaps) > maxGaps {
		gaps = gaps[:maxGaps]
	}
	return gaps
}

// Analyze describes the résumé structure, detail richness and how often
// results are quantified.
func Analyze(text string, years float64) *profile.Analysis {
	a := &profile.Analysis{
		Structure:      "simple",
		DetailRichness: "medium",
		Quantification: "low",
	}
	if utf8.RuneCountInString(text) > 1000 {
		a.Structure = "well_structured"
	}
	if years > 3 {
		a.DetailRichness = "high"
	}

	switch n := len(quantificationPattern.FindAllString(strings.ToLower(text), -1)); {
	case n > 5:
		a.Quantification = "high"
	case n > 2:
		a.Quantification = "medium"
	}
	return a
}

func hasCertifications(p *profile.CandidateProfile) bool {
	return p.Education != nil && len(p.Education.Certifications) > 0
}

func frameworksText(p *profile.CandidateProfile) string {
	if p.Skills == nil {
		return ""
	}
	return strings.ToLower(strings.Join(p.Skills.Frameworks, " "))
}

func languagesText(p *profile.CandidateProfile) string {
	if p.Skills == nil {
		return ""
	}
	return strings.ToLower(strings.Join(p.Skills.Languages, " "))
}

func skillsText(p *profile.CandidateProfile) string {
	s := p.Skills
	if s == nil {
		return ""
	}
	var all []string
	for _, list := range [][]string{
		s.Languages, s.Frameworks, s.Databases, s.DevOpsTools, s.CloudPlatforms,
		s.Methodologies, s.Certifications, s.Specializations,
	} {
		all = append(all, list...)
	}
	return strings.ToLower(strings.Join(all, " "))
}
