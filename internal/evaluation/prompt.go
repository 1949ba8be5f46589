package evaluation

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/cv-evaluator/internal/profile"
	"github.com/spigell/cv-evaluator/internal/utils"
)

//go:embed prompts/evaluation.md
var promptTemplate string

const (
	resumeWindow = 4000

	resumePlaceholder       = "{{RESUME}}"
	requirementsPlaceholder = "{{REQUIREMENTS}}"
)

// BuildPrompt renders the evaluation prompt: the rubric, the score bands and
// the JSON contract, with the résumé window and the annotated requirements.
func BuildPrompt(resumeText, jobRequirements string) string {
	prompt := strings.ReplaceAll(promptTemplate, resumePlaceholder, utils.Head(resumeText, resumeWindow))
	return strings.ReplaceAll(prompt, requirementsPlaceholder, structureRequirements(jobRequirements))
}

func structureRequirements(requirements string) string {
	return fmt.Sprintf(`ORIGINAL REQUIREMENTS:
%s

CATEGORISE FOR THE ANALYSIS:
- TECHNOLOGIES: languages, frameworks and specific tools
- EXPERIENCE: minimum years, kind of projects, seniority
- EDUCATION: degrees, specialisations, certifications
- SOFT SKILLS: behavioural competencies mentioned
- RESPONSIBILITIES: expected activities and deliverables

CRITERIA WEIGHTS:
- Requirements marked as "mandatory/essential" = weight 3
- Requirements marked as "desirable" = weight 2
- Unspecified requirements = weight 1`, requirements)
}

// EnrichRequirements appends a summary of the structured profile to the job
// requirements. Fallback profiles add nothing.
func EnrichRequirements(requirements string, p *profile.CandidateProfile) string {
	if p.IsFallback() {
		return requirements
	}

	var b strings.Builder
	b.WriteString(requirements)
	b.WriteString("\n\n======= ADDITIONAL CANDIDATE CONTEXT =======\n\nSTRUCTURED DATA EXTRACTED FROM THE RÉSUMÉ:\n")

	section(&b, "PERSONAL DATA", personalLines(p.Personal))
	section(&b, "PROFESSIONAL EXPERIENCE", experienceLines(p.Experience))
	section(&b, "SKILLS", skillsLines(p.Skills))
	section(&b, "EDUCATION", educationLines(p.Education))
	section(&b, "PROJECTS AND ACHIEVEMENTS", projectLines(p.Projects))
	section(&b, "DERIVED METRICS", metricLines(p.Metrics))

	b.WriteString("\nIMPORTANT: use this structured information for a more precise and complete analysis.\n")
	return b.String()
}

func section(b *strings.Builder, title string, lines []string) {
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString(":\n")
	if len(lines) == 0 {
		b.WriteString("- Not available\n")
		return
	}
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func personalLines(s *profile.Personal) []string {
	if s == nil {
		return nil
	}
	return []string{
		"Name: " + s.FullName,
		"Email: " + s.Email,
		"Phone: " + s.Phone,
		"LinkedIn: " + s.LinkedIn,
		"GitHub: " + s.GitHub,
		"Location: " + s.Address,
	}
}

func experienceLines(s *profile.Experience) []string {
	if s == nil {
		return nil
	}
	return []string{
		"Total experience: " + strconv.FormatFloat(s.TotalYears, 'f', -1, 64) + " years",
		"Areas: " + strings.Join(s.Areas, ", "),
		"Career progression: " + s.CareerProgression,
		"Positions: " + strconv.Itoa(len(s.Jobs)),
	}
}

func skillsLines(s *profile.Skills) []string {
	if s == nil {
		return nil
	}
	return []string{
		"Languages: " + strings.Join(s.Languages, ", "),
		"Frameworks: " + strings.Join(s.Frameworks, ", "),
		"Tools: " + strings.Join(append(append([]string{}, s.DevOpsTools...), s.CloudPlatforms...), ", "),
		"Technical level: " + s.TechnicalLevel,
		"Soft skills: " + strings.Join(s.SoftSkills, ", "),
	}
}

func educationLines(s *profile.Education) []string {
	if s == nil {
		return nil
	}
	return []string{
		"Degrees: " + strconv.Itoa(len(s.Degrees)),
		"Certifications: " + strconv.Itoa(len(s.Certifications)),
		"Highest level: " + s.HighestLevel,
	}
}

func projectLines(s *profile.Projects) []string {
	if s == nil {
		return nil
	}
	return []string{
		"Highlighted projects: " + strconv.Itoa(len(s.Highlighted)),
		"Quantified achievements: " + strconv.Itoa(len(s.QuantifiedAchievements)),
		"Recognitions: " + strconv.Itoa(len(s.Recognitions)),
		"Open source contributions: " + strconv.Itoa(len(s.OpenSource)),
	}
}

func metricLines(m profile.Metrics) []string {
	return []string{
		"Completeness: " + strconv.Itoa(m.CompletenessScore) + "/100",
		"Computed seniority: " + m.Seniority,
		"Specialties: " + strings.Join(m.Specialties, ", "),
		"Gaps: " + strconv.Itoa(len(m.Gaps)),
	}
}
