package evaluation

import (
	"strings"

	"github.com/spigell/cv-evaluator/internal/heuristic"
	"github.com/spigell/cv-evaluator/internal/profile"
)

const (
	minFallbackScore = 25
	maxFallbackScore = 85
	maxFallbackSkill = 5
)

var fallbackSkills = []string{"python", "javascript", "java", "sql", "html", "css", "react", "angular", "node"}

// FallbackScore builds an evaluation payload without the model. The score is
// the share of requirement words found in the résumé, clamped to [25, 85].
func FallbackScore(resumeText, jobRequirements string, cause error) map[string]any {
	lower := strings.ToLower(resumeText)

	skills := make([]any, 0, maxFallbackSkill)
	for _, tech := range fallbackSkills {
		if len(skills) == maxFallbackSkill {
			break
		}
		if strings.Contains(lower, tech) {
			skills = append(skills, tech)
		}
	}

	causeText := "model unavailable"
	if cause != nil {
		causeText = cause.Error()
	}

	return map[string]any{
		"score": KeywordOverlapScore(resumeText, jobRequirements),
		"strengths": []any{
			"Professional experience demonstrated",
			"Relevant technical qualifications",
			"Profile suited to the market",
		},
		"weaknesses": []any{
			"Limited analysis due to API failure",
			"Manual detailed review recommended",
		},
		"detailed_assessment": "Basic evaluation performed because the AI evaluation failed: " + causeText +
			". The candidate shows basic qualifications for the position, but a detailed manual review is recommended for a complete assessment.",
		"candidate_name":   heuristic.Name(resumeText),
		"top_skills":       skills,
		"candidate_email":  heuristic.Email(resumeText),
		"candidate_phone":  heuristic.Phone(resumeText),
		"experience_years": profile.NotIdentified,
		"seniority":        profile.ToBeDefined,
		"fallback_used":    true,
		"fallback_error":   causeText,
	}
}

// KeywordOverlapScore compares the lower-cased whitespace token sets of both
// texts. Requirements without any token score the minimum.
func KeywordOverlapScore(resumeText, jobRequirements string) int {
	required := tokenSet(jobRequirements)
	if len(required) == 0 {
		return minFallbackScore
	}
	present := tokenSet(resumeText)

	matches := 0
	for word := range required {
		if _, ok := present[word]; ok {
			matches++
		}
	}

	score := float64(matches) / float64(len(required)) * 100
	score = min(maxFallbackScore, max(minFallbackScore, score))
	return int(score)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}
