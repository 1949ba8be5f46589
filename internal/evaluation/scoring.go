package evaluation

import "strings"

const maxSuggestions = 5

var compatibilityVocabulary = []string{
	"python", "javascript", "java", "php", "sql", "html", "css",
	"react", "angular", "vue", "node", "django", "flask", "spring",
	"aws", "azure", "docker", "kubernetes", "git", "linux",
}

var experienceWords = [][]string{
	{"anos", "years"},
	{"experiência", "experience"},
	{"projeto", "project"},
	{"desenvolvimento", "development"},
	{"gestão", "management"},
}

// Compatibility measures how many of the technologies named in the
// requirements appear in the résumé, with a small bonus for experience
// vocabulary. Requirements naming no known technology score 70.
func Compatibility(text, requirements string) int {
	lowerText := strings.ToLower(text)
	lowerReq := strings.ToLower(requirements)

	required, matched := 0, 0
	for _, tech := range compatibilityVocabulary {
		if !strings.Contains(lowerReq, tech) {
			continue
		}
		required++
		if strings.Contains(lowerText, tech) {
			matched++
		}
	}
	if required == 0 {
		return 70
	}

	bonus := 0
	for _, group := range experienceWords {
		for _, w := range group {
			if strings.Contains(lowerText, w) {
				bonus += 2
				break
			}
		}
	}

	return min(100, int(float64(matched)/float64(required)*100+float64(bonus)))
}

// Suggestions returns up to five résumé improvement hints for a score.
func Suggestions(score int, weaknesses []string) []string {
	var out []string
	if score < 70 {
		out = append(out,
			"Add more detail about relevant professional experience",
			"Include specific projects that demonstrate your skills",
			"Highlight certifications and courses related to the position",
		)
	}
	if score < 80 {
		out = append(out,
			"Quantify your results and achievements",
			"Use keywords specific to the target field",
			"Organise the résumé sections more clearly",
		)
	}
	if len(weaknesses) > 3 {
		out = append(out, "Focus on developing the skills listed as weaknesses")
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	if out == nil {
		out = []string{}
	}
	return out
}
