package result

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/cv-evaluator/internal/profile"
)

const (
	maxStrengths   = 8
	maxWeaknesses  = 8
	maxTopSkills   = 10
	maxNextSteps   = 5
	maxSuggestions = 5

	defaultAssessment = "Assessment not available"
)

// Normalize turns a loose evaluation payload into an EvaluationResult. It
// accepts any map: missing or mistyped fields fall back to defaults.
func Normalize(raw map[string]any) EvaluationResult {
	r := EvaluationResult{
		Success:              true,
		Score:                coerceScore(raw["score"]),
		SubScores:            coerceSubScores(raw["sub_scores"]),
		Strengths:            coerceStrings(raw["strengths"]),
		Weaknesses:           coerceStrings(raw["weaknesses"]),
		DetailedAssessment:   coerceString(raw["detailed_assessment"]),
		CandidateName:        coerceString(raw["candidate_name"]),
		CandidateEmail:       coerceString(raw["candidate_email"]),
		CandidatePhone:       coerceString(raw["candidate_phone"]),
		TopSkills:            coerceStrings(raw["top_skills"]),
		ExperienceYears:      coerceYears(raw["experience_years"]),
		Seniority:            coerceString(raw["seniority"]),
		HiringRecommendation: coerceString(raw["hiring_recommendation"]),
		RiskAssessment:       coerceString(raw["risk_assessment"]),
		NextSteps:            coerceStrings(raw["next_steps"]),
		Compatibility:        coerceScore(raw["compatibility"]),
		FallbackUsed:         coerceBool(raw["fallback_used"]),
		FallbackReason:       coerceString(raw["fallback_reason"]),
		FallbackError:        coerceString(raw["fallback_error"]),
	}
	return r.Normalized()
}

// Normalized re-applies the normalisation rules to a typed record. Applying
// it twice yields the same record.
func (r EvaluationResult) Normalized() EvaluationResult {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.EvaluatedAt.IsZero() {
		r.EvaluatedAt = time.Now()
	}

	r.Score = clampScore(r.Score)
	r.Compatibility = clampScore(r.Compatibility)
	r.SubScores = SubScores{
		Technical:  clampScore(r.SubScores.Technical),
		Experience: clampScore(r.SubScores.Experience),
		Education:  clampScore(r.SubScores.Education),
		Behavioral: clampScore(r.SubScores.Behavioral),
	}

	r.Strengths = cleanStrings(r.Strengths, maxStrengths)
	r.Weaknesses = cleanStrings(r.Weaknesses, maxWeaknesses)
	r.TopSkills = cleanStrings(r.TopSkills, maxTopSkills)
	r.NextSteps = cleanStrings(r.NextSteps, maxNextSteps)
	r.Suggestions = cleanStrings(r.Suggestions, maxSuggestions)

	r.DetailedAssessment = orDefault(r.DetailedAssessment, defaultAssessment)
	r.CandidateName = orDefault(r.CandidateName, profile.NotIdentified)
	r.CandidateEmail = orDefault(r.CandidateEmail, profile.NotIdentified)
	r.CandidatePhone = orDefault(r.CandidatePhone, profile.NotIdentified)
	r.Seniority = orDefault(r.Seniority, profile.ToBeDefined)

	if r.ExperienceYears != nil && (math.IsNaN(*r.ExperienceYears) || *r.ExperienceYears < 0) {
		r.ExperienceYears = nil
	}

	if !r.Success {
		r.Classification = ClassError
		return r
	}
	r.Classification = Classify(r.Score)
	r.Summary = Summary(r.Score, r.Classification, r.Strengths, r.Weaknesses)
	return r
}

func clampScore(v int) int {
	return min(100, max(0, v))
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func cleanStrings(items []string, limit int) []string {
	out := make([]string, 0, min(len(items), limit))
	for _, item := range items {
		if len(out) == limit {
			break
		}
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func coerceScore(v any) int {
	f := coerceFloat(v)
	if math.IsNaN(f) {
		return 0
	}
	return int(min(100, max(0, f)))
}

func coerceSubScores(v any) SubScores {
	m, ok := v.(map[string]any)
	if !ok {
		return SubScores{}
	}
	return SubScores{
		Technical:  coerceScore(m["technical"]),
		Experience: coerceScore(m["experience"]),
		Education:  coerceScore(m["education"]),
		Behavioral: coerceScore(m["behavioral"]),
	}
}

func coerceYears(v any) *float64 {
	f := coerceFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return &f
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
