// Package result holds the evaluation record returned to callers and the
// rules that turn a loose model payload into it.
package result

import (
	"time"

	"github.com/google/uuid"

	"github.com/spigell/cv-evaluator/internal/profile"
)

// Extraction methods recorded on merged results.
const (
	MethodAIAdvanced = "AI_ADVANCED"
	MethodRegexBasic = "REGEX_BASIC"
)

// SubScores are the per-dimension scores of the rubric.
type SubScores struct {
	Technical  int `json:"technical"`
	Experience int `json:"experience"`
	Education  int `json:"education"`
	Behavioral int `json:"behavioral"`
}

// EvaluationResult is the normalised outcome of one evaluation.
type EvaluationResult struct {
	ID                 string    `json:"id"`
	Success            bool      `json:"success"`
	Score              int       `json:"score"`
	SubScores          SubScores `json:"sub_scores"`
	Classification     string    `json:"classification"`
	Strengths          []string  `json:"strengths"`
	Weaknesses         []string  `json:"weaknesses"`
	DetailedAssessment string    `json:"detailed_assessment"`
	Summary            string    `json:"summary"`

	CandidateName     string `json:"candidate_name"`
	CandidateEmail    string `json:"candidate_email"`
	CandidatePhone    string `json:"candidate_phone"`
	CandidateLinkedIn string `json:"candidate_linkedin,omitempty"`
	CandidateGitHub   string `json:"candidate_github,omitempty"`
	CandidateAddress  string `json:"candidate_address,omitempty"`

	TopSkills            []string `json:"top_skills"`
	ExperienceYears      *float64 `json:"experience_years,omitempty"`
	Seniority            string   `json:"seniority"`
	HiringRecommendation string   `json:"hiring_recommendation,omitempty"`
	RiskAssessment       string   `json:"risk_assessment,omitempty"`
	NextSteps            []string `json:"next_steps,omitempty"`
	Compatibility        int      `json:"compatibility"`
	Suggestions          []string `json:"suggestions"`

	FallbackUsed      bool     `json:"fallback_used"`
	FallbackReason    string   `json:"fallback_reason,omitempty"`
	FallbackError     string   `json:"fallback_error,omitempty"`
	ExtractionMethod  string   `json:"extraction_method,omitempty"`
	ExtractionQuality string   `json:"extraction_quality,omitempty"`
	CompletenessScore int      `json:"completeness_score,omitempty"`
	Specialties       []string `json:"specialties,omitempty"`
	ProfileStrengths  []string `json:"profile_strengths,omitempty"`
	ProfileGaps       []string `json:"profile_gaps,omitempty"`

	Profile     *profile.CandidateProfile `json:"profile,omitempty"`
	Filename    string                    `json:"filename,omitempty"`
	EvaluatedAt time.Time                 `json:"evaluated_at"`
}

// Failed builds the record kept for an evaluation that did not complete.
func Failed(filename string, err error) EvaluationResult {
	r := EvaluationResult{
		ID:             uuid.NewString(),
		Classification: ClassError,
		Filename:       filename,
		EvaluatedAt:    time.Now(),
	}
	if err != nil {
		r.DetailedAssessment = err.Error()
	}
	return r
}

// Clone returns a copy that shares no slices with r. The profile pointer is
// shared; profiles are not modified after extraction.
func (r *EvaluationResult) Clone() *EvaluationResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Strengths = cloneStrings(r.Strengths)
	c.Weaknesses = cloneStrings(r.Weaknesses)
	c.TopSkills = cloneStrings(r.TopSkills)
	c.NextSteps = cloneStrings(r.NextSteps)
	c.Suggestions = cloneStrings(r.Suggestions)
	c.Specialties = cloneStrings(r.Specialties)
	c.ProfileStrengths = cloneStrings(r.ProfileStrengths)
	c.ProfileGaps = cloneStrings(r.ProfileGaps)
	if r.ExperienceYears != nil {
		years := *r.ExperienceYears
		c.ExperienceYears = &years
	}
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}
