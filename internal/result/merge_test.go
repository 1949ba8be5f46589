package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/cv-evaluator/internal/profile"
)

func modelResult() EvaluationResult {
	years := 2.0
	return Normalize(map[string]any{
		"score":            75.0,
		"candidate_name":   "A. Souza",
		"candidate_email":  "guess@example.com",
		"candidate_phone":  "000",
		"top_skills":       []any{"Python (8 years)"},
		"experience_years": years,
		"seniority":        "Junior",
	})
}

func aiProfile() *profile.CandidateProfile {
	return &profile.CandidateProfile{
		Personal: &profile.Personal{
			FullName: "Ana Souza",
			Email:    "ana@example.com",
			Phone:    profile.NotIdentified,
			LinkedIn: "https://linkedin.com/in/anasouza",
			GitHub:   profile.NotIdentified,
			Address:  "São Paulo",
		},
		Experience: &profile.Experience{TotalYears: 6},
		Skills: &profile.Skills{
			Languages:       []string{"Go", "Python", "SQL", "Bash"},
			Frameworks:      []string{"gin", "React", "Vue"},
			Specializations: []string{"Distributed systems"},
		},
		Metrics: profile.Metrics{
			CompletenessScore: 80,
			Specialties:       []string{"Backend"},
			Strengths:         []string{"Solid experience (6 years)"},
			Gaps:              []string{"Education not identified"},
		},
		Quality: profile.QualityAIComplete,
	}
}

func TestMergeOverlaysProfile(t *testing.T) {
	p := aiProfile()
	r := Merge(modelResult(), p)

	assert.Equal(t, "Ana Souza", r.CandidateName)
	assert.Equal(t, "ana@example.com", r.CandidateEmail)
	assert.Equal(t, "000", r.CandidatePhone)
	assert.Equal(t, "https://linkedin.com/in/anasouza", r.CandidateLinkedIn)
	assert.Empty(t, r.CandidateGitHub)
	assert.Equal(t, "São Paulo", r.CandidateAddress)

	require.NotNil(t, r.ExperienceYears)
	assert.InDelta(t, 6.0, *r.ExperienceYears, 1e-9)
	assert.Equal(t, "Senior", r.Seniority)

	assert.Equal(t, []string{"Go", "Python", "SQL", "gin", "React"}, r.TopSkills)
	assert.Equal(t, 80, r.CompletenessScore)
	assert.Equal(t, []string{"Backend"}, r.Specialties)
	assert.Equal(t, []string{"Solid experience (6 years)"}, r.ProfileStrengths)
	assert.Equal(t, []string{"Education not identified"}, r.ProfileGaps)
	assert.Equal(t, MethodAIAdvanced, r.ExtractionMethod)
	assert.Equal(t, string(profile.QualityAIComplete), r.ExtractionQuality)
	assert.Same(t, p, r.Profile)
}

func TestMergeKeepsModelYearsWhenProfileHasNone(t *testing.T) {
	p := aiProfile()
	p.Experience = nil

	r := Merge(modelResult(), p)

	require.NotNil(t, r.ExperienceYears)
	assert.InDelta(t, 2.0, *r.ExperienceYears, 1e-9)
	assert.Equal(t, "Pleno", r.Seniority)
}

func TestMergeIgnoresFallbackProfiles(t *testing.T) {
	base := modelResult()
	p := aiProfile()
	p.Quality = profile.QualityFallbackRegex

	r := Merge(base, p)

	assert.Equal(t, "A. Souza", r.CandidateName)
	assert.Equal(t, "Junior", r.Seniority)
	assert.Equal(t, []string{"Python (8 years)"}, r.TopSkills)
	assert.Nil(t, r.Profile)
	assert.Equal(t, MethodRegexBasic, r.ExtractionMethod)
	assert.Equal(t, string(profile.QualityFallbackRegex), r.ExtractionQuality)

	assert.Equal(t, base, Merge(base, nil))
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	r := Merge(modelResult(), aiProfile())
	c := r.Clone()

	c.TopSkills[0] = "changed"
	*c.ExperienceYears = 99

	assert.Equal(t, "Go", r.TopSkills[0])
	assert.InDelta(t, 6.0, *r.ExperienceYears, 1e-9)
	assert.Nil(t, (*EvaluationResult)(nil).Clone())
}
