package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/cv-evaluator/internal/profile"
)

func TestCompleteness(t *testing.T) {
	p := &profile.CandidateProfile{
		Personal: &profile.Personal{FullName: "Ana", Email: profile.NotIdentified},
		Skills:   &profile.Skills{Languages: []string{"Go"}},
	}
	assert.Equal(t, 40, Completeness(p))
	assert.Zero(t, Completeness(&profile.CandidateProfile{}))
}

func TestSpecialtiesCapped(t *testing.T) {
	p := &profile.CandidateProfile{Skills: &profile.Skills{
		Languages:   []string{"PHP"},
		Frameworks:  []string{"Vue"},
		DevOpsTools: []string{"Kubernetes"},
		Databases:   []string{"PostgreSQL", "SQL Server"},
	}}
	assert.Equal(t, []string{"Frontend", "Backend", "DevOps/Cloud"}, Specialties(p))

	dataOnly := &profile.CandidateProfile{Skills: &profile.Skills{Specializations: []string{"Machine Learning"}}}
	assert.Equal(t, []string{"Data Science"}, Specialties(dataOnly))
}

func TestGapsCapped(t *testing.T) {
	p := &profile.CandidateProfile{
		Personal:   &profile.Personal{Email: profile.NotIdentified, Phone: profile.NotIdentified},
		Experience: &profile.Experience{TotalYears: 1},
	}
	assert.Equal(t, []string{"Email not identified", "Phone not identified", "Limited professional experience"}, Gaps(p))
}

func TestStrengthsFormatsYears(t *testing.T) {
	p := &profile.CandidateProfile{Experience: &profile.Experience{TotalYears: 6.5}}
	assert.Equal(t, []string{"Solid experience (6.5 years)"}, Strengths(p))
}

func TestAnalyze(t *testing.T) {
	short := Analyze("2 years at X", 1)
	assert.Equal(t, "simple", short.Structure)
	assert.Equal(t, "medium", short.DetailRichness)
	assert.Equal(t, "low", short.Quantification)

	text := strings.Repeat("a", 1001) + " 10% 5 projects 3 years 20+ 8 users 4 meses"
	long := Analyze(text, 4)
	assert.Equal(t, "well_structured", long.Structure)
	assert.Equal(t, "high", long.DetailRichness)
	assert.Equal(t, "high", long.Quantification)

	assert.Equal(t, "medium", Analyze("10% 5 projects 3 years", 0).Quantification)
}
