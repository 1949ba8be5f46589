package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeniority(t *testing.T) {
	tests := []struct {
		years float64
		want  string
	}{
		{0, "Junior"},
		{1.9, "Junior"},
		{2, "Pleno"},
		{4.5, "Pleno"},
		{5, "Senior"},
		{7.9, "Senior"},
		{8, "Especialista"},
		{20, "Especialista"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Seniority(tt.years), "years=%v", tt.years)
	}
}

func TestDecodeLoosePayload(t *testing.T) {
	payload := map[string]any{
		"jobs": []any{
			map[string]any{
				"employer":     "Acme",
				"title":        "Backend Developer",
				"technologies": "Go",
			},
		},
		"total_years":        "6 anos",
		"areas":              []any{"Backend", 42},
		"career_progression": map[string]any{"from": "junior", "to": "senior"},
	}

	var exp Experience
	require.NoError(t, Decode(payload, &exp))

	require.Len(t, exp.Jobs, 1)
	assert.Equal(t, "Acme", exp.Jobs[0].Employer)
	assert.Equal(t, []string{"Go"}, exp.Jobs[0].Technologies)
	assert.Equal(t, 6.0, exp.TotalYears)
	assert.Equal(t, []string{"Backend", "42"}, exp.Areas)
	assert.Contains(t, exp.CareerProgression, "junior")
}

func TestDecodeUnparseableNumber(t *testing.T) {
	var exp Experience
	require.NoError(t, Decode(map[string]any{"total_years": "unknown"}, &exp))
	assert.Zero(t, exp.TotalYears)

	require.NoError(t, Decode(map[string]any{"total_years": "3,5"}, &exp))
	assert.Equal(t, 3.5, exp.TotalYears)
}

func TestProfileHelpers(t *testing.T) {
	var nilProfile *CandidateProfile
	assert.True(t, nilProfile.IsFallback())
	assert.Equal(t, NotIdentified, nilProfile.Name())
	assert.Zero(t, nilProfile.TotalYears())

	p := &CandidateProfile{
		Quality:    QualityAIComplete,
		Personal:   &Personal{FullName: "Ana Souza"},
		Experience: &Experience{TotalYears: 4},
	}
	assert.False(t, p.IsFallback())
	assert.Equal(t, "Ana Souza", p.Name())
	assert.Equal(t, 4.0, p.TotalYears())

	assert.False(t, Identified(NotIdentified))
	assert.False(t, Identified(ToBeDefined))
	assert.False(t, Identified(""))
	assert.True(t, Identified("ana@example.com"))
}
