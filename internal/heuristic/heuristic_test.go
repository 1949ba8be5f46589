package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/cv-evaluator/internal/profile"
)

const sampleResume = `Curriculum Vitae
Maria Fernanda Lima
maria.lima@example.com | (11) 98765-4321
linkedin.com/in/maria-lima github.com/mflima

Desenvolvedora backend com 6 anos de experiência em Python, Go e Java.
Frameworks: Django, Flask, React.
Ferramentas: Docker, Kubernetes, AWS, PostgreSQL, Git.
`

func TestExtractBasic(t *testing.T) {
	p := ExtractBasic(sampleResume)

	require.NotNil(t, p.Personal)
	assert.Equal(t, "Maria Fernanda Lima", p.Personal.FullName)
	assert.Equal(t, "maria.lima@example.com", p.Personal.Email)
	assert.Equal(t, "(11) 98765-4321", p.Personal.Phone)
	assert.Equal(t, "https://linkedin.com/in/maria-lima", p.Personal.LinkedIn)
	assert.Equal(t, "https://github.com/mflima", p.Personal.GitHub)
	assert.Equal(t, profile.NotIdentified, p.Personal.Address)

	require.NotNil(t, p.Experience)
	assert.Equal(t, 6.0, p.Experience.TotalYears)
	assert.Equal(t, profile.QualityRegexBasic, p.Quality)
	assert.Equal(t, "Senior", p.Metrics.Seniority)
	assert.Equal(t, 100, p.Metrics.CompletenessScore)

	require.NotNil(t, p.Skills)
	assert.Equal(t, "Senior", p.Skills.TechnicalLevel)
}

func TestExtractBasicEmptyText(t *testing.T) {
	p := ExtractBasic("")

	assert.Equal(t, profile.NotIdentified, p.Personal.FullName)
	assert.Equal(t, profile.NotIdentified, p.Personal.Email)
	assert.Equal(t, profile.NotIdentified, p.Personal.Phone)
	assert.Equal(t, 1.0, p.Experience.TotalYears)
	assert.Empty(t, p.Skills.Languages)
	assert.Equal(t, "Junior", p.Skills.TechnicalLevel)
	assert.Zero(t, p.Metrics.CompletenessScore)
}

func TestName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "first plain line", text: "John Smith\nDeveloper", want: "John Smith"},
		{name: "skips contact lines", text: "email: a@b.com\nTel 11 9999-9999\nAna Paula Souza", want: "Ana Paula Souza"},
		{name: "skips single word", text: "Resume\nCarlos Alberto", want: "Carlos Alberto"},
		{name: "skips digit heavy", text: "2019 2020 2021 A\nJoana Dark", want: "Joana Dark"},
		{name: "too short", text: "A B\n", want: profile.NotIdentified},
		{name: "beyond ten lines", text: "x\nx\nx\nx\nx\nx\nx\nx\nx\nx\nLate Name Here", want: profile.NotIdentified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.text))
		})
	}
}

func TestDetectTechnologiesKeepsVocabularyOrder(t *testing.T) {
	techs := DetectTechnologies("AWS, then Python and finally JAVA")

	assert.Equal(t, []string{"python", "java"}, techs.Languages)
	assert.Equal(t, []string{"aws"}, techs.Tools)
	assert.Empty(t, techs.Frameworks)
}

func TestExperienceYears(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "portuguese", text: "Tenho 4 anos de experiência", want: 4},
		{name: "portuguese reversed", text: "experiência de 7 anos em TI", want: 7},
		{name: "english max wins", text: "3 years of experience, experience of 9 years overall", want: 9},
		{name: "many employers", text: "Company A\nCompany B\nAcme Corp\nFoo Ltd\n", want: 5},
		{name: "some employers", text: "Empresa X, then Company Y", want: 3},
		{name: "plural employers", text: "Atuei em diversas empresas e companies de tecnologia, incluindo corporações", want: 5},
		{name: "inside words", text: "Trabalhei na Mesa Corporativa", want: 3},
		{name: "nothing", text: "no hints at all", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExperienceYears(tt.text))
		})
	}
}

func TestAreasCapped(t *testing.T) {
	text := "software developer frontend backend api fullstack devops machine learning mobile manager"
	areas := Areas(text)

	assert.Len(t, areas, 5)
	assert.Equal(t, []string{"Development", "Frontend", "Backend", "Fullstack", "DevOps"}, areas)
}

func TestTechnicalLevel(t *testing.T) {
	many := Technologies{Languages: make([]string, 4), Frameworks: make([]string, 3), Tools: make([]string, 3)}
	some := Technologies{Languages: make([]string, 5)}

	assert.Equal(t, "Senior", TechnicalLevel(5, many))
	assert.Equal(t, "Pleno", TechnicalLevel(4, many))
	assert.Equal(t, "Pleno", TechnicalLevel(2, some))
	assert.Equal(t, "Junior", TechnicalLevel(1, many))
}

func TestCompleteness(t *testing.T) {
	techs := Technologies{Languages: []string{"go"}}
	assert.Equal(t, 75, Completeness("Ana Lima", "ana@x.io", techs))
	assert.Equal(t, 25, Completeness(profile.NotIdentified, profile.NotIdentified, techs))
}
