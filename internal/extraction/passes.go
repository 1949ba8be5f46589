package extraction

import (
	"embed"
	"fmt"
	"strings"

	"github.com/spigell/cv-evaluator/internal/ai"
	"github.com/spigell/cv-evaluator/internal/profile"
)

//go:embed prompts/*.md
var promptFS embed.FS

const resumePlaceholder = "{{RESUME}}"

var passOptions = ai.GenerationOptions{
	Temperature:     0.1,
	TopP:            0.8,
	TopK:            40,
	MaxOutputTokens: 2048,
}

// pass is one independent extraction request. apply decodes the parsed
// payload into its section; defaults installs the section used when the
// pass fails.
type pass struct {
	name     profile.Pass
	window   int
	template string
	apply    func(p *profile.CandidateProfile, data map[string]any) error
	defaults func(p *profile.CandidateProfile)
}

func (ps pass) prompt(text string) string {
	return strings.ReplaceAll(ps.template, resumePlaceholder, window(text, ps.window))
}

func window(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

func loadPasses() []pass {
	return []pass{
		{
			name:     profile.PassIdentity,
			window:   2000,
			template: mustTemplate(profile.PassIdentity),
			apply: func(p *profile.CandidateProfile, data map[string]any) error {
				var section profile.Personal
				if err := profile.Decode(data, &section); err != nil {
					return err
				}
				fillPersonal(&section)
				p.Personal = &section
				return nil
			},
			defaults: func(p *profile.CandidateProfile) {
				section := profile.Personal{}
				fillPersonal(&section)
				p.Personal = &section
			},
		},
		{
			name:     profile.PassExperience,
			window:   3000,
			template: mustTemplate(profile.PassExperience),
			apply: func(p *profile.CandidateProfile, data map[string]any) error {
				var section profile.Experience
				if err := profile.Decode(data, &section); err != nil {
					return err
				}
				fillExperience(&section)
				p.Experience = &section
				return nil
			},
			defaults: func(p *profile.CandidateProfile) {
				section := profile.Experience{}
				fillExperience(&section)
				p.Experience = &section
			},
		},
		{
			name:     profile.PassSkills,
			window:   3000,
			template: mustTemplate(profile.PassSkills),
			apply: func(p *profile.CandidateProfile, data map[string]any) error {
				var section profile.Skills
				if err := profile.Decode(data, &section); err != nil {
					return err
				}
				fillSkills(&section)
				p.Skills = &section
				return nil
			},
			defaults: func(p *profile.CandidateProfile) {
				section := profile.Skills{}
				fillSkills(&section)
				p.Skills = &section
			},
		},
		{
			name:     profile.PassEducation,
			window:   3000,
			template: mustTemplate(profile.PassEducation),
			apply: func(p *profile.CandidateProfile, data map[string]any) error {
				var section profile.Education
				if err := profile.Decode(data, &section); err != nil {
					return err
				}
				fillEducation(&section)
				p.Education = &section
				return nil
			},
			defaults: func(p *profile.CandidateProfile) {
				section := profile.Education{}
				fillEducation(&section)
				p.Education = &section
			},
		},
		{
			name:     profile.PassProjects,
			window:   3000,
			template: mustTemplate(profile.PassProjects),
			apply: func(p *profile.CandidateProfile, data map[string]any) error {
				var section profile.Projects
				if err := profile.Decode(data, &section); err != nil {
					return err
				}
				fillProjects(&section)
				p.Projects = &section
				return nil
			},
			defaults: func(p *profile.CandidateProfile) {
				section := profile.Projects{}
				fillProjects(&section)
				p.Projects = &section
			},
		},
	}
}

func mustTemplate(name profile.Pass) string {
	raw, err := promptFS.ReadFile(fmt.Sprintf("prompts/%s.md", name))
	if err != nil {
		panic(fmt.Sprintf("missing prompt template for pass %s: %v", name, err))
	}
	return string(raw)
}

func orSentinel(s *string, sentinel string) {
	if *s = strings.TrimSpace(*s); *s == "" {
		*s = sentinel
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func fillPersonal(s *profile.Personal) {
	for _, field := range []*string{&s.FullName, &s.Email, &s.Phone, &s.Address, &s.LinkedIn, &s.GitHub, &s.Website} {
		orSentinel(field, profile.NotIdentified)
	}
}

func fillExperience(s *profile.Experience) {
	if s.Jobs == nil {
		s.Jobs = []profile.Job{}
	}
	if s.TotalYears < 0 {
		s.TotalYears = 0
	}
	s.Areas = nonNil(s.Areas)
	orSentinel(&s.CareerProgression, profile.NotIdentified)
}

func fillSkills(s *profile.Skills) {
	for _, list := range []*[]string{
		&s.Languages, &s.Frameworks, &s.Databases, &s.DevOpsTools, &s.CloudPlatforms,
		&s.Methodologies, &s.SoftSkills, &s.SpokenLanguages, &s.Certifications, &s.Specializations,
	} {
		*list = nonNil(*list)
	}
	orSentinel(&s.TechnicalLevel, profile.ToBeDefined)
}

func fillEducation(s *profile.Education) {
	if s.Degrees == nil {
		s.Degrees = []profile.Degree{}
	}
	s.Certifications = nonNil(s.Certifications)
	s.Courses = nonNil(s.Courses)
	orSentinel(&s.HighestLevel, profile.NotIdentified)
}

func fillProjects(s *profile.Projects) {
	if s.Highlighted == nil {
		s.Highlighted = []profile.Project{}
	}
	s.QuantifiedAchievements = nonNil(s.QuantifiedAchievements)
	s.Recognitions = nonNil(s.Recognitions)
	s.OpenSource = nonNil(s.OpenSource)
}
