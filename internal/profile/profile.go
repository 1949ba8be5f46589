// Package profile holds the structured candidate data produced by the
// heuristic and AI extractors.
package profile

import "time"

const (
	// NotIdentified marks a text field that could not be extracted.
	NotIdentified = "Not identified"
	// ToBeDefined marks a classification that could not be derived.
	ToBeDefined = "To be defined"
)

// Quality tags which extraction path produced a profile.
type Quality string

const (
	QualityAIComplete    Quality = "AI_COMPLETE"
	QualityRegexBasic    Quality = "REGEX_BASIC"
	QualityFallbackRegex Quality = "FALLBACK_REGEX"
)

// Pass names one structured extraction request.
type Pass string

const (
	PassIdentity   Pass = "identity"
	PassExperience Pass = "experience"
	PassSkills     Pass = "skills"
	PassEducation  Pass = "education"
	PassProjects   Pass = "projects"
)

// Passes lists every pass in execution order.
var Passes = []Pass{PassIdentity, PassExperience, PassSkills, PassEducation, PassProjects}

// CandidateProfile is the structured view of a résumé. Every section is
// optional; a missing section never invalidates the rest.
type CandidateProfile struct {
	Personal   *Personal   `json:"personal,omitempty"`
	Experience *Experience `json:"experience,omitempty"`
	Skills     *Skills     `json:"skills,omitempty"`
	Education  *Education  `json:"education,omitempty"`
	Projects   *Projects   `json:"projects,omitempty"`

	Metrics  Metrics   `json:"metrics"`
	Analysis *Analysis `json:"analysis,omitempty"`

	Quality     Quality         `json:"quality"`
	Error       string          `json:"error,omitempty"`
	PassErrors  map[Pass]string `json:"pass_errors,omitempty"`
	ExtractedAt time.Time       `json:"extracted_at"`
}

// Personal is the identity section.
type Personal struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Address  string `json:"address"`
	Website  string `json:"website"`
}

// Job is a single position held by the candidate.
type Job struct {
	Employer         string   `json:"employer"`
	Title            string   `json:"title"`
	Period           string   `json:"period"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
	Technologies     []string `json:"technologies"`
	Achievements     []string `json:"achievements"`
	Seniority        string   `json:"seniority"`
}

// Experience is the professional history section.
type Experience struct {
	Jobs              []Job    `json:"jobs"`
	TotalYears        float64  `json:"total_years"`
	Areas             []string `json:"areas"`
	CareerProgression string   `json:"career_progression"`
}

// Skills groups technical and soft skills by category.
type Skills struct {
	Languages       []string `json:"languages"`
	Frameworks      []string `json:"frameworks"`
	Databases       []string `json:"databases"`
	DevOpsTools     []string `json:"devops_tools"`
	CloudPlatforms  []string `json:"cloud_platforms"`
	Methodologies   []string `json:"methodologies"`
	SoftSkills      []string `json:"soft_skills"`
	SpokenLanguages []string `json:"spoken_languages"`
	Certifications  []string `json:"certifications"`
	Specializations []string `json:"specializations"`
	TechnicalLevel  string   `json:"technical_level"`
}

// Degree is one academic degree.
type Degree struct {
	Level       string `json:"level"`
	Course      string `json:"course"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
	Status      string `json:"status"`
}

// Education lists degrees, certifications and courses.
type Education struct {
	Degrees        []Degree `json:"degrees"`
	Certifications []string `json:"certifications"`
	Courses        []string `json:"courses"`
	HighestLevel   string   `json:"highest_level"`
}

// Project is one highlighted project.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Impact       string   `json:"impact"`
	Role         string   `json:"role"`
}

// Projects lists highlighted projects and achievements.
type Projects struct {
	Highlighted            []Project `json:"highlighted"`
	QuantifiedAchievements []string  `json:"quantified_achievements"`
	Recognitions           []string  `json:"recognitions"`
	OpenSource             []string  `json:"open_source"`
}

// Metrics are derived from the extracted sections.
type Metrics struct {
	CompletenessScore int      `json:"completeness_score"`
	Seniority         string   `json:"seniority"`
	Specialties       []string `json:"specialties"`
	Strengths         []string `json:"strengths"`
	Gaps              []string `json:"gaps"`
}

// Analysis describes the shape of the résumé itself.
type Analysis struct {
	Structure      string `json:"structure"`
	DetailRichness string `json:"detail_richness"`
	Quantification string `json:"quantification"`
}

// Seniority maps total years of experience to a tier.
func Seniority(years float64) string {
	switch {
	case years < 2:
		return "Junior"
	case years < 5:
		return "Pleno"
	case years < 8:
		return "Senior"
	default:
		return "Especialista"
	}
}

// IsFallback reports whether p came from the regex fallback path.
func (p *CandidateProfile) IsFallback() bool {
	return p == nil || p.Quality == QualityFallbackRegex
}

// Identified reports whether a text field holds a real value.
func Identified(s string) bool {
	return s != "" && s != NotIdentified && s != ToBeDefined
}

// Name returns the candidate name or the sentinel.
func (p *CandidateProfile) Name() string {
	if p == nil || p.Personal == nil || p.Personal.FullName == "" {
		return NotIdentified
	}
	return p.Personal.FullName
}

// TotalYears returns the aggregate experience, zero when unknown.
func (p *CandidateProfile) TotalYears() float64 {
	if p == nil || p.Experience == nil {
		return 0
	}
	return p.Experience.TotalYears
}
