package heuristic

import "regexp"

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`\(?\d{2}\)?[\s-]?\d{4,5}[\s-]?\d{4}`)
	linkedInPattern = regexp.MustCompile(`(?i)(?:linkedin\.com/in/|linkedin\.com/profile/)([A-Za-z0-9_-]+)`)
	gitHubPattern   = regexp.MustCompile(`(?i)github\.com/([A-Za-z0-9_-]+)`)

	contactKeywords = regexp.MustCompile(`@|tel|cel|phone|email|cv|curriculum|endereço|www|http`)
	digitPattern    = regexp.MustCompile(`\d`)

	yearsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*anos?\s*de\s*experi[êe]ncia`),
		regexp.MustCompile(`experi[êe]ncia\s*de\s*(\d+)\s*anos?`),
		regexp.MustCompile(`(\d+)\s*years?\s*of\s*experience`),
		regexp.MustCompile(`experience\s*of\s*(\d+)\s*years?`),
	}
	employerPattern = regexp.MustCompile(`empresa|company|corp|ltd|inc|sa|ltda`)
)

var (
	languageVocabulary = []string{
		"python", "javascript", "java", "php", "c++", "c#", "ruby", "go",
		"typescript", "kotlin", "swift", "scala", "rust", "r", "matlab",
	}
	frameworkVocabulary = []string{
		"react", "angular", "vue", "django", "flask", "spring", "laravel",
		"express", "next.js", "nuxt", "bootstrap", "tailwind", "fastapi",
	}
	toolVocabulary = []string{
		"git", "docker", "kubernetes", "jenkins", "aws", "azure", "gcp",
		"mongodb", "postgresql", "mysql", "redis", "elasticsearch", "nginx",
	}
)

type area struct {
	label    string
	keywords []string
}

var areaVocabulary = []area{
	{label: "Development", keywords: []string{"desenvolvimento", "programação", "software", "developer"}},
	{label: "Frontend", keywords: []string{"frontend", "front-end", "html", "css", "javascript", "react"}},
	{label: "Backend", keywords: []string{"backend", "back-end", "server", "api", "database"}},
	{label: "Fullstack", keywords: []string{"fullstack", "full-stack", "full stack"}},
	{label: "DevOps", keywords: []string{"devops", "deployment", "docker", "kubernetes", "ci/cd"}},
	{label: "Data Science", keywords: []string{"data science", "machine learning", "analytics", "data analyst"}},
	{label: "Mobile", keywords: []string{"mobile", "android", "ios", "react native", "flutter"}},
	{label: "Management", keywords: []string{"gerente", "manager", "liderança", "coordenador", "supervisor"}},
}

const maxAreas = 5
