package result

import (
	"github.com/spigell/cv-evaluator/internal/profile"
)

const maxMergedSkills = 5

// Merge overlays the structured profile on r. Identity fields from the
// profile replace the model's guesses, derived metrics are attached and the
// seniority is recomputed from the merged years. Fallback profiles only
// record their provenance.
func Merge(r EvaluationResult, p *profile.CandidateProfile) EvaluationResult {
	if p == nil {
		return r
	}
	r.ExtractionQuality = string(p.Quality)
	if p.IsFallback() {
		r.ExtractionMethod = MethodRegexBasic
		return r
	}

	r.ExtractionMethod = MethodRegexBasic
	if p.Quality == profile.QualityAIComplete {
		r.ExtractionMethod = MethodAIAdvanced
	}

	if s := p.Personal; s != nil {
		r.CandidateName = pick(s.FullName, r.CandidateName)
		r.CandidateEmail = pick(s.Email, r.CandidateEmail)
		r.CandidatePhone = pick(s.Phone, r.CandidatePhone)
		r.CandidateLinkedIn = pick(s.LinkedIn, r.CandidateLinkedIn)
		r.CandidateGitHub = pick(s.GitHub, r.CandidateGitHub)
		r.CandidateAddress = pick(s.Address, r.CandidateAddress)
	}

	if years := p.TotalYears(); years > 0 {
		r.ExperienceYears = &years
	}

	if skills := mergedSkills(p.Skills); len(skills) > 0 {
		r.TopSkills = skills
	}

	r.CompletenessScore = p.Metrics.CompletenessScore
	r.Specialties = cloneStrings(p.Metrics.Specialties)
	r.ProfileStrengths = cloneStrings(p.Metrics.Strengths)
	r.ProfileGaps = cloneStrings(p.Metrics.Gaps)

	if r.ExperienceYears != nil {
		r.Seniority = profile.Seniority(*r.ExperienceYears)
	}

	r.Profile = p
	return r
}

func pick(candidate, current string) string {
	if profile.Identified(candidate) {
		return candidate
	}
	return current
}

func mergedSkills(s *profile.Skills) []string {
	if s == nil {
		return nil
	}
	var out []string
	out = append(out, firstN(s.Languages, 3)...)
	out = append(out, firstN(s.Frameworks, 2)...)
	out = append(out, firstN(s.Specializations, 2)...)
	return firstN(out, maxMergedSkills)
}
