package match

import (
	"math"
	"sort"
	"strings"

	"resume-matcher/internal/features"
)

// Factor weights of the placement-probability model.
const (
	weightSkills       = 0.4
	weightExperience   = 0.3
	weightEducation    = 0.2
	weightCompleteness = 0.1
)

// MatchResult is one company's placement-probability score with its factor
// breakdown. Transient, produced per request.
type MatchResult struct {
	Company             string  `json:"company"`
	Probability         float64 `json:"probability"`
	Factors             Factors `json:"factors"`
	RequiredExperience  float64 `json:"required_experience"`
	CandidateExperience float64 `json:"candidate_experience"`
	Confidence          string  `json:"confidence"`
	Message             string  `json:"message,omitempty"`
}

// Factors breaks the probability into its weighted components, each 0-100.
type Factors struct {
	SkillsMatch     float64 `json:"skills_match"`
	ExperienceMatch float64 `json:"experience_match"`
	EducationMatch  float64 `json:"education_match"`
	Completeness    float64 `json:"completeness"`
}

// Matcher scores candidate feature records against loaded company profiles.
type Matcher struct {
	Profiles *Profiles
}

// NewMatcher wraps a loaded profile set.
func NewMatcher(profiles *Profiles) *Matcher {
	if profiles == nil {
		profiles = NewProfiles(nil)
	}
	return &Matcher{Profiles: profiles}
}

// Score computes the weighted multi-factor placement probability of the
// candidate at one company. An unknown company yields a zero-probability
// result with an explanatory message, not an error.
func (m *Matcher) Score(rec features.Record, companyName string) MatchResult {
	profile, ok := m.Profiles.Get(companyName)
	if !ok {
		return MatchResult{
			Company:     companyName,
			Probability: 0.0,
			Confidence:  "low",
			Message:     "Company profile not found",
		}
	}

	skillsScore := m.skillsMatch(rec, profile)

	// Ordered first-match-wins chain; the boundaries are inclusive and the
	// order is load-bearing, do not re-sort.
	candidateYears := rec.Experience.TotalYears
	required := profile.AvgExperienceRequired
	var experienceScore float64
	switch {
	case candidateYears >= required:
		experienceScore = 1.0
	case candidateYears >= required*0.7:
		experienceScore = 0.8
	case candidateYears >= required*0.5:
		experienceScore = 0.6
	default:
		experienceScore = 0.3
	}

	educationScore := math.Min(float64(rec.Education.HighestLevel)/5.0, 1.0)

	completenessScore := math.Min(
		float64(rec.SkillCount())/10*0.5+math.Min(float64(rec.TextLength)/2000, 1.0)*0.5,
		1.0,
	)

	final := skillsScore*weightSkills +
		experienceScore*weightExperience +
		educationScore*weightEducation +
		completenessScore*weightCompleteness

	probability := round1(final * 100)

	return MatchResult{
		Company:     profile.CompanyName,
		Probability: probability,
		Factors: Factors{
			SkillsMatch:     round1(skillsScore * 100),
			ExperienceMatch: round1(experienceScore * 100),
			EducationMatch:  round1(educationScore * 100),
			Completeness:    round1(completenessScore * 100),
		},
		RequiredExperience:  required,
		CandidateExperience: candidateYears,
		Confidence:          confidenceLabel(probability),
	}
}

// AllMatches scores every loaded company and ranks the results by descending
// probability. The sort is stable: ties keep profile iteration order.
func (m *Matcher) AllMatches(rec features.Record) []MatchResult {
	names := m.Profiles.Names()
	results := make([]MatchResult, 0, len(names))
	for _, name := range names {
		results = append(results, m.Score(rec, name))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Probability > results[j].Probability
	})
	return results
}

// skillsMatch measures textual similarity between a pseudo-document built
// from the candidate's skills and position snippets and the company's
// concatenated description text. Any failure of the similarity computation
// maps to 0.0; scoring never raises.
func (m *Matcher) skillsMatch(rec features.Record, profile CompanyProfile) float64 {
	var parts []string
	parts = append(parts, rec.Skills...)
	parts = append(parts, rec.Experience.Positions...)
	candidateText := strings.TrimSpace(strings.Join(parts, " "))

	if candidateText == "" || profile.DescriptionText == "" {
		return 0.0
	}

	similarity, err := CosineSimilarity(candidateText, profile.DescriptionText)
	if err != nil {
		return 0.0
	}
	return similarity
}

func confidenceLabel(probability float64) string {
	switch {
	case probability > 70:
		return "high"
	case probability > 40:
		return "medium"
	default:
		return "low"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
