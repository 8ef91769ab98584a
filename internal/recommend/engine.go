package recommend

import (
	"fmt"
	"math"
	"strings"

	"resume-matcher/internal/features"
	"resume-matcher/internal/match"
)

const (
	maxMissingSkills      = 10
	maxFormatSuggestions  = 5
	skillStrengthFloor    = 10
	expStrengthFloorYears = 3
	eduStrengthFloor      = 4
)

// RecommendationSet is the full improvement report for one resume. Derived
// fresh per request and discarded with the response.
type RecommendationSet struct {
	OverallScore      float64       `json:"overall_score"`
	Strengths         []string      `json:"strengths"`
	Improvements      []Improvement `json:"improvements"`
	MissingSkills     []string      `json:"missing_skills"`
	FormatSuggestions []string      `json:"format_suggestions"`
}

// Improvement is one prioritized improvement item.
type Improvement struct {
	Area       string `json:"area"`
	Suggestion string `json:"suggestion"`
	Impact     string `json:"impact"`
	Priority   int    `json:"priority"`
}

// skillCatalog drives missing-skill suggestions. Categories are iterated in
// this fixed order so output is reproducible run to run.
var skillCatalog = []struct {
	category string
	skills   []string
}{
	{"languages", []string{"Python", "Java", "JavaScript", "C++", "Go", "TypeScript"}},
	{"frameworks", []string{"React", "Django", "FastAPI", "Node.js", "Spring Boot"}},
	{"cloud", []string{"AWS", "Azure", "GCP", "Docker", "Kubernetes"}},
	{"databases", []string{"SQL", "PostgreSQL", "MongoDB", "Redis"}},
	{"tools", []string{"Git", "CI/CD", "Jira", "Jenkins"}},
}

var generalFormatTips = []string{
	"Use action verbs (developed, implemented, led) to describe accomplishments",
	"Quantify achievements with metrics (e.g., 'Improved performance by 30%')",
	"Keep formatting consistent throughout the document",
	"Ensure contact information is clearly visible at the top",
}

// Analyze produces the quality score, strengths, prioritized improvements,
// missing-skill suggestions and formatting tips for a resume, given its
// feature record and the ranked company matches.
func Analyze(rec features.Record, companyMatches []match.MatchResult) RecommendationSet {
	skillCount := rec.SkillCount()
	experienceYears := rec.Experience.TotalYears
	educationLevel := rec.Education.HighestLevel
	wordCount := rec.WordCount

	// Four independently capped components summing to at most 100.
	overall := math.Min(
		float64(skillCount)/15*30+
			math.Min(experienceYears/5, 1.0)*30+
			float64(educationLevel)/5*20+
			math.Min(float64(wordCount)/800, 1.0)*20,
		100,
	)

	out := RecommendationSet{
		OverallScore: math.Round(overall*10) / 10,
	}

	// Strengths are independent conditions, not mutually exclusive.
	if skillCount >= skillStrengthFloor {
		out.Strengths = append(out.Strengths,
			fmt.Sprintf("Strong technical skill set with %d identified skills", skillCount))
	}
	if experienceYears >= expStrengthFloorYears {
		out.Strengths = append(out.Strengths,
			fmt.Sprintf("Solid work experience of %v years", experienceYears))
	}
	if educationLevel >= eduStrengthFloor {
		out.Strengths = append(out.Strengths, "Advanced education qualification")
	}

	// Fixed check order; insertion order is the display order, the list is
	// intentionally never re-sorted by priority.
	if skillCount < 8 {
		out.Improvements = append(out.Improvements, Improvement{
			Area:       "Technical Skills",
			Suggestion: "Add more technical skills relevant to your target role",
			Impact:     "High",
			Priority:   1,
		})
	}
	if experienceYears < 2 {
		out.Improvements = append(out.Improvements, Improvement{
			Area:       "Experience",
			Suggestion: "Highlight internships, projects, or freelance work to demonstrate practical experience",
			Impact:     "High",
			Priority:   1,
		})
	}
	if wordCount < 500 {
		out.Improvements = append(out.Improvements, Improvement{
			Area:       "Resume Length",
			Suggestion: "Expand your resume with more details about achievements and responsibilities",
			Impact:     "Medium",
			Priority:   2,
		})
	}

	if len(companyMatches) > 0 {
		out.MissingSkills = missingSkills(rec.Skills)
	}

	if skillCount == 0 {
		out.FormatSuggestions = append(out.FormatSuggestions,
			"Add a dedicated 'Skills' section to highlight your technical expertise")
	}
	if experienceYears == 0 {
		out.FormatSuggestions = append(out.FormatSuggestions,
			"Include an 'Experience' section with relevant projects, internships, or volunteer work")
	}
	out.FormatSuggestions = append(out.FormatSuggestions, generalFormatTips...)
	if len(out.FormatSuggestions) > maxFormatSuggestions {
		out.FormatSuggestions = out.FormatSuggestions[:maxFormatSuggestions]
	}

	return out
}

// missingSkills suggests catalog skills the candidate does not already hold,
// compared case-insensitively, capped at maxMissingSkills.
func missingSkills(current []string) []string {
	held := make(map[string]bool, len(current))
	for _, s := range current {
		held[strings.ToLower(s)] = true
	}

	var suggested []string
	for _, group := range skillCatalog {
		for _, skill := range group.skills {
			if held[strings.ToLower(skill)] {
				continue
			}
			suggested = append(suggested, skill)
			if len(suggested) == maxMissingSkills {
				return suggested
			}
		}
	}
	return suggested
}
