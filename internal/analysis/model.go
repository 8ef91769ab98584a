package analysis

import (
	"resume-matcher/internal/match"
	"resume-matcher/internal/mlmodel"
	"resume-matcher/internal/recommend"
	"resume-matcher/internal/validate"
)

// Report is the full response for one analyzed resume. Sections past the
// validation block are present only when the document passed the gate.
type Report struct {
	FileName        string                       `json:"filename,omitempty"`
	Validation      validate.Result              `json:"validation"`
	Features        *FeatureSummary              `json:"features,omitempty"`
	CompanyMatches  []match.MatchResult          `json:"company_matches,omitempty"`
	TopCompanies    []string                     `json:"top_3_companies,omitempty"`
	Recommendations *recommend.RecommendationSet `json:"recommendations,omitempty"`
	MLInsights      *MLInsights                  `json:"ml_insights,omitempty"`
}

// FeatureSummary condenses the extracted record for the API response.
type FeatureSummary struct {
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years"`
	EducationLevel  int      `json:"education_level"`
	WordCount       int      `json:"word_count"`
}

// MLInsights carries the optional trained-model outputs. Fields stay empty
// when the corresponding artifact is not loaded.
type MLInsights struct {
	Quality         *mlmodel.QualityPrediction `json:"quality,omitempty"`
	PlacementScore  *float64                   `json:"placement_score,omitempty"`
	SuggestedSkills []string                   `json:"suggested_skills,omitempty"`
}

// Valid reports whether the analyzed document passed the resume gate.
func (r Report) Valid() bool { return r.Validation.IsValid }
