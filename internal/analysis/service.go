package analysis

import (
	"context"
	"time"

	"resume-matcher/internal/features"
	"resume-matcher/internal/match"
	"resume-matcher/internal/mlmodel"
	"resume-matcher/internal/recommend"
	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/validate"
)

const (
	maxCompanyMatches  = 10
	topCompanyCount    = 3
	suggestedSkillsCap = 5
)

// Service runs the analysis pipeline: validation gate, feature extraction,
// company matching, recommendations, then the optional trained-model pass.
type Service struct {
	profiles *match.Profiles
	matcher  *match.Matcher
	models   *mlmodel.Engine
	sink     metrics.Sink
}

// NewService wires the pipeline. models may be nil when no artifacts are
// available; a nil sink is replaced with the no-op sink.
func NewService(profiles *match.Profiles, models *mlmodel.Engine, sink metrics.Sink) *Service {
	if profiles == nil {
		profiles = match.NewProfiles(nil)
	}
	if sink == nil {
		sink = metrics.Noop{}
	}
	return &Service{
		profiles: profiles,
		matcher:  match.NewMatcher(profiles),
		models:   models,
		sink:     sink,
	}
}

// Profiles exposes the loaded company profiles.
func (s *Service) Profiles() *match.Profiles { return s.profiles }

// ModelsLoaded reports how many trained-model artifacts are available.
func (s *Service) ModelsLoaded() int {
	if s.models == nil {
		return 0
	}
	return s.models.Loaded()
}

// Analyze runs the full pipeline over extracted resume text. A document that
// fails the gate produces a report with only the validation section; that is
// a rejection, not an error.
func (s *Service) Analyze(ctx context.Context, text string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	validation := validate.Validate(text)
	s.sink.TrackValidation(validation.IsValid, validation.Confidence)
	if !validation.IsValid {
		return Report{Validation: validation}, nil
	}

	rec := features.Extract(text)

	matchStart := time.Now()
	matches := s.matcher.AllMatches(rec)
	s.sink.TrackMatching(len(matches), avgProbability(matches), time.Since(matchStart))

	recs := recommend.Analyze(rec, matches)

	report := Report{
		Validation: validation,
		Features: &FeatureSummary{
			Skills:          rec.Skills,
			ExperienceYears: rec.Experience.TotalYears,
			EducationLevel:  rec.Education.HighestLevel,
			WordCount:       rec.WordCount,
		},
		CompanyMatches:  limitMatches(matches, maxCompanyMatches),
		TopCompanies:    topCompanies(matches, topCompanyCount),
		Recommendations: &recs,
	}

	if insights := s.mlInsights(rec, text, matches); insights != nil {
		report.MLInsights = insights
	}
	return report, nil
}

// ValidateOnly runs the gate without the rest of the pipeline.
func (s *Service) ValidateOnly(text string) validate.Result {
	result := validate.Validate(text)
	s.sink.TrackValidation(result.IsValid, result.Confidence)
	return result
}

func (s *Service) mlInsights(rec features.Record, text string, matches []match.MatchResult) *MLInsights {
	if s.models == nil || s.models.Loaded() == 0 {
		return nil
	}

	insights := &MLInsights{}

	quality := s.models.PredictQuality(mlmodel.QualityVector(rec, text))
	if quality.Confidence > 0 {
		insights.Quality = &quality
	}

	if len(matches) > 0 && s.models.HasPlacementModel() {
		vec := mlmodel.PlacementVector(rec, text, matches[0].RequiredExperience)
		score := s.models.PredictPlacement(vec)
		insights.PlacementScore = &score
	}

	insights.SuggestedSkills = s.models.RecommendSkills(rec.Skills, suggestedSkillsCap)

	if insights.Quality == nil && insights.PlacementScore == nil && len(insights.SuggestedSkills) == 0 {
		return nil
	}
	return insights
}

func limitMatches(matches []match.MatchResult, limit int) []match.MatchResult {
	if len(matches) <= limit {
		return matches
	}
	return matches[:limit]
}

func topCompanies(matches []match.MatchResult, count int) []string {
	if count > len(matches) {
		count = len(matches)
	}
	names := make([]string, 0, count)
	for _, m := range matches[:count] {
		names = append(names, m.Company)
	}
	return names
}

func avgProbability(matches []match.MatchResult) float64 {
	if len(matches) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range matches {
		sum += m.Probability
	}
	return sum / float64(len(matches))
}
