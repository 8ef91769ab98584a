package mlmodel

import (
	"math"
	"sort"
	"strings"
	"time"

	"resume-matcher/internal/features"
	"resume-matcher/internal/shared/metrics"
)

// featureVectorSize is the dimensionality both trained models expect.
const featureVectorSize = 7

// Engine serves predictions from the loaded artifacts. All state is
// read-only after construction, so one Engine is shared by every request.
type Engine struct {
	artifacts *Artifacts
	sink      metrics.Sink
}

// NewEngine wraps loaded artifacts with a metrics sink. A nil sink is
// replaced with the no-op sink.
func NewEngine(artifacts *Artifacts, sink metrics.Sink) *Engine {
	if artifacts == nil {
		artifacts = &Artifacts{}
	}
	if sink == nil {
		sink = metrics.Noop{}
	}
	return &Engine{artifacts: artifacts, sink: sink}
}

// Loaded reports how many artifacts are available.
func (e *Engine) Loaded() int { return e.artifacts.Loaded() }

// HasPlacementModel reports whether the placement regressor is loaded.
func (e *Engine) HasPlacementModel() bool { return e.artifacts.regressor != nil }

// QualityPrediction is the classifier output for one resume.
type QualityPrediction struct {
	Quality       string             `json:"quality"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// QualityVector builds the 7-dimensional classifier input from a feature
// record and the raw text.
func QualityVector(rec features.Record, text string) []float64 {
	lower := strings.ToLower(text)
	hasProjects := 0.0
	if strings.Contains(lower, "project") {
		hasProjects = 1
	}
	hasCertifications := 0.0
	if strings.Contains(lower, "certification") || strings.Contains(lower, "certified") {
		hasCertifications = 1
	}
	return []float64{
		float64(rec.SkillCount()),
		rec.Experience.TotalYears,
		float64(rec.Education.HighestLevel),
		float64(rec.WordCount),
		float64(rec.TextLength),
		hasProjects,
		hasCertifications,
	}
}

// PlacementVector builds the regressor input: the quality vector with the
// word count scaled down and the company's required experience in slot four.
func PlacementVector(rec features.Record, text string, requiredExperience float64) []float64 {
	vec := QualityVector(rec, text)
	return []float64{
		vec[0],
		vec[1],
		vec[2],
		vec[3] / 1000,
		requiredExperience,
		vec[5],
		vec[6],
	}
}

// PredictQuality classifies resume quality from the feature vector. Without
// a loaded classifier or encoder it returns the neutral "Unknown" result.
func (e *Engine) PredictQuality(vec []float64) QualityPrediction {
	start := time.Now()

	clf := e.artifacts.classifier
	enc := e.artifacts.encoder
	if clf == nil || enc == nil || len(vec) != featureVectorSize {
		return QualityPrediction{Quality: "Unknown", Confidence: 0.0}
	}

	probs := make([]float64, clf.NumClasses)
	for i := range clf.Trees {
		leaf := clf.Trees[i].evaluate(vec)
		if len(leaf) != clf.NumClasses {
			continue
		}
		total := 0.0
		for _, v := range leaf {
			total += v
		}
		if total == 0 {
			continue
		}
		for c, v := range leaf {
			probs[c] += v / total
		}
	}

	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	if sum == 0 {
		return QualityPrediction{Quality: "Unknown", Confidence: 0.0}
	}
	for c := range probs {
		probs[c] /= sum
	}

	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}

	out := QualityPrediction{
		Confidence:    probs[best],
		Probabilities: make(map[string]float64, len(probs)),
	}
	if best < len(enc.Classes) {
		out.Quality = enc.Classes[best]
	} else {
		out.Quality = "Unknown"
	}
	for c, p := range probs {
		if c < len(enc.Classes) {
			out.Probabilities[enc.Classes[c]] = p
		}
	}

	e.sink.TrackPrediction("resume_classifier", out.Confidence, time.Since(start))
	return out
}

// PredictPlacement predicts a placement probability in [0,100]; out-of-range
// regressor output is clamped. Without a loaded regressor it returns 0.
func (e *Engine) PredictPlacement(vec []float64) float64 {
	start := time.Now()

	reg := e.artifacts.regressor
	if reg == nil || len(vec) != featureVectorSize {
		return 0.0
	}

	pred := reg.BaseScore
	lr := reg.LearningRate
	if lr == 0 {
		lr = 1
	}
	for i := range reg.Trees {
		leaf := reg.Trees[i].evaluate(vec)
		if len(leaf) == 0 {
			continue
		}
		pred += lr * leaf[0]
	}

	pred = math.Max(0, math.Min(100, pred))
	e.sink.TrackPrediction("placement_predictor", pred/100, time.Since(start))
	return pred
}

// RecommendSkills suggests up to topN skills by summing co-occurrence scores
// of the candidate's current skills, zeroing out skills already held. Ties
// keep the lower matrix index, so output is stable across runs.
func (e *Engine) RecommendSkills(current []string, topN int) []string {
	rec := e.artifacts.recommender
	if rec == nil || topN <= 0 {
		return nil
	}

	held := make(map[int]bool)
	for _, skill := range current {
		lower := strings.ToLower(skill)
		for i, s := range rec.Skills {
			if strings.ToLower(s) == lower {
				held[i] = true
				break
			}
		}
	}
	if len(held) == 0 {
		return nil
	}

	scores := make([]float64, len(rec.Skills))
	for idx := range held {
		for i, v := range rec.Matrix[idx] {
			scores[i] += v
		}
	}
	for idx := range held {
		scores[idx] = 0
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	var out []string
	for _, idx := range order {
		if len(out) == topN {
			break
		}
		if scores[idx] <= 0 {
			break
		}
		out = append(out, rec.Skills[idx])
	}
	return out
}
