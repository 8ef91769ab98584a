package metrics

import (
	"math"
	"sync"
	"time"
)

// Sink receives fire-and-forget telemetry events from the pipeline. It is
// injected rather than referenced as a package singleton so tests can pass a
// Noop sink.
type Sink interface {
	TrackRequest(endpoint string, duration time.Duration, status string, details map[string]any)
	TrackValidation(isValid bool, confidence float64)
	TrackPrediction(model string, confidence float64, duration time.Duration)
	TrackMatching(companies int, avgScore float64, duration time.Duration)
}

// Stats is the aggregated snapshot retrievable at runtime.
type Stats struct {
	TotalRequests      int                        `json:"total_requests"`
	SuccessfulRequests int                        `json:"successful_requests"`
	ErrorCount         int                        `json:"error_count"`
	SuccessRate        float64                    `json:"success_rate"`
	ValidationStats    ValidationStats            `json:"validation_stats"`
	ProcessingTimes    map[string]EndpointTimings `json:"avg_processing_times"`
	ModelPerformance   map[string]ModelStats      `json:"model_performance"`
}

// ValidationStats counts validator outcomes.
type ValidationStats struct {
	ValidResumes     int     `json:"valid_resumes"`
	InvalidResumes   int     `json:"invalid_resumes"`
	TotalValidations int     `json:"total_validations"`
	AvgConfidence    float64 `json:"avg_confidence"`
}

// EndpointTimings is the percentile-free per-endpoint latency summary.
type EndpointTimings struct {
	AvgMs float64 `json:"avg_ms"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	Count int     `json:"count"`
}

// ModelStats summarizes learned-model predictions.
type ModelStats struct {
	TotalPredictions int     `json:"total_predictions"`
	AvgConfidence    float64 `json:"avg_confidence"`
	AvgTimeMs        float64 `json:"avg_time_ms"`
}

type endpointAgg struct {
	sumMs float64
	minMs float64
	maxMs float64
	count int
}

type modelAgg struct {
	sumConfidence float64
	sumMs         float64
	count         int
}

type matchingAgg struct {
	runs      int
	companies int
	sumScore  float64
}

// Tracker is a mutex-guarded Sink accumulating running counters. Contention
// is low (one update batch per request), so a single lock is enough.
type Tracker struct {
	mu sync.Mutex

	totalRequests      int
	successfulRequests int
	errorCount         int

	validResumes  int
	invalid       int
	sumConfidence float64

	endpoints map[string]*endpointAgg
	models    map[string]*modelAgg
	matching  matchingAgg
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		endpoints: make(map[string]*endpointAgg),
		models:    make(map[string]*modelAgg),
	}
}

// TrackRequest records one request outcome; details are accepted for parity
// with the event shape but only the counters are aggregated.
func (t *Tracker) TrackRequest(endpoint string, duration time.Duration, status string, details map[string]any) {
	ms := float64(duration.Microseconds()) / 1000.0

	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalRequests++
	switch status {
	case "success":
		t.successfulRequests++
	case "error":
		t.errorCount++
	}

	agg, ok := t.endpoints[endpoint]
	if !ok {
		agg = &endpointAgg{minMs: ms, maxMs: ms}
		t.endpoints[endpoint] = agg
	}
	agg.count++
	agg.sumMs += ms
	if ms < agg.minMs {
		agg.minMs = ms
	}
	if ms > agg.maxMs {
		agg.maxMs = ms
	}
	_ = details
}

// TrackValidation records one validator outcome.
func (t *Tracker) TrackValidation(isValid bool, confidence float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if isValid {
		t.validResumes++
	} else {
		t.invalid++
	}
	t.sumConfidence += confidence
}

// TrackPrediction records one learned-model prediction.
func (t *Tracker) TrackPrediction(model string, confidence float64, duration time.Duration) {
	ms := float64(duration.Microseconds()) / 1000.0

	t.mu.Lock()
	defer t.mu.Unlock()
	agg, ok := t.models[model]
	if !ok {
		agg = &modelAgg{}
		t.models[model] = agg
	}
	agg.count++
	agg.sumConfidence += confidence
	agg.sumMs += ms
}

// TrackMatching records one company-matching pass.
func (t *Tracker) TrackMatching(companies int, avgScore float64, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.matching.runs++
	t.matching.companies += companies
	t.matching.sumScore += avgScore
	_ = duration
}

// Snapshot returns the aggregated statistics at this instant.
func (t *Tracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := Stats{
		TotalRequests:      t.totalRequests,
		SuccessfulRequests: t.successfulRequests,
		ErrorCount:         t.errorCount,
		ProcessingTimes:    make(map[string]EndpointTimings, len(t.endpoints)),
		ModelPerformance:   make(map[string]ModelStats, len(t.models)),
	}

	total := t.totalRequests
	if total == 0 {
		total = 1
	}
	stats.SuccessRate = round2(float64(t.successfulRequests) / float64(total) * 100)

	validations := t.validResumes + t.invalid
	stats.ValidationStats = ValidationStats{
		ValidResumes:     t.validResumes,
		InvalidResumes:   t.invalid,
		TotalValidations: validations,
	}
	if validations > 0 {
		stats.ValidationStats.AvgConfidence = round2(t.sumConfidence / float64(validations))
	}

	for endpoint, agg := range t.endpoints {
		stats.ProcessingTimes[endpoint] = EndpointTimings{
			AvgMs: round2(agg.sumMs / float64(agg.count)),
			MinMs: round2(agg.minMs),
			MaxMs: round2(agg.maxMs),
			Count: agg.count,
		}
	}
	for model, agg := range t.models {
		stats.ModelPerformance[model] = ModelStats{
			TotalPredictions: agg.count,
			AvgConfidence:    round2(agg.sumConfidence / float64(agg.count)),
			AvgTimeMs:        round2(agg.sumMs / float64(agg.count)),
		}
	}
	return stats
}

// Noop discards every event; used in tests and when telemetry is disabled.
type Noop struct{}

func (Noop) TrackRequest(string, time.Duration, string, map[string]any) {}
func (Noop) TrackValidation(bool, float64)                             {}
func (Noop) TrackPrediction(string, float64, time.Duration)            {}
func (Noop) TrackMatching(int, float64, time.Duration)                 {}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
