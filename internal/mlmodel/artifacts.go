package mlmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"resume-matcher/internal/shared/telemetry"
)

// Artifact file names inside the model directory.
const (
	classifierFile  = "resume_classifier.json"
	encoderFile     = "label_encoder.json"
	regressorFile   = "placement_predictor.json"
	recommenderFile = "skill_recommender.json"
)

// tree is an array-coded decision tree: node i branches left when the
// feature value is <= Threshold[i]; Left[i] == -1 marks a leaf, whose
// Value[i] holds per-class counts (classifier) or a single regression value.
type tree struct {
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Left      []int       `json:"left"`
	Right     []int       `json:"right"`
	Value     [][]float64 `json:"value"`
}

// evaluate walks the tree for one feature vector and returns the leaf value.
func (t *tree) evaluate(vec []float64) []float64 {
	idx := 0
	for idx >= 0 && idx < len(t.Left) && t.Left[idx] != -1 {
		f := t.Feature[idx]
		var v float64
		if f >= 0 && f < len(vec) {
			v = vec[f]
		}
		if v <= t.Threshold[idx] {
			idx = t.Left[idx]
		} else {
			idx = t.Right[idx]
		}
	}
	if idx < 0 || idx >= len(t.Value) {
		return nil
	}
	return t.Value[idx]
}

func (t *tree) validate() error {
	n := len(t.Left)
	if len(t.Right) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return errors.New("tree arrays have mismatched lengths")
	}
	if n == 0 {
		return errors.New("tree is empty")
	}
	return nil
}

// forestClassifier is a bagged tree ensemble voting class distributions.
type forestClassifier struct {
	NumClasses int    `json:"num_classes"`
	Trees      []tree `json:"trees"`
}

// boostedRegressor sums learning-rate-weighted tree outputs onto a base
// score.
type boostedRegressor struct {
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []tree  `json:"trees"`
}

// labelEncoder decodes class indices back to labels.
type labelEncoder struct {
	Classes []string `json:"classes"`
}

// skillRecommender holds the symmetric skill co-occurrence matrix.
type skillRecommender struct {
	Skills []string    `json:"skills"`
	Matrix [][]float64 `json:"matrix"`
}

// Artifacts bundles the loaded model files. Any pointer may be nil when its
// file was absent or unreadable; prediction methods degrade to neutral
// results in that case.
type Artifacts struct {
	classifier  *forestClassifier
	encoder     *labelEncoder
	regressor   *boostedRegressor
	recommender *skillRecommender
}

// LoadArtifacts reads the four optional artifacts from dir. Missing or
// corrupt files are logged and skipped; startup never fails because of them.
func LoadArtifacts(dir string) *Artifacts {
	a := &Artifacts{}
	if dir == "" {
		return a
	}

	loadArtifact(filepath.Join(dir, classifierFile), &a.classifier, func(m *forestClassifier) error {
		if m.NumClasses <= 0 || len(m.Trees) == 0 {
			return errors.New("classifier has no trees or classes")
		}
		for i := range m.Trees {
			if err := m.Trees[i].validate(); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
		}
		return nil
	})
	loadArtifact(filepath.Join(dir, encoderFile), &a.encoder, func(m *labelEncoder) error {
		if len(m.Classes) == 0 {
			return errors.New("label encoder has no classes")
		}
		return nil
	})
	loadArtifact(filepath.Join(dir, regressorFile), &a.regressor, func(m *boostedRegressor) error {
		if len(m.Trees) == 0 {
			return errors.New("regressor has no trees")
		}
		for i := range m.Trees {
			if err := m.Trees[i].validate(); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
		}
		return nil
	})
	loadArtifact(filepath.Join(dir, recommenderFile), &a.recommender, func(m *skillRecommender) error {
		if len(m.Skills) == 0 || len(m.Matrix) != len(m.Skills) {
			return errors.New("recommender skills and matrix sizes disagree")
		}
		for i, row := range m.Matrix {
			if len(row) != len(m.Skills) {
				return fmt.Errorf("matrix row %d has length %d, want %d", i, len(row), len(m.Skills))
			}
		}
		return nil
	})

	return a
}

// loadArtifact decodes one JSON artifact into *out, leaving it nil on any
// failure so the prediction path degrades instead of aborting.
func loadArtifact[T any](path string, out **T, check func(*T) error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			telemetry.Error("mlmodel.artifact_read_failed", map[string]any{"path": path, "error": err.Error()})
		}
		return
	}
	var model T
	if err := json.Unmarshal(data, &model); err != nil {
		telemetry.Error("mlmodel.artifact_decode_failed", map[string]any{"path": path, "error": err.Error()})
		return
	}
	if err := check(&model); err != nil {
		telemetry.Error("mlmodel.artifact_invalid", map[string]any{"path": path, "error": err.Error()})
		return
	}
	*out = &model
	telemetry.Info("mlmodel.artifact_loaded", map[string]any{"path": path})
}

// Loaded reports how many of the four artifacts are usable.
func (a *Artifacts) Loaded() int {
	n := 0
	if a.classifier != nil {
		n++
	}
	if a.encoder != nil {
		n++
	}
	if a.regressor != nil {
		n++
	}
	if a.recommender != nil {
		n++
	}
	return n
}
