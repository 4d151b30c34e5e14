package ml

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedModel = errors.New("unsupported model type")
	ErrInvalidBundle    = errors.New("invalid model bundle")
	ErrFeatureMismatch  = errors.New("feature vector does not match model")
)

// Class labels as encoded by the training data.
const (
	NegativeLabel = 0
	PositiveLabel = 1
)

// Model is a fitted classifier restored from an artifact.
type Model interface {
	Type() string
	NumFeatures() int
}

// ProbabilityProvider is a model that estimates class probabilities directly.
// The returned slice is indexed like Classes().
type ProbabilityProvider interface {
	Model
	PredictProba(x []float64) ([]float64, error)
	Classes() []int
}

// ScoreProvider is a model that only exposes a raw decision score for the positive class.
type ScoreProvider interface {
	Model
	DecisionFunction(x []float64) (float64, error)
}

func checkWidth(m Model, x []float64) error {
	if len(x) != m.NumFeatures() {
		return fmt.Errorf("%w: got %d values, want %d", ErrFeatureMismatch, len(x), m.NumFeatures())
	}
	return nil
}
