package ml

import (
	"fmt"
)

// Estimator turns an ordered feature vector into P(positive class).
type Estimator interface {
	PositiveProbability(x []float64) (float64, error)
	// Variant names the inference path chosen at load time.
	Variant() string
	// PositiveClassFallback reports whether the positive label was missing from
	// the model's classes and a fixed column is used instead.
	PositiveClassFallback() bool
}

const (
	VariantProbability = "predict_proba"
	VariantSigmoid     = "decision_function+sigmoid"

	// fallbackPositiveColumn is used when the model does not report label 1.
	// For a model with differently labelled or ordered classes this column may
	// not be the positive class at all.
	fallbackPositiveColumn = 1
)

// NewEstimator picks the inference path once: native probabilities when the
// model provides them, otherwise the sigmoid of its decision score.
func NewEstimator(m Model) (Estimator, error) {
	if p, ok := m.(ProbabilityProvider); ok {
		column, fallback := positiveColumn(p.Classes())
		return &probabilityEstimator{model: p, column: column, fallback: fallback}, nil
	}
	if s, ok := m.(ScoreProvider); ok {
		return &sigmoidEstimator{model: s}, nil
	}
	return nil, fmt.Errorf("%w: %s exposes neither probabilities nor a decision score", ErrUnsupportedModel, m.Type())
}

func positiveColumn(classes []int) (int, bool) {
	for i, c := range classes {
		if c == PositiveLabel {
			return i, false
		}
	}
	return fallbackPositiveColumn, true
}

type probabilityEstimator struct {
	model    ProbabilityProvider
	column   int
	fallback bool
}

func (e *probabilityEstimator) PositiveProbability(x []float64) (float64, error) {
	proba, err := e.model.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if e.column >= len(proba) {
		return 0, fmt.Errorf("%w: probability column %d out of range (%d columns)", ErrFeatureMismatch, e.column, len(proba))
	}
	return proba[e.column], nil
}

func (e *probabilityEstimator) Variant() string             { return VariantProbability }
func (e *probabilityEstimator) PositiveClassFallback() bool { return e.fallback }

type sigmoidEstimator struct {
	model ScoreProvider
}

func (e *sigmoidEstimator) PositiveProbability(x []float64) (float64, error) {
	score, err := e.model.DecisionFunction(x)
	if err != nil {
		return 0, err
	}
	return Sigmoid(score), nil
}

func (e *sigmoidEstimator) Variant() string             { return VariantSigmoid }
func (e *sigmoidEstimator) PositiveClassFallback() bool { return false }
