package ml

import (
	"fmt"
	"math"
)

// StandardScaler mirrors the (x - mean) / scale step fitted in front of a linear model.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) validate(width int) error {
	if len(s.Mean) != width || len(s.Scale) != width {
		return fmt.Errorf("%w: scaler has %d means and %d scales for %d features",
			ErrInvalidBundle, len(s.Mean), len(s.Scale), width)
	}
	for i, v := range s.Scale {
		if v == 0 {
			return fmt.Errorf("%w: scaler scale[%d] is zero", ErrInvalidBundle, i)
		}
	}
	return nil
}

func (s *StandardScaler) transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out
}

// linear holds the weights shared by logistic regression and linear SVM.
type linear struct {
	Coef      []float64       `json:"coef"`
	Intercept float64         `json:"intercept"`
	Scaler    *StandardScaler `json:"scaler,omitempty"`
}

func (l *linear) validate() error {
	if len(l.Coef) == 0 {
		return fmt.Errorf("%w: empty coefficient vector", ErrInvalidBundle)
	}
	if l.Scaler != nil {
		return l.Scaler.validate(len(l.Coef))
	}
	return nil
}

func (l *linear) score(x []float64) float64 {
	if l.Scaler != nil {
		x = l.Scaler.transform(x)
	}
	z := l.Intercept
	for i, c := range l.Coef {
		z += c * x[i]
	}
	return z
}

// Sigmoid maps a raw decision score onto (0, 1).
func Sigmoid(score float64) float64 {
	return 1.0 / (1.0 + math.Exp(-score))
}

// LogisticRegression is a binary logistic model. It exposes both class
// probabilities and the raw decision score.
type LogisticRegression struct {
	linear
	ClassLabels []int `json:"classes"`
}

func (m *LogisticRegression) Type() string     { return "logistic_regression" }
func (m *LogisticRegression) NumFeatures() int { return len(m.Coef) }
func (m *LogisticRegression) Classes() []int   { return m.ClassLabels }

func (m *LogisticRegression) DecisionFunction(x []float64) (float64, error) {
	if err := checkWidth(m, x); err != nil {
		return 0, err
	}
	return m.score(x), nil
}

// PredictProba returns [P(classes[0]), P(classes[1])]; the score is the log-odds of classes[1].
func (m *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	score, err := m.DecisionFunction(x)
	if err != nil {
		return nil, err
	}
	p := Sigmoid(score)
	return []float64{1 - p, p}, nil
}

func (m *LogisticRegression) validate() error {
	if err := m.linear.validate(); err != nil {
		return err
	}
	if len(m.ClassLabels) == 0 {
		m.ClassLabels = []int{NegativeLabel, PositiveLabel}
	}
	if len(m.ClassLabels) != 2 {
		return fmt.Errorf("%w: logistic regression needs 2 classes, got %d", ErrInvalidBundle, len(m.ClassLabels))
	}
	return nil
}

// LinearSVM only produces a signed margin; probabilities come from the sigmoid transform.
type LinearSVM struct {
	linear
}

func (m *LinearSVM) Type() string     { return "linear_svm" }
func (m *LinearSVM) NumFeatures() int { return len(m.Coef) }

func (m *LinearSVM) DecisionFunction(x []float64) (float64, error) {
	if err := checkWidth(m, x); err != nil {
		return 0, err
	}
	return m.score(x), nil
}

func (m *LinearSVM) validate() error {
	return m.linear.validate()
}
