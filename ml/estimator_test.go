package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zeroLogistic(classes []int, intercept float64) *LogisticRegression {
	return &LogisticRegression{
		linear:      linear{Coef: make([]float64, 6), Intercept: intercept},
		ClassLabels: classes,
	}
}

func TestEstimatorPicksPositiveColumn(t *testing.T) {
	x := make([]float64, 6)
	want := Sigmoid(1.2)

	// Label 1 first: the positive probability lives in column 0.
	estimator, err := NewEstimator(zeroLogistic([]int{1, 0}, 1.2))
	require.NoError(t, err)
	p, err := estimator.PositiveProbability(x)
	require.NoError(t, err)
	assert.InDelta(t, 1-want, p, 1e-12)
	assert.False(t, estimator.PositiveClassFallback())

	estimator, err = NewEstimator(zeroLogistic([]int{0, 1}, 1.2))
	require.NoError(t, err)
	p, err = estimator.PositiveProbability(x)
	require.NoError(t, err)
	assert.InDelta(t, want, p, 1e-12)
}

func TestEstimatorFallsBackWhenPositiveLabelMissing(t *testing.T) {
	estimator, err := NewEstimator(zeroLogistic([]int{2, 3}, -0.7))
	require.NoError(t, err)
	assert.True(t, estimator.PositiveClassFallback())

	p, err := estimator.PositiveProbability(make([]float64, 6))
	require.NoError(t, err)
	assert.InDelta(t, Sigmoid(-0.7), p, 1e-12)
}

func TestEstimatorSigmoidVariant(t *testing.T) {
	svm := &LinearSVM{linear: linear{Coef: []float64{1, 0, 0, 0, 0, 0}, Intercept: -2}}
	estimator, err := NewEstimator(svm)
	require.NoError(t, err)
	assert.Equal(t, VariantSigmoid, estimator.Variant())

	for _, age := range []float64{-50, -2, 0, 2, 3.5, 40} {
		x := []float64{age, 0, 0, 0, 0, 0}
		p, err := estimator.PositiveProbability(x)
		require.NoError(t, err)
		assert.InDelta(t, 1/(1+math.Exp(-(age-2))), p, 1e-12)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestEstimatorRejectsWrongWidth(t *testing.T) {
	estimator, err := NewEstimator(zeroLogistic([]int{0, 1}, 0))
	require.NoError(t, err)
	_, err = estimator.PositiveProbability([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

type bareModel struct{}

func (bareModel) Type() string     { return "bare" }
func (bareModel) NumFeatures() int { return 6 }

func TestNewEstimatorUnsupported(t *testing.T) {
	_, err := NewEstimator(bareModel{})
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}

func TestProbabilitiesAreComplementary(t *testing.T) {
	bundle, err := LoadBundle(bundledModelPath)
	require.NoError(t, err)
	estimator, err := NewEstimator(bundle.Model)
	require.NoError(t, err)

	for _, f := range Fields {
		for _, v := range []float64{f.Min, f.Default, f.Max} {
			in := DefaultInputs()
			require.NoError(t, in.Set(f.Name, v))
			vec, err := in.Vector(bundle.Features)
			require.NoError(t, err)
			p, err := estimator.PositiveProbability(vec)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, p+(1-p), 1e-12)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}
}
