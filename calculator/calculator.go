// Package calculator ties the loaded model, its feature order and the
// decision threshold into a single read-only prediction service.
package calculator

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"hfcalc/config"
	"hfcalc/ml"
)

// Result is one scored submission. It is never stored.
type Result struct {
	Inputs    ml.Inputs `json:"inputs"`
	Features  []string  `json:"features"`
	Vector    []float64 `json:"vector"`
	PPositive float64   `json:"p_positive"`
	PNegative float64   `json:"p_negative"`
	Label     string    `json:"label"`
	Threshold float64   `json:"threshold"`
}

func (r *Result) IsPositive() bool {
	return r.Label == ml.PositiveClassName
}

// ModelInfo summarizes what was loaded at startup.
type ModelInfo struct {
	Type                  string   `json:"type"`
	Variant               string   `json:"variant"`
	Features              []string `json:"features"`
	Classes               []int    `json:"classes,omitempty"`
	PositiveClassFallback bool     `json:"positive_class_fallback"`
	Threshold             float64  `json:"threshold"`
	PositiveClass         string   `json:"positive_class"`
	NegativeClass         string   `json:"negative_class"`
}

type Options struct {
	ModelPath  string
	ConfigPath string
	CacheSize  int
}

// Calculator is safe for concurrent use: everything it holds is written once
// in New and only read afterwards. The cache is internally synchronized.
type Calculator struct {
	bundle    *ml.Bundle
	estimator ml.Estimator
	threshold float64
	cache     *lru.Cache[ml.Inputs, float64]
	logger    *zap.Logger
}

// Load reads the model artifact (fatal on failure) and the threshold config
// (default on failure).
func Load(opts Options, logger *zap.Logger) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bundle, err := ml.LoadBundle(opts.ModelPath)
	if err != nil {
		return nil, err
	}
	threshold := config.LoadThreshold(opts.ConfigPath, func(err error) {
		logger.Debug("threshold config unavailable, using default",
			zap.String("path", opts.ConfigPath),
			zap.Float64("threshold", config.DefaultThreshold),
			zap.Error(err))
	})
	return New(bundle, threshold, opts.CacheSize, logger)
}

func New(bundle *ml.Bundle, threshold float64, cacheSize int, logger *zap.Logger) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	estimator, err := ml.NewEstimator(bundle.Model)
	if err != nil {
		return nil, err
	}
	if estimator.PositiveClassFallback() {
		logger.Warn("positive class label missing from model classes; using fixed probability column",
			zap.Int("label", ml.PositiveLabel))
	}

	c := &Calculator{
		bundle:    bundle,
		estimator: estimator,
		threshold: threshold,
		logger:    logger,
	}
	if cacheSize > 0 {
		c.cache, err = lru.New[ml.Inputs, float64](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("prediction cache: %w", err)
		}
	}

	logger.Info("model loaded",
		zap.String("type", bundle.Model.Type()),
		zap.String("variant", estimator.Variant()),
		zap.Strings("features", bundle.Features),
		zap.Float64("threshold", threshold))
	return c, nil
}

func (c *Calculator) Threshold() float64 { return c.threshold }

func (c *Calculator) Info() ModelInfo {
	info := ModelInfo{
		Type:                  c.bundle.Model.Type(),
		Variant:               c.estimator.Variant(),
		Features:              append([]string(nil), c.bundle.Features...),
		PositiveClassFallback: c.estimator.PositiveClassFallback(),
		Threshold:             c.threshold,
		PositiveClass:         ml.PositiveClassName,
		NegativeClass:         ml.NegativeClassName,
	}
	if p, ok := c.bundle.Model.(ml.ProbabilityProvider); ok {
		info.Classes = append([]int(nil), p.Classes()...)
	}
	return info
}

// Predict scores one submission. Inputs are used as given; range clamping
// belongs to whoever collected them.
func (c *Calculator) Predict(ctx context.Context, in ml.Inputs) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec, err := in.Vector(c.bundle.Features)
	if err != nil {
		return nil, err
	}

	p, cached := c.lookup(in)
	if !cached {
		p, err = c.estimator.PositiveProbability(vec)
		if err != nil {
			return nil, fmt.Errorf("inference: %w", err)
		}
		if c.cache != nil {
			c.cache.Add(in, p)
		}
	}

	return &Result{
		Inputs:    in,
		Features:  append([]string(nil), c.bundle.Features...),
		Vector:    vec,
		PPositive: p,
		PNegative: 1.0 - p,
		Label:     ml.Decide(p, c.threshold),
		Threshold: c.threshold,
	}, nil
}

func (c *Calculator) lookup(in ml.Inputs) (float64, bool) {
	if c.cache == nil {
		return 0, false
	}
	return c.cache.Get(in)
}
