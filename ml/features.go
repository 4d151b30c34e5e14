package ml

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrNotANumber = errors.New("must be a number")

const (
	FeatureAge  = "Age"
	FeatureAG   = "AG"
	FeatureCREA = "CREA"
	FeatureUA   = "UA"
	FeatureRDW  = "RDW"
	FeaturePDW  = "PDW"
)

// Inputs are the six lab values as collected from the user. The struct is
// comparable so it can key the prediction cache.
type Inputs struct {
	Age  float64 `json:"Age"`
	AG   float64 `json:"AG"`
	CREA float64 `json:"CREA"`
	UA   float64 `json:"UA"`
	RDW  float64 `json:"RDW"`
	PDW  float64 `json:"PDW"`
}

// FieldSpec describes one numeric input widget.
type FieldSpec struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Default  float64 `json:"default"`
	Step     float64 `json:"step"`
	Decimals int     `json:"decimals"`
}

// Label is the caption shown next to the widget, e.g. "AG (mmol/L)".
func (f FieldSpec) Label() string {
	return fmt.Sprintf("%s (%s)", f.Name, f.Unit)
}

// Clamp pins v into [Min, Max] the way a bounded number widget does.
func (f FieldSpec) Clamp(v float64) float64 {
	if v < f.Min {
		return f.Min
	}
	if v > f.Max {
		return f.Max
	}
	return v
}

// Check rejects NaN and infinite values, which no widget can produce.
func (f FieldSpec) Check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s %w", f.Label(), ErrNotANumber)
	}
	return nil
}

// Format renders v with the widget's display precision.
func (f FieldSpec) Format(v float64) string {
	return fmt.Sprintf("%.*f", f.Decimals, v)
}

// Fields lists the widgets in collection order.
var Fields = []FieldSpec{
	{Name: FeatureAge, Unit: "years", Min: 0, Max: 1000, Default: 70, Step: 1, Decimals: 0},
	{Name: FeatureAG, Unit: "mmol/L", Min: 0, Max: 2000, Default: 16, Step: 0.1, Decimals: 1},
	{Name: FeatureCREA, Unit: "µmol/L", Min: 0, Max: 500000, Default: 90, Step: 1, Decimals: 0},
	{Name: FeatureUA, Unit: "µmol/L", Min: 0, Max: 500000, Default: 350, Step: 1, Decimals: 0},
	{Name: FeatureRDW, Unit: "%", Min: 0, Max: 2000, Default: 13.5, Step: 0.1, Decimals: 1},
	{Name: FeaturePDW, Unit: "fL", Min: 0, Max: 2000, Default: 12.5, Step: 0.1, Decimals: 1},
}

func FeatureNames() []string {
	names := make([]string, len(Fields))
	for i, f := range Fields {
		names[i] = f.Name
	}
	return names
}

// LookupField finds a widget by feature name, ignoring case.
func LookupField(name string) (FieldSpec, bool) {
	for _, f := range Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func DefaultInputs() Inputs {
	var in Inputs
	for _, f := range Fields {
		in.set(f.Name, f.Default)
	}
	return in
}

// Clamped returns a copy with every value pinned to its widget range.
func (in Inputs) Clamped() Inputs {
	out := in
	for _, f := range Fields {
		v, _ := in.Get(f.Name)
		out.set(f.Name, f.Clamp(v))
	}
	return out
}

// Get returns the value for a feature name.
func (in Inputs) Get(name string) (float64, bool) {
	switch name {
	case FeatureAge:
		return in.Age, true
	case FeatureAG:
		return in.AG, true
	case FeatureCREA:
		return in.CREA, true
	case FeatureUA:
		return in.UA, true
	case FeatureRDW:
		return in.RDW, true
	case FeaturePDW:
		return in.PDW, true
	}
	return 0, false
}

// Set assigns a value by feature name, ignoring case.
func (in *Inputs) Set(name string, v float64) error {
	f, ok := LookupField(name)
	if !ok {
		return fmt.Errorf("unknown feature %q", name)
	}
	in.set(f.Name, v)
	return nil
}

func (in *Inputs) set(name string, v float64) {
	switch name {
	case FeatureAge:
		in.Age = v
	case FeatureAG:
		in.AG = v
	case FeatureCREA:
		in.CREA = v
	case FeatureUA:
		in.UA = v
	case FeatureRDW:
		in.RDW = v
	case FeaturePDW:
		in.PDW = v
	}
}

// Vector assembles the inputs in the given feature order. The order must be
// the model's training-time order; a wrong order silently gives wrong results.
func (in Inputs) Vector(order []string) ([]float64, error) {
	vec := make([]float64, len(order))
	for i, name := range order {
		v, ok := in.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown feature %q", ErrFeatureMismatch, name)
		}
		vec[i] = v
	}
	return vec, nil
}

// validateFeatureOrder checks that order is a permutation of the known features.
func validateFeatureOrder(order []string) error {
	if len(order) != len(Fields) {
		return fmt.Errorf("%w: bundle lists %d features, want %d", ErrInvalidBundle, len(order), len(Fields))
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := (Inputs{}).Get(name); !ok {
			return fmt.Errorf("%w: unknown feature %q", ErrInvalidBundle, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate feature %q", ErrInvalidBundle, name)
		}
		seen[name] = true
	}
	return nil
}
