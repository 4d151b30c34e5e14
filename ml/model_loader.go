package ml

import (
	"encoding/json"
	"fmt"
	"os"
)

// Bundle is the deserialized model artifact: the fitted model plus the
// feature order it was trained with.
type Bundle struct {
	Model    Model
	Features []string
}

type rawBundle struct {
	Features []string        `json:"features"`
	Model    json.RawMessage `json:"model"`
}

type modelHeader struct {
	Type string `json:"type"`
}

// LoadBundle reads and validates a model artifact. Any failure is returned to
// the caller; the service cannot start without a model.
func LoadBundle(path string) (*Bundle, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	bundle, err := ParseBundle(payload)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return bundle, nil
}

func ParseBundle(payload []byte) (*Bundle, error) {
	if err := validateBundleJSON(payload); err != nil {
		return nil, err
	}
	var raw rawBundle
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if err := validateFeatureOrder(raw.Features); err != nil {
		return nil, err
	}
	model, err := decodeModel(raw.Model, len(raw.Features))
	if err != nil {
		return nil, err
	}
	if model.NumFeatures() != len(raw.Features) {
		return nil, fmt.Errorf("%w: model expects %d features, bundle lists %d",
			ErrInvalidBundle, model.NumFeatures(), len(raw.Features))
	}
	return &Bundle{Model: model, Features: raw.Features}, nil
}

func decodeModel(payload json.RawMessage, width int) (Model, error) {
	var header modelHeader
	if err := json.Unmarshal(payload, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	switch header.Type {
	case "logistic_regression":
		model := &LogisticRegression{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
		}
		return model, model.validate()
	case "linear_svm":
		model := &LinearSVM{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
		}
		return model, model.validate()
	case "decision_tree":
		model := &DecisionTree{Width: width}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
		}
		return model, model.validate()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, header.Type)
	}
}
