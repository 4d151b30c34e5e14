package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
)

const (
	// ThresholdKey is the settings key holding the decision cutoff.
	ThresholdKey     = "youden_threshold"
	DefaultThreshold = 0.50
)

var ErrThresholdRange = errors.New("threshold outside [0, 1]")

// ReadThreshold reads the decision cutoff from a JSON settings file. A file
// without the key yields DefaultThreshold and no error.
func ReadThreshold(path string) (float64, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return DefaultThreshold, err
	}
	return ParseThreshold(payload)
}

func ParseThreshold(payload []byte) (float64, error) {
	var settings map[string]json.RawMessage
	if err := json.Unmarshal(payload, &settings); err != nil {
		return DefaultThreshold, fmt.Errorf("parse settings: %w", err)
	}
	raw, ok := settings[ThresholdKey]
	if !ok {
		return DefaultThreshold, nil
	}

	var number *float64
	var value float64
	if err := json.Unmarshal(raw, &number); err != nil {
		// Numeric strings such as "0.35" are accepted too.
		var text string
		if json.Unmarshal(raw, &text) != nil {
			return DefaultThreshold, fmt.Errorf("%s: not a number: %s", ThresholdKey, raw)
		}
		value, err = strconv.ParseFloat(text, 64)
		if err != nil {
			return DefaultThreshold, fmt.Errorf("%s: %w", ThresholdKey, err)
		}
	} else if number == nil {
		return DefaultThreshold, fmt.Errorf("%s: null value", ThresholdKey)
	} else {
		value = *number
	}
	if math.IsNaN(value) || value < 0 || value > 1 {
		return DefaultThreshold, fmt.Errorf("%s=%v: %w", ThresholdKey, value, ErrThresholdRange)
	}
	return value, nil
}

// LoadThreshold collapses every ReadThreshold failure to DefaultThreshold.
// The error is handed to onError (if any) and never reaches the user.
func LoadThreshold(path string, onError func(error)) float64 {
	value, err := ReadThreshold(path)
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return DefaultThreshold
	}
	return value
}
