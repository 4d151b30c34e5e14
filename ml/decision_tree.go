package ml

import (
	"errors"
	"fmt"
)

// DecisionTree is a fitted CART tree stored as a flat node list with the root at index 0.
// Leaf probabilities are the normalized class counts in Value.
type DecisionTree struct {
	Nodes       []TreeNode `json:"nodes"`
	ClassLabels []int      `json:"classes"`
	Width       int        `json:"n_features"`
}

type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	Value      []float64 `json:"value"`
	IsLeaf     bool      `json:"is_leaf"`
}

func (dt *DecisionTree) Type() string     { return "decision_tree" }
func (dt *DecisionTree) NumFeatures() int { return dt.Width }
func (dt *DecisionTree) Classes() []int   { return dt.ClassLabels }

func (dt *DecisionTree) PredictProba(features []float64) ([]float64, error) {
	if len(dt.Nodes) == 0 {
		return nil, errors.New("model not trained")
	}
	if err := checkWidth(dt, features); err != nil {
		return nil, err
	}
	idx := 0
	for steps := 0; steps <= len(dt.Nodes); steps++ {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			return leafProba(node.Value), nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return nil, errors.New("invalid tree state")
}

func (dt *DecisionTree) validate() error {
	if len(dt.Nodes) == 0 {
		return fmt.Errorf("%w: decision tree has no nodes", ErrInvalidBundle)
	}
	if len(dt.ClassLabels) == 0 {
		dt.ClassLabels = []int{NegativeLabel, PositiveLabel}
	}
	for i, node := range dt.Nodes {
		if node.IsLeaf {
			if len(node.Value) != len(dt.ClassLabels) {
				return fmt.Errorf("%w: leaf %d has %d class counts, want %d",
					ErrInvalidBundle, i, len(node.Value), len(dt.ClassLabels))
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= dt.Width {
			return fmt.Errorf("%w: node %d feature index %d out of range", ErrInvalidBundle, i, node.FeatureIdx)
		}
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(dt.Nodes) {
				return fmt.Errorf("%w: node %d has invalid child %d", ErrInvalidBundle, i, child)
			}
		}
	}
	return nil
}

func leafProba(counts []float64) []float64 {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	proba := make([]float64, len(counts))
	if total == 0 {
		return proba
	}
	for i, c := range counts {
		proba[i] = c / total
	}
	return proba
}
