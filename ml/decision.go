package ml

const (
	PositiveClassName = "Heart Failure"
	NegativeClassName = "Pneumonia"
)

// Decide maps P(positive) to a class name. A probability exactly at the
// threshold is positive.
func Decide(pPositive, threshold float64) string {
	if pPositive >= threshold {
		return PositiveClassName
	}
	return NegativeClassName
}
