package profile

// MergeOp combines several raw input values bound to one axis mapping
// into a single scalar. All operations are commutative, so the result
// never depends on input ordering.
type MergeOp string

const (
	MergeAverage MergeOp = "average"
	MergeMinimum MergeOp = "minimum"
	MergeMaximum MergeOp = "maximum"
	MergeSum     MergeOp = "sum"
)

func (m MergeOp) valid() bool {
	switch m {
	case MergeAverage, MergeMinimum, MergeMaximum, MergeSum:
		return true
	}
	return false
}

// Combine reduces the raw values to one scalar. Single-value slices pass
// through untouched regardless of the operation. Sum clamps to [-1, 1].
func (m MergeOp) Combine(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) == 1 {
		return values[0]
	}
	switch m {
	case MergeMinimum:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case MergeMaximum:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	case MergeSum:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		if sum > 1 {
			return 1
		}
		if sum < -1 {
			return -1
		}
		return sum
	default:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	}
}
