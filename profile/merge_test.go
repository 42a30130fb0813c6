package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		name   string
		op     MergeOp
		values []float64
		want   float64
	}{
		{"average", MergeAverage, []float64{0.2, 0.8}, 0.5},
		{"maximum", MergeMaximum, []float64{0.2, 0.8}, 0.8},
		{"minimum", MergeMinimum, []float64{0.2, 0.8}, 0.2},
		{"sum", MergeSum, []float64{0.3, 0.4}, 0.7},
		{"sum clamps high", MergeSum, []float64{0.7, 0.7}, 1.0},
		{"sum clamps low", MergeSum, []float64{-0.7, -0.7}, -1.0},
		{"single value passes through", MergeAverage, []float64{0.42}, 0.42},
		{"empty is zero", MergeMaximum, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.op.Combine(tt.values), 1e-12)
		})
	}
}

func TestCombineIsCommutative(t *testing.T) {
	forward := []float64{0.1, -0.5, 0.9}
	backward := []float64{0.9, -0.5, 0.1}
	for _, op := range []MergeOp{MergeAverage, MergeMinimum, MergeMaximum, MergeSum} {
		assert.Equal(t, op.Combine(forward), op.Combine(backward), "op=%s", op)
	}
}
