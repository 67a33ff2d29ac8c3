package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownCostFunctions(t *testing.T) {
	for _, name := range []string{"mse", "mae", "bce", "cross_entropy", "softmax_cross_entropy", "hinge"} {
		fn, ok := Get(name)
		require.True(t, ok, name)
		assert.Equal(t, name, fn.Name)
	}
}

func TestGetUnknownCostFunctionReportsNotOK(t *testing.T) {
	_, ok := Get("not-a-real-cost")
	assert.False(t, ok)
}

func TestMSEIsZeroForExactMatch(t *testing.T) {
	fn, _ := Get("mse")
	assert.Equal(t, 0.0, fn.Value([]float64{1, 2}, []float64{1, 2}))
}

func TestMSEDerivativeMatchesNumericGradient(t *testing.T) {
	fn, _ := Get("mse")
	target := []float64{0.2, 0.7}
	output := []float64{0.5, 0.4}
	const h = 1e-6

	for i := range output {
		plus := append([]float64{}, output...)
		minus := append([]float64{}, output...)
		plus[i] += h
		minus[i] -= h
		numeric := (fn.Value(target, plus) - fn.Value(target, minus)) / (2 * h)
		assert.InDelta(t, numeric, fn.Deriv(target, output, i), 1e-3)
	}
}

func TestMAEIsZeroForExactMatch(t *testing.T) {
	fn, _ := Get("mae")
	assert.Equal(t, 0.0, fn.Value([]float64{1, -2}, []float64{1, -2}))
}

func TestHingeIsZeroWhenMarginSatisfied(t *testing.T) {
	fn, _ := Get("hinge")
	assert.Equal(t, 0.0, fn.Value([]float64{1}, []float64{2}))
}

func TestBCEPenalizesConfidentWrongPrediction(t *testing.T) {
	fn, _ := Get("bce")
	lowLoss := fn.Value([]float64{1}, []float64{0.9})
	highLoss := fn.Value([]float64{1}, []float64{0.1})
	assert.Greater(t, highLoss, lowLoss)
}
