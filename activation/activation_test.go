package activation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetKnownNameSucceeds(t *testing.T) {
	fn, ok := Get("logistic")
	assert.True(t, ok)
	assert.Equal(t, "logistic", fn.Name)
}

func TestGetUnknownNameFallsBackToIdentity(t *testing.T) {
	fn, ok := Get("not-a-real-activation")
	assert.False(t, ok)
	assert.Equal(t, Default, fn.Name)
}

func TestNamesIncludesEveryRegisteredFunction(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "logistic")
	assert.Contains(t, names, "relu")
	assert.Contains(t, names, "tanh")
}

func TestDerivativesApproximateNumericGradient(t *testing.T) {
	const h = 1e-6
	for _, name := range []string{"logistic", "tanh", "relu", "softsign", "gaussian"} {
		fn, _ := Get(name)
		for _, x := range []float64{-2, -0.5, 0.3, 1.7} {
			numeric := (fn.Value(x+h) - fn.Value(x-h)) / (2 * h)
			analytic := fn.Deriv(x)
			assert.InDelta(t, numeric, analytic, 1e-3, "function %s at x=%v", name, x)
		}
	}
}

func TestIdentityIsExactlyLinear(t *testing.T) {
	fn, _ := Get("identity")
	assert.Equal(t, 3.5, fn.Value(3.5))
	assert.Equal(t, 1.0, fn.Deriv(3.5))
}

func TestStepIsHeaviside(t *testing.T) {
	fn, _ := Get("step")
	assert.Equal(t, 0.0, fn.Value(-0.1))
	assert.Equal(t, 1.0, fn.Value(0))
	assert.Equal(t, 1.0, fn.Value(5))
}

func TestLogisticStaysBounded(t *testing.T) {
	fn, _ := Get("logistic")
	assert.True(t, fn.Value(100) <= 1.0)
	assert.True(t, fn.Value(-100) >= 0.0)
	assert.False(t, math.IsNaN(fn.Value(100)))
}
