package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedNeverChanges(t *testing.T) {
	fn := Fixed()
	assert.Equal(t, 0.1, fn(0.1, 0))
	assert.Equal(t, 0.1, fn(0.1, 1000))
}

func TestStepDecaysAtBoundaries(t *testing.T) {
	fn := Step(0.5, 10)
	assert.Equal(t, 1.0, fn(1.0, 0))
	assert.Equal(t, 1.0, fn(1.0, 9))
	assert.Equal(t, 0.5, fn(1.0, 10))
	assert.Equal(t, 0.25, fn(1.0, 20))
}

func TestExpDecaysMonotonically(t *testing.T) {
	fn := Exp(0.9)
	assert.Greater(t, fn(1.0, 1), fn(1.0, 10))
}

func TestInvDecaysTowardZero(t *testing.T) {
	fn := Inv(0.1, 1)
	assert.Greater(t, fn(1.0, 0), fn(1.0, 100))
}

func TestCosineAnnealingStartsAtBaseRate(t *testing.T) {
	fn := CosineAnnealing(100, 0.01)
	assert.InDelta(t, 1.0, fn(1.0, 0), 1e-9)
}

func TestCosineAnnealingReachesMinAtHalfPeriod(t *testing.T) {
	fn := CosineAnnealing(100, 0.01)
	assert.InDelta(t, 0.01, fn(1.0, 50), 1e-9)
}

func TestCosineAnnealingIsPeriodic(t *testing.T) {
	fn := CosineAnnealing(100, 0.01)
	assert.InDelta(t, fn(1.0, 0), fn(1.0, 100), 1e-9)
}
