package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRecognizesAllKinds(t *testing.T) {
	for _, k := range []Kind{SGD, RMSProp, Adagrad, Adam, AdamW, Adamax, Nadam, Lion} {
		assert.True(t, Valid(string(k)))
	}
	assert.False(t, Valid("not-a-real-optimizer"))
}

func TestSGDStepMovesAgainstGradient(t *testing.T) {
	cfg := DefaultConfig(SGD, 0.1)
	state := &State{}
	newWeight, delta := Step(cfg, state, 1.0, 2.0)
	assert.InDelta(t, 1.0-0.1*2.0, newWeight, 1e-9)
	assert.InDelta(t, -0.2, delta, 1e-9)
}

func TestSGDWithMomentumAccumulates(t *testing.T) {
	cfg := DefaultConfig(SGD, 0.1)
	cfg.Momentum = 0.9
	state := &State{}

	w, _ := Step(cfg, state, 1.0, 1.0)
	w2, _ := Step(cfg, state, w, 1.0)
	// second step's momentum term carries over, so the weight moves further
	// than two independent (non-momentum) steps would.
	assert.Less(t, w2, w-0.1)
}

func TestAdamConvergesTowardZeroGradientDirection(t *testing.T) {
	cfg := DefaultConfig(Adam, 0.05)
	state := &State{}
	weight := 5.0
	for i := 0; i < 200; i++ {
		gradient := 2 * (weight - 1.0) // gradient of (weight-1)^2
		weight, _ = Step(cfg, state, weight, gradient)
	}
	assert.InDelta(t, 1.0, weight, 0.05)
}

func TestAdamWDecoupledWeightDecayShrinksWeightIndependentlyOfGradient(t *testing.T) {
	cfg := DefaultConfig(AdamW, 0.1)
	cfg.WeightDecay = 0.5
	state := &State{}
	newWeight, _ := Step(cfg, state, 10.0, 0.0)
	assert.Less(t, newWeight, 10.0)
}

func TestLionUsesSignOfMomentum(t *testing.T) {
	cfg := DefaultConfig(Lion, 0.1)
	state := &State{}
	newWeight, delta := Step(cfg, state, 1.0, 5.0)
	assert.InDelta(t, -0.1, delta, 1e-9)
	assert.InDelta(t, 0.9, newWeight, 1e-9)
}

func TestUnknownKindBehavesAsPlainSGD(t *testing.T) {
	cfg := Config{Kind: "bogus", Rate: 0.1}
	state := &State{}
	newWeight, _ := Step(cfg, state, 1.0, 2.0)
	assert.InDelta(t, 0.8, newWeight, 1e-9)
}
