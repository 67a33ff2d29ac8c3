package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xorDataset() []Example {
	return []Example{
		{Input: []float64{0, 0}, Output: []float64{0}},
		{Input: []float64{0, 1}, Output: []float64{1}},
		{Input: []float64{1, 0}, Output: []float64{1}},
		{Input: []float64{1, 1}, Output: []float64{0}},
	}
}

func TestTrainRejectsMissingStoppingCondition(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	_, err := n.Train(xorDataset(), TrainOptions{})
	assert.ErrorIs(t, err, ErrMissingStoppingCond)
}

func TestTrainRejectsShapeMismatch(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	bad := []Example{{Input: []float64{0}, Output: []float64{0}}}
	_, err := n.Train(bad, TrainOptions{Iterations: 1})
	assert.ErrorIs(t, err, ErrDatasetShapeMismatch)
}

func TestTrainRejectsBatchSizeExceedsData(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	_, err := n.Train(xorDataset(), TrainOptions{Iterations: 1, BatchSize: 99})
	assert.ErrorIs(t, err, ErrBatchSizeExceedsData)
}

func TestTrainFallsBackToMSEForUnknownCost(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	_, err := n.Train(xorDataset(), TrainOptions{Iterations: 1, Cost: "not-a-real-cost"})
	require.NoError(t, err)
}

func TestTrainRunsFixedIterations(t *testing.T) {
	n := NewNetworkSeeded(2, 4, 1)
	n.Mutate(AddNode, Caps{})
	result, err := n.Train(xorDataset(), TrainOptions{Iterations: 5, Rate: 0.3})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Iterations)
}

func TestTrainStopsAtErrorTarget(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	result, err := n.Train(xorDataset(), TrainOptions{HasError: true, Error: 1000})
	require.NoError(t, err)
	assert.LessOrEqual(t, result.Iterations, 1)
}

func TestTrainMixedPrecisionForceOverflowRecovers(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	result, err := n.Train(xorDataset(), TrainOptions{
		Iterations: 3,
		MixedPrecision: &MixedPrecision{
			Enabled:       true,
			LossScale:     1024,
			ForceOverflow: true,
			Dynamic:       &DynamicScale{MinScale: 1, MaxScale: 4096, IncreaseEvery: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.OverflowCount)
	assert.Less(t, result.LossScale, 1024.0)
}

func TestTrainGradientClipBoundsUpdateMagnitude(t *testing.T) {
	n := NewNetworkSeeded(2, 1, 1)
	_, err := n.Train(xorDataset(), TrainOptions{
		Iterations:   2,
		Rate:         1.0,
		GradientClip: &GradientClip{Norm: 0.01},
	})
	require.NoError(t, err)
}
