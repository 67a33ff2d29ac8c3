package network

import (
	"context"
	"math"
	"time"

	"github.com/synapticgo/neat/cost"
	"github.com/synapticgo/neat/mathutil"
	"github.com/synapticgo/neat/optimizer"
	"github.com/synapticgo/neat/schedule"
)

// Example is one (input, target) training pair.
type Example struct {
	Input  []float64
	Output []float64
}

// CrossValidate splits the dataset once and early-stops on held-out error.
type CrossValidate struct {
	TestSize  float64
	TestError float64
}

// DynamicScale governs the mixed-precision loss-scale adjustment policy.
type DynamicScale struct {
	MinScale, MaxScale float64
	IncreaseEvery      int
}

// MixedPrecision configures gradient-scaling for the training loop.
type MixedPrecision struct {
	Enabled      bool
	LossScale    float64
	Dynamic      *DynamicScale
	ForceOverflow bool // debug hook: force an overflow on every step while set
}

// GradientClip bounds the global gradient norm.
type GradientClip struct {
	Norm float64
}

// EarlyStop configures stopping on a plateaued monitored error.
type EarlyStop struct {
	Patience int
	MinDelta float64
}

// ScheduleCallback fires every N iterations with the current stats.
type ScheduleCallback struct {
	Every    int
	Function func(stats TrainResult)
}

// TrainOptions is the full training-loop option set.
type TrainOptions struct {
	Iterations int
	Error      float64
	HasError   bool

	Rate       float64
	RatePolicy schedule.Func

	Momentum    float64
	BatchSize   int
	Cost        string
	Optimizer   optimizer.Kind

	Shuffle     bool
	Dropout     float64
	DropConnect float64

	CrossValidate *CrossValidate
	Regularization float64 // L2 lambda, applied as weight decay

	Schedule *ScheduleCallback
	LogEvery int
	LogFunc  func(iteration int, stats TrainResult)

	Clear bool

	MixedPrecision *MixedPrecision
	GradientClip   *GradientClip
	MovingAverage  *mathutil.Smoother
	Plateau        *mathutil.Smoother

	EarlyStop *EarlyStop

	Seed int64

	Context context.Context
}

// TrainResult is the outcome of Train.
type TrainResult struct {
	Error        float64
	Iterations   int
	ElapsedTime  time.Duration
	Cancelled    bool
	LossScale    float64
	OverflowCount     int
	LastOverflowStep  int
}

// Train runs the full gradient-based training loop: minibatching,
// optional dropout/DropConnect, moving-average smoothing of the
// monitored error, plateau and early-stop detection, cross-validation,
// mixed-precision loss scaling and gradient clipping.
func (n *Network) Train(dataset []Example, opts TrainOptions) (TrainResult, error) {
	start := time.Now()

	for _, ex := range dataset {
		if len(ex.Input) != n.InputSize || len(ex.Output) != n.OutputSize {
			return TrainResult{}, ErrDatasetShapeMismatch
		}
	}
	if opts.Iterations == 0 && !opts.HasError {
		return TrainResult{}, ErrMissingStoppingCond
	}
	if opts.BatchSize > len(dataset) {
		return TrainResult{}, ErrBatchSizeExceedsData
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = len(dataset)
	}
	if opts.Rate == 0 && opts.RatePolicy == nil {
		opts.Rate = 0.3
	}
	costFn, ok := cost.Get(opts.Cost)
	if !ok {
		costFn, ok = cost.Get("mse")
		if !ok {
			return TrainResult{}, ErrInvalidCostFunction
		}
	}
	if opts.Optimizer != "" && !optimizer.Valid(string(opts.Optimizer)) {
		return TrainResult{}, ErrInvalidOptimizer
	}
	optKind := opts.Optimizer
	if optKind == "" {
		optKind = optimizer.SGD
	}

	rng := n.Rand
	if opts.Seed != 0 {
		rng = newRand(opts.Seed)
	}
	n.Dropout = opts.Dropout
	n.DropConnect = opts.DropConnect

	trainSet, testSet := dataset, []Example(nil)
	if opts.CrossValidate != nil {
		trainSet, testSet = splitDataset(dataset, opts.CrossValidate.TestSize, rng)
	}

	lossScale := 1.0
	if opts.MixedPrecision != nil && opts.MixedPrecision.LossScale > 0 {
		lossScale = opts.MixedPrecision.LossScale
	}
	overflowStreak := 0

	result := TrainResult{LossScale: lossScale}
	var patienceCount int
	bestMonitored := math.Inf(1)

	for iter := 1; ; iter++ {
		if opts.Context != nil {
			select {
			case <-opts.Context.Done():
				result.Cancelled = true
				result.Iterations = iter - 1
				result.ElapsedTime = time.Since(start)
				return result, nil
			default:
			}
		}

		ordered := trainSet
		if opts.Shuffle {
			ordered = shuffled(trainSet, rng)
		}

		rate := opts.Rate
		if opts.RatePolicy != nil {
			rate = opts.RatePolicy(opts.Rate, iter)
		}
		optCfg := optimizer.DefaultConfig(optKind, rate)
		optCfg.Momentum = opts.Momentum
		optCfg.WeightDecay = opts.Regularization

		var iterError float64
		for batchStart := 0; batchStart < len(ordered); batchStart += opts.BatchSize {
			batchEnd := batchStart + opts.BatchSize
			if batchEnd > len(ordered) {
				batchEnd = len(ordered)
			}
			batch := ordered[batchStart:batchEnd]

			overflowed := false
			for i, ex := range batch {
				if opts.Clear {
					n.ClearState()
				}
				out, err := n.Activate(ex.Input, true)
				if err != nil {
					return TrainResult{}, err
				}
				iterError += costFn.Value(ex.Output, out)

				atEnd := i == len(batch)-1
				p := propagateParams{opt: optCfg, update: false, lossScale: lossScale}
				if err := n.Propagate(p, ex.Output); err != nil {
					return TrainResult{}, err
				}

				if atEnd {
					if opts.MixedPrecision != nil && (opts.MixedPrecision.ForceOverflow || n.hasOverflow()) {
						overflowed = true
						n.resetDeltas()
					} else {
						p.update = true
						if opts.GradientClip != nil {
							n.clipGradients(opts.GradientClip.Norm, lossScale)
						}
						n.applyAllUpdates(p)
					}
				}
			}

			if opts.MixedPrecision != nil {
				if overflowed {
					overflowStreak = 0
					result.OverflowCount++
					result.LastOverflowStep = iter
					if opts.MixedPrecision.Dynamic != nil {
						lossScale = math.Max(lossScale/2, opts.MixedPrecision.Dynamic.MinScale)
					}
				} else if opts.MixedPrecision.Dynamic != nil {
					overflowStreak++
					if opts.MixedPrecision.Dynamic.IncreaseEvery > 0 && overflowStreak >= opts.MixedPrecision.Dynamic.IncreaseEvery {
						lossScale = math.Min(lossScale*2, opts.MixedPrecision.Dynamic.MaxScale)
						overflowStreak = 0
					}
				}
				result.LossScale = lossScale
			}
		}

		if opts.Dropout > 0 {
			n.resetHiddenMasksToOne()
		}

		meanError := iterError / float64(len(ordered))
		monitored := meanError
		if opts.MovingAverage != nil {
			monitored = opts.MovingAverage.Add(meanError)
		}

		if testSet != nil {
			monitored = n.evaluate(testSet, costFn)
		}

		result.Error = monitored
		result.Iterations = iter

		if opts.Schedule != nil && opts.Schedule.Function != nil && opts.Schedule.Every > 0 && iter%opts.Schedule.Every == 0 {
			opts.Schedule.Function(result)
		}
		if opts.LogFunc != nil && opts.LogEvery > 0 && iter%opts.LogEvery == 0 {
			opts.LogFunc(iter, result)
		}

		if opts.HasError && monitored <= opts.Error {
			break
		}
		targetError := opts.Error
		if opts.CrossValidate != nil {
			targetError = opts.CrossValidate.TestError
			if monitored <= targetError {
				break
			}
		}

		if opts.EarlyStop != nil {
			if bestMonitored-monitored > opts.EarlyStop.MinDelta {
				bestMonitored = monitored
				patienceCount = 0
			} else {
				patienceCount++
				if patienceCount >= opts.EarlyStop.Patience {
					break
				}
			}
		}

		if opts.Plateau != nil {
			opts.Plateau.Add(monitored)
		}

		if opts.Iterations > 0 && iter >= opts.Iterations {
			break
		}
	}

	result.ElapsedTime = time.Since(start)
	if opts.Dropout > 0 {
		n.resetHiddenMasksToOne()
	}
	return result, nil
}

func (n *Network) evaluate(dataset []Example, costFn cost.Func) float64 {
	sum := 0.0
	for _, ex := range dataset {
		out, err := n.NoTraceActivate(ex.Input)
		if err != nil {
			continue
		}
		sum += costFn.Value(ex.Output, out)
	}
	if len(dataset) == 0 {
		return 0
	}
	return sum / float64(len(dataset))
}

func (n *Network) hasOverflow() bool {
	for _, c := range n.Connections {
		if math.IsNaN(c.TotalDeltaWeight) || math.IsInf(c.TotalDeltaWeight, 0) {
			return true
		}
	}
	for _, node := range n.Nodes {
		if math.IsNaN(node.TotalDeltaBias) || math.IsInf(node.TotalDeltaBias, 0) {
			return true
		}
	}
	return false
}

func (n *Network) resetDeltas() {
	for _, c := range n.Connections {
		c.TotalDeltaWeight = 0
	}
	for _, node := range n.Nodes {
		if node.SelfConnection != nil {
			node.SelfConnection.TotalDeltaWeight = 0
		}
		node.TotalDeltaBias = 0
	}
}

func (n *Network) applyAllUpdates(p propagateParams) {
	for _, node := range n.Nodes {
		node.applyUpdate(p)
	}
}

// clipGradients scales every accumulated gradient down so the global norm
// (after dividing out lossScale) does not exceed norm.
func (n *Network) clipGradients(norm, lossScale float64) {
	if norm <= 0 {
		return
	}
	sumSq := 0.0
	for _, c := range n.Connections {
		g := c.TotalDeltaWeight / lossScale
		sumSq += g * g
	}
	for _, node := range n.Nodes {
		g := node.TotalDeltaBias / lossScale
		sumSq += g * g
		if node.SelfConnection != nil {
			sg := node.SelfConnection.TotalDeltaWeight / lossScale
			sumSq += sg * sg
		}
	}
	total := math.Sqrt(sumSq)
	if total <= norm || total == 0 {
		return
	}
	scale := norm / total
	for _, c := range n.Connections {
		c.TotalDeltaWeight *= scale
	}
	for _, node := range n.Nodes {
		node.TotalDeltaBias *= scale
		if node.SelfConnection != nil {
			node.SelfConnection.TotalDeltaWeight *= scale
		}
	}
}
