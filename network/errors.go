package network

import "errors"

// Sentinel errors, one per failure mode. Call sites return them as-is,
// without added context, so callers match them with errors.Is.
var (
	ErrInvalidInputSize     = errors.New("network: invalid input size")
	ErrInvalidTargetSize    = errors.New("network: invalid target size")
	ErrDatasetShapeMismatch = errors.New("network: dataset example shape mismatch")
	ErrMissingStoppingCond  = errors.New("network: train requires iterations or error")
	ErrBatchSizeExceedsData = errors.New("network: batch size exceeds dataset length")
	ErrArchMismatch         = errors.New("network: crossover parents have mismatched architecture")
	ErrConnectionNotGated   = errors.New("network: connection is not gated")
	ErrOutputInputMismatch  = errors.New("network: merge output/input size mismatch")
	ErrNoOutputNodes        = errors.New("network: no output nodes")
	ErrMalformedGenome      = errors.New("network: malformed genome json")
	ErrInvalidCostFunction  = errors.New("network: invalid cost function")
	ErrInvalidOptimizer     = errors.New("network: invalid optimizer")
	ErrCorruptedStructure   = errors.New("network: corrupted structure")
)
