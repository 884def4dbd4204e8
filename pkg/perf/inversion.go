package perf

import (
	"errors"
	"fmt"
	"math"
)

// Slopes smaller than this are treated as degenerate: the model carries
// no usable batch-size signal and inverting it would divide by (nearly)
// zero.
const degenerateSlopeEps = 1e-9

// ErrDegenerateModel reports an affine model whose slope is too close to
// zero to invert.
var ErrDegenerateModel = errors.New("degenerate performance model")

// BatchFromUsage solves usage(b) = targetUsageMb for b. The result is not
// rounded; callers floor or round as needed. Usage models have strictly
// positive slope (usage grows with batch size).
func BatchFromUsage(model AffineModel, targetUsageMb float64) (float64, error) {
	if math.Abs(model.Slope) < degenerateSlopeEps {
		return 0, fmt.Errorf("memory model %v: %w", model, ErrDegenerateModel)
	}
	return (targetUsageMb - model.Intercept) / model.Slope, nil
}

// BatchFromThroughput solves 1000*b/runtime(b) = targetThroughput for b:
//
//	b = intercept * target / (1000 - slope * target)
//
// Throughput approaches the asymptote 1000/slope as b grows, so a target
// at or beyond it makes the denominator non-positive and the result
// negative. That is an overflow signal, not an error: the caller must
// treat a negative result as "unbounded-large" and substitute its
// feasible ceiling.
func BatchFromThroughput(model AffineModel, targetThroughput float64) (float64, error) {
	if math.Abs(model.Slope) < degenerateSlopeEps {
		return 0, fmt.Errorf("runtime model %v: %w", model, ErrDegenerateModel)
	}
	return model.Intercept * targetThroughput / (1000 - model.Slope*targetThroughput), nil
}
