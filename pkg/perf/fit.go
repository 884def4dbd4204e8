package perf

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Sample is one profiler measurement: a quantity (run time in ms, or
// memory usage in mb) observed at a batch size.
type Sample struct {
	BatchSize   float64 `json:"batchSize" yaml:"batchSize"`
	Measurement float64 `json:"measurement" yaml:"measurement"`
}

// Fit is a fitted affine model together with its coefficient of
// determination, so callers can judge whether the linear assumption held.
type Fit struct {
	Model    AffineModel
	RSquared float64
}

// FitAffine fits an affine model to profiler samples by ordinary least
// squares. At least two distinct batch sizes are required.
func FitAffine(samples []Sample) (Fit, error) {
	if len(samples) < 2 {
		return Fit{}, fmt.Errorf("need at least 2 samples to fit a model, have %d", len(samples))
	}
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	distinct := false
	for i, s := range samples {
		xs[i] = s.BatchSize
		ys[i] = s.Measurement
		if s.BatchSize != samples[0].BatchSize {
			distinct = true
		}
	}
	if !distinct {
		return Fit{}, fmt.Errorf("all %d samples share batch size %v", len(samples), samples[0].BatchSize)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	model := AffineModel{Slope: slope, Intercept: intercept}
	return Fit{
		Model:    model,
		RSquared: stat.RSquared(xs, ys, nil, intercept, slope),
	}, nil
}
