// Package perf holds the measured performance models of a training
// iteration and the inversion functions that solve them for a batch size.
// Models arrive pre-computed from the profiler; nothing here measures.
package perf

import (
	"fmt"

	"github.com/batchsight/batchsight/pkg/annotation"
)

// AffineModel describes how a measured quantity scales linearly with
// batch size: value(b) = Slope*b + Intercept for b >= 1.
type AffineModel struct {
	Slope     float64 `json:"slope" yaml:"slope"`
	Intercept float64 `json:"intercept" yaml:"intercept"`
}

// Value evaluates the model at batch size b.
func (m AffineModel) Value(b float64) float64 {
	return m.Slope*b + m.Intercept
}

func (m AffineModel) String() string {
	return fmt.Sprintf("slope=%v; intercept=%v", m.Slope, m.Intercept)
}

// MemoryInfo is the measured memory-usage model (mb as a function of
// batch size) together with the hardware capacity bound.
type MemoryInfo struct {
	UsageModel    AffineModel `json:"usageModel" yaml:"usageModel"`
	MaxCapacityMb float64     `json:"maxCapacityMb" yaml:"maxCapacityMb"`
}

// ThroughputInfo is the measured runtime model (ms per iteration as a
// function of batch size) together with its throughput bounds. Throughput
// itself is derived, never stored.
type ThroughputInfo struct {
	RuntimeModel    AffineModel `json:"runtimeModel" yaml:"runtimeModel"`
	MaxThroughput   float64     `json:"maxThroughput" yaml:"maxThroughput"`
	ThroughputLimit float64     `json:"throughputLimit" yaml:"throughputLimit"`
}

// Throughput returns samples per second at batch size b:
// 1000 * b / runtime(b). Monotonically increasing in b with horizontal
// asymptote 1000/slope.
func (t ThroughputInfo) Throughput(b float64) float64 {
	return 1000 * b / t.RuntimeModel.Value(b)
}

// InputInfo locates the size annotation in the profiled source and
// records the measured input size. InputSize[0] is the batch-size
// dimension.
type InputInfo struct {
	AnnotationStart annotation.Position `json:"annotationStart" yaml:"annotationStart"`
	AnnotationEnd   annotation.Position `json:"annotationEnd" yaml:"annotationEnd"`
	InputSize       []int               `json:"inputSize" yaml:"inputSize"`
}

// BatchSize returns the measured batch-size dimension.
func (in InputInfo) BatchSize() int {
	return in.InputSize[0]
}
