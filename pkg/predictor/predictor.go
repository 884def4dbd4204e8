// Package predictor implements the batch-size prediction state machine.
// It holds the performance models of the most recent analysis, maps
// percentage-based slider adjustments to predicted batch sizes through
// model inversion, and keeps the source annotation and any registered
// observers in sync with every state change.
package predictor

import (
	"errors"
	"math"

	"github.com/batchsight/batchsight/internal/metrics"
	"github.com/batchsight/batchsight/pkg/annotation"
	"github.com/batchsight/batchsight/pkg/perf"
)

// ErrNoAnalysis reports an adjustment requested before any analysis has
// been received.
var ErrNoAnalysis = errors.New("no analysis received")

// Predictor owns the prediction state for one analysis session. It is
// driven by discrete external events delivered one at a time; every
// operation runs to completion before the next, so no locking is needed.
type Predictor struct {
	throughput perf.ThroughputInfo
	memory     perf.MemoryInfo
	input      perf.InputInfo
	analyzed   bool

	// predicted batch size, kept unrounded so successive adjustments do
	// not compound rounding error; nil when no prediction is active
	predicted *float64

	// largest batch size whose projected memory usage fits in hardware
	// capacity, recomputed on every analysis
	maxBatchSize int

	annotations *annotation.Manager
	listeners   []*listenerEntry
}

type listenerEntry struct {
	fn func()
}

// New creates a predictor writing its annotation through the given
// surface.
func New(surface annotation.Surface) *Predictor {
	return &Predictor{annotations: annotation.NewManager(surface)}
}

// Subscribe registers a state-change listener and returns its
// cancellation function. Listeners receive no payload; they re-read state
// through the getters and always observe a fully-updated state.
func (p *Predictor) Subscribe(fn func()) (cancel func()) {
	entry := &listenerEntry{fn: fn}
	p.listeners = append(p.listeners, entry)
	return func() {
		for i, e := range p.listeners {
			if e == entry {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

func (p *Predictor) notify() {
	for _, e := range p.listeners {
		e.fn()
	}
}

// ReceivedAnalysis installs a new analysis, discarding any prior state.
// It resets the active prediction, recomputes the feasible batch-size
// ceiling from the memory model, and opens the undo checkpoint that this
// session's annotation rewrites group into.
func (p *Predictor) ReceivedAnalysis(throughput perf.ThroughputInfo, memory perf.MemoryInfo, input perf.InputInfo) error {
	ceiling, err := perf.BatchFromUsage(memory.UsageModel, memory.MaxCapacityMb)
	if err != nil {
		metrics.RecordDegenerateModel("memory")
		return err
	}

	p.throughput = throughput
	p.memory = memory
	p.input = input
	p.analyzed = true
	p.predicted = nil
	p.maxBatchSize = int(math.Floor(ceiling))

	p.annotations.Track(input.AnnotationStart, input.AnnotationEnd, input.InputSize)
	metrics.RecordAnalysisReceived()
	p.notify()
	return nil
}

// UpdateMemoryUsage maps a memory-slider adjustment to a predicted batch
// size. The percentage is relative to hardware capacity and upper-clamped
// to it; the inverted batch size is clamped into [1, maxBatchSize], since
// a fractional ceiling leaves the inversion at capacity slightly above
// the floored maximum.
func (p *Predictor) UpdateMemoryUsage(deltaPct, basePct float64) (float64, error) {
	if !p.analyzed {
		return 0, ErrNoAnalysis
	}

	updatedPct := basePct + deltaPct
	updatedUsage := math.Min(updatedPct/100*p.memory.MaxCapacityMb, p.memory.MaxCapacityMb)
	raw, err := perf.BatchFromUsage(p.memory.UsageModel, updatedUsage)
	if err != nil {
		metrics.RecordDegenerateModel("memory")
		return 0, err
	}

	batchSize := math.Min(math.Max(raw, 1), float64(p.maxBatchSize))
	p.predicted = &batchSize
	metrics.RecordPrediction("memory", batchSize)

	err = p.annotations.WriteBatchSize(batchSize)
	p.notify()
	return batchSize, err
}

// UpdateThroughput maps a throughput-slider adjustment to a predicted
// batch size. The target is clamped into [0, throughputLimit]; a target
// at or beyond the model's asymptote inverts to a negative value and is
// resolved by substituting the feasible ceiling. Finite results are
// clamped into [1, maxBatchSize].
func (p *Predictor) UpdateThroughput(deltaPct, basePct float64) (float64, error) {
	if !p.analyzed {
		return 0, ErrNoAnalysis
	}

	updatedPct := basePct + deltaPct
	target := updatedPct / 100 * p.throughput.MaxThroughput
	target = math.Min(math.Max(target, 0), p.throughput.ThroughputLimit)

	raw, err := perf.BatchFromThroughput(p.throughput.RuntimeModel, target)
	if err != nil {
		metrics.RecordDegenerateModel("runtime")
		return 0, err
	}

	var batchSize float64
	if raw < 0 || math.IsInf(raw, 0) || math.IsNaN(raw) {
		// unreachable target: as large as the hardware allows
		batchSize = float64(p.maxBatchSize)
		metrics.RecordOverflow()
	} else {
		batchSize = math.Min(math.Max(raw, 1), float64(p.maxBatchSize))
	}

	p.predicted = &batchSize
	metrics.RecordPrediction("throughput", batchSize)

	err = p.annotations.WriteBatchSize(batchSize)
	p.notify()
	return batchSize, err
}

// ClearPredictions drops the active prediction and restores the
// annotation to the measured input size. The analysis itself is kept.
func (p *Predictor) ClearPredictions() error {
	if !p.analyzed {
		return ErrNoAnalysis
	}

	p.predicted = nil
	metrics.RecordPredictionCleared()

	err := p.annotations.Restore()
	p.notify()
	return err
}

// PredictedBatchSize returns the active unrounded prediction, if any.
func (p *Predictor) PredictedBatchSize() (float64, bool) {
	if p.predicted == nil {
		return 0, false
	}
	return *p.predicted, true
}

// MaxBatchSize returns the feasible batch-size ceiling of the current
// analysis, or 0 before any analysis.
func (p *Predictor) MaxBatchSize() int {
	return p.maxBatchSize
}

// Analyzed reports whether an analysis has been received.
func (p *Predictor) Analyzed() bool {
	return p.analyzed
}

// batchSizeInEffect is the batch size projections evaluate at: the
// prediction when one is active, the measured batch size otherwise.
func (p *Predictor) batchSizeInEffect() float64 {
	if p.predicted != nil {
		return *p.predicted
	}
	return float64(p.input.BatchSize())
}
