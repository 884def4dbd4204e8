package predictor

// ThroughputProjection is the throughput picture at the batch size
// currently in effect.
type ThroughputProjection struct {
	BatchSize        float64 `json:"batchSize"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	MaxThroughput    float64 `json:"maxThroughput"`
	ThroughputLimit  float64 `json:"throughputLimit"`
}

// MemoryProjection is the memory picture at the batch size currently in
// effect.
type MemoryProjection struct {
	BatchSize     float64 `json:"batchSize"`
	UsageMb       float64 `json:"usageMb"`
	MaxCapacityMb float64 `json:"maxCapacityMb"`
}

// ThroughputModel projects throughput at the predicted batch size when a
// prediction is active, at the measured batch size otherwise. It returns
// nil before any analysis and never mutates state.
func (p *Predictor) ThroughputModel() *ThroughputProjection {
	if !p.analyzed {
		return nil
	}
	b := p.batchSizeInEffect()
	return &ThroughputProjection{
		BatchSize:        b,
		SamplesPerSecond: p.throughput.Throughput(b),
		MaxThroughput:    p.throughput.MaxThroughput,
		ThroughputLimit:  p.throughput.ThroughputLimit,
	}
}

// MemoryModel projects memory usage at the predicted batch size when a
// prediction is active, at the measured batch size otherwise. It returns
// nil before any analysis and never mutates state.
func (p *Predictor) MemoryModel() *MemoryProjection {
	if !p.analyzed {
		return nil
	}
	b := p.batchSizeInEffect()
	return &MemoryProjection{
		BatchSize:     b,
		UsageMb:       p.memory.UsageModel.Value(b),
		MaxCapacityMb: p.memory.MaxCapacityMb,
	}
}
