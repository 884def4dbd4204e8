package config

import (
	"github.com/batchsight/batchsight/pkg/perf"
)

// Data related to one profiler analysis
type AnalysisData struct {
	Throughput perf.ThroughputInfo `json:"throughput" yaml:"throughput"`
	Memory     perf.MemoryInfo     `json:"memory" yaml:"memory"`
	Input      perf.InputInfo      `json:"input" yaml:"input"`

	// raw profiler measurements; when present, the corresponding model is
	// fitted from them instead of being taken from the fields above
	RuntimeSamples []perf.Sample `json:"runtimeSamples,omitempty" yaml:"runtimeSamples,omitempty"`
	UsageSamples   []perf.Sample `json:"usageSamples,omitempty" yaml:"usageSamples,omitempty"`
}
