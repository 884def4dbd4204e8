package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/batchsight/batchsight/pkg/perf"
)

// LoadAnalysis reads an analysis bundle from a YAML file and fits any
// models supplied as raw samples.
func LoadAnalysis(path string) (*AnalysisData, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis file %s: %w", path, err)
	}
	var data AnalysisData
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("failed to parse analysis file %s: %w", path, err)
	}
	if err := data.ResolveModels(); err != nil {
		return nil, fmt.Errorf("analysis file %s: %w", path, err)
	}
	return &data, nil
}

// ResolveModels fits the runtime and usage models from raw samples when
// samples are present, overriding any model fields in the bundle.
func (a *AnalysisData) ResolveModels() error {
	if len(a.RuntimeSamples) > 0 {
		fit, err := perf.FitAffine(a.RuntimeSamples)
		if err != nil {
			return fmt.Errorf("failed to fit runtime model: %w", err)
		}
		a.Throughput.RuntimeModel = fit.Model
	}
	if len(a.UsageSamples) > 0 {
		fit, err := perf.FitAffine(a.UsageSamples)
		if err != nil {
			return fmt.Errorf("failed to fit usage model: %w", err)
		}
		a.Memory.UsageModel = fit.Model
	}
	return nil
}
