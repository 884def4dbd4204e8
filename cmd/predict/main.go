package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/batchsight/batchsight/internal/logger"
	"github.com/batchsight/batchsight/pkg/annotation"
	"github.com/batchsight/batchsight/pkg/config"
	"github.com/batchsight/batchsight/pkg/predictor"
)

// one-shot prediction: load an analysis bundle, apply an adjustment,
// print the predicted batch size and projections
func main() {
	analysisPath := flag.String("analysis", "analysis.yaml", "path to analysis bundle (YAML)")
	kind := flag.String("kind", "memory", "adjustment kind (memory or throughput)")
	deltaPct := flag.Float64("delta-pct", 0, "signed percentage-point change")
	basePct := flag.Float64("base-pct", 100, "percentage-point baseline")
	flag.Parse()

	log, err := logger.InitLogger()
	if err != nil {
		os.Exit(1)
	}
	defer logger.SyncLogger()

	data, err := config.LoadAnalysis(*analysisPath)
	if err != nil {
		log.Errorf("Failed to load analysis: %v", err)
		os.Exit(1)
	}

	// host the annotation in a scratch buffer rendered from the input size
	buffer := annotation.NewBuffer(annotation.Render(data.Input.InputSize))
	data.Input.AnnotationStart = annotation.Position{Line: 0, Column: 0}
	data.Input.AnnotationEnd = annotation.Position{Line: 0, Column: len(buffer.Text())}

	p := predictor.New(buffer)
	if err := p.ReceivedAnalysis(data.Throughput, data.Memory, data.Input); err != nil {
		log.Errorf("Failed to apply analysis: %v", err)
		os.Exit(1)
	}

	var batchSize float64
	switch *kind {
	case "memory":
		batchSize, err = p.UpdateMemoryUsage(*deltaPct, *basePct)
	case "throughput":
		batchSize, err = p.UpdateThroughput(*deltaPct, *basePct)
	default:
		log.Errorf("Unknown adjustment kind %q", *kind)
		os.Exit(1)
	}
	if err != nil {
		log.Errorf("Adjustment failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("predicted batch size: %.0f (max %d)\n", batchSize, p.MaxBatchSize())
	if tp := p.ThroughputModel(); tp != nil {
		fmt.Printf("throughput: %.2f samples/s (max %.2f)\n", tp.SamplesPerSecond, tp.MaxThroughput)
	}
	if mem := p.MemoryModel(); mem != nil {
		fmt.Printf("memory: %.2f mb of %.2f mb\n", mem.UsageMb, mem.MaxCapacityMb)
	}
	fmt.Printf("annotation: %s\n", buffer.Text())
}
