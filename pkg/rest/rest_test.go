package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/batchsight/batchsight/pkg/config"
	"github.com/batchsight/batchsight/pkg/perf"
)

const testSource = "# @innpv size (16, 3, 256, 256)\ntrain()"

func testAnalysis() config.AnalysisData {
	return config.AnalysisData{
		Throughput: perf.ThroughputInfo{
			RuntimeModel:    perf.AffineModel{Slope: 2, Intercept: 10},
			MaxThroughput:   400,
			ThroughputLimit: 600,
		},
		Memory: perf.MemoryInfo{
			UsageModel:    perf.AffineModel{Slope: 50, Intercept: 200},
			MaxCapacityMb: 8000,
		},
	}
}

var _ = Describe("Prediction session server", Ordered, func() {
	var (
		server    *Server
		sessionID string
	)

	doJSON := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req, err := http.NewRequest(method, path, &buf)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		server.Router().ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]any {
		var out map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &out)).To(Succeed())
		return out
	}

	BeforeAll(func() {
		server = NewServer()
	})

	It("creates a session over submitted source", func() {
		w := doJSON(http.MethodPost, "/createSession", sessionRequest{Source: testSource})
		Expect(w.Code).To(Equal(http.StatusOK))
		sessionID = decode(w)["id"].(string)
		Expect(sessionID).NotTo(BeEmpty())
	})

	It("rejects adjustments before any analysis", func() {
		w := doJSON(http.MethodPost, "/updateMemoryUsage/"+sessionID, adjustmentRequest{DeltaPct: 0, BasePct: 100})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("accepts an analysis and locates the annotation", func() {
		w := doJSON(http.MethodPost, "/receivedAnalysis/"+sessionID, testAnalysis())
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["maxBatchSize"]).To(BeNumerically("==", 156))
	})

	It("predicts from a memory adjustment and patches the annotation", func() {
		w := doJSON(http.MethodPost, "/updateMemoryUsage/"+sessionID, adjustmentRequest{DeltaPct: 0, BasePct: 100})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["predictedBatchSize"]).To(BeNumerically("==", 156))

		w = doJSON(http.MethodGet, "/getSource/"+sessionID, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["source"]).To(Equal("# @innpv size (156, 3, 256, 256)\ntrain()"))
	})

	It("predicts from a throughput adjustment", func() {
		w := doJSON(http.MethodPost, "/updateThroughput/"+sessionID, adjustmentRequest{DeltaPct: 0, BasePct: 100})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["predictedBatchSize"]).To(BeNumerically("==", 20))
	})

	It("substitutes the ceiling for an unreachable throughput target", func() {
		w := doJSON(http.MethodPost, "/updateThroughput/"+sessionID, adjustmentRequest{DeltaPct: 50, BasePct: 100})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["predictedBatchSize"]).To(BeNumerically("==", 156))
	})

	It("serves projections at the predicted batch size", func() {
		w := doJSON(http.MethodGet, "/getMemoryModel/"+sessionID, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		projection := decode(w)
		Expect(projection["batchSize"]).To(BeNumerically("==", 156))
		Expect(projection["usageMb"]).To(BeNumerically("==", 50*156+200))

		w = doJSON(http.MethodGet, "/getThroughputModel/"+sessionID, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["maxThroughput"]).To(BeNumerically("==", 400))
	})

	It("clears predictions and restores the source", func() {
		w := doJSON(http.MethodGet, "/clearPredictions/"+sessionID, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = doJSON(http.MethodGet, "/getSource/"+sessionID, nil)
		Expect(decode(w)["source"]).To(Equal(testSource))
	})

	It("fits models from raw samples when provided", func() {
		w := doJSON(http.MethodPost, "/createSession", sessionRequest{Source: testSource})
		id := decode(w)["id"].(string)

		analysis := testAnalysis()
		analysis.Memory.UsageModel = perf.AffineModel{}
		analysis.UsageSamples = []perf.Sample{
			{BatchSize: 4, Measurement: 400},
			{BatchSize: 8, Measurement: 600},
			{BatchSize: 16, Measurement: 1000},
		}
		w = doJSON(http.MethodPost, "/receivedAnalysis/"+id, analysis)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["maxBatchSize"]).To(BeNumerically("==", 156))
	})

	It("rejects a degenerate analysis", func() {
		w := doJSON(http.MethodPost, "/createSession", sessionRequest{Source: testSource})
		id := decode(w)["id"].(string)

		analysis := testAnalysis()
		analysis.Memory.UsageModel = perf.AffineModel{Slope: 0, Intercept: 200}
		w = doJSON(http.MethodPost, "/receivedAnalysis/"+id, analysis)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("serves reads concurrently with adjustments", func() {
		w := doJSON(http.MethodPost, "/createSession", sessionRequest{Source: testSource})
		id := decode(w)["id"].(string)
		w = doJSON(http.MethodPost, "/receivedAnalysis/"+id, testAnalysis())
		Expect(w.Code).To(Equal(http.StatusOK))

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(base float64) {
				defer GinkgoRecover()
				defer wg.Done()
				w := doJSON(http.MethodPost, "/updateMemoryUsage/"+id, adjustmentRequest{DeltaPct: 0, BasePct: base})
				Expect(w.Code).To(Equal(http.StatusOK))
			}(float64(20 + i))
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				Expect(doJSON(http.MethodGet, "/getMemoryModel/"+id, nil).Code).To(Equal(http.StatusOK))
				Expect(doJSON(http.MethodGet, "/getThroughputModel/"+id, nil).Code).To(Equal(http.StatusOK))
				Expect(doJSON(http.MethodGet, "/getSource/"+id, nil).Code).To(Equal(http.StatusOK))
			}()
		}
		wg.Wait()
	})

	It("returns 404 for unknown sessions", func() {
		w := doJSON(http.MethodGet, "/getThroughputModel/does-not-exist", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("removes a session", func() {
		w := doJSON(http.MethodGet, "/removeSession/"+sessionID, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = doJSON(http.MethodGet, "/getSource/"+sessionID, nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
