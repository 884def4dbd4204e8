package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/batchsight/batchsight/internal/logger"
	"github.com/batchsight/batchsight/pkg/annotation"
	"github.com/batchsight/batchsight/pkg/config"
	"github.com/batchsight/batchsight/pkg/predictor"
)

// Handlers for REST API calls

type sessionRequest struct {
	Source string `json:"source"`
}

type adjustmentRequest struct {
	DeltaPct float64 `json:"deltaPct"`
	BasePct  float64 `json:"basePct"`
}

type predictionResponse struct {
	PredictedBatchSize float64 `json:"predictedBatchSize"`
	MaxBatchSize       int     `json:"maxBatchSize"`
}

func createSession(c *gin.Context) {
	var req sessionRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}
	session := store.Create(req.Source)
	c.IndentedJSON(http.StatusOK, gin.H{"id": session.ID})
}

func removeSession(c *gin.Context) {
	id := c.Param("id")
	if err := store.Remove(id); err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "session " + id + " not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"id": id})
}

func getSource(c *gin.Context) {
	session, err := store.Get(c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}
	var source string
	session.Do(func() error {
		source = session.Buffer.Text()
		return nil
	})
	c.IndentedJSON(http.StatusOK, gin.H{"source": source})
}

func receivedAnalysis(c *gin.Context) {
	session, err := store.Get(c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}
	var data config.AnalysisData
	if err := c.BindJSON(&data); err != nil {
		return
	}
	if err := data.ResolveModels(); err != nil {
		logger.Log.Warnf("Rejected analysis for session %s: %v", session.ID, err)
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// analyses produced without editor positions fall back to locating
	// the annotation in the submitted source
	if len(data.Input.InputSize) == 0 {
		rng, dims, err := annotation.Locate(session.Buffer.Text())
		if err != nil {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		data.Input.AnnotationStart = rng.Start
		data.Input.AnnotationEnd = rng.End
		data.Input.InputSize = dims
	}

	err = session.Do(func() error {
		return session.Predictor.ReceivedAnalysis(data.Throughput, data.Memory, data.Input)
	})
	if err != nil {
		logger.Log.Warnf("Rejected analysis for session %s: %v", session.ID, err)
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"maxBatchSize": session.Predictor.MaxBatchSize(),
	})
}

func updateMemoryUsage(c *gin.Context) {
	adjust(c, func(session *Session, req adjustmentRequest) (float64, error) {
		return session.Predictor.UpdateMemoryUsage(req.DeltaPct, req.BasePct)
	})
}

func updateThroughput(c *gin.Context) {
	adjust(c, func(session *Session, req adjustmentRequest) (float64, error) {
		return session.Predictor.UpdateThroughput(req.DeltaPct, req.BasePct)
	})
}

func adjust(c *gin.Context, op func(*Session, adjustmentRequest) (float64, error)) {
	session, err := store.Get(c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}
	var req adjustmentRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}

	var batchSize float64
	err = session.Do(func() error {
		var opErr error
		batchSize, opErr = op(session, req)
		return opErr
	})
	if err != nil {
		logger.Log.Warnf("Adjustment failed for session %s: %v", session.ID, err)
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, predictionResponse{
		PredictedBatchSize: batchSize,
		MaxBatchSize:       session.Predictor.MaxBatchSize(),
	})
}

func clearPredictions(c *gin.Context) {
	session, err := store.Get(c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}
	err = session.Do(func() error {
		return session.Predictor.ClearPredictions()
	})
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"id": session.ID})
}

func getThroughputModel(c *gin.Context) {
	session, err := store.Get(c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}
	var projection *predictor.ThroughputProjection
	session.Do(func() error {
		projection = session.Predictor.ThroughputModel()
		return nil
	})
	if projection == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "no analysis received for session " + session.ID})
		return
	}
	c.IndentedJSON(http.StatusOK, projection)
}

func getMemoryModel(c *gin.Context) {
	session, err := store.Get(c.Param("id"))
	if err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}
	var projection *predictor.MemoryProjection
	session.Do(func() error {
		projection = session.Predictor.MemoryModel()
		return nil
	})
	if projection == nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "no analysis received for session " + session.ID})
		return
	}
	c.IndentedJSON(http.StatusOK, projection)
}
