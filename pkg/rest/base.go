package rest

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/batchsight/batchsight/internal/metrics"
)

// global pointer to the session store
var store *SessionStore

// REST server hosting prediction sessions
type Server struct {
	router *gin.Engine
}

func NewServer() *Server {
	server := &Server{
		router: gin.Default(),
	}

	// instantiate a clean session store
	store = NewSessionStore()

	registry := prometheus.NewRegistry()
	metrics.InitMetrics(registry)

	server.router.POST("/createSession", createSession)
	server.router.GET("/removeSession/:id", removeSession)
	server.router.GET("/getSource/:id", getSource)

	server.router.POST("/receivedAnalysis/:id", receivedAnalysis)
	server.router.POST("/updateMemoryUsage/:id", updateMemoryUsage)
	server.router.POST("/updateThroughput/:id", updateThroughput)
	server.router.GET("/clearPredictions/:id", clearPredictions)

	server.router.GET("/getThroughputModel/:id", getThroughputModel)
	server.router.GET("/getMemoryModel/:id", getMemoryModel)

	server.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return server
}

// Router exposes the underlying engine for tests.
func (server *Server) Router() *gin.Engine {
	return server.router
}

// start server
func (server *Server) Run() error {
	var host, port string
	if host = os.Getenv(RestHostEnvName); host == "" {
		host = DefaultRestHost
	}
	if port = os.Getenv(RestPortEnvName); port == "" {
		port = DefaultRestPort
	}
	return server.router.Run(host + ":" + port)
}
