package main

import (
	"os"

	"github.com/batchsight/batchsight/internal/logger"
	"github.com/batchsight/batchsight/pkg/rest"
)

// create and run a prediction session server
func main() {
	log, err := logger.InitLogger()
	if err != nil {
		os.Exit(1)
	}
	defer logger.SyncLogger()

	server := rest.NewServer()
	if err := server.Run(); err != nil {
		log.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}
