// Command tool holds operator helpers: applying the schema and minting
// access tokens for manual or load testing.
package main

import (
	"os"

	"github.com/baechuer/france-explorer/internal/logger"
)

func main() {
	logger.Init()

	if err := newRootCmd(defaultToolDeps()).Execute(); err != nil {
		os.Exit(1)
	}
}
