package main

import (
	"os"

	"github.com/richard-senior/matchday/internal/cli"
	"github.com/richard-senior/matchday/internal/logger"
)

func main() {
	logger.SetShowDateTime(true)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
