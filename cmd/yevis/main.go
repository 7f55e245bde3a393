// Package main is the entry point for the yevis CLI.
package main

import (
	"os"

	"github.com/sapporo-wes/yevis-cli-sub000/cmd/yevis/app"
	"github.com/sapporo-wes/yevis-cli-sub000/internal/logger"
)

func main() {
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
