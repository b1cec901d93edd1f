package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tkjaer/pinglog/internal/config"
	"github.com/tkjaer/pinglog/internal/extract"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args, err := config.ParseExtractArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logFile, err := config.SetupLogging(args.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	output, rows, err := extract.ExtractFile(args.InputFile)
	if err != nil {
		slog.Error("Extraction failed", "input", args.InputFile, "error", err)
		os.Exit(1)
	}

	slog.Info("Wrote CSV", "output", output, "rows", rows)
}
