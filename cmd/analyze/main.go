package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"revpulse/internal/analytics"
	"revpulse/internal/config"
	"revpulse/internal/dataset"
	"revpulse/internal/infrastructure"
	"revpulse/pkg/contracts"
)

func main() {
	input := flag.String("input", "", "transactions file to analyze (.csv, .xlsx or .xls)")
	contamination := flag.Float64("contamination", 0, "expected anomaly fraction in (0, 0.5); 0 means the configured default")
	summaryOnly := flag.Bool("summary-only", false, "emit only the summary object, without the canonical table")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetVersionString())
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -input <file> [-contamination 0.01] [-summary-only]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Diagnostics go to stderr so stdout stays a clean JSON document.
	logCfg := cfg.Logging
	logCfg.Output = "stderr"
	logger, err := infrastructure.NewLogger(logCfg)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *contamination == 0 {
		*contamination = cfg.Analysis.DefaultContamination
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		logger.Error("Failed to read input file", "error", err)
		os.Exit(1)
	}

	service := analytics.NewService(cfg.Analysis, cfg.Schema, logger)
	result, err := service.Analyze(context.Background(), *input, data, *contamination)
	if err != nil {
		var formatErr *dataset.UnsupportedFormatError
		var missingErr *dataset.MissingColumnError
		switch {
		case errors.As(err, &formatErr), errors.As(err, &missingErr):
			logger.Error("Input rejected", "error", err)
		default:
			logger.Error("Analysis failed", "error", err)
		}
		os.Exit(1)
	}

	if result.Empty {
		logger.Warn("No valid rows survived cleaning",
			"input_rows", result.Dropped.InputRows,
			"dropped", result.Dropped.Dropped())
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	var payload interface{} = result
	if *summaryOnly {
		payload = result.Summary
	}
	if err := encoder.Encode(payload); err != nil {
		logger.Error("Failed to encode result", "error", err)
		os.Exit(1)
	}
}
