// Command breakdown processes a script file through the pipeline and prints
// the final report as JSON. Useful for local runs and batch jobs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonesrussell/script-breakdown/internal/bootstrap"
	"github.com/jonesrussell/script-breakdown/internal/config"
	"github.com/jonesrussell/script-breakdown/internal/logging"
)

func main() {
	scriptPath := flag.String("script", "", "path to the script text file")
	scriptID := flag.String("id", "", "script id (defaults to the file name)")
	configPath := flag.String("config", os.Getenv("BREAKDOWN_CONFIG"), "path to config file")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "usage: breakdown -script <file> [-id <script id>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Must(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	defer func() { _ = logger.Sync() }()

	comps, err := bootstrap.NewComponents(cfg, logger, bootstrap.Options{})
	if err != nil {
		logger.Error("startup failed", logging.Error(err))
		os.Exit(1)
	}

	text, err := os.ReadFile(*scriptPath)
	if err != nil {
		logger.Error("read script", logging.Error(err))
		os.Exit(1)
	}

	id := *scriptID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(*scriptPath), filepath.Ext(*scriptPath))
	}

	report, err := comps.Orchestrator.Process(context.Background(), id, string(text))
	if err != nil {
		logger.Error("pipeline failed", logging.Error(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Error("encode report", logging.Error(err))
		os.Exit(1)
	}
}
