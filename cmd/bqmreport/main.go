package main

import (
	"log"
	"os"

	"bqm-report/internal/batch"
	"bqm-report/internal/config"
	"bqm-report/internal/database"
	"bqm-report/internal/models"
	"bqm-report/internal/report"
)

func main() {
	// Parse configuration
	cfg := config.ParseFlags()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the stats database when one is configured
	var store models.Store
	if cfg.DatabasePath != "" {
		db, err := database.New(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize database schema: %v", err)
		}
		store = db
	}

	// Render a chart for every result file
	runner := batch.New(cfg, report.NewRenderer(cfg), store)
	summary, err := runner.Run()
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	log.Printf("Done. %d charts rendered, %d files failed, %d files skipped",
		summary.Processed, summary.Failed, summary.Skipped)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
