package batch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"bqm-report/internal/config"
	"bqm-report/internal/loader"
	"bqm-report/internal/models"
)

// Runner walks the input directory and renders a chart for every
// result file it recognizes
type Runner struct {
	cfg      config.Config
	renderer models.ChartRenderer
	store    models.Store
}

// New creates a new Runner. store may be nil, in which case no
// statistics are recorded.
func New(cfg config.Config, renderer models.ChartRenderer, store models.Store) *Runner {
	return &Runner{
		cfg:      cfg,
		renderer: renderer,
		store:    store,
	}
}

// Run processes every matching file in the input directory. Files that
// fail to load or render are logged and counted, but never stop the
// rest of the batch. The returned summary is non-nil unless the output
// directory cannot be created or the input directory cannot be read.
func (r *Runner) Run() (*models.BatchSummary, error) {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", r.cfg.OutputDir, err)
	}
	entries, err := os.ReadDir(r.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", r.cfg.InputDir, err)
	}

	summary := &models.BatchSummary{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		date, matched, err := loader.MatchFilename(name)
		if !matched {
			summary.Skipped++
			continue
		}

		log.Printf("Processing %s", name)
		if err != nil {
			r.fail(summary, name, err)
			continue
		}

		ds, err := loader.LoadFile(filepath.Join(r.cfg.InputDir, name), date)
		if err != nil {
			r.fail(summary, name, err)
			continue
		}
		if ds.Dropped > 0 {
			log.Printf("Dropped %d rows with unparseable timestamps from %s", ds.Dropped, name)
		}

		path, err := r.renderer.RenderDay(ds)
		if err != nil {
			r.fail(summary, name, err)
			continue
		}
		log.Printf("Saved %s", path)
		summary.Processed++

		if r.store != nil {
			stats := models.ComputeDayStats(ds, r.cfg.SpikeThreshold, r.cfg.OutageThreshold)
			stats.ChartPath = path
			if err := r.store.SaveReport(stats); err != nil {
				log.Printf("Failed to record stats for %s: %v", name, err)
			}
		}
	}

	return summary, nil
}

func (r *Runner) fail(summary *models.BatchSummary, name string, err error) {
	log.Printf("Failed %s: %v", name, err)
	summary.Failed++
	summary.Failures = append(summary.Failures, models.FileFailure{Name: name, Err: err})
}
