package batch

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"bqm-report/internal/config"
	"bqm-report/internal/models"
	"bqm-report/internal/report"
)

const goodCSV = `Timestamp,Min Latency (ns),Ave Latency (ns),Max Latency (ns),Sent Polls,Lost Polls
2024-03-01T10:00:00,4000000,10000000,20000000,200,0
2024-03-01T10:10:00,5000000,12000000,250000000,200,50
`

type stubRenderer struct {
	rendered []string
	err      error
}

func (r *stubRenderer) RenderDay(ds *models.DailyDataset) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	path := "out/bqm_" + ds.Date.Format("2006-01-02") + ".png"
	r.rendered = append(r.rendered, path)
	return path, nil
}

type stubStore struct {
	saved []models.DayStats
	err   error
}

func (s *stubStore) SaveReport(stats models.DayStats) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, stats)
	return nil
}

func (s *stubStore) Close() error { return nil }

func testConfig(t *testing.T, inputDir string) config.Config {
	t.Helper()
	return config.Config{
		InputDir:        inputDir,
		OutputDir:       t.TempDir(),
		OutageThreshold: 20.0,
		SpikeThreshold:  200.0,
		Style:           config.StyleEnhanced,
	}
}

func writeInput(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestRunProcessesMatchingFiles(t *testing.T) {
	dir := writeInput(t, map[string]string{
		"bqm-result-2024-03-01.csv": goodCSV,
		"bqm-result-2024-03-02.csv": "Timestamp,Sent Polls\n2024-03-02T10:00:00,200\n",
		"bqm-result-2024-13-01.csv": goodCSV,
		"notes.txt":                 "not a result file",
	})

	renderer := &stubRenderer{}
	summary, err := New(testConfig(t, dir), renderer, nil).Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.Processed != 1 {
		t.Errorf("Processed = %d, want 1", summary.Processed)
	}
	if summary.Failed != 2 {
		t.Errorf("Failed = %d, want 2 (bad schema and bad date)", summary.Failed)
	}
	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
	if len(summary.Failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(summary.Failures))
	}
	names := map[string]bool{}
	for _, f := range summary.Failures {
		if f.Err == nil {
			t.Errorf("failure %s carries no error", f.Name)
		}
		names[f.Name] = true
	}
	if !names["bqm-result-2024-03-02.csv"] || !names["bqm-result-2024-13-01.csv"] {
		t.Errorf("unexpected failure names: %v", names)
	}
	if len(renderer.rendered) != 1 {
		t.Errorf("renderer called %d times, want 1", len(renderer.rendered))
	}
}

func TestRunRecordsStats(t *testing.T) {
	dir := writeInput(t, map[string]string{
		"bqm-result-2024-03-01.csv": goodCSV,
	})

	store := &stubStore{}
	summary, err := New(testConfig(t, dir), &stubRenderer{}, store).Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("Processed = %d, want 1", summary.Processed)
	}

	if len(store.saved) != 1 {
		t.Fatalf("store received %d reports, want 1", len(store.saved))
	}
	stats := store.saved[0]
	if stats.SourceFile != "bqm-result-2024-03-01.csv" {
		t.Errorf("SourceFile = %q", stats.SourceFile)
	}
	if stats.ChartPath != "out/bqm_2024-03-01.png" {
		t.Errorf("ChartPath = %q", stats.ChartPath)
	}
	if stats.Rows != 2 {
		t.Errorf("Rows = %d, want 2", stats.Rows)
	}
	// 250 ms max latency exceeds the 200 ms spike threshold, 25% loss
	// exceeds the 20% outage threshold.
	if stats.SpikeCount != 1 {
		t.Errorf("SpikeCount = %d, want 1", stats.SpikeCount)
	}
	if stats.MaxLoss == nil || *stats.MaxLoss != 25.0 {
		t.Errorf("MaxLoss = %v, want 25.0", stats.MaxLoss)
	}
}

func TestRunStoreErrorDoesNotFailFile(t *testing.T) {
	dir := writeInput(t, map[string]string{
		"bqm-result-2024-03-01.csv": goodCSV,
	})

	store := &stubStore{err: errors.New("disk full")}
	summary, err := New(testConfig(t, dir), &stubRenderer{}, store).Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 0 {
		t.Errorf("Processed/Failed = %d/%d, want 1/0 (store errors are logged only)", summary.Processed, summary.Failed)
	}
}

func TestRunRendererFailure(t *testing.T) {
	dir := writeInput(t, map[string]string{
		"bqm-result-2024-03-01.csv": goodCSV,
	})

	renderer := &stubRenderer{err: errors.New("render failed")}
	summary, err := New(testConfig(t, dir), renderer, nil).Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Processed != 0 || summary.Failed != 1 {
		t.Errorf("Processed/Failed = %d/%d, want 0/1", summary.Processed, summary.Failed)
	}
}

func TestRunMissingInputDir(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := New(cfg, &stubRenderer{}, nil).Run(); err == nil {
		t.Error("expected error for missing input directory")
	}
}

func TestRunEmptyInputDir(t *testing.T) {
	summary, err := New(testConfig(t, t.TempDir()), &stubRenderer{}, nil).Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Processed != 0 || summary.Failed != 0 || summary.Skipped != 0 {
		t.Errorf("summary = %+v, want all zero", summary)
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := writeInput(t, map[string]string{
		"bqm-result-2024-03-01.csv": "Timestamp,Min Latency (ns),Ave Latency (ns),Max Latency (ns),Sent Polls,Lost Polls\n" +
			"2024-03-01T08:00:00,4000000,9000000,20000000,200,0\n" +
			"2024-03-01T08:10:00,4500000,11000000,30000000,200,10\n" +
			"not-a-timestamp,4000000,9000000,20000000,200,0\n" +
			"2024-03-01T08:20:00,5000000,12000000,220000000,200,60\n",
		"bqm-result-2024-03-02.csv": "Timestamp,Sent Polls\n2024-03-02T08:00:00,200\n",
	})

	cfg := testConfig(t, dir)
	store := &stubStore{}
	summary, err := New(cfg, report.NewRenderer(cfg), store).Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 1 {
		t.Fatalf("Processed/Failed = %d/%d, want 1/1", summary.Processed, summary.Failed)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Name != "bqm-result-2024-03-02.csv" {
		t.Errorf("Failures = %+v, want only the malformed file", summary.Failures)
	}

	f, err := os.Open(filepath.Join(cfg.OutputDir, "bqm_2024-03-01.png"))
	if err != nil {
		t.Fatalf("Failed to open rendered chart: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode chart: %v", err)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 2400 || h != 1200 {
		t.Errorf("chart dimensions = %dx%d, want 2400x1200", w, h)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "bqm_2024-03-02.png")); !os.IsNotExist(err) {
		t.Errorf("failed day should not produce a chart, stat err = %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("store received %d reports, want 1", len(store.saved))
	}
	stats := store.saved[0]
	if stats.Rows != 3 || stats.DroppedRows != 1 {
		t.Errorf("Rows/DroppedRows = %d/%d, want 3/1", stats.Rows, stats.DroppedRows)
	}
	// 220 ms max latency on the last sample exceeds the 200 ms threshold
	if stats.SpikeCount != 1 {
		t.Errorf("SpikeCount = %d, want 1", stats.SpikeCount)
	}
	if stats.ChartPath != filepath.Join(cfg.OutputDir, "bqm_2024-03-01.png") {
		t.Errorf("ChartPath = %q", stats.ChartPath)
	}
}
