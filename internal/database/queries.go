package database

import (
	"database/sql"
	"fmt"
	"time"

	"bqm-report/internal/models"
)

// SaveReport upserts one day's report statistics. Re-running a day
// replaces its row, mirroring how charts are overwritten on disk.
func (db *DB) SaveReport(stats models.DayStats) error {
	query := `
        INSERT OR REPLACE INTO daily_reports
        (date, source_file, chart_path, row_count, dropped_rows,
         min_latency_ms, avg_latency_ms, max_latency_ms, max_loss_pct,
         outage_count, spike_count)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := db.Exec(query,
		stats.Date.Format("2006-01-02"),
		stats.SourceFile,
		stats.ChartPath,
		stats.Rows,
		stats.DroppedRows,
		nullable(stats.MinLatency),
		nullable(stats.AvgLatency),
		nullable(stats.MaxLatency),
		nullable(stats.MaxLoss),
		stats.OutageCount,
		stats.SpikeCount,
	)
	return err
}

// GetReport retrieves the stored report for one date
func (db *DB) GetReport(date time.Time) (*models.DayStats, error) {
	query := `
        SELECT date, source_file, chart_path, row_count, dropped_rows,
               min_latency_ms, avg_latency_ms, max_latency_ms, max_loss_pct,
               outage_count, spike_count
        FROM daily_reports
        WHERE date = ?
    `
	return scanReport(db.QueryRow(query, date.Format("2006-01-02")))
}

// ListReports retrieves all stored reports ordered by date
func (db *DB) ListReports() ([]models.DayStats, error) {
	query := `
        SELECT date, source_file, chart_path, row_count, dropped_rows,
               min_latency_ms, avg_latency_ms, max_latency_ms, max_loss_pct,
               outage_count, spike_count
        FROM daily_reports
        ORDER BY date
    `
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.DayStats
	for rows.Next() {
		stats, err := scanReport(rows)
		if err != nil {
			continue
		}
		reports = append(reports, *stats)
	}

	return reports, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*models.DayStats, error) {
	var s models.DayStats
	var dateStr string
	var minL, avgL, maxL, maxLoss sql.NullFloat64

	err := row.Scan(&dateStr, &s.SourceFile, &s.ChartPath, &s.Rows, &s.DroppedRows,
		&minL, &avgL, &maxL, &maxLoss, &s.OutageCount, &s.SpikeCount)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q in daily_reports: %w", dateStr, err)
	}
	s.Date = date
	s.MinLatency = floatPtr(minL)
	s.AvgLatency = floatPtr(avgL)
	s.MaxLatency = floatPtr(maxL)
	s.MaxLoss = floatPtr(maxLoss)

	return &s, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
