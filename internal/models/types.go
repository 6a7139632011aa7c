package models

// ChartRenderer interface defines chart generation operations
type ChartRenderer interface {
	RenderDay(ds *DailyDataset) (string, error)
}

// Store interface defines operations for report persistence
type Store interface {
	SaveReport(stats DayStats) error
	Close() error
}
