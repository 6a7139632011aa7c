package models

// FileFailure records a file that could not be processed
type FileFailure struct {
	Name string
	Err  error
}

// BatchSummary represents the outcome of one batch run
type BatchSummary struct {
	Processed int
	Failed    int
	Skipped   int
	Failures  []FileFailure
}
