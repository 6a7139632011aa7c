package loader

import (
	"fmt"
	"regexp"
	"time"
)

// Daily result files are named bqm-result-YYYY-MM-DD.csv. The pattern is
// anchored at the start only, so names with trailing suffixes still match.
var filenamePattern = regexp.MustCompile(`^bqm-result-(\d{4}-\d{2}-\d{2})\.csv`)

// MatchFilename reports whether name is a daily BQM result file and
// extracts the date encoded in it. A name that matches the pattern but
// carries an impossible calendar date returns ok=true together with an
// error, so callers can surface it instead of silently skipping the file.
func MatchFilename(name string) (time.Time, bool, error) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false, nil
	}

	date, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, true, fmt.Errorf("invalid date in filename %q: %w", name, err)
	}
	return date, true, nil
}
