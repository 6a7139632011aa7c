package config

import "flag"

// ParseFlags parses command-line flags and returns a Config
func ParseFlags() Config {
	var (
		inputDir  = flag.String("input", "data", "Directory scanned for daily CSV files")
		outputDir = flag.String("output", "bqm_images", "Directory for rendered charts")
		dbPath    = flag.String("db", "", "SQLite stats index path (empty disables the index)")
		outage    = flag.Float64("outage-threshold", 20.0, "Packet loss percentage shaded as an outage")
		spike     = flag.Float64("spike-threshold", 200.0, "Max latency in milliseconds marked as a spike")
		logScale  = flag.Bool("log-scale", false, "Use a logarithmic latency axis")
		style     = flag.String("style", StyleEnhanced, "Chart style: enhanced or simple")
	)
	flag.Parse()

	return Config{
		InputDir:        *inputDir,
		OutputDir:       *outputDir,
		DatabasePath:    *dbPath,
		OutageThreshold: *outage,
		SpikeThreshold:  *spike,
		LogScale:        *logScale,
		Style:           *style,
	}
}
