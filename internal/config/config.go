package config

import "fmt"

// Chart styles. Enhanced adds latency bands, spike markers and outage
// shading on top of the simple line chart.
const (
	StyleEnhanced = "enhanced"
	StyleSimple   = "simple"
)

// Config holds all configuration for the report generator
type Config struct {
	InputDir        string
	OutputDir       string
	DatabasePath    string  // empty disables the stats index
	OutageThreshold float64 // packet loss percentage
	SpikeThreshold  float64 // milliseconds
	LogScale        bool
	Style           string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.OutageThreshold < 0 || c.OutageThreshold > 100 {
		return fmt.Errorf("outage threshold must be between 0 and 100")
	}
	if c.SpikeThreshold < 0 {
		return fmt.Errorf("spike threshold must not be negative")
	}
	if c.Style != StyleEnhanced && c.Style != StyleSimple {
		return fmt.Errorf("style must be %q or %q", StyleEnhanced, StyleSimple)
	}
	return nil
}
