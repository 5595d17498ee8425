package config

import "fmt"

// ExportConfig controls where and how run results are written.
type ExportConfig struct {
	// Dir is the output directory for the report tables.
	Dir string `json:"dir"`
	// Format selects "csv" or "json" for the projection table. The report
	// tables are always CSV.
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *ExportConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "out"
	}
	if c.Format == "" {
		c.Format = "csv"
	}
}

// Validate checks mandatory fields.
func (c ExportConfig) Validate() error {
	if c.Format != "csv" && c.Format != "json" {
		return fmt.Errorf("unknown export format %s", c.Format)
	}
	return nil
}
