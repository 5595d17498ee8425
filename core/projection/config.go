package projection

import "fmt"

// Config carries the service-interval policy and classification thresholds.
// Zero values are filled by SetDefaults.
type Config struct {
	// TimeIntervalDays is the calendar service interval.
	TimeIntervalDays int `json:"time_interval_days" yaml:"time_interval_days"`
	// DistanceInterval is the odometer service interval.
	DistanceInterval float64 `json:"distance_interval" yaml:"distance_interval"`
	// AttentionDays puts a vehicle in the warning window this many days
	// before its due date.
	AttentionDays int `json:"attention_days" yaml:"attention_days"`
	// AttentionDistance puts a vehicle in the warning window this many
	// distance units before its due odometer.
	AttentionDistance float64 `json:"attention_distance" yaml:"attention_distance"`
	// RenewalAgeYears is the model-year age at which a vehicle becomes
	// renewal-eligible.
	RenewalAgeYears int `json:"renewal_age_years" yaml:"renewal_age_years"`
	// ReferenceCost is the per-service cost assumed when no historical cost
	// data exists.
	ReferenceCost float64 `json:"reference_cost" yaml:"reference_cost"`
	// DailyDistance converts a distance shortfall into equivalent days for
	// the advisory EffectiveDays column.
	DailyDistance float64 `json:"daily_distance" yaml:"daily_distance"`
	// Workers bounds the per-vehicle fan-out. 0 means one worker per CPU.
	Workers int `json:"workers" yaml:"workers"`
}

// SetDefaults applies the domain defaults.
func (c *Config) SetDefaults() {
	if c.TimeIntervalDays == 0 {
		c.TimeIntervalDays = 365
	}
	if c.DistanceInterval == 0 {
		c.DistanceInterval = 10000
	}
	if c.AttentionDays == 0 {
		c.AttentionDays = 30
	}
	if c.AttentionDistance == 0 {
		c.AttentionDistance = 1000
	}
	if c.RenewalAgeYears == 0 {
		c.RenewalAgeYears = 3
	}
	if c.ReferenceCost == 0 {
		c.ReferenceCost = 500
	}
	if c.DailyDistance == 0 {
		c.DailyDistance = 50
	}
}

// Validate checks the thresholds are usable.
func (c Config) Validate() error {
	if c.TimeIntervalDays < 0 {
		return fmt.Errorf("time_interval_days must not be negative")
	}
	if c.DistanceInterval < 0 {
		return fmt.Errorf("distance_interval must not be negative")
	}
	if c.DailyDistance < 0 {
		return fmt.Errorf("daily_distance must not be negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}
