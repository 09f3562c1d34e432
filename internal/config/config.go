package config

// Config holds application settings (in-memory representation).
// Persistence is handled by internal/db package.
type Config struct {
	// Fetch parameters.
	Locations         []string `json:"locations"`
	ItemsPerChunk     int      `json:"items_per_chunk"`
	RetryDelaySeconds int      `json:"retry_delay_seconds"`
	TimeScale         int      `json:"time_scale"`
	LookbackHours     int      `json:"lookback_hours"`
	Category          string   `json:"category"` // "All" = no category filter

	// Pairing filters.
	ExcludedLocation string  `json:"excluded_location"`
	MinCoefficient   float64 `json:"min_coefficient"`
	MaxCoefficient   float64 `json:"max_coefficient"`

	// Scoring.
	ProfitTarget float64 `json:"profit_target"` // reference profit for break-even volume

	// Presentation.
	MaxRows int `json:"max_rows"`

	// Demand forecast threshold.
	HighDemandThreshold float64 `json:"high_demand_threshold"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Locations:           []string{"Fort Sterling", "Martlock", "Thetford", "Lymhurst", "Black Market"},
		ItemsPerChunk:       100,
		RetryDelaySeconds:   60,
		TimeScale:           6,
		LookbackHours:       24,
		Category:            "All",
		ExcludedLocation:    "Caerleon",
		MinCoefficient:      0.5,
		MaxCoefficient:      5.0,
		ProfitTarget:        5_000_000,
		MaxRows:             100,
		HighDemandThreshold: 100,
	}
}
