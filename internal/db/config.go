package db

import (
	"encoding/json"
	"fmt"
	"strconv"

	"albion-arb/internal/config"
)

// LoadConfig reads config from SQLite. If empty, returns defaults.
func (d *DB) LoadConfig() *config.Config {
	cfg := config.Default()

	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}

	if len(m) == 0 {
		return cfg
	}

	if v, ok := m["locations"]; ok {
		var locs []string
		if err := json.Unmarshal([]byte(v), &locs); err == nil && len(locs) > 0 {
			cfg.Locations = locs
		}
	}
	if v, ok := m["items_per_chunk"]; ok {
		cfg.ItemsPerChunk, _ = strconv.Atoi(v)
	}
	if v, ok := m["retry_delay_seconds"]; ok {
		cfg.RetryDelaySeconds, _ = strconv.Atoi(v)
	}
	if v, ok := m["time_scale"]; ok {
		cfg.TimeScale, _ = strconv.Atoi(v)
	}
	if v, ok := m["lookback_hours"]; ok {
		cfg.LookbackHours, _ = strconv.Atoi(v)
	}
	if v, ok := m["category"]; ok {
		cfg.Category = v
	}
	if v, ok := m["excluded_location"]; ok {
		cfg.ExcludedLocation = v
	}
	if v, ok := m["min_coefficient"]; ok {
		cfg.MinCoefficient, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["max_coefficient"]; ok {
		cfg.MaxCoefficient, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["profit_target"]; ok {
		cfg.ProfitTarget, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["max_rows"]; ok {
		cfg.MaxRows, _ = strconv.Atoi(v)
	}
	if v, ok := m["high_demand_threshold"]; ok {
		cfg.HighDemandThreshold, _ = strconv.ParseFloat(v, 64)
	}

	return cfg
}

// SaveConfig writes config to SQLite (upsert all fields).
func (d *DB) SaveConfig(cfg *config.Config) error {
	locationsJSON := "[]"
	if b, err := json.Marshal(cfg.Locations); err == nil {
		locationsJSON = string(b)
	}

	pairs := map[string]string{
		"locations":             locationsJSON,
		"items_per_chunk":       strconv.Itoa(cfg.ItemsPerChunk),
		"retry_delay_seconds":   strconv.Itoa(cfg.RetryDelaySeconds),
		"time_scale":            strconv.Itoa(cfg.TimeScale),
		"lookback_hours":        strconv.Itoa(cfg.LookbackHours),
		"category":              cfg.Category,
		"excluded_location":     cfg.ExcludedLocation,
		"min_coefficient":       fmt.Sprintf("%g", cfg.MinCoefficient),
		"max_coefficient":       fmt.Sprintf("%g", cfg.MaxCoefficient),
		"profit_target":         fmt.Sprintf("%g", cfg.ProfitTarget),
		"max_rows":              strconv.Itoa(cfg.MaxRows),
		"high_demand_threshold": fmt.Sprintf("%g", cfg.HighDemandThreshold),
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for k, v := range pairs {
		if _, err := stmt.Exec(k, v); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
