package db

import (
	"fmt"
	"time"
)

// Cache keys for the raw API payloads. All three must be present for a
// warm start to skip the network.
const (
	CacheKeyItems   = "itemsData"
	CacheKeyCharts  = "chartsData"
	CacheKeyHistory = "historyData"
)

// SaveRawData stores a raw payload under the given cache key.
func (d *DB) SaveRawData(key string, value []byte) error {
	_, err := d.sql.Exec(
		"INSERT OR REPLACE INTO data_cache (key, value, updated_at) VALUES (?, ?, ?)",
		key, string(value), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save cache %s: %w", key, err)
	}
	return nil
}

// LoadRawData returns the cached payload for key, or nil when absent.
func (d *DB) LoadRawData(key string) []byte {
	var value string
	err := d.sql.QueryRow("SELECT value FROM data_cache WHERE key = ?", key).Scan(&value)
	if err != nil {
		return nil
	}
	return []byte(value)
}

// CacheUpdatedAt returns when the given cache key was last written, or the
// zero time when the key is absent.
func (d *DB) CacheUpdatedAt(key string) time.Time {
	var stamp string
	if err := d.sql.QueryRow("SELECT updated_at FROM data_cache WHERE key = ?", key).Scan(&stamp); err != nil {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, stamp)
	return t
}

// HasAllRawData reports whether every cache key needed for a warm start is
// present.
func (d *DB) HasAllRawData() bool {
	for _, key := range []string{CacheKeyItems, CacheKeyCharts, CacheKeyHistory} {
		var n int
		if err := d.sql.QueryRow("SELECT COUNT(*) FROM data_cache WHERE key = ?", key).Scan(&n); err != nil || n == 0 {
			return false
		}
	}
	return true
}

// ClearRawData drops all cached payloads.
func (d *DB) ClearRawData() error {
	_, err := d.sql.Exec("DELETE FROM data_cache")
	return err
}
