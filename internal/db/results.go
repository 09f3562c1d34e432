package db

import (
	"log"
	"time"

	"albion-arb/internal/engine"
)

// AnalysisRun is one recorded analysis with its summary numbers.
type AnalysisRun struct {
	ID             int64   `json:"id"`
	Timestamp      string  `json:"timestamp"`
	Swapped        bool    `json:"swapped"`
	RowCount       int     `json:"row_count"`
	TopCoefficient float64 `json:"top_coefficient"`
	DurationMs     int64   `json:"duration_ms"`
}

// InsertAnalysisRun records a completed analysis and returns its id.
func (d *DB) InsertAnalysisRun(swapped bool, rowCount int, topCoefficient float64, duration time.Duration) int64 {
	res, err := d.sql.Exec(
		"INSERT INTO analysis_history (timestamp, swapped, row_count, top_coefficient, duration_ms) VALUES (?, ?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), swapped, rowCount, topCoefficient, duration.Milliseconds(),
	)
	if err != nil {
		log.Printf("[DB] InsertAnalysisRun: %v", err)
		return 0
	}
	id, _ := res.LastInsertId()
	return id
}

// GetAnalysisHistory returns the most recent analysis runs, newest first.
func (d *DB) GetAnalysisHistory(limit int) []AnalysisRun {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(`
		SELECT id, timestamp, swapped, row_count, top_coefficient, duration_ms
		FROM analysis_history ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		var r AnalysisRun
		rows.Scan(&r.ID, &r.Timestamp, &r.Swapped, &r.RowCount, &r.TopCoefficient, &r.DurationMs)
		runs = append(runs, r)
	}
	return runs
}

// InsertArbitrageResults bulk-inserts rows linked to an analysis run.
func (d *DB) InsertArbitrageResults(analysisID int64, results []engine.ArbitrageRow) {
	if analysisID == 0 || len(results) == 0 {
		return
	}

	tx, err := d.sql.Begin()
	if err != nil {
		log.Printf("[DB] InsertArbitrageResults begin tx: %v", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO arbitrage_results (
		analysis_id, item_id, item_name, quality,
		buy_location, buy_price, sell_location, sell_price,
		coefficient, break_even_volume, timestamp,
		buy_volume, sell_volume, buy_avg_price, sell_avg_price,
		smart_coefficient, potential_profit, roi
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		log.Printf("[DB] InsertArbitrageResults prepare: %v", err)
		return
	}
	defer stmt.Close()

	for _, r := range results {
		stmt.Exec(
			analysisID, r.ItemID, r.ItemName, r.Quality,
			r.BuyLocation, r.BuyPrice, r.SellLocation, r.SellPrice,
			r.Coefficient, r.BreakEvenVolume, r.Timestamp,
			r.BuyVolume, r.SellVolume, r.BuyAvgPrice, r.SellAvgPrice,
			r.SmartCoefficient, r.PotentialProfit, r.ROI,
		)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[DB] InsertArbitrageResults commit: %v", err)
	}
}

// GetArbitrageResults retrieves the rows stored for an analysis run.
func (d *DB) GetArbitrageResults(analysisID int64) []engine.ArbitrageRow {
	rows, err := d.sql.Query(`
		SELECT item_id, item_name, quality,
			buy_location, buy_price, sell_location, sell_price,
			coefficient, break_even_volume, timestamp,
			buy_volume, sell_volume, buy_avg_price, sell_avg_price,
			smart_coefficient, potential_profit, roi
		FROM arbitrage_results WHERE analysis_id = ?
	`, analysisID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var results []engine.ArbitrageRow
	for rows.Next() {
		var r engine.ArbitrageRow
		rows.Scan(
			&r.ItemID, &r.ItemName, &r.Quality,
			&r.BuyLocation, &r.BuyPrice, &r.SellLocation, &r.SellPrice,
			&r.Coefficient, &r.BreakEvenVolume, &r.Timestamp,
			&r.BuyVolume, &r.SellVolume, &r.BuyAvgPrice, &r.SellAvgPrice,
			&r.SmartCoefficient, &r.PotentialProfit, &r.ROI,
		)
		results = append(results, r)
	}
	return results
}
