package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"albion-arb/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

func dbPath() string {
	// Prefer working directory so the DB is stable across go run / go build.
	// Fall back to executable directory for deployed builds.
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "albion-arb.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "albion-arb.db")
}

// Open opens (or creates) the SQLite database in the working directory and
// runs migrations.
func Open() (*DB, error) {
	return OpenPath(dbPath())
}

// OpenPath opens (or creates) a SQLite database at the given path.
func OpenPath(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS data_cache (
				key        TEXT PRIMARY KEY,
				value      TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS analysis_history (
				id              INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp       TEXT NOT NULL,
				swapped         INTEGER NOT NULL DEFAULT 0,
				row_count       INTEGER NOT NULL,
				top_coefficient REAL NOT NULL DEFAULT 0,
				duration_ms     INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_analysis_history_ts ON analysis_history(timestamp);

			CREATE TABLE IF NOT EXISTS arbitrage_results (
				id                INTEGER PRIMARY KEY AUTOINCREMENT,
				analysis_id       INTEGER NOT NULL REFERENCES analysis_history(id),
				item_id           TEXT,
				item_name         TEXT,
				quality           INTEGER,
				buy_location      TEXT,
				buy_price         REAL,
				sell_location     TEXT,
				sell_price        REAL,
				coefficient       REAL,
				break_even_volume INTEGER,
				timestamp         TEXT,
				buy_volume        INTEGER,
				sell_volume       INTEGER,
				buy_avg_price     REAL,
				sell_avg_price    REAL,
				smart_coefficient REAL,
				potential_profit  INTEGER,
				roi               REAL
			);
			CREATE INDEX IF NOT EXISTS idx_arbitrage_analysis ON arbitrage_results(analysis_id);
			CREATE INDEX IF NOT EXISTS idx_arbitrage_item ON arbitrage_results(item_id);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1")
	}

	return nil
}
