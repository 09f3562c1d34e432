package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"albion-arb/internal/aodata"
	"albion-arb/internal/api"
	"albion-arb/internal/db"
	"albion-arb/internal/logger"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	port := flag.Int("port", 13380, "HTTP server port")
	flag.Parse()

	// Optional .env for endpoint overrides; absence is fine.
	godotenv.Load()

	logger.Banner(version)

	database, err := db.Open()
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	cfg := database.LoadConfig()

	opts := []aodata.Option{
		aodata.WithChunkSize(cfg.ItemsPerChunk),
		aodata.WithRetryDelay(time.Duration(cfg.RetryDelaySeconds) * time.Second),
	}
	if items, charts, history := os.Getenv("AO_ITEMS_URL"), os.Getenv("AO_CHARTS_URL"), os.Getenv("AO_HISTORY_URL"); items != "" && charts != "" && history != "" {
		opts = append(opts, aodata.WithBaseURLs(items, charts, history))
	}
	aoClient := aodata.NewClient(opts...)

	srv := api.NewServer(cfg, aoClient, database)

	// Warm start in background: reuse the cached snapshot when present,
	// otherwise pull fresh data.
	go func() {
		if srv.LoadFromCache() {
			return
		}
		logger.Info("AO", "No cached data, fetching from API...")
		if err := srv.Refresh(api.RefreshOptions{}); err != nil {
			logger.Error("AO", fmt.Sprintf("Initial fetch failed: %v", err))
			return
		}
		logger.Success("AO", "Analyzer ready")
	}()

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	logger.Server(addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}
