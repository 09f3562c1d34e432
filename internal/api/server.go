package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"albion-arb/internal/aodata"
	"albion-arb/internal/config"
	"albion-arb/internal/db"
	"albion-arb/internal/engine"
	"albion-arb/internal/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Server is the HTTP API server that connects the market data client,
// analysis engine, and database.
type Server struct {
	cfg *config.Config
	ao  *aodata.Client
	db  *db.DB

	mu         sync.RWMutex
	catalog    *aodata.Catalog
	charts     []aodata.ChartEntry
	history    []aodata.HistoryEntry
	result     *engine.AnalysisResult
	swapped    bool
	lastUpdate time.Time
	ready      bool

	// Coalesces concurrent refresh requests into one fetch.
	refreshGroup singleflight.Group
}

// NewServer creates a Server with the given config, data client, and database.
func NewServer(cfg *config.Config, aoClient *aodata.Client, database *db.DB) *Server {
	return &Server{
		cfg: cfg,
		ao:  aoClient,
		db:  database,
	}
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/swap", s.handleSwap)
	mux.HandleFunc("GET /api/rows", s.handleRows)
	mux.HandleFunc("POST /api/rows/recalculate", s.handleRecalculate)
	mux.HandleFunc("GET /api/locations", s.handleLocations)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/trends", s.handleTrends)
	mux.HandleFunc("GET /api/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/blackmarket", s.handleBlackMarket)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/history/{id}/results", s.handleHistoryResults)
	mux.HandleFunc("POST /api/cache/clear", s.handleCacheClear)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Server) pairConfig() engine.PairConfig {
	return engine.PairConfig{
		MinCoefficient:   s.cfg.MinCoefficient,
		MaxCoefficient:   s.cfg.MaxCoefficient,
		ExcludedLocation: s.cfg.ExcludedLocation,
		ProfitTarget:     s.cfg.ProfitTarget,
	}
}

// LoadFromCache attempts a warm start from the persisted raw payloads.
// Returns false when any of the three cache keys is missing or unreadable.
func (s *Server) LoadFromCache() bool {
	if !s.db.HasAllRawData() {
		return false
	}

	var items []aodata.Item
	if err := json.Unmarshal(s.db.LoadRawData(db.CacheKeyItems), &items); err != nil {
		logger.Warn("CACHE", fmt.Sprintf("Bad items payload: %v", err))
		return false
	}
	var charts []aodata.ChartEntry
	if err := json.Unmarshal(s.db.LoadRawData(db.CacheKeyCharts), &charts); err != nil {
		logger.Warn("CACHE", fmt.Sprintf("Bad charts payload: %v", err))
		return false
	}
	var history []aodata.HistoryEntry
	if err := json.Unmarshal(s.db.LoadRawData(db.CacheKeyHistory), &history); err != nil {
		logger.Warn("CACHE", fmt.Sprintf("Bad history payload: %v", err))
		return false
	}

	s.apply(aodata.BuildCatalog(items), charts, history, false, s.db.CacheUpdatedAt(db.CacheKeyCharts))
	logger.Success("CACHE", fmt.Sprintf("Warm start: %d chart entries, %d history entries", len(charts), len(history)))
	return true
}

// RefreshOptions override parts of the configured fetch window for a single
// refresh. Zero values fall back to config.
type RefreshOptions struct {
	Category string
	DateFrom time.Time
	DateTo   time.Time
}

// Refresh fetches the item catalog plus chart and history data, persists the
// raw payloads, and reruns the analysis. Concurrent callers share one fetch.
func (s *Server) Refresh(opts RefreshOptions) error {
	_, err, _ := s.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, s.doRefresh(opts)
	})
	return err
}

func (s *Server) doRefresh(opts RefreshOptions) error {
	start := time.Now()

	catalog, err := s.ao.FetchItems()
	if err != nil {
		return fmt.Errorf("fetch items: %w", err)
	}

	s.mu.RLock()
	locations := append([]string(nil), s.cfg.Locations...)
	category := s.cfg.Category
	timeScale := s.cfg.TimeScale
	lookback := time.Duration(s.cfg.LookbackHours) * time.Hour
	s.mu.RUnlock()

	if opts.Category != "" {
		category = opts.Category
	}
	now := time.Now()
	from, to := now.Add(-lookback), now
	if !opts.DateFrom.IsZero() {
		from = opts.DateFrom
	}
	if !opts.DateTo.IsZero() {
		to = opts.DateTo
	}

	ids := catalog.FilterByCategory(catalog.TradeableIDs(), category)
	logger.Info("AO", fmt.Sprintf("Fetching market data for %d items across %d locations", len(ids), len(locations)))

	params := aodata.FetchParams{
		Locations: locations,
		DateFrom:  from,
		DateTo:    to,
		TimeScale: timeScale,
	}

	progress := func(msg string) { logger.Info("AO", msg) }

	var charts []aodata.ChartEntry
	var history []aodata.HistoryEntry
	var g errgroup.Group
	g.Go(func() error {
		var err error
		charts, err = s.ao.FetchCharts(ids, params, progress)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.ao.FetchHistory(ids, params, progress)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch market data: %w", err)
	}

	if b, err := json.Marshal(catalog.Items); err == nil {
		s.db.SaveRawData(db.CacheKeyItems, b)
	}
	if b, err := json.Marshal(charts); err == nil {
		s.db.SaveRawData(db.CacheKeyCharts, b)
	}
	if b, err := json.Marshal(history); err == nil {
		s.db.SaveRawData(db.CacheKeyHistory, b)
	}

	s.apply(catalog, charts, history, false, time.Now())
	s.recordRun(start)
	return nil
}

// apply swaps in a new data set and reruns the pipeline over it.
func (s *Server) apply(catalog *aodata.Catalog, charts []aodata.ChartEntry, history []aodata.HistoryEntry, swapped bool, updated time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
	s.charts = charts
	s.history = history
	s.swapped = swapped

	analyzer := engine.NewAnalyzer(catalog.Names, s.pairConfig())
	s.result = analyzer.Analyze(charts, history, swapped)
	s.lastUpdate = updated
	s.ready = true
}

// reanalyze reruns the pipeline over the in-memory data set, e.g. after a
// config change or direction swap.
func (s *Server) reanalyze(swapped bool) *engine.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	analyzer := engine.NewAnalyzer(s.catalog.Names, s.pairConfig())
	s.result = analyzer.Analyze(s.charts, s.history, swapped)
	s.swapped = swapped
	return s.result
}

func (s *Server) recordRun(start time.Time) {
	s.mu.RLock()
	result := s.result
	swapped := s.swapped
	s.mu.RUnlock()
	if result == nil {
		return
	}

	top := 0.0
	if len(result.Rows) > 0 {
		top = result.Rows[0].Coefficient
	}
	duration := time.Since(start)
	id := s.db.InsertAnalysisRun(swapped, len(result.Rows), top, duration)
	s.db.InsertArbitrageResults(id, result.Rows)

	logger.Section("Analysis")
	logger.Stats("rows", len(result.Rows))
	logger.Stats("top coefficient", top)
	logger.Stats("duration", duration.Round(time.Millisecond))
}
