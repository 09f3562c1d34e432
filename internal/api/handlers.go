package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"albion-arb/internal/config"
	"albion-arb/internal/engine"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rowCount := 0
	if s.result != nil {
		rowCount = len(s.result.Rows)
	}
	writeJSON(w, map[string]interface{}{
		"ready":       s.ready,
		"swapped":     s.swapped,
		"row_count":   rowCount,
		"last_update": s.lastUpdate,
		"locations":   s.cfg.Locations,
		"cached":      s.db.HasAllRawData(),
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, s.cfg)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, 400, "invalid config: "+err.Error())
		return
	}
	if cfg.MinCoefficient > cfg.MaxCoefficient {
		writeError(w, 400, "min_coefficient must not exceed max_coefficient")
		return
	}
	if len(cfg.Locations) < 2 {
		writeError(w, 400, "need at least two locations")
		return
	}

	s.mu.Lock()
	*s.cfg = cfg
	s.mu.Unlock()

	if err := s.db.SaveConfig(&cfg); err != nil {
		writeError(w, 500, "save config: "+err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// API timestamps use the remote API's minute format.
const apiTimeLayout = "2006-01-02T15:04"

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ForceRefresh bool   `json:"force_refresh"`
		Category     string `json:"category"`
		DateFrom     string `json:"date_from"`
		DateTo       string `json:"date_to"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // empty body means defaults
	}

	opts := RefreshOptions{Category: req.Category}
	if req.DateFrom != "" {
		t, err := time.Parse(apiTimeLayout, req.DateFrom)
		if err != nil {
			writeError(w, 400, "invalid date_from: "+err.Error())
			return
		}
		opts.DateFrom = t
	}
	if req.DateTo != "" {
		t, err := time.Parse(apiTimeLayout, req.DateTo)
		if err != nil {
			writeError(w, 400, "invalid date_to: "+err.Error())
			return
		}
		opts.DateTo = t
	}

	if !req.ForceRefresh && !s.isReady() {
		// Cold process but the DB may still hold a usable snapshot.
		s.LoadFromCache()
	}

	if req.ForceRefresh || !s.isReady() {
		if err := s.Refresh(opts); err != nil {
			writeError(w, 502, err.Error())
			return
		}
	} else {
		s.mu.RLock()
		swapped := s.swapped
		s.mu.RUnlock()
		s.reanalyze(swapped)
	}

	s.writeRows(w, nil)
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	if !s.isReady() {
		writeError(w, 503, "no data loaded yet")
		return
	}
	s.mu.RLock()
	swapped := s.swapped
	s.mu.RUnlock()
	s.reanalyze(!swapped)
	s.writeRows(w, nil)
}

// rowFilter narrows the result set for presentation. Timestamps are ISO
// strings, so plain string comparison gives chronological order.
type rowFilter struct {
	buy, sell string
	from, to  string
	limit     int
}

func (f rowFilter) keep(row engine.ArbitrageRow) bool {
	if f.buy != "" && row.BuyLocation != f.buy {
		return false
	}
	if f.sell != "" && row.SellLocation != f.sell {
		return false
	}
	if f.from != "" && row.Timestamp < f.from {
		return false
	}
	if f.to != "" && row.Timestamp > f.to {
		return false
	}
	return true
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	if !s.isReady() {
		writeError(w, 503, "no data loaded yet")
		return
	}
	q := r.URL.Query()
	f := &rowFilter{
		buy:  q.Get("buy"),
		sell: q.Get("sell"),
		from: q.Get("from"),
		to:   q.Get("to"),
	}
	f.limit, _ = strconv.Atoi(q.Get("limit"))
	s.writeRows(w, f)
}

// writeRows sends the current ranked rows, trimmed by the filter and the
// configured row cap.
func (s *Server) writeRows(w http.ResponseWriter, f *rowFilter) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		writeError(w, 503, "no data loaded yet")
		return
	}

	limit := s.cfg.MaxRows
	if f != nil && f.limit > 0 {
		limit = f.limit
	}

	rows := make([]engine.ArbitrageRow, 0, limit)
	for _, row := range s.result.Rows {
		if f != nil && !f.keep(row) {
			continue
		}
		rows = append(rows, row)
		if limit > 0 && len(rows) >= limit {
			break
		}
	}
	writeJSON(w, map[string]interface{}{
		"rows":    rows,
		"total":   len(s.result.Rows),
		"swapped": s.swapped,
	})
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	var row engine.ArbitrageRow
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		writeError(w, 400, "invalid row: "+err.Error())
		return
	}
	s.mu.RLock()
	target := s.cfg.ProfitTarget
	s.mu.RUnlock()
	writeJSON(w, engine.Recalculate(row, target))
}

// handleLocations reports the distinct buy/sell locations of the current
// rows, falling back to the configured list before any data is loaded.
func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	locations := s.cfg.Locations
	if s.result != nil && len(s.result.Rows) > 0 {
		seen := make(map[string]bool)
		for _, row := range s.result.Rows {
			seen[row.BuyLocation] = true
			seen[row.SellLocation] = true
		}
		locations = make([]string, 0, len(seen))
		for loc := range seen {
			locations = append(locations, loc)
		}
		sort.Strings(locations)
	}
	writeJSON(w, map[string]interface{}{
		"locations": locations,
		"excluded":  s.cfg.ExcludedLocation,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		writeError(w, 503, "no data loaded yet")
		return
	}
	writeJSON(w, s.catalog.CategoryList())
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if !s.isReady() {
		writeError(w, 503, "no data loaded yet")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, engine.AnalyzeTrends(s.charts))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if !s.isReady() {
		writeError(w, 503, "no data loaded yet")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, engine.ForecastDemand(s.history, s.cfg.HighDemandThreshold))
}

func (s *Server) handleBlackMarket(w http.ResponseWriter, r *http.Request) {
	if !s.isReady() {
		writeError(w, 503, "no data loaded yet")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	trends := engine.AnalyzeTrends(s.charts)
	forecasts := engine.ForecastDemand(s.history, s.cfg.HighDemandThreshold)
	gaps := engine.AnalyzeBlackMarketGaps(s.history)
	writeJSON(w, map[string]interface{}{
		"gaps":       gaps,
		"candidates": engine.BlackMarketCandidates(trends, forecasts, gaps),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, s.db.GetAnalysisHistory(limit))
}

func (s *Server) handleHistoryResults(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, fmt.Sprintf("invalid id: %q", r.PathValue("id")))
		return
	}
	writeJSON(w, s.db.GetArbitrageResults(id))
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.db.ClearRawData(); err != nil {
		writeError(w, 500, "clear cache: "+err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
