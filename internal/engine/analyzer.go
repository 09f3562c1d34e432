package engine

import "albion-arb/internal/aodata"

// Analyzer carries the context for one analysis run: the item name lookup
// and the pairing configuration. Each run takes its own input snapshot and
// produces its own output; there is no shared state between runs.
type Analyzer struct {
	Names map[string]string
	Cfg   PairConfig
}

// NewAnalyzer creates an Analyzer with the given name lookup and config.
func NewAnalyzer(names map[string]string, cfg PairConfig) *Analyzer {
	return &Analyzer{Names: names, Cfg: cfg}
}

// AnalysisResult is one complete pipeline output: the ranked rows plus the
// grouped intermediate maps, which the trend and demand views consume.
type AnalysisResult struct {
	Rows    []ArbitrageRow `json:"rows"`
	Charts  GroupedCharts  `json:"charts"`
	History GroupedHistory `json:"history"`
	Swapped bool           `json:"swapped"`
}

// Analyze runs the full pipeline over raw fetch results: normalize both
// series, build candidate pairs, rank them.
func (a *Analyzer) Analyze(charts []aodata.ChartEntry, history []aodata.HistoryEntry, swapped bool) *AnalysisResult {
	grouped := GroupCharts(charts)
	demand := GroupHistory(history)
	rows := BuildPairs(grouped, demand, swapped, a.Names, a.Cfg)
	RankRows(rows)
	return &AnalysisResult{
		Rows:    rows,
		Charts:  grouped,
		History: demand,
		Swapped: swapped,
	}
}
