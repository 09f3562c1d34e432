package engine

import "albion-arb/internal/aodata"

// GroupCharts folds raw chart entries into the latest price snapshot per
// item/quality/location. Only the final point of each series is kept.
// Entries with an empty price series are skipped; when two entries collide
// on the same key and location, the later one wins.
func GroupCharts(entries []aodata.ChartEntry) GroupedCharts {
	grouped := make(GroupedCharts)
	for _, e := range entries {
		prices := e.Data.PricesAvg
		if len(prices) == 0 {
			continue
		}
		stamp := ""
		if n := len(e.Data.Timestamps); n > 0 {
			stamp = e.Data.Timestamps[n-1]
		}

		key := GroupKey(e.ItemID, e.Quality)
		loc := e.Location
		if loc == "" {
			loc = "Unknown"
		}
		byLoc := grouped[key]
		if byLoc == nil {
			byLoc = make(map[string]PriceSnapshot)
			grouped[key] = byLoc
		}
		byLoc[loc] = PriceSnapshot{Price: prices[len(prices)-1], Timestamp: stamp}
	}
	return grouped
}

// GroupHistory folds raw history entries into the latest demand snapshot per
// item/quality/location, with the same last-point and last-write-wins rules
// as GroupCharts.
func GroupHistory(entries []aodata.HistoryEntry) GroupedHistory {
	grouped := make(GroupedHistory)
	for _, e := range entries {
		if len(e.Data) == 0 {
			continue
		}
		last := e.Data[len(e.Data)-1]

		key := GroupKey(e.ItemID, e.Quality)
		loc := e.Location
		if loc == "" {
			loc = "Unknown"
		}
		byLoc := grouped[key]
		if byLoc == nil {
			byLoc = make(map[string]DemandSnapshot)
			grouped[key] = byLoc
		}
		byLoc[loc] = DemandSnapshot{ItemCount: last.ItemCount, AvgPrice: last.AvgPrice}
	}
	return grouped
}
