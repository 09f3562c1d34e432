package engine

import (
	"strings"

	"albion-arb/internal/aodata"
)

// Trend is the net price movement of one item over the fetched window.
type Trend struct {
	ItemID    string  `json:"item_id"`
	Change    float64 `json:"change"`
	Direction string  `json:"direction"` // "upward" or "downward"
}

// DemandForecast summarizes sell-through of one item across the window.
type DemandForecast struct {
	ItemID       string  `json:"item_id"`
	AvgSellCount float64 `json:"avg_sell_count"`
	HighDemand   bool    `json:"high_demand"`
}

// BlackMarketGap compares an item's volume-weighted city average price
// against its latest black-market price. The item is profitable to flip
// when the black market buys it for less than 90% of the city average.
type BlackMarketGap struct {
	ItemID           string  `json:"item_id"`
	CityAvgPrice     float64 `json:"city_avg_price"`
	BlackMarketPrice float64 `json:"black_market_price"`
	Profitable       bool    `json:"profitable"`
}

// BlackMarketCandidate is an item whose black-market price gap is
// profitable, annotated with its trend and demand signals.
type BlackMarketCandidate struct {
	ItemID       string  `json:"item_id"`
	Change       float64 `json:"change"`
	Direction    string  `json:"direction"`
	AvgSellCount float64 `json:"avg_sell_count"`
	HighDemand   bool    `json:"high_demand"`
	Profitable   bool    `json:"profitable"`
}

// AnalyzeTrends computes per-item price movement from the first to the last
// chart point. Series with fewer than two points carry no trend and are
// skipped; entries for the same item overwrite earlier ones.
func AnalyzeTrends(entries []aodata.ChartEntry) map[string]Trend {
	trends := make(map[string]Trend)
	for _, e := range entries {
		itemID := e.ItemID
		if itemID == "" {
			itemID = "Unknown"
		}
		prices := e.Data.PricesAvg
		if len(prices) < 2 {
			continue
		}
		change := prices[len(prices)-1] - prices[0]
		direction := "downward"
		if change > 0 {
			direction = "upward"
		}
		trends[itemID] = Trend{ItemID: itemID, Change: change, Direction: direction}
	}
	return trends
}

// ForecastDemand averages sell-through counts over all history points of an
// item and flags items above the high-demand threshold. Unlike the pairing
// pipeline this view deliberately uses the whole series, not just the last
// point.
func ForecastDemand(entries []aodata.HistoryEntry, highDemandThreshold float64) map[string]DemandForecast {
	forecasts := make(map[string]DemandForecast)
	for _, e := range entries {
		itemID := e.ItemID
		if itemID == "" {
			itemID = "Unknown"
		}
		var total int64
		for _, p := range e.Data {
			total += p.ItemCount
		}
		avg := 0.0
		if len(e.Data) > 0 {
			avg = float64(total) / float64(len(e.Data))
		}
		forecasts[itemID] = DemandForecast{
			ItemID:       itemID,
			AvgSellCount: avg,
			HighDemand:   avg > highDemandThreshold,
		}
	}
	return forecasts
}

// The black market must pay at least this much below the weighted city
// average before a gap counts as profitable.
const blackMarketDiscount = 0.9

func isBlackMarket(location string) bool {
	return strings.EqualFold(strings.TrimSpace(location), "black market")
}

// AnalyzeBlackMarketGaps splits each item's history points into black-market
// and city sets, then compares the volume-weighted average city price with
// the latest black-market price. Items missing either side are skipped.
func AnalyzeBlackMarketGaps(entries []aodata.HistoryEntry) map[string]BlackMarketGap {
	type sides struct {
		city        []aodata.HistoryPoint
		blackMarket []aodata.HistoryPoint
	}
	grouped := make(map[string]*sides)
	for _, e := range entries {
		if e.ItemID == "" {
			continue
		}
		g := grouped[e.ItemID]
		if g == nil {
			g = &sides{}
			grouped[e.ItemID] = g
		}
		if isBlackMarket(e.Location) {
			g.blackMarket = append(g.blackMarket, e.Data...)
		} else {
			g.city = append(g.city, e.Data...)
		}
	}

	gaps := make(map[string]BlackMarketGap)
	for itemID, g := range grouped {
		if len(g.blackMarket) == 0 || len(g.city) == 0 {
			continue
		}
		cityAvg := weightedAveragePrice(g.city)
		bmPrice := g.blackMarket[len(g.blackMarket)-1].AvgPrice
		gaps[itemID] = BlackMarketGap{
			ItemID:           itemID,
			CityAvgPrice:     cityAvg,
			BlackMarketPrice: bmPrice,
			Profitable:       bmPrice < cityAvg*blackMarketDiscount,
		}
	}
	return gaps
}

// weightedAveragePrice averages point prices weighted by traded volume.
func weightedAveragePrice(points []aodata.HistoryPoint) float64 {
	var total float64
	var count int64
	for _, p := range points {
		total += p.AvgPrice * float64(p.ItemCount)
		count += p.ItemCount
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// BlackMarketCandidates intersects the three analyses: an item qualifies
// when it has a trend, a demand forecast, and a profitable black-market
// price gap.
func BlackMarketCandidates(trends map[string]Trend, forecasts map[string]DemandForecast, gaps map[string]BlackMarketGap) map[string]BlackMarketCandidate {
	candidates := make(map[string]BlackMarketCandidate)
	for itemID, trend := range trends {
		forecast, okF := forecasts[itemID]
		gap, okG := gaps[itemID]
		if !okF || !okG || !gap.Profitable {
			continue
		}
		candidates[itemID] = BlackMarketCandidate{
			ItemID:       itemID,
			Change:       trend.Change,
			Direction:    trend.Direction,
			AvgSellCount: forecast.AvgSellCount,
			HighDemand:   forecast.HighDemand,
			Profitable:   gap.Profitable,
		}
	}
	return candidates
}
