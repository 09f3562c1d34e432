package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// BreakEvenNotApplicable marks rows whose per-item profit is not positive,
// so no finite volume reaches the profit target.
const BreakEvenNotApplicable int64 = -1

// PriceSnapshot is the last known average price at one location.
type PriceSnapshot struct {
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"`
}

// DemandSnapshot is the last known sell-through at one location.
type DemandSnapshot struct {
	ItemCount int64   `json:"item_count"`
	AvgPrice  float64 `json:"avg_price"`
}

// GroupedCharts maps group key -> location -> latest price snapshot.
type GroupedCharts map[string]map[string]PriceSnapshot

// GroupedHistory maps group key -> location -> latest demand snapshot.
type GroupedHistory map[string]map[string]DemandSnapshot

// ArbitrageRow is one buy-low-sell-high opportunity between two locations.
type ArbitrageRow struct {
	ItemID           string  `json:"item_id"`
	ItemName         string  `json:"item_name"`
	Quality          int     `json:"quality"`
	BuyLocation      string  `json:"buy_location"`
	BuyPrice         float64 `json:"buy_price"`
	SellLocation     string  `json:"sell_location"`
	SellPrice        float64 `json:"sell_price"`
	Coefficient      float64 `json:"coefficient"`
	BreakEvenVolume  int64   `json:"break_even_volume"` // units to reach the profit target; -1 = not applicable
	Timestamp        string  `json:"timestamp"`
	BuyVolume        int64   `json:"buy_volume"`
	SellVolume       int64   `json:"sell_volume"`
	BuyAvgPrice      float64 `json:"buy_avg_price"`
	SellAvgPrice     float64 `json:"sell_avg_price"`
	SmartCoefficient float64 `json:"smart_coefficient"`
	PotentialProfit  int64   `json:"potential_profit"`
	ROI              float64 `json:"roi"`
}

// PairConfig holds the filtering and scoring parameters for pair building.
type PairConfig struct {
	MinCoefficient   float64
	MaxCoefficient   float64
	ExcludedLocation string
	ProfitTarget     float64
}

// GroupKey builds the "<item>#q<quality>" identity of one item variant.
// Missing ids default to "Unknown", missing quality to 1.
func GroupKey(itemID string, quality int) string {
	if itemID == "" {
		itemID = "Unknown"
	}
	if quality == 0 {
		quality = 1
	}
	return fmt.Sprintf("%s#q%d", itemID, quality)
}

// SplitGroupKey is the inverse of GroupKey.
func SplitGroupKey(key string) (itemID string, quality int) {
	itemID, qstr, _ := strings.Cut(key, "#q")
	quality, _ = strconv.Atoi(qstr)
	if quality == 0 {
		quality = 1
	}
	return itemID, quality
}
