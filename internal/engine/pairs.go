package engine

import "sort"

// BuildPairs enumerates every ordered location pair for each item/quality
// group and emits one row per pair that survives the filters:
//
//   - self-pairs and pairs touching the excluded location are rejected
//   - both locations need a price snapshot and a demand snapshot
//   - zero demand volume on either side disqualifies the pair
//   - non-positive prices disqualify the pair
//   - the sell/buy price ratio must stay inside [min, max]
//
// When swapped is set, buy and sell prices/locations are inverted before
// filtering, so the UI can flip direction without refetching. Absence of
// data is a silent skip, never an error. Group keys and locations are
// walked in sorted order so identical input yields identical output.
func BuildPairs(charts GroupedCharts, history GroupedHistory, swapped bool, names map[string]string, cfg PairConfig) []ArbitrageRow {
	keys := make([]string, 0, len(charts))
	for k := range charts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rows []ArbitrageRow
	for _, key := range keys {
		chartLocs := charts[key]
		histLocs := history[key] // nil lookups below just miss

		locations := make([]string, 0, len(chartLocs))
		for loc := range chartLocs {
			locations = append(locations, loc)
		}
		sort.Strings(locations)

		for _, cityA := range locations {
			for _, cityB := range locations {
				if cityA == cityB || cityA == cfg.ExcludedLocation || cityB == cfg.ExcludedLocation {
					continue
				}

				chartA := chartLocs[cityA]
				chartB := chartLocs[cityB]
				histA, okA := histLocs[cityA]
				histB, okB := histLocs[cityB]
				if !okA || !okB {
					continue
				}
				if histA.ItemCount == 0 || histB.ItemCount == 0 {
					continue
				}

				buyPrice, sellPrice := chartA.Price, chartB.Price
				buyLoc, sellLoc := cityA, cityB
				if swapped {
					buyPrice, sellPrice = sellPrice, buyPrice
					buyLoc, sellLoc = sellLoc, buyLoc
				}

				if buyPrice <= 0 || sellPrice <= 0 {
					continue
				}
				ratio := sellPrice / buyPrice
				if ratio < cfg.MinCoefficient || ratio > cfg.MaxCoefficient {
					continue
				}

				itemID, quality := SplitGroupKey(key)
				breakEven := BreakEvenVolume(buyPrice, sellPrice, cfg.ProfitTarget)
				smart := SmartCoefficient(ratio, histA.ItemCount, histB.ItemCount, breakEven)
				metrics := CalcProfitMetrics(buyPrice, sellPrice, histA.ItemCount, histB.ItemCount)

				name := names[itemID]
				if name == "" {
					name = itemID
				}

				rows = append(rows, ArbitrageRow{
					ItemID:           itemID,
					ItemName:         name,
					Quality:          quality,
					BuyLocation:      buyLoc,
					BuyPrice:         buyPrice,
					SellLocation:     sellLoc,
					SellPrice:        sellPrice,
					Coefficient:      roundTo(ratio, 3),
					BreakEvenVolume:  breakEven,
					Timestamp:        chartA.Timestamp,
					BuyVolume:        histA.ItemCount,
					SellVolume:       histB.ItemCount,
					BuyAvgPrice:      histA.AvgPrice,
					SellAvgPrice:     histB.AvgPrice,
					SmartCoefficient: roundTo(smart, 4),
					PotentialProfit:  metrics.PotentialProfit,
					ROI:              metrics.ROI,
				})
			}
		}
	}
	return rows
}

// RankRows sorts rows by coefficient, descending. The sort is stable so
// equal coefficients keep their build order.
func RankRows(rows []ArbitrageRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Coefficient > rows[j].Coefficient
	})
}
