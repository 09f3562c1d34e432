package engine

import "math"

// ProfitMetrics are the derived profitability numbers for one pair.
type ProfitMetrics struct {
	PotentialProfit int64   `json:"potential_profit"`
	ROI             float64 `json:"roi"`
}

// CalcProfitMetrics computes profit potential and return on investment.
// Profit is capped by the scarcer side's traded volume; ROI is a percentage
// rounded to two decimals. buyPrice must be positive (callers guard).
func CalcProfitMetrics(buyPrice, sellPrice float64, buyVolume, sellVolume int64) ProfitMetrics {
	vol := buyVolume
	if sellVolume < vol {
		vol = sellVolume
	}
	profit := (sellPrice - buyPrice) * float64(vol)
	roi := (sellPrice - buyPrice) / buyPrice * 100
	return ProfitMetrics{
		PotentialProfit: int64(math.Round(profit)),
		ROI:             roundTo(roi, 2),
	}
}

// BreakEvenVolume returns how many units must be flipped at the current
// per-item profit to reach target, or BreakEvenNotApplicable when the pair
// loses money per item.
func BreakEvenVolume(buyPrice, sellPrice, target float64) int64 {
	profit := sellPrice - buyPrice
	if profit <= 0 {
		return BreakEvenNotApplicable
	}
	return int64(math.Ceil(target / profit))
}

// SmartCoefficient weights the price ratio by combined liquidity and
// penalizes pairs that need large unit volumes to reach the profit target.
// Returns 0 when the break-even volume is not applicable.
func SmartCoefficient(coefficient float64, buyVolume, sellVolume, breakEven int64) float64 {
	if breakEven == BreakEvenNotApplicable {
		return 0
	}
	return coefficient * float64(buyVolume+sellVolume) / float64(breakEven+1)
}

// Recalculate recomputes the derived fields of a row after its prices or
// volumes were edited, without rerunning the full pipeline. Rows with a
// non-positive price are returned unchanged.
func Recalculate(row ArbitrageRow, profitTarget float64) ArbitrageRow {
	if row.BuyPrice <= 0 || row.SellPrice <= 0 {
		return row
	}
	ratio := row.SellPrice / row.BuyPrice
	row.Coefficient = roundTo(ratio, 3)
	row.BreakEvenVolume = BreakEvenVolume(row.BuyPrice, row.SellPrice, profitTarget)
	row.SmartCoefficient = roundTo(SmartCoefficient(ratio, row.BuyVolume, row.SellVolume, row.BreakEvenVolume), 4)

	m := CalcProfitMetrics(row.BuyPrice, row.SellPrice, row.BuyVolume, row.SellVolume)
	row.PotentialProfit = m.PotentialProfit
	row.ROI = m.ROI
	return row
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
