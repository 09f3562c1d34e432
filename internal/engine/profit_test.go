package engine

import "testing"

func TestCalcProfitMetrics(t *testing.T) {
	m := CalcProfitMetrics(100, 150, 10, 5)
	if m.PotentialProfit != 250 {
		t.Errorf("profit = %d, want 250 (capped at 5 units)", m.PotentialProfit)
	}
	if m.ROI != 50.0 {
		t.Errorf("roi = %v, want 50", m.ROI)
	}
}

func TestCalcProfitMetricsRounding(t *testing.T) {
	m := CalcProfitMetrics(3, 10, 100, 100)
	// (10-3)/3*100 = 233.333...
	if m.ROI != 233.33 {
		t.Errorf("roi = %v, want 233.33", m.ROI)
	}
}

func TestBreakEvenVolume(t *testing.T) {
	if got := BreakEvenVolume(100, 200, 5_000_000); got != 50000 {
		t.Errorf("break-even = %d, want 50000", got)
	}
	// ceil: 5M / 3 = 1666666.67 -> 1666667
	if got := BreakEvenVolume(100, 103, 5_000_000); got != 1666667 {
		t.Errorf("break-even = %d, want 1666667", got)
	}
}

func TestBreakEvenVolumeNotApplicable(t *testing.T) {
	if got := BreakEvenVolume(200, 100, 5_000_000); got != BreakEvenNotApplicable {
		t.Errorf("break-even = %d, want sentinel for losing pair", got)
	}
	if got := BreakEvenVolume(100, 100, 5_000_000); got != BreakEvenNotApplicable {
		t.Errorf("break-even = %d, want sentinel for zero profit", got)
	}
}

func TestSmartCoefficient(t *testing.T) {
	// 2.0 * (30+20) / (99+1) = 1.0
	if got := SmartCoefficient(2.0, 30, 20, 99); got != 1.0 {
		t.Errorf("smart = %v, want 1.0", got)
	}
}

func TestSmartCoefficientSentinel(t *testing.T) {
	if got := SmartCoefficient(0.5, 30, 20, BreakEvenNotApplicable); got != 0 {
		t.Errorf("smart = %v, want 0 when break-even not applicable", got)
	}
}

func TestRecalculate(t *testing.T) {
	row := ArbitrageRow{
		BuyPrice:   100,
		SellPrice:  150,
		BuyVolume:  10,
		SellVolume: 5,
	}
	out := Recalculate(row, 5_000_000)
	if out.Coefficient != 1.5 {
		t.Errorf("coefficient = %v, want 1.5", out.Coefficient)
	}
	if out.BreakEvenVolume != 100000 {
		t.Errorf("break-even = %d, want 100000", out.BreakEvenVolume)
	}
	if out.PotentialProfit != 250 || out.ROI != 50.0 {
		t.Errorf("metrics = %d/%v, want 250/50", out.PotentialProfit, out.ROI)
	}
}

func TestRecalculateSkipsNonPositivePrice(t *testing.T) {
	row := ArbitrageRow{BuyPrice: 0, SellPrice: 150, Coefficient: 7}
	out := Recalculate(row, 5_000_000)
	if out != row {
		t.Errorf("row changed despite zero buy price: %+v", out)
	}
}
