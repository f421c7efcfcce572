package trend

import "math"

// GrowthRates holds period-over-period percent changes for a series. Every
// column is index-aligned with the input; positions without a comparison
// point hold the neutral value 0.
type GrowthRates struct {
	DoD        []float64 `json:"revenue_dod"` // vs previous point
	WoW        []float64 `json:"revenue_wow"` // vs 7 points back
	MoM        []float64 `json:"revenue_mom"` // vs 30 points back
	YoY        []float64 `json:"revenue_yoy"` // vs 365 points back
	Cumulative []float64 `json:"cumulative_growth"`
	CAGR30     []float64 `json:"cagr_30d"` // 30-point compound annual rate
}

// ComputeGrowthRates derives day/week/month/year-over-year growth,
// cumulative growth relative to the first value, and a 30-point compound
// rate annualized by 365/periods.
func ComputeGrowthRates(values []float64) GrowthRates {
	n := len(values)
	g := GrowthRates{
		DoD:        lagChange(values, 1),
		WoW:        lagChange(values, 7),
		MoM:        lagChange(values, 30),
		YoY:        lagChange(values, 365),
		Cumulative: make([]float64, n),
		CAGR30:     make([]float64, n),
	}
	if n == 0 {
		return g
	}

	first := values[0]
	cumsum := 0.0
	for i, v := range values {
		cumsum += v
		if first > 0 {
			g.Cumulative[i] = (cumsum/first - 1) * 100
		}
	}

	for i := range values {
		g.CAGR30[i] = compoundRate(trailing(values, i, 30))
	}
	return g
}

// lagChange is percent change against the value k positions back.
func lagChange(values []float64, k int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i >= k {
			out[i] = pctChange(values[i], values[i-k])
		}
	}
	return out
}

// trailing returns the window of up to w values ending at index i.
func trailing(values []float64, i, w int) []float64 {
	lo := i + 1 - w
	if lo < 0 {
		lo = 0
	}
	return values[lo : i+1]
}

// compoundRate annualizes the first/last ratio of a window by 365/periods.
// Windows shorter than 2 points, a zero first value, or a negative ratio
// (meaningless to exponentiate) yield 0.
func compoundRate(window []float64) float64 {
	if len(window) < 2 || window[0] == 0 {
		return 0
	}
	ratio := window[len(window)-1] / window[0]
	if ratio < 0 {
		return 0
	}
	periods := float64(len(window) - 1)
	rate := (math.Pow(ratio, 365/periods) - 1) * 100
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return rate
}
