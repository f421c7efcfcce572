package trend

import (
	"github.com/hyeonwoo/shoplens/internal/domain/stats"
)

// Trend direction labels.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// slopeThreshold is the normalized-slope cutoff: the fitted line must move
// more than 1% of the window mean per period to count as a trend.
const slopeThreshold = 0.01

// Direction holds trend-classification columns for a series.
type Direction struct {
	Direction7  []string  `json:"trend_direction_7"`
	Direction30 []string  `json:"trend_direction_30"`
	Strength7   []float64 `json:"trend_strength_7"` // |Pearson r| of the window fit
	Strength30  []float64 `json:"trend_strength_30"`
	Momentum3   []float64 `json:"momentum_3"` // raw first difference
	Momentum7   []float64 `json:"momentum_7"`
	RSI14       []float64 `json:"rsi_14"`
}

// ComputeDirection classifies the rolling trend of a series with a 7-point
// and a 30-point window, plus momentum and RSI(14).
func ComputeDirection(values []float64) Direction {
	n := len(values)
	d := Direction{
		Direction7:  make([]string, n),
		Direction30: make([]string, n),
		Strength7:   make([]float64, n),
		Strength30:  make([]float64, n),
		Momentum3:   make([]float64, n),
		Momentum7:   make([]float64, n),
		RSI14:       make([]float64, n),
	}
	for i := range values {
		d.Direction7[i] = classifyWindow(trailing(values, i, 7))
		d.Direction30[i] = classifyWindow(trailing(values, i, 30))
		d.Strength7[i] = windowStrength(trailing(values, i, 7))
		d.Strength30[i] = windowStrength(trailing(values, i, 30))
		if i >= 3 {
			d.Momentum3[i] = values[i] - values[i-3]
		}
		if i >= 7 {
			d.Momentum7[i] = values[i] - values[i-7]
		}
		d.RSI14[i] = rsiAt(values, i, 14)
	}
	return d
}

// classifyWindow fits an OLS line against the window index and classifies
// the slope normalized by the window mean. Fewer than 3 points is always
// stable; so is a non-positive mean, where the ratio has no meaning.
func classifyWindow(window []float64) string {
	if len(window) < 3 {
		return TrendStable
	}
	fit := stats.OLS(indexOf(window), window)
	if !fit.Valid {
		return TrendStable
	}
	mean := stats.Mean(window)
	if mean <= 0 {
		return TrendStable
	}
	normalized := fit.Slope / mean
	switch {
	case normalized > slopeThreshold:
		return TrendUp
	case normalized < -slopeThreshold:
		return TrendDown
	default:
		return TrendStable
	}
}

// windowStrength is the absolute correlation of the window against its
// index: 1 for a perfect line, 0 for noise or insufficient data.
func windowStrength(window []float64) float64 {
	if len(window) < 3 {
		return 0
	}
	r := stats.Pearson(indexOf(window), window)
	if r < 0 {
		return -r
	}
	return r
}

// rsiAt computes RSI over the trailing period+1 values ending at i, using
// plain average gain/loss over the trailing period differences. Fewer
// points than a full window returns the neutral 50; a zero average loss
// returns 100, matching RSI convention.
func rsiAt(values []float64, i, period int) float64 {
	if i+1 < period+1 {
		return 50
	}
	window := values[i-period : i+1]
	var gain, loss float64
	for j := 1; j < len(window); j++ {
		delta := window[j] - window[j-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func indexOf(window []float64) []float64 {
	xs := make([]float64, len(window))
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}
