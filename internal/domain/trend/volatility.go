package trend

import (
	"math"

	"github.com/hyeonwoo/shoplens/internal/domain/stats"
)

// Volatility holds the dispersion columns for a series. Rolling standard
// deviations require a full window; earlier positions hold 0.
type Volatility struct {
	Std7  []float64 `json:"volatility_7"`
	Std30 []float64 `json:"volatility_30"`
	CV7   []float64 `json:"cv_7"`  // std / mean, 0 when the mean is 0
	CV30  []float64 `json:"cv_30"` //
	// Bollinger-style bands around the 30-point average.
	BBUpper    []float64 `json:"bb_upper"`
	BBLower    []float64 `json:"bb_lower"`
	BBWidth    []float64 `json:"bb_width"`
	BBPosition []float64 `json:"bb_position"` // 0 at lower band, 1 at upper, 0.5 when width is 0
	DailyVol   []float64 `json:"daily_volatility"`
	Range14    []float64 `json:"range_14"` // 14-point max minus min
	VolIndex   []float64 `json:"volatility_index"`
}

// ComputeVolatility derives rolling dispersion, Bollinger bands, absolute
// day-over-day change, and a 30-point mean of that change as a volatility
// index.
func ComputeVolatility(values []float64, ma MovingAverages) Volatility {
	n := len(values)
	v := Volatility{
		Std7:       rollingStd(values, 7),
		Std30:      rollingStd(values, 30),
		CV7:        make([]float64, n),
		CV30:       make([]float64, n),
		BBUpper:    make([]float64, n),
		BBLower:    make([]float64, n),
		BBWidth:    make([]float64, n),
		BBPosition: make([]float64, n),
		DailyVol:   make([]float64, n),
		Range14:    rollingRange(values, 14),
	}

	for i := range values {
		v.CV7[i] = safeDiv(v.Std7[i], ma.MA7[i], 0)
		v.CV30[i] = safeDiv(v.Std30[i], ma.MA30[i], 0)

		v.BBUpper[i] = ma.MA30[i] + 2*v.Std30[i]
		v.BBLower[i] = ma.MA30[i] - 2*v.Std30[i]
		v.BBWidth[i] = v.BBUpper[i] - v.BBLower[i]
		v.BBPosition[i] = safeDiv(values[i]-v.BBLower[i], v.BBWidth[i], 0.5)

		if i > 0 {
			v.DailyVol[i] = math.Abs(pctChange(values[i], values[i-1]))
		}
	}

	v.VolIndex = fullWindowMean(v.DailyVol, 30)
	return v
}

// rollingStd is a trailing sample standard deviation requiring a full
// window; shorter prefixes hold 0.
func rollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i+1 >= window {
			out[i] = stats.Std(values[i+1-window : i+1])
		}
	}
	return out
}

// rollingRange is the trailing max-minus-min over a full window.
func rollingRange(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i+1 >= window {
			win := values[i+1-window : i+1]
			out[i] = stats.Max(win) - stats.Min(win)
		}
	}
	return out
}

// fullWindowMean is a trailing mean requiring a full window.
func fullWindowMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i+1 >= window {
			out[i] = stats.Mean(values[i+1-window : i+1])
		}
	}
	return out
}
