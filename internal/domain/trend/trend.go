// Package trend is the statistical layer of the analytics core: growth
// rates, moving averages, volatility, trend direction, seasonality, anomaly
// detection, and a short-horizon linear forecast, all computed over a
// date-ordered revenue series.
//
// Every function is pure and total: empty input returns an empty result,
// series shorter than a window degrade to defined neutral values, and no
// NaN or infinity ever escapes into a result column.
package trend

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// SeriesMetrics bundles every derived column for one series. All fields are
// recomputable from the input; none are ground truth.
type SeriesMetrics struct {
	Growth      GrowthRates    `json:"growth"`
	Moving      MovingAverages `json:"moving"`
	Volatility  Volatility     `json:"volatility"`
	Direction   Direction      `json:"direction"`
	Seasonality Seasonality    `json:"seasonality"`
	Anomalies   AnomalyReport  `json:"anomalies"`
}

// ComputeAll runs the full metric suite over a date-ordered series.
func ComputeAll(dates []time.Time, values []float64) SeriesMetrics {
	values = sanitize(values)

	m := SeriesMetrics{
		Growth:      ComputeGrowthRates(values),
		Moving:      ComputeMovingAverages(values),
		Seasonality: ComputeSeasonality(dates, values),
	}
	m.Volatility = ComputeVolatility(values, m.Moving)
	m.Direction = ComputeDirection(values)
	m.Anomalies = DetectAnomalies(values, m.Moving.MA30, m.Volatility.BBUpper, m.Volatility.BBLower, DefaultAnomalyThreshold)

	log.Debug().Int("points", len(values)).Msg("trend metrics computed")
	return m
}

// DefaultAnomalyThreshold is the z-score cutoff for the anomaly rule.
const DefaultAnomalyThreshold = 3.0

// sanitize coerces NaN/Inf entries to 0 so a single bad upstream value
// degrades one point instead of poisoning every rolling window.
func sanitize(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			log.Warn().Int("index", i).Msg("non-finite value coerced to 0")
			continue
		}
		out[i] = v
	}
	return out
}

// safeDiv divides with a defined fallback for a zero denominator.
func safeDiv(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// pctChange returns the percent change between cur and prev, 0 when prev
// is 0 (the neutral fallback; a ratio against nothing is not a signal).
func pctChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	v := (cur - prev) / prev * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
