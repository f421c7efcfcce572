package trend

import (
	"math"

	"github.com/hyeonwoo/shoplens/internal/domain/stats"
)

// forecastWindow is the maximum number of trailing points used for the fit.
const forecastWindow = 30

// Forecast is a short-horizon linear projection of a series.
type Forecast struct {
	TrendSlope float64 `json:"trend_slope"`
	Revenue    float64 `json:"forecast_revenue"` // non-negative
	Lower      float64 `json:"ci_lower"`         // non-negative
	Upper      float64 `json:"ci_upper"`
	RSquared   float64 `json:"r_squared"`
}

// ComputeForecast fits an OLS line through the trailing min(30, n) points
// against a 0-based day index and projects forecastDays ahead, with a
// 2-standard-error confidence interval. Fewer than 7 points is too little
// to fit: the result is the plain mean with a zero-width interval.
func ComputeForecast(values []float64, forecastDays int) Forecast {
	values = sanitize(values)
	if len(values) < 7 {
		return Forecast{Revenue: math.Max(0, stats.Mean(values))}
	}

	recent := values
	if len(recent) > forecastWindow {
		recent = recent[len(recent)-forecastWindow:]
	}
	xs := indexOf(recent)

	fit := stats.OLS(xs, recent)
	if !fit.Valid {
		return Forecast{Revenue: math.Max(0, stats.Mean(values))}
	}

	forecastX := float64(len(recent) + forecastDays - 1)
	projected := fit.Slope*forecastX + fit.Intercept

	residuals := make([]float64, len(recent))
	for i := range recent {
		residuals[i] = recent[i] - (fit.Slope*xs[i] + fit.Intercept)
	}
	stdErr := stats.PopStd(residuals)

	r := stats.Pearson(xs, recent)
	return Forecast{
		TrendSlope: fit.Slope,
		Revenue:    math.Max(0, projected),
		Lower:      math.Max(0, projected-2*stdErr),
		Upper:      projected + 2*stdErr,
		RSquared:   r * r,
	}
}
