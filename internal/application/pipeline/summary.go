package pipeline

import (
	"time"

	"github.com/hyeonwoo/shoplens/internal/domain/stats"
	"github.com/hyeonwoo/shoplens/internal/domain/trend"
)

// Summary is the bundle-level roll-up handed to the UI collaborator.
type Summary struct {
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	TotalDays     int       `json:"total_days"`
	TotalRevenue  float64   `json:"total_revenue"`
	MeanRevenue   float64   `json:"mean_revenue"`
	MedianRevenue float64   `json:"median_revenue"`
	MinRevenue    float64   `json:"min_revenue"`
	MaxRevenue    float64   `json:"max_revenue"`
	StdRevenue    float64   `json:"std_revenue"`

	AvgGrowthRate   float64 `json:"avg_growth_rate"`
	GrowthRateStd   float64 `json:"growth_rate_std"`
	UpDays          int     `json:"up_days"`
	DownDays        int     `json:"down_days"`
	StableDays      int     `json:"stable_days"`
	AnomalyCount    int     `json:"anomaly_count"`
	AnomalyRatio    float64 `json:"anomaly_ratio"`
	MeanVolatility  float64 `json:"mean_volatility"` // mean 30-day coefficient of variation
}

// buildSummary derives the summary from the decorated daily series.
func buildSummary(rows []DailyRow, m trend.SeriesMetrics) Summary {
	if len(rows) == 0 {
		return Summary{}
	}

	revenues := make([]float64, len(rows))
	for i, r := range rows {
		revenues[i] = r.Revenue
	}

	s := Summary{
		PeriodStart:   rows[0].Date,
		PeriodEnd:     rows[len(rows)-1].Date,
		TotalDays:     len(rows),
		TotalRevenue:  stats.Sum(revenues),
		MeanRevenue:   stats.Mean(revenues),
		MedianRevenue: stats.Median(revenues),
		MinRevenue:    stats.Min(revenues),
		MaxRevenue:    stats.Max(revenues),
		StdRevenue:    stats.Std(revenues),

		AvgGrowthRate:  stats.Mean(m.Growth.DoD),
		GrowthRateStd:  stats.Std(m.Growth.DoD),
		AnomalyCount:   m.Anomalies.AnomalyCount,
		AnomalyRatio:   m.Anomalies.AnomalyRatio,
		MeanVolatility: stats.Mean(m.Volatility.CV30),
	}

	for _, d := range m.Direction.Direction7 {
		switch d {
		case trend.TrendUp:
			s.UpDays++
		case trend.TrendDown:
			s.DownDays++
		default:
			s.StableDays++
		}
	}
	return s
}
