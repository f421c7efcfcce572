package trend

import (
	"time"

	"github.com/hyeonwoo/shoplens/internal/domain/stats"
)

// Month-period tertile labels for day-of-month bucketing.
const (
	EarlyMonth = "early"
	MidMonth   = "mid"
	LateMonth  = "late"
)

// Seasonality holds calendar-pattern columns. Indices are expressed x100:
// 100 is the group average and the neutral fallback when a group mean is 0.
type Seasonality struct {
	Month      []int `json:"month"`
	Weekday    []int `json:"weekday"` // Monday=0 .. Sunday=6
	DayOfMonth []int `json:"day_of_month"`
	ISOWeek    []int `json:"week_of_year"`
	Quarter    []int `json:"quarter"`

	MonthIndex       []float64 `json:"seasonal_index_month"`
	WeekdayIndex     []float64 `json:"weekday_index"`
	QuarterlyIndex   []float64 `json:"quarterly_index"`
	MonthPeriod      []string  `json:"month_period"`
	MonthPeriodIndex []float64 `json:"month_period_index"`

	// Detrended seasonal decomposition, only populated when the series
	// spans more than a year.
	YearlyTrend       []float64 `json:"yearly_trend,omitempty"`
	Detrended         []float64 `json:"detrended,omitempty"`
	SeasonalComponent []float64 `json:"seasonal_component,omitempty"`
}

// ComputeSeasonality extracts calendar features and each point's ratio to
// its calendar group's mean. Series longer than 365 points additionally get
// a centered yearly trend, a detrended residual, and a smoothed seasonal
// component.
func ComputeSeasonality(dates []time.Time, values []float64) Seasonality {
	n := len(values)
	if len(dates) < n {
		n = len(dates)
	}
	s := Seasonality{
		Month:            make([]int, n),
		Weekday:          make([]int, n),
		DayOfMonth:       make([]int, n),
		ISOWeek:          make([]int, n),
		Quarter:          make([]int, n),
		MonthIndex:       make([]float64, n),
		WeekdayIndex:     make([]float64, n),
		QuarterlyIndex:   make([]float64, n),
		MonthPeriod:      make([]string, n),
		MonthPeriodIndex: make([]float64, n),
	}

	for i := 0; i < n; i++ {
		d := dates[i]
		s.Month[i] = int(d.Month())
		s.Weekday[i] = (int(d.Weekday()) + 6) % 7
		s.DayOfMonth[i] = d.Day()
		_, s.ISOWeek[i] = d.ISOWeek()
		s.Quarter[i] = (int(d.Month())-1)/3 + 1
		s.MonthPeriod[i] = monthPeriod(d.Day())
	}

	s.MonthIndex = groupIndex(values[:n], s.Month)
	s.WeekdayIndex = groupIndex(values[:n], s.Weekday)
	s.QuarterlyIndex = groupIndex(values[:n], s.Quarter)
	s.MonthPeriodIndex = groupIndexString(values[:n], s.MonthPeriod)

	if n > 365 {
		s.YearlyTrend = centeredMean(values[:n], 365, 30)
		seriesMean := stats.Mean(values[:n])
		s.Detrended = make([]float64, n)
		for i := 0; i < n; i++ {
			trend := s.YearlyTrend[i]
			if trend == 0 {
				// Edge positions without enough window fall back to the
				// series mean, same as filling the gap before subtracting.
				trend = seriesMean
			}
			s.Detrended[i] = values[i] - trend
		}
		s.SeasonalComponent = centeredMean(s.Detrended, 30, 30)
	}

	return s
}

// monthPeriod buckets a day-of-month into early/mid/late tertiles.
func monthPeriod(day int) string {
	switch {
	case day <= 10:
		return EarlyMonth
	case day <= 20:
		return MidMonth
	default:
		return LateMonth
	}
}

// groupIndex maps each value to value/groupMean*100 for integer group keys.
func groupIndex(values []float64, groups []int) []float64 {
	sums := map[int]float64{}
	counts := map[int]float64{}
	for i, g := range groups {
		sums[g] += values[i]
		counts[g]++
	}
	out := make([]float64, len(values))
	for i, g := range groups {
		mean := sums[g] / counts[g]
		out[i] = safeDiv(values[i], mean, 1) * 100
	}
	return out
}

func groupIndexString(values []float64, groups []string) []float64 {
	sums := map[string]float64{}
	counts := map[string]float64{}
	for i, g := range groups {
		sums[g] += values[i]
		counts[g]++
	}
	out := make([]float64, len(values))
	for i, g := range groups {
		mean := sums[g] / counts[g]
		out[i] = safeDiv(values[i], mean, 1) * 100
	}
	return out
}

// centeredMean is a centered rolling mean: the window spans (window-1)/2
// points behind and window/2 ahead, and needs at least minPeriods points.
// Positions without enough coverage hold 0.
func centeredMean(values []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(values))
	back := (window - 1) / 2
	ahead := window / 2
	for i := range values {
		lo := i - back
		if lo < 0 {
			lo = 0
		}
		hi := i + ahead + 1
		if hi > len(values) {
			hi = len(values)
		}
		if hi-lo >= minPeriods {
			out[i] = stats.Mean(values[lo:hi])
		}
	}
	return out
}
