package trend

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepSeries is 7 days at 100 followed by 7 days at 200, the canonical
// "level shift" fixture.
func stepSeries() []float64 {
	s := make([]float64, 14)
	for i := range s {
		if i < 7 {
			s[i] = 100
		} else {
			s[i] = 200
		}
	}
	return s
}

func days(n int) []time.Time {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestComputeGrowthRates_StepSeries(t *testing.T) {
	g := ComputeGrowthRates(stepSeries())

	assert.Equal(t, 0.0, g.DoD[0]) // no comparison point
	assert.InDelta(t, 100.0, g.DoD[7], 1e-12)
	assert.Equal(t, 0.0, g.DoD[8]) // flat after the jump
	assert.InDelta(t, 100.0, g.WoW[7], 1e-12)
	assert.Equal(t, 0.0, g.MoM[13]) // series shorter than the lag
}

func TestComputeGrowthRates_ZeroBaseIsNeutral(t *testing.T) {
	g := ComputeGrowthRates([]float64{0, 50})
	assert.Equal(t, 0.0, g.DoD[1])
}

func TestCumulativeGrowth(t *testing.T) {
	g := ComputeGrowthRates([]float64{100, 200})
	// cumsum 300 against first value 100.
	assert.InDelta(t, 200.0, g.Cumulative[1], 1e-12)
}

func TestSMA_ShortPrefixAveragesWhatItHas(t *testing.T) {
	out := SMA([]float64{10, 20}, 7)
	assert.Equal(t, []float64{10, 15}, out)
}

func TestSMA_FullWindow(t *testing.T) {
	out := SMA(stepSeries(), 7)
	assert.InDelta(t, 100.0, out[6], 1e-12)
	assert.InDelta(t, 200.0, out[13], 1e-12)
}

func TestEMA_SeededOnFirstValue(t *testing.T) {
	out := EMA([]float64{100, 200}, 7) // alpha = 0.25
	assert.InDelta(t, 100.0, out[0], 1e-12)
	assert.InDelta(t, 125.0, out[1], 1e-12)
}

func TestWMA_RecentPointsWeighHeavier(t *testing.T) {
	out := WMA([]float64{10, 20}, 7)
	assert.InDelta(t, 10.0, out[0], 1e-12)
	assert.InDelta(t, (10*1+20*2)/3.0, out[1], 1e-12)
}

func TestMARatio_FallbackIs100(t *testing.T) {
	m := ComputeMovingAverages([]float64{0, 0, 0})
	for _, r := range m.MARatio7 {
		assert.Equal(t, 100.0, r)
	}
}

func TestRollingStd_RequiresFullWindow(t *testing.T) {
	vals := stepSeries()
	out := rollingStd(vals, 7)
	assert.Equal(t, 0.0, out[5])              // prefix shorter than window
	assert.Equal(t, 0.0, out[6])              // seven equal values
	assert.Greater(t, out[7], 0.0)            // window straddles the jump
	assert.InDelta(t, 0.0, out[13], 1e-12)    // settled at the new level
}

func TestBBPosition_ZeroWidthIsCentered(t *testing.T) {
	vals := []float64{100, 100, 100}
	v := ComputeVolatility(vals, ComputeMovingAverages(vals))
	for _, p := range v.BBPosition {
		assert.Equal(t, 0.5, p)
	}
}

func TestComputeDirection_StepSeries(t *testing.T) {
	d := ComputeDirection(stepSeries())

	// Window straddling the jump trends up.
	assert.Equal(t, TrendUp, d.Direction7[9])
	// All-equal windows are stable at both plateaus.
	assert.Equal(t, TrendStable, d.Direction7[5])
	assert.Equal(t, TrendStable, d.Direction7[13])
	// Fewer than 3 points is always stable.
	assert.Equal(t, TrendStable, d.Direction7[1])
}

func TestComputeDirection_RSINeutralOnShortSeries(t *testing.T) {
	d := ComputeDirection(stepSeries())
	for _, r := range d.RSI14 {
		assert.Equal(t, 50.0, r) // 14 points never fill a 15-point window
	}
}

func TestRSI_AllGainsIs100(t *testing.T) {
	vals := make([]float64, 20)
	for i := range vals {
		vals[i] = float64(100 + i)
	}
	d := ComputeDirection(vals)
	assert.Equal(t, 100.0, d.RSI14[19])
}

func TestDetectAnomalies_SingleSpike(t *testing.T) {
	vals := make([]float64, 30)
	for i := range vals {
		vals[i] = 100
	}
	vals[29] = 1000

	m := ComputeMovingAverages(vals)
	v := ComputeVolatility(vals, m)
	r := DetectAnomalies(vals, m.MA30, v.BBUpper, v.BBLower, DefaultAnomalyThreshold)

	assert.True(t, r.IsAnomaly[29])
	assert.Equal(t, 1.0, r.Score[29]) // all four rules fire
	assert.False(t, r.IsAnomaly[10])
	assert.Equal(t, 1, r.AnomalyCount)
	assert.InDelta(t, 100.0/30.0, r.AnomalyRatio, 1e-9)
}

func TestDetectAnomalies_QuietSeries(t *testing.T) {
	vals := []float64{100, 101, 99, 100, 102, 98, 100}
	m := ComputeMovingAverages(vals)
	v := ComputeVolatility(vals, m)
	r := DetectAnomalies(vals, m.MA30, v.BBUpper, v.BBLower, DefaultAnomalyThreshold)
	assert.Equal(t, 0, r.AnomalyCount)
	assert.InDelta(t, 98.0, r.LowerFence, 1e-9)
	assert.InDelta(t, 102.0, r.UpperFence, 1e-9)
}

func TestComputeForecast_ShortSeriesIsMean(t *testing.T) {
	f := ComputeForecast([]float64{100, 200, 300}, 7)
	assert.InDelta(t, 200.0, f.Revenue, 1e-12)
	assert.Equal(t, 0.0, f.TrendSlope)
}

func TestComputeForecast_LinearSeries(t *testing.T) {
	vals := make([]float64, 10)
	for i := range vals {
		vals[i] = float64(100 + 10*i)
	}
	f := ComputeForecast(vals, 7)

	require.InDelta(t, 10.0, f.TrendSlope, 1e-9)
	// Perfect fit: zero-width interval, projection 7 days past the end.
	assert.InDelta(t, 100+10*16, f.Revenue, 1e-6)
	assert.InDelta(t, f.Revenue, f.Lower, 1e-6)
	assert.InDelta(t, f.Revenue, f.Upper, 1e-6)
	assert.InDelta(t, 1.0, f.RSquared, 1e-9)
}

func TestComputeForecast_NeverNegative(t *testing.T) {
	vals := make([]float64, 10)
	for i := range vals {
		vals[i] = math.Max(0, float64(90-30*i))
	}
	f := ComputeForecast(vals, 7)
	assert.GreaterOrEqual(t, f.Revenue, 0.0)
	assert.GreaterOrEqual(t, f.Lower, 0.0)
}

func TestComputeSeasonality_CalendarFeatures(t *testing.T) {
	dates := days(14) // 2025-03-01 is a Saturday
	vals := stepSeries()
	s := ComputeSeasonality(dates, vals)

	assert.Equal(t, 3, s.Month[0])
	assert.Equal(t, 5, s.Weekday[0]) // Saturday, Monday=0 indexing
	assert.Equal(t, 1, s.Quarter[0])
	assert.Equal(t, EarlyMonth, s.MonthPeriod[0])
	assert.Equal(t, MidMonth, s.MonthPeriod[11]) // March 12th
	assert.Empty(t, s.YearlyTrend)               // under a year of data
}

func TestComputeSeasonality_GroupIndexAverages100(t *testing.T) {
	dates := days(14)
	vals := stepSeries()
	s := ComputeSeasonality(dates, vals)

	// Each point's index is its ratio to its weekday-group mean, so the
	// mean index across one group is 100.
	sum := 0.0
	count := 0
	for i, wd := range s.Weekday {
		if wd == 5 { // Saturdays: days 0 and 7, values 100 and 200
			sum += s.WeekdayIndex[i]
			count++
		}
	}
	require.Equal(t, 2, count)
	assert.InDelta(t, 100.0, sum/float64(count), 1e-9)
}

func TestComputeAll_EmptySeries(t *testing.T) {
	m := ComputeAll(nil, nil)
	assert.Empty(t, m.Growth.DoD)
	assert.Empty(t, m.Direction.Direction7)
	assert.Equal(t, 0, m.Anomalies.AnomalyCount)
}

func TestSanitize_CoercesNonFinite(t *testing.T) {
	out := sanitize([]float64{1, math.NaN(), math.Inf(-1), 4})
	assert.Equal(t, []float64{1, 0, 0, 4}, out)
}
