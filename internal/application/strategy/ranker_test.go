package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonwoo/shoplens/internal/config"
	"github.com/hyeonwoo/shoplens/internal/domain/record"
)

func testRanker() *Ranker {
	return New(config.DefaultConfig())
}

// hourRows builds n rows at the given hour with fixed ROI and revenue.
func hourRows(hour, n int, roi, revenue float64) []Row {
	out := make([]Row, n)
	for i := range out {
		out[i] = Row{Hour: hour, ROI: roi, Revenue: revenue, UnitPrice: 89_000, Units: 100}
	}
	return out
}

func TestExcludedHours(t *testing.T) {
	weekday := excludedHours(false)
	for h := 0; h <= 5; h++ {
		assert.True(t, weekday[h], "hour %d", h)
	}
	for h := 12; h <= 16; h++ {
		assert.True(t, weekday[h], "hour %d", h)
	}
	assert.False(t, weekday[11])
	assert.False(t, weekday[17])

	weekend := excludedHours(true)
	assert.True(t, weekend[3])
	assert.False(t, weekend[14]) // afternoon sells on weekends
}

func TestPriceRangeLabel(t *testing.T) {
	assert.Equal(t, "7만원대", priceRangeLabel(75_000))
	assert.Equal(t, "8만원대", priceRangeLabel(80_000))
	assert.Equal(t, "15만원대", priceRangeLabel(159_999))
	assert.Equal(t, "정보없음", priceRangeLabel(0))
	assert.Equal(t, "정보없음", priceRangeLabel(-1))
}

func TestPrepare_ExcludesZeroRevenueAndNormalizes(t *testing.T) {
	rk := testRanker()
	rows := rk.Prepare([]record.CostedRecord{
		{BroadcastRecord: record.BroadcastRecord{Revenue: 150_000_000, UnitsSold: 1000}, Hour: 9, ROI: 20, UnitPrice: 150_000},
		{BroadcastRecord: record.BroadcastRecord{Revenue: 0}, Hour: 10},
		{BroadcastRecord: record.BroadcastRecord{Revenue: 50_000_000, UnitsSold: 500}, Hour: 21, ROI: -10, UnitPrice: 100_000},
	})
	require.Len(t, rows, 2)

	// Mean raw revenue 100M exceeds the threshold: rescaled to
	// hundred-million units. Unit prices keep their raw scale.
	assert.InDelta(t, 1.5, rows[0].Revenue, 1e-9)
	assert.InDelta(t, 0.5, rows[1].Revenue, 1e-9)
	assert.Equal(t, 150_000.0, rows[0].UnitPrice)
}

func TestPrepare_SmallScaleSeriesKeptAsIs(t *testing.T) {
	rk := testRanker()
	rows := rk.Prepare([]record.CostedRecord{
		{BroadcastRecord: record.BroadcastRecord{Revenue: 1.2}, Hour: 9},
		{BroadcastRecord: record.BroadcastRecord{Revenue: 0.8}, Hour: 10},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, 1.2, rows[0].Revenue)
}

func TestOptimalHours_ExcludesWindowsAndSortsByROI(t *testing.T) {
	rk := testRanker()
	rows := append(hourRows(21, 3, 50, 2.0), hourRows(9, 3, 30, 1.0)...)
	rows = append(rows, hourRows(3, 5, 90, 9.0)...)  // excluded overnight
	rows = append(rows, hourRows(14, 5, 90, 9.0)...) // excluded weekday afternoon

	slots := rk.OptimalHours(rows, false)
	require.Len(t, slots, 2)
	assert.Equal(t, 21, slots[0].Hour)
	assert.Equal(t, 9, slots[1].Hour)
	assert.InDelta(t, 50, slots[0].ROI, 1e-9)
	assert.Equal(t, 3, slots[0].Count)
}

func TestOptimalHours_WeekendKeepsAfternoon(t *testing.T) {
	rk := testRanker()
	slots := rk.OptimalHours(hourRows(14, 3, 40, 1.0), true)
	require.Len(t, slots, 1)
	assert.Equal(t, 14, slots[0].Hour)
}

func TestOptimalHours_TopNAndScore(t *testing.T) {
	rk := testRanker()
	var rows []Row
	for h := 6; h <= 23; h++ {
		rows = append(rows, hourRows(h, 2, float64(h), float64(h))...)
	}
	slots := rk.OptimalHours(rows, false)
	require.Len(t, slots, 7) // configured table size

	// Hour 23 has both the best ROI and the full revenue share.
	assert.Equal(t, 23, slots[0].Hour)
	assert.InDelta(t, 23*0.6+100*0.4, slots[0].Score, 1e-9)
	// Strictly descending trimmed ROI.
	for i := 1; i < len(slots); i++ {
		assert.Greater(t, slots[i-1].ROI, slots[i].ROI)
	}
}

func TestOptimalHours_PositiveRateAndPriceBands(t *testing.T) {
	rk := testRanker()
	rows := []Row{
		{Hour: 21, ROI: 40, Revenue: 3.0, UnitPrice: 129_000},
		{Hour: 21, ROI: -20, Revenue: 0.5, UnitPrice: 79_000},
	}
	slots := rk.OptimalHours(rows, false)
	require.Len(t, slots, 1)
	s := slots[0]
	assert.InDelta(t, 50.0, s.PositiveRate, 1e-9)
	assert.Equal(t, "12만원대", s.BestPriceRange)  // highest-revenue airing
	assert.Equal(t, "7만원대", s.WorstPriceRange) // lowest-revenue airing
}

func TestOptimalHours_Empty(t *testing.T) {
	assert.Empty(t, testRanker().OptimalHours(nil, false))
}

func TestOptimalPriceRanges_BandsAndOrder(t *testing.T) {
	rk := testRanker()
	var rows []Row
	// 8만원대: strong ROI and revenue.
	for i := 0; i < 4; i++ {
		rows = append(rows, Row{Hour: 21, ROI: 60, Revenue: 2.0, UnitPrice: 85_000, Units: 100})
	}
	// 13만원대: weak.
	for i := 0; i < 4; i++ {
		rows = append(rows, Row{Hour: 9, ROI: -40, Revenue: 0.3, UnitPrice: 135_000, Units: 20})
	}
	// Out of the configured 70k-160k domain entirely.
	rows = append(rows, Row{Hour: 9, ROI: 100, Revenue: 9.0, UnitPrice: 30_000})
	rows = append(rows, Row{Hour: 9, ROI: 100, Revenue: 9.0, UnitPrice: 500_000})

	bands := rk.OptimalPriceRanges(rows)
	require.Len(t, bands, 2)
	assert.Equal(t, "8만원대", bands[0].Band)
	assert.Equal(t, 80_000.0, bands[0].LowerBound)
	assert.Equal(t, 21, bands[0].BestHour)
	assert.Greater(t, bands[0].Score, bands[1].Score)

	// Score blends rebased ROI with revenue share, scaled to 0-100.
	assert.InDelta(t, ((60.0+100)/100*0.6+1.0*0.4)*100, bands[0].Score, 1e-9)
}

func TestOptimalPriceRanges_Empty(t *testing.T) {
	assert.Empty(t, testRanker().OptimalPriceRanges(nil))
}

func TestOptimalPriceRanges_HalfOpenEdges(t *testing.T) {
	rk := testRanker()
	rows := []Row{
		// An exact multiple sits in the band bearing its own label.
		{Hour: 21, ROI: 20, Revenue: 1, UnitPrice: 80_000, Units: 10},
		// Domain edges: the lower bound is in, the upper bound is out.
		{Hour: 9, ROI: 20, Revenue: 1, UnitPrice: 70_000, Units: 10},
		{Hour: 9, ROI: 20, Revenue: 1, UnitPrice: 160_000, Units: 10},
	}

	bands := rk.OptimalPriceRanges(rows)
	require.Len(t, bands, 2)
	labels := []string{bands[0].Band, bands[1].Band}
	assert.Contains(t, labels, "8만원대")
	assert.Contains(t, labels, "7만원대")
}

func TestWeekdayTopHours(t *testing.T) {
	rk := testRanker()
	var rows []Row
	// Monday: two viable hours plus an excluded one.
	rows = append(rows, Row{Hour: 21, Weekday: 0, ROI: 50, Revenue: 1, UnitPrice: 99_000})
	rows = append(rows, Row{Hour: 9, Weekday: 0, ROI: 30, Revenue: 1, UnitPrice: 99_000})
	rows = append(rows, Row{Hour: 14, Weekday: 0, ROI: 99, Revenue: 9, UnitPrice: 99_000})
	// Friday.
	rows = append(rows, Row{Hour: 10, Weekday: 4, ROI: 10, Revenue: 1, UnitPrice: 99_000})
	// Weekend rows are ignored.
	rows = append(rows, Row{Hour: 10, Weekday: 5, IsWeekend: true, ROI: 99, Revenue: 9, UnitPrice: 99_000})

	days := rk.WeekdayTopHours(rows)
	require.Len(t, days, 2)

	assert.Equal(t, 0, days[0].Weekday)
	require.Len(t, days[0].Slots, 2) // hour 14 excluded
	assert.Equal(t, 21, days[0].Slots[0].Hour)
	assert.Equal(t, 9, days[0].Slots[1].Hour)

	assert.Equal(t, 4, days[1].Weekday)
	require.Len(t, days[1].Slots, 1)
}

func TestChallengeAndAvoid_BandAndExemption(t *testing.T) {
	rk := testRanker()
	var rows []Row
	rows = append(rows, hourRows(9, 2, 5, 1)...)    // challenge band
	rows = append(rows, hourRows(10, 2, -20, 1)...) // challenge band
	rows = append(rows, hourRows(11, 2, 8, 1)...)   // challenge band
	rows = append(rows, hourRows(21, 2, 80, 1)...)  // healthy
	rows = append(rows, hourRows(17, 2, -90, 1)...) // terrible
	rows = append(rows, hourRows(23, 2, -95, 1)...) // terrible but exempt
	rows = append(rows, hourRows(18, 1, -99, 1)...) // below the observation floor

	challenge, avoid := rk.ChallengeAndAvoid(rows, false)

	require.Len(t, challenge, 3)
	assert.Equal(t, 11, challenge[0].Hour) // best ROI first
	assert.Equal(t, 9, challenge[1].Hour)
	assert.Equal(t, 10, challenge[2].Hour)

	require.NotEmpty(t, avoid)
	assert.Equal(t, 17, avoid[0].Hour) // worst non-exempt hour
	for _, s := range avoid {
		assert.NotEqual(t, 23, s.Hour)
		assert.NotEqual(t, 18, s.Hour)
	}
}

func TestChallengeAndAvoid_RelaxedCeiling(t *testing.T) {
	rk := testRanker()
	var rows []Row
	rows = append(rows, hourRows(9, 2, 15, 1)...) // outside [-30,10], inside <20
	rows = append(rows, hourRows(10, 2, 5, 1)...)
	rows = append(rows, hourRows(21, 2, 80, 1)...)

	challenge, _ := rk.ChallengeAndAvoid(rows, false)
	// Fewer than 3 in the strict band widens the ceiling to 20.
	require.Len(t, challenge, 2)
	assert.Equal(t, 9, challenge[0].Hour)
	assert.Equal(t, 10, challenge[1].Hour)
}

func TestChallengeAndAvoid_RelaxedDropsFloor(t *testing.T) {
	rk := testRanker()
	var rows []Row
	rows = append(rows, hourRows(9, 2, -50, 1)...) // below the strict floor
	rows = append(rows, hourRows(10, 2, 15, 1)...)
	rows = append(rows, hourRows(21, 2, 80, 1)...)

	challenge, _ := rk.ChallengeAndAvoid(rows, false)
	// The relaxed pass keeps everything under the ceiling, floor included.
	require.Len(t, challenge, 2)
	assert.Equal(t, 10, challenge[0].Hour)
	assert.Equal(t, 9, challenge[1].Hour)
}

func TestChallengeAndAvoid_Empty(t *testing.T) {
	challenge, avoid := testRanker().ChallengeAndAvoid(nil, false)
	assert.Empty(t, challenge)
	assert.Empty(t, avoid)
}

func TestBuildReport_SplitsRegimes(t *testing.T) {
	rk := testRanker()
	var records []record.CostedRecord
	for i := 0; i < 3; i++ {
		records = append(records,
			record.CostedRecord{
				BroadcastRecord: record.BroadcastRecord{Revenue: 100_000_000, UnitsSold: 1000},
				Hour:            21, WeekdayIdx: 1, ROI: 40, UnitPrice: 100_000,
			},
			record.CostedRecord{
				BroadcastRecord: record.BroadcastRecord{Revenue: 90_000_000, UnitsSold: 900},
				Hour:            14, WeekdayIdx: 6, IsWeekend: true, ROI: 25, UnitPrice: 100_000,
			},
		)
	}

	rep := rk.BuildReport(records)
	require.Len(t, rep.WeekdayHours, 1)
	assert.Equal(t, 21, rep.WeekdayHours[0].Hour)
	require.Len(t, rep.WeekendHours, 1)
	assert.Equal(t, 14, rep.WeekendHours[0].Hour)
	require.Len(t, rep.PriceRanges, 1)
	assert.Equal(t, "10만원대", rep.PriceRanges[0].Band)
}

func TestBuildReport_EmptyInput(t *testing.T) {
	rep := testRanker().BuildReport(nil)
	assert.Empty(t, rep.WeekdayHours)
	assert.Empty(t, rep.WeekendHours)
	assert.Empty(t, rep.PriceRanges)
	assert.Empty(t, rep.WeekdayTop)
}
