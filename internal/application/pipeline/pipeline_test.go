package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonwoo/shoplens/internal/config"
	"github.com/hyeonwoo/shoplens/internal/domain/record"
	"github.com/hyeonwoo/shoplens/internal/infrastructure/cache"
	"github.com/hyeonwoo/shoplens/internal/infrastructure/store"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Costs.Weekday = map[string]map[int]float64{
		"GS홈쇼핑":  {9: 30_000_000, 21: 38_000_000},
		"현대홈쇼핑": {9: 29_000_000, 21: 37_000_000},
	}
	cfg.Costs.Weekend = map[string]map[int]float64{
		"GS홈쇼핑":  {9: 36_000_000, 21: 40_000_000},
		"현대홈쇼핑": {9: 35_000_000, 21: 39_000_000},
	}
	return cfg
}

// fixtureRecords spans two weeks of March 2025 with two platforms and two
// broadcasts per day.
func fixtureRecords() []record.BroadcastRecord {
	var out []record.BroadcastRecord
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // Monday
	for d := 0; d < 14; d++ {
		date := start.AddDate(0, 0, d)
		out = append(out,
			record.BroadcastRecord{
				Date: date, Time: "09:00", Broadcast: "아침방송", Platform: "GS홈쇼핑",
				Category: "가전", Revenue: 80_000_000 + float64(d)*3_000_000,
				Cost: 30_000_000, UnitsSold: 900,
			},
			record.BroadcastRecord{
				Date: date, Time: "21:00", Broadcast: "저녁방송", Platform: "현대홈쇼핑",
				Category: "뷰티", Revenue: 120_000_000 + float64(d)*3_000_000,
				Cost: 37_000_000, UnitsSold: 1300,
			},
		)
	}
	return out
}

func request() Request {
	return Request{
		From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestExecute_EndToEnd(t *testing.T) {
	p := New(testConfig(), store.NewMemory(fixtureRecords()...))

	bundle, err := p.Execute(context.Background(), request())
	require.NoError(t, err)
	require.False(t, bundle.Empty)
	assert.NotEmpty(t, bundle.RunID)

	require.Len(t, bundle.Daily.Rows, 14)
	first := bundle.Daily.Rows[0]
	assert.Equal(t, 200_000_000.0, first.Revenue)
	assert.Equal(t, 2, first.BroadcastCount)
	assert.Greater(t, first.AvgROI, 0.0)

	// Two ISO weeks, one month.
	assert.Len(t, bundle.Weekly, 2)
	require.Len(t, bundle.Monthly, 1)
	assert.Equal(t, "2025-03", bundle.Monthly[0].YearMonth)
	assert.Equal(t, 28, bundle.Monthly[0].BroadcastCount)
	assert.Equal(t, 100.0, bundle.Monthly[0].SeasonalIndex) // single month is its own mean

	assert.Equal(t, 14, bundle.Summary.TotalDays)
	assert.Greater(t, bundle.Daily.Forecast.Revenue, 0.0)

	// Steadily rising revenue: the last 7-point window trends up.
	last := len(bundle.Daily.Rows) - 1
	assert.Equal(t, "up", bundle.Daily.Metrics.Direction.Direction7[last])
}

func TestExecute_EmptyBundle(t *testing.T) {
	p := New(testConfig(), store.NewMemory())

	bundle, err := p.Execute(context.Background(), request())
	require.NoError(t, err)
	assert.True(t, bundle.Empty)
	assert.Empty(t, bundle.Daily.Rows)
}

func TestExecute_MiscCategoryExcluded(t *testing.T) {
	records := fixtureRecords()
	records = append(records, record.BroadcastRecord{
		Date: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), Time: "10:00",
		Broadcast: "잡동사니", Platform: "GS홈쇼핑", Category: "기타",
		Revenue: 999_999_999_999,
	})
	p := New(testConfig(), store.NewMemory(records...))

	bundle, err := p.Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, 200_000_000.0, bundle.Daily.Rows[0].Revenue)
	for _, c := range bundle.Category {
		assert.NotEqual(t, "기타", c.Category)
	}
}

func TestExecute_NegativeRevenueDropped(t *testing.T) {
	records := fixtureRecords()
	records = append(records, record.BroadcastRecord{
		Date: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), Time: "11:00",
		Broadcast: "불량행", Platform: "GS홈쇼핑", Category: "가전",
		Revenue: -5,
	})
	p := New(testConfig(), store.NewMemory(records...))

	bundle, err := p.Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, 2, bundle.Daily.Rows[0].BroadcastCount)
}

func TestExecute_CacheRoundTrip(t *testing.T) {
	fc, err := cache.NewFile(t.TempDir(), time.Hour)
	require.NoError(t, err)

	p := New(testConfig(), store.NewMemory(fixtureRecords()...), WithCache(fc))
	req := request()
	req.UseCache = true
	ctx := context.Background()

	first, err := p.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := p.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.RunID, second.RunID) // byte-identical cached bundle
	assert.Equal(t, first.Summary, second.Summary)
}

func TestExecute_CacheKeyedByFilters(t *testing.T) {
	fc, err := cache.NewFile(t.TempDir(), time.Hour)
	require.NoError(t, err)

	p := New(testConfig(), store.NewMemory(fixtureRecords()...), WithCache(fc))
	ctx := context.Background()

	req := request()
	req.UseCache = true
	_, err = p.Execute(ctx, req)
	require.NoError(t, err)

	filtered := req
	filtered.Platforms = []string{"GS홈쇼핑"}
	bundle, err := p.Execute(ctx, filtered)
	require.NoError(t, err)
	assert.False(t, bundle.CacheHit)
	assert.Equal(t, 1, bundle.Daily.Rows[0].BroadcastCount)
}

func TestExecute_CorruptCacheEntryRecomputes(t *testing.T) {
	fc, err := cache.NewFile(t.TempDir(), time.Hour)
	require.NoError(t, err)

	p := New(testConfig(), store.NewMemory(fixtureRecords()...), WithCache(fc))
	req := request()
	req.UseCache = true
	ctx := context.Background()

	fc.Set(ctx, p.cacheKey(req), []byte("{not json"))

	bundle, err := p.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, bundle.CacheHit)
	assert.Len(t, bundle.Daily.Rows, 14)
}

func TestClean_DerivedFields(t *testing.T) {
	p := New(testConfig(), store.NewMemory())

	out := p.Clean([]record.BroadcastRecord{{
		Date: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), // Saturday
		Time: "21:30", Broadcast: "주말특집", Platform: "GS홈쇼핑",
		Category: "가전", Revenue: 100_000_000, Cost: 40_000_000, UnitsSold: 800,
	}})
	require.Len(t, out, 1)
	c := out[0]

	assert.Equal(t, 21, c.Hour)
	assert.Equal(t, 5, c.WeekdayIdx)
	assert.True(t, c.IsWeekend)
	assert.True(t, c.IsLive)
	assert.Equal(t, "live", c.ChannelType)
	assert.Equal(t, 10_400_000.0, c.ModelCost)
	assert.Equal(t, 50_400_000.0, c.TotalCost)
	assert.InDelta(t, 100_000_000*0.5775-50_400_000, c.RealProfit, 1e-6)
	assert.InDelta(t, 100_000_000.0/50_400_000.0, c.Efficiency, 1e-9)
	assert.InDelta(t, 125_000.0, c.UnitPrice, 1e-9)
	assert.Equal(t, "2025-03", c.YearMonth)
	assert.Equal(t, "2025-W10", c.ISOWeek)
	assert.Equal(t, 1, c.Quarter)
}

func TestCategoryTrends_ShareAndDirection(t *testing.T) {
	p := New(testConfig(), store.NewMemory())
	cleaned := p.Clean(fixtureRecords())

	rows := analyzeCategoryTrends(cleaned)
	require.NotEmpty(t, rows)

	// Shares within a week sum close to 100 per category pair.
	byWeek := map[string]float64{}
	for _, r := range rows {
		byWeek[r.Week] += r.MarketShare
	}
	for week, total := range byWeek {
		assert.InDelta(t, 100.0, total, 0.5, "week %s", week)
	}

	// Both categories rise steadily across the fixture.
	for _, r := range rows {
		assert.Equal(t, "up", r.TrendDirection)
	}
}
