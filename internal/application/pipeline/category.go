package pipeline

import (
	"sort"
	"time"

	"github.com/hyeonwoo/shoplens/internal/domain/record"
	"github.com/hyeonwoo/shoplens/internal/domain/stats"
	"github.com/hyeonwoo/shoplens/internal/domain/trend"
)

// CategoryRow is one (ISO week, category) cell of the category trend view.
type CategoryRow struct {
	Week           string  `json:"week"`
	Category       string  `json:"category"`
	Revenue        float64 `json:"revenue"`
	MarketShare    float64 `json:"market_share"` // mean of daily share-of-day, %
	GrowthRate     float64 `json:"growth_rate"`  // mean of daily period-over-period, %
	BroadcastCount int     `json:"broadcast_count"`
	TrendDirection string  `json:"trend_direction"`
	MomentumScore  float64 `json:"momentum_score"`
}

// categoryDay is the intermediate per-(date, category) aggregate.
type categoryDay struct {
	date     time.Time
	week     string
	category string
	revenue  float64
	count    int
	share    float64
	growth   float64
}

// analyzeCategoryTrends aggregates per (date, category), computes each
// category's share of that day's revenue and its day-over-day growth, then
// rolls up to (week, category) cells tagged with a per-category trend
// direction and momentum score.
func analyzeCategoryTrends(records []record.CostedRecord) []CategoryRow {
	if len(records) == 0 {
		return nil
	}

	type dayKey struct {
		day      string
		category string
	}
	byDay := map[dayKey]*categoryDay{}
	for _, r := range records {
		k := dayKey{r.Date.Format("2006-01-02"), r.Category}
		a, ok := byDay[k]
		if !ok {
			a = &categoryDay{date: r.Date, week: r.ISOWeek, category: r.Category}
			byDay[k] = a
		}
		a.revenue += r.Revenue
		a.count++
	}

	days := make([]*categoryDay, 0, len(byDay))
	for _, a := range byDay {
		days = append(days, a)
	}
	sort.Slice(days, func(i, j int) bool {
		if !days[i].date.Equal(days[j].date) {
			return days[i].date.Before(days[j].date)
		}
		return days[i].category < days[j].category
	})

	// Share of each day's total revenue.
	dailyTotal := map[string]float64{}
	for _, d := range days {
		dailyTotal[d.date.Format("2006-01-02")] += d.revenue
	}
	for _, d := range days {
		if total := dailyTotal[d.date.Format("2006-01-02")]; total > 0 {
			d.share = d.revenue / total * 100
		}
	}

	// Day-over-day growth within each category, in date order.
	prev := map[string]float64{}
	seen := map[string]bool{}
	for _, d := range days {
		if seen[d.category] {
			d.growth = pct(d.revenue, prev[d.category])
		}
		prev[d.category] = d.revenue
		seen[d.category] = true
	}

	// Per-category trend direction: mean of the last 3 daily revenues
	// against the first 3, with a 10% dead band.
	byCategory := map[string][]float64{}
	growthByCategory := map[string][]float64{}
	for _, d := range days {
		byCategory[d.category] = append(byCategory[d.category], d.revenue)
		growthByCategory[d.category] = append(growthByCategory[d.category], d.growth)
	}
	direction := map[string]string{}
	momentum := map[string]float64{}
	for cat, revs := range byCategory {
		direction[cat] = headTailTrend(revs)
		momentum[cat] = stats.Mean(growthByCategory[cat])
	}

	// Weekly rollup.
	type weekKey struct {
		week     string
		category string
	}
	type weekAcc struct {
		row     CategoryRow
		shares  []float64
		growths []float64
	}
	byWeek := map[weekKey]*weekAcc{}
	for _, d := range days {
		k := weekKey{d.week, d.category}
		a, ok := byWeek[k]
		if !ok {
			a = &weekAcc{row: CategoryRow{Week: d.week, Category: d.category}}
			byWeek[k] = a
		}
		a.row.Revenue += d.revenue
		a.row.BroadcastCount += d.count
		a.shares = append(a.shares, d.share)
		a.growths = append(a.growths, d.growth)
	}

	rows := make([]CategoryRow, 0, len(byWeek))
	for _, a := range byWeek {
		a.row.MarketShare = stats.Mean(a.shares)
		a.row.GrowthRate = stats.Mean(a.growths)
		a.row.TrendDirection = direction[a.row.Category]
		a.row.MomentumScore = momentum[a.row.Category]
		rows = append(rows, a.row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Week != rows[j].Week {
			return rows[i].Week < rows[j].Week
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// headTailTrend compares the mean of the last 3 values against the first 3.
func headTailTrend(values []float64) string {
	if len(values) < 3 {
		return trend.TrendStable
	}
	head := stats.Mean(values[:3])
	tail := stats.Mean(values[len(values)-3:])
	switch {
	case tail > head*1.1:
		return trend.TrendUp
	case tail < head*0.9:
		return trend.TrendDown
	default:
		return trend.TrendStable
	}
}
