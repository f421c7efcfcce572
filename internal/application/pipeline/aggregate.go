package pipeline

import (
	"sort"
	"time"

	"github.com/hyeonwoo/shoplens/internal/domain/record"
	"github.com/hyeonwoo/shoplens/internal/domain/stats"
	"github.com/hyeonwoo/shoplens/internal/domain/trend"
)

// DailyRow is one calendar day of aggregated broadcasts.
type DailyRow struct {
	Date           time.Time `json:"date"`
	Revenue        float64   `json:"revenue"`
	UnitsSold      int64     `json:"units_sold"`
	AvgROI         float64   `json:"avg_roi"`
	TotalCost      float64   `json:"total_cost"`
	RealProfit     float64   `json:"real_profit"`
	BroadcastCount int       `json:"broadcast_count"`
	AvgEfficiency  float64   `json:"avg_efficiency"`
}

// WeeklyRow is one ISO week of aggregated broadcasts with light derived
// ratios.
type WeeklyRow struct {
	Week           string    `json:"week"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Revenue        float64   `json:"revenue"`
	UnitsSold      int64     `json:"units_sold"`
	AvgROI         float64   `json:"avg_roi"`
	TotalCost      float64   `json:"total_cost"`
	RealProfit     float64   `json:"real_profit"`
	BroadcastCount int       `json:"broadcast_count"`
	WoW            float64   `json:"revenue_wow"`
	FourWeek       float64   `json:"revenue_4w"`
	MA4            float64   `json:"ma_4w"`
}

// MonthlyRow is one calendar month of aggregated broadcasts.
type MonthlyRow struct {
	YearMonth      string  `json:"year_month"`
	Revenue        float64 `json:"revenue"`
	UnitsSold      int64   `json:"units_sold"`
	AvgROI         float64 `json:"avg_roi"`
	TotalCost      float64 `json:"total_cost"`
	RealProfit     float64 `json:"real_profit"`
	BroadcastCount int     `json:"broadcast_count"`
	MoM            float64 `json:"revenue_mom"`
	YoY            float64 `json:"revenue_yoy"`
	SeasonalIndex  float64 `json:"seasonal_index"`
}

// aggregateDaily groups costed records into one row per calendar day,
// ordered by date.
func aggregateDaily(records []record.CostedRecord) []DailyRow {
	type acc struct {
		row  DailyRow
		rois []float64
		effs []float64
	}
	byDay := map[string]*acc{}
	for _, r := range records {
		day := r.Date.Format("2006-01-02")
		a, ok := byDay[day]
		if !ok {
			date := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC)
			a = &acc{row: DailyRow{Date: date}}
			byDay[day] = a
		}
		a.row.Revenue += r.Revenue
		a.row.UnitsSold += r.UnitsSold
		a.row.TotalCost += r.TotalCost
		a.row.RealProfit += r.RealProfit
		a.row.BroadcastCount++
		a.rois = append(a.rois, r.ROI)
		a.effs = append(a.effs, r.Efficiency)
	}

	rows := make([]DailyRow, 0, len(byDay))
	for _, a := range byDay {
		a.row.AvgROI = stats.Mean(a.rois)
		a.row.AvgEfficiency = stats.Mean(a.effs)
		rows = append(rows, a.row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

// aggregateWeekly groups by ISO week and decorates with week-over-week,
// 4-week growth, and a 4-week moving average.
func aggregateWeekly(records []record.CostedRecord) []WeeklyRow {
	type acc struct {
		row  WeeklyRow
		rois []float64
	}
	byWeek := map[string]*acc{}
	for _, r := range records {
		a, ok := byWeek[r.ISOWeek]
		if !ok {
			a = &acc{row: WeeklyRow{Week: r.ISOWeek, StartDate: r.Date, EndDate: r.Date}}
			byWeek[r.ISOWeek] = a
		}
		if r.Date.Before(a.row.StartDate) {
			a.row.StartDate = r.Date
		}
		if r.Date.After(a.row.EndDate) {
			a.row.EndDate = r.Date
		}
		a.row.Revenue += r.Revenue
		a.row.UnitsSold += r.UnitsSold
		a.row.TotalCost += r.TotalCost
		a.row.RealProfit += r.RealProfit
		a.row.BroadcastCount++
		a.rois = append(a.rois, r.ROI)
	}

	rows := make([]WeeklyRow, 0, len(byWeek))
	for _, a := range byWeek {
		a.row.AvgROI = stats.Mean(a.rois)
		rows = append(rows, a.row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Week < rows[j].Week })

	revenues := make([]float64, len(rows))
	for i, r := range rows {
		revenues[i] = r.Revenue
	}
	ma4 := trend.SMA(revenues, 4)
	for i := range rows {
		if i >= 1 {
			rows[i].WoW = pct(revenues[i], revenues[i-1])
		}
		if i >= 4 {
			rows[i].FourWeek = pct(revenues[i], revenues[i-4])
		}
		rows[i].MA4 = ma4[i]
	}
	return rows
}

// aggregateMonthly groups by year-month and decorates with month-over-month
// and year-over-year growth plus a seasonal index against the mean month.
func aggregateMonthly(records []record.CostedRecord) []MonthlyRow {
	type acc struct {
		row  MonthlyRow
		rois []float64
	}
	byMonth := map[string]*acc{}
	for _, r := range records {
		a, ok := byMonth[r.YearMonth]
		if !ok {
			a = &acc{row: MonthlyRow{YearMonth: r.YearMonth}}
			byMonth[r.YearMonth] = a
		}
		a.row.Revenue += r.Revenue
		a.row.UnitsSold += r.UnitsSold
		a.row.TotalCost += r.TotalCost
		a.row.RealProfit += r.RealProfit
		a.row.BroadcastCount++
		a.rois = append(a.rois, r.ROI)
	}

	rows := make([]MonthlyRow, 0, len(byMonth))
	for _, a := range byMonth {
		a.row.AvgROI = stats.Mean(a.rois)
		rows = append(rows, a.row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].YearMonth < rows[j].YearMonth })

	revenues := make([]float64, len(rows))
	for i, r := range rows {
		revenues[i] = r.Revenue
	}
	meanRevenue := stats.Mean(revenues)
	for i := range rows {
		if i >= 1 {
			rows[i].MoM = pct(revenues[i], revenues[i-1])
		}
		if i >= 12 {
			rows[i].YoY = pct(revenues[i], revenues[i-12])
		}
		if meanRevenue > 0 {
			rows[i].SeasonalIndex = revenues[i] / meanRevenue * 100
		} else {
			rows[i].SeasonalIndex = 100
		}
	}
	return rows
}

// pct is percent change with a zero-denominator fallback of 0.
func pct(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}
