// Package strategy ranks broadcast slots: best hours, best price bands,
// per-weekday top hours, recoverable "challenge" hours, and "avoid" hours.
// All comparable ROI/revenue figures are trimmed means, since raw averages
// are dominated by rare mega-broadcasts.
package strategy

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/shoplens/internal/config"
	"github.com/hyeonwoo/shoplens/internal/domain/record"
	"github.com/hyeonwoo/shoplens/internal/domain/stats"
)

// Row is one analysis-ready airing: costed, positive-revenue, with display
// units normalized.
type Row struct {
	Hour      int
	Weekday   int // Monday=0 .. Sunday=6
	IsWeekend bool
	ROI       float64
	Revenue   float64 // possibly in hundred-million display units
	UnitPrice float64 // always original currency units
	Units     float64
}

// HourSlot is the ranked aggregate for one hour of the day.
type HourSlot struct {
	Hour            int     `json:"hour"`
	ROI             float64 `json:"roi"` // trimmed mean
	AvgRevenue      float64 `json:"avg_revenue"`
	TotalRevenue    float64 `json:"total_revenue"`
	Count           int     `json:"count"`
	AvgUnits        float64 `json:"avg_units"`
	TotalUnits      float64 `json:"total_units"`
	PositiveRate    float64 `json:"positive_rate"` // % of airings with ROI > 0
	BestPriceRange  string  `json:"best_price_range"`
	WorstPriceRange string  `json:"worst_price_range"`
	Score           float64 `json:"score"`
}

// PriceBand is the ranked aggregate for one fixed-width unit-price band.
type PriceBand struct {
	Band         string  `json:"price_range"`
	LowerBound   float64 `json:"lower_bound"`
	ROI          float64 `json:"roi"`
	AvgRevenue   float64 `json:"avg_revenue"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgUnits     float64 `json:"avg_units"`
	TotalUnits   float64 `json:"total_units"`
	Count        int     `json:"count"`
	BestHour     int     `json:"best_hour"` // -1 when unknown
	PositiveRate float64 `json:"positive_rate"`
	Score        float64 `json:"score"`
}

// Ranker holds the tuning profile. It is stateless beyond configuration.
type Ranker struct {
	cfg  config.StrategyConfig
	norm config.PipelineConfig
}

// New builds a ranker from configuration.
func New(cfg config.Config) *Ranker {
	return &Ranker{cfg: cfg.Strategy, norm: cfg.Pipeline}
}

// Prepare converts costed records into analysis rows: zero-revenue airings
// are excluded, and revenue is rescaled to hundred-million display units
// when the raw mean exceeds the normalization threshold. Unit prices stay
// in original currency so price bands keep their fixed domain.
func (rk *Ranker) Prepare(records []record.CostedRecord) []Row {
	rows := make([]Row, 0, len(records))
	var sum float64
	for _, r := range records {
		if r.Revenue <= 0 {
			continue
		}
		rows = append(rows, Row{
			Hour:      r.Hour,
			Weekday:   r.WeekdayIdx,
			IsWeekend: r.IsWeekend,
			ROI:       r.ROI,
			Revenue:   r.Revenue,
			UnitPrice: r.UnitPrice,
			Units:     float64(r.UnitsSold),
		})
		sum += r.Revenue
	}
	if len(rows) == 0 {
		return rows
	}
	if mean := sum / float64(len(rows)); mean > rk.norm.UnitNormThreshold {
		for i := range rows {
			rows[i].Revenue /= rk.norm.UnitNormDivisor
		}
	}
	return rows
}

// excludedHours returns the structurally-irrelevant hour set for the mode:
// 00-05 always, plus 12-16 on weekdays where that window does not sell.
func excludedHours(weekend bool) map[int]bool {
	excluded := map[int]bool{}
	for h := 0; h <= 5; h++ {
		excluded[h] = true
	}
	if !weekend {
		for h := 12; h <= 16; h++ {
			excluded[h] = true
		}
	}
	return excluded
}

// OptimalHours ranks the viable hours by trimmed-mean ROI and returns the
// configured top slots. Empty input returns an empty slice.
func (rk *Ranker) OptimalHours(rows []Row, weekend bool) []HourSlot {
	slots := rk.hourStats(rows, excludedHours(weekend), 1)
	if len(slots) == 0 {
		return nil
	}

	maxTotal := 0.0
	for _, s := range slots {
		if s.TotalRevenue > maxTotal {
			maxTotal = s.TotalRevenue
		}
	}
	for i := range slots {
		if maxTotal > 0 {
			slots[i].Score = slots[i].ROI*0.6 + slots[i].TotalRevenue/maxTotal*100*0.4
		} else {
			slots[i].Score = slots[i].ROI
		}
	}

	// Primary ordering is trimmed ROI, not the composite score: the score
	// blends in revenue share for display, but slot picks follow ROI.
	sort.Slice(slots, func(i, j int) bool { return slots[i].ROI > slots[j].ROI })
	if len(slots) > rk.cfg.TopHours {
		slots = slots[:rk.cfg.TopHours]
	}
	log.Debug().Int("slots", len(slots)).Bool("weekend", weekend).Msg("optimal hours ranked")
	return slots
}

// hourStats aggregates rows per hour, skipping excluded hours and hours
// with fewer than minObs observations.
func (rk *Ranker) hourStats(rows []Row, excluded map[int]bool, minObs int) []HourSlot {
	byHour := map[int][]Row{}
	for _, r := range rows {
		if excluded[r.Hour] {
			continue
		}
		byHour[r.Hour] = append(byHour[r.Hour], r)
	}

	slots := make([]HourSlot, 0, len(byHour))
	for hour, group := range byHour {
		if len(group) < minObs {
			continue
		}
		slots = append(slots, rk.buildHourSlot(hour, group))
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Hour < slots[j].Hour })
	return slots
}

func (rk *Ranker) buildHourSlot(hour int, group []Row) HourSlot {
	rois := make([]float64, len(group))
	revenues := make([]float64, len(group))
	units := make([]float64, len(group))
	positive := 0
	bestIdx, worstIdx := 0, 0
	for i, r := range group {
		rois[i] = r.ROI
		revenues[i] = r.Revenue
		units[i] = r.Units
		if r.ROI > 0 {
			positive++
		}
		if r.Revenue > group[bestIdx].Revenue {
			bestIdx = i
		}
		if r.Revenue < group[worstIdx].Revenue {
			worstIdx = i
		}
	}

	return HourSlot{
		Hour:            hour,
		ROI:             stats.TrimmedMean(rois, rk.cfg.TrimPercent),
		AvgRevenue:      stats.TrimmedMean(revenues, rk.cfg.TrimPercent),
		TotalRevenue:    stats.Sum(revenues),
		Count:           len(group),
		AvgUnits:        stats.TrimmedMean(units, rk.cfg.TrimPercent),
		TotalUnits:      stats.Sum(units),
		PositiveRate:    float64(positive) / float64(len(group)) * 100,
		BestPriceRange:  priceRangeLabel(group[bestIdx].UnitPrice),
		WorstPriceRange: priceRangeLabel(group[worstIdx].UnitPrice),
	}
}

// priceRangeLabel renders a unit price as its ten-thousand-KRW band.
func priceRangeLabel(price float64) string {
	if price <= 0 {
		return "정보없음"
	}
	return fmt.Sprintf("%d만원대", int(price/10_000))
}
