package strategy

import (
	"fmt"
	"sort"

	"github.com/hyeonwoo/shoplens/internal/domain/stats"
)

// OptimalPriceRanges buckets airings into fixed unit-price bands and ranks
// them by a blended ROI/revenue score. Bands outside the configured domain
// and empty bands are dropped.
func (rk *Ranker) OptimalPriceRanges(rows []Row) []PriceBand {
	byBand := map[float64][]Row{}
	for _, r := range rows {
		if r.UnitPrice < rk.cfg.PriceBandMin || r.UnitPrice >= rk.cfg.PriceBandMax {
			continue
		}
		lower := rk.cfg.PriceBandMin +
			float64(int((r.UnitPrice-rk.cfg.PriceBandMin)/rk.cfg.PriceBandWidth))*rk.cfg.PriceBandWidth
		byBand[lower] = append(byBand[lower], r)
	}
	if len(byBand) == 0 {
		return nil
	}

	bands := make([]PriceBand, 0, len(byBand))
	for lower, group := range byBand {
		bands = append(bands, rk.buildPriceBand(lower, group))
	}

	maxTotal := 0.0
	for _, b := range bands {
		if b.TotalRevenue > maxTotal {
			maxTotal = b.TotalRevenue
		}
	}
	for i := range bands {
		b := &bands[i]
		if maxTotal > 0 {
			// Rebase ROI so -100% scores 0 and 0% scores 1, then blend
			// with revenue share. Scaled back to a 0-100 display score.
			roiScore := (b.ROI + 100) / 100
			if roiScore < 0 {
				roiScore = 0
			}
			b.Score = (roiScore*0.6 + b.TotalRevenue/maxTotal*0.4) * 100
		} else if b.ROI > 0 {
			b.Score = b.ROI
		}
	}

	sort.Slice(bands, func(i, j int) bool { return bands[i].Score > bands[j].Score })
	if len(bands) > rk.cfg.TopPriceRanges {
		bands = bands[:rk.cfg.TopPriceRanges]
	}
	return bands
}

func (rk *Ranker) buildPriceBand(lower float64, group []Row) PriceBand {
	rois := make([]float64, len(group))
	revenues := make([]float64, len(group))
	units := make([]float64, len(group))
	positive := 0
	revByHour := map[int]float64{}
	for i, r := range group {
		rois[i] = r.ROI
		revenues[i] = r.Revenue
		units[i] = r.Units
		if r.ROI > 0 {
			positive++
		}
		revByHour[r.Hour] += r.Revenue
	}

	bestHour, bestRev := -1, 0.0
	for hour, rev := range revByHour {
		if bestHour == -1 || rev > bestRev || (rev == bestRev && hour < bestHour) {
			bestHour, bestRev = hour, rev
		}
	}

	return PriceBand{
		Band:         fmt.Sprintf("%d만원대", int(lower/10_000)),
		LowerBound:   lower,
		ROI:          stats.TrimmedMean(rois, rk.cfg.TrimPercent),
		AvgRevenue:   stats.TrimmedMean(revenues, rk.cfg.TrimPercent),
		TotalRevenue: stats.Sum(revenues),
		AvgUnits:     stats.TrimmedMean(units, rk.cfg.TrimPercent),
		TotalUnits:   stats.Sum(units),
		Count:        len(group),
		BestHour:     bestHour,
		PositiveRate: float64(positive) / float64(len(group)) * 100,
	}
}
