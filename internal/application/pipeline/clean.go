package pipeline

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/shoplens/internal/domain/record"
)

// Clean derives the costed form of each raw record and drops rows with
// negative revenue. Numeric gaps are already coerced to 0 by the store
// adapter; everything here is pure arithmetic on canonical columns.
func (p *Pipeline) Clean(raw []record.BroadcastRecord) []record.CostedRecord {
	out := make([]record.CostedRecord, 0, len(raw))
	dropped := 0

	for _, r := range raw {
		if r.Revenue < 0 {
			dropped++
			continue
		}

		c := record.CostedRecord{
			BroadcastRecord: r,
			Hour:            r.Hour(),
			WeekdayIdx:      r.Weekday(),
			IsWeekend:       r.IsWeekend(),
		}

		costing := p.model.Cost(r.Platform, r.Revenue, r.Cost)
		c.IsLive = costing.IsLive
		c.ModelCost = costing.ModelCost
		c.TotalCost = costing.TotalCost
		c.RealProfit = costing.RealProfit
		c.ROI = costing.ROI

		if c.TotalCost > 0 {
			c.Efficiency = r.Revenue / c.TotalCost
		}
		if r.UnitsSold > 0 {
			c.UnitPrice = r.Revenue / float64(r.UnitsSold)
		}

		if c.IsLive {
			c.ChannelType = "live"
		} else {
			c.ChannelType = "recorded"
		}

		c.Month = int(r.Date.Month())
		c.Quarter = (c.Month-1)/3 + 1
		c.Year = r.Date.Year()
		c.YearMonth = r.Date.Format("2006-01")
		year, week := r.Date.ISOWeek()
		c.ISOWeek = fmt.Sprintf("%d-W%02d", year, week)

		out = append(out, c)
	}

	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("records with negative revenue dropped")
	}
	log.Info().Int("records", len(out)).Msg("records cleaned")
	return out
}
