package strategy

import (
	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/shoplens/internal/domain/record"
)

// Report is the full strategy output for one dataset, split by weekday and
// weekend scheduling regimes.
type Report struct {
	WeekdayHours     []HourSlot     `json:"weekday_hours"`
	WeekendHours     []HourSlot     `json:"weekend_hours"`
	PriceRanges      []PriceBand    `json:"price_ranges"`
	WeekdayTop       []WeekdaySlots `json:"weekday_top"`
	WeekdayChallenge []HourSlot     `json:"weekday_challenge"`
	WeekdayAvoid     []HourSlot     `json:"weekday_avoid"`
	WeekendChallenge []HourSlot     `json:"weekend_challenge"`
	WeekendAvoid     []HourSlot     `json:"weekend_avoid"`
}

// BuildReport runs every ranking over the costed records. Price bands use
// the full dataset; hour rankings run per regime because weekday and
// weekend schedules price and program differently.
func (rk *Ranker) BuildReport(records []record.CostedRecord) *Report {
	rows := rk.Prepare(records)

	var weekday, weekend []Row
	for _, r := range rows {
		if r.IsWeekend {
			weekend = append(weekend, r)
		} else {
			weekday = append(weekday, r)
		}
	}

	rep := &Report{
		WeekdayHours: rk.OptimalHours(weekday, false),
		WeekendHours: rk.OptimalHours(weekend, true),
		PriceRanges:  rk.OptimalPriceRanges(rows),
		WeekdayTop:   rk.WeekdayTopHours(rows),
	}
	rep.WeekdayChallenge, rep.WeekdayAvoid = rk.ChallengeAndAvoid(weekday, false)
	rep.WeekendChallenge, rep.WeekendAvoid = rk.ChallengeAndAvoid(weekend, true)

	log.Info().
		Int("rows", len(rows)).
		Int("weekday_hours", len(rep.WeekdayHours)).
		Int("weekend_hours", len(rep.WeekendHours)).
		Int("price_ranges", len(rep.PriceRanges)).
		Msg("strategy report built")
	return rep
}
