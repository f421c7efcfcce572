package strategy

import "sort"

// WeekdaySlots holds the top hours for one weekday.
type WeekdaySlots struct {
	Weekday int        `json:"weekday"` // Monday=0 .. Friday=4
	Slots   []HourSlot `json:"slots"`
}

// WeekdayTopHours ranks hours separately per weekday (Monday through
// Friday). Weekend rows are ignored; the weekday exclusion window applies.
func (rk *Ranker) WeekdayTopHours(rows []Row) []WeekdaySlots {
	excluded := excludedHours(false)
	byDay := map[int][]Row{}
	for _, r := range rows {
		if r.IsWeekend || excluded[r.Hour] {
			continue
		}
		byDay[r.Weekday] = append(byDay[r.Weekday], r)
	}

	out := make([]WeekdaySlots, 0, len(byDay))
	for day := 0; day <= 4; day++ {
		group, ok := byDay[day]
		if !ok {
			continue
		}
		slots := rk.hourStats(group, nil, 1)
		sort.Slice(slots, func(i, j int) bool { return slots[i].ROI > slots[j].ROI })
		if len(slots) > rk.cfg.WeekdayTopN {
			slots = slots[:rk.cfg.WeekdayTopN]
		}
		out = append(out, WeekdaySlots{Weekday: day, Slots: slots})
	}
	return out
}
