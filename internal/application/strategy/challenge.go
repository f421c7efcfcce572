package strategy

import "sort"

// ChallengeAndAvoid splits marginal hours into two actionable lists:
// "challenge" hours whose trimmed ROI sits in a recoverable band, and
// "avoid" hours at the bottom of the table. Both require the configured
// minimum observation count so a single bad airing cannot condemn a slot.
func (rk *Ranker) ChallengeAndAvoid(rows []Row, weekend bool) (challenge, avoid []HourSlot) {
	excluded := excludedHours(weekend)
	slots := rk.hourStats(rows, excluded, rk.cfg.MinObservations)
	if len(slots) == 0 {
		return nil, nil
	}

	for _, s := range slots {
		if s.ROI >= rk.cfg.ChallengeMinROI && s.ROI <= rk.cfg.ChallengeMaxROI {
			challenge = append(challenge, s)
		}
	}
	if len(challenge) < 3 {
		// Thin band: drop the floor and take anything under the relaxed
		// ceiling rather than report nothing.
		challenge = challenge[:0]
		for _, s := range slots {
			if s.ROI < rk.cfg.ChallengeRelaxed {
				challenge = append(challenge, s)
			}
		}
	}
	sort.Slice(challenge, func(i, j int) bool { return challenge[i].ROI > challenge[j].ROI })
	if len(challenge) > 3 {
		challenge = challenge[:3]
	}

	exempt := map[int]bool{}
	for _, h := range rk.cfg.AvoidExemptHours {
		exempt[h] = true
	}
	for _, s := range slots {
		if !exempt[s.Hour] {
			avoid = append(avoid, s)
		}
	}
	sort.Slice(avoid, func(i, j int) bool { return avoid[i].ROI < avoid[j].ROI })
	if len(avoid) > 3 {
		avoid = avoid[:3]
	}
	return challenge, avoid
}
