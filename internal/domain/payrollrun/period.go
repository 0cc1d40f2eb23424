package payrollrun

import "time"

// LastCompletedPeriod returns the most recent pay period that has fully ended
// as of ref, per the cycle configuration. It returns nil when the cycle's
// anchor is missing or invalid, or when no period has completed yet. The
// returned interval is half-open: [Start, End).
func LastCompletedPeriod(cycle Cycle, ref time.Time) *Period {
	ref = truncateToDay(ref)

	switch cycle.Frequency {
	case FrequencyWeekly:
		return lastWeeklyPeriod(cycle, ref)
	case FrequencyBiweekly:
		return lastBiweeklyPeriod(cycle, ref)
	case FrequencyMonthly:
		return lastMonthlyPeriod(cycle, ref)
	}
	return nil
}

// lastWeeklyPeriod finds the latest boundary on or before ref that falls on
// the anchor weekday; the completed period is the seven days before it.
func lastWeeklyPeriod(cycle Cycle, ref time.Time) *Period {
	if cycle.AnchorWeekday == nil || *cycle.AnchorWeekday < 0 || *cycle.AnchorWeekday > 6 {
		return nil
	}
	offset := (int(ref.Weekday()) - *cycle.AnchorWeekday + 7) % 7
	end := ref.AddDate(0, 0, -offset)
	return &Period{Start: end.AddDate(0, 0, -7), End: end}
}

// lastBiweeklyPeriod counts whole 14-day blocks elapsed since the anchor
// date. An anchor in the future, or fewer than 14 elapsed days, means no
// period has completed.
func lastBiweeklyPeriod(cycle Cycle, ref time.Time) *Period {
	if cycle.AnchorDate == nil {
		return nil
	}
	anchor := truncateToDay(*cycle.AnchorDate)
	days := daysBetween(anchor, ref)
	if days < 0 {
		return nil
	}
	n := days / 14
	if n < 1 {
		return nil
	}
	return &Period{
		Start: anchor.AddDate(0, 0, 14*(n-1)),
		End:   anchor.AddDate(0, 0, 14*n),
	}
}

// lastMonthlyPeriod finds the latest anchor-day boundary on or before ref;
// the completed period runs from the previous boundary to it. Anchor days
// above 28 are rejected so every month has the boundary.
func lastMonthlyPeriod(cycle Cycle, ref time.Time) *Period {
	if cycle.AnchorDay == nil || *cycle.AnchorDay < 1 || *cycle.AnchorDay > 28 {
		return nil
	}
	day := *cycle.AnchorDay
	end := time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, ref.Location())
	if end.After(ref) {
		end = end.AddDate(0, -1, 0)
	}
	return &Period{Start: end.AddDate(0, -1, 0), End: end}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from one date to another. Both are
// compared by their calendar date alone, so a ref in a different zone than
// the anchor never skews the count.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
