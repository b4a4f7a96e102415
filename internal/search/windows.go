package search

import (
	"time"

	"github.com/campscout/campscout/internal/providers"
)

// availableRuns collapses one resource's per-day entries, already ordered by
// day, into maximal contiguous spans of bookable nights.
func availableRuns(entries []providers.AvailabilityEntry) []providers.DateRange {
	var runs []providers.DateRange
	var start, prev time.Time
	open := false
	flush := func() {
		if open {
			runs = append(runs, providers.DateRange{Start: start, End: prev.AddDate(0, 0, 1)})
			open = false
		}
	}
	for _, e := range entries {
		if !e.Available() {
			flush()
			continue
		}
		if open && e.Day.Equal(prev.AddDate(0, 0, 1)) {
			prev = e.Day
			continue
		}
		flush()
		start, prev, open = e.Day, e.Day, true
	}
	flush()
	return runs
}

// candidateWindows derives the bookable windows inside one contiguous run.
// Runs shorter than nights are discarded outright; a qualifying run is never
// extended past what was found contiguous. With weekendsOnly set, windows of
// exactly nights length slide across the run, windows whose span holds no
// Friday or Saturday are dropped, and overlapping survivors merge back into
// maximal spans. Shifting a window past an unavailable day never disqualifies
// its neighbors; each window stands on its own days.
func candidateWindows(run providers.DateRange, nights int, weekendsOnly bool) []providers.DateRange {
	if run.Nights() < nights {
		return nil
	}
	if !weekendsOnly {
		return []providers.DateRange{run}
	}
	var kept []providers.DateRange
	for s := run.Start; !s.AddDate(0, 0, nights).After(run.End); s = s.AddDate(0, 0, 1) {
		w := providers.DateRange{Start: s, End: s.AddDate(0, 0, nights)}
		if spanHasWeekend(w) {
			kept = append(kept, w)
		}
	}
	return mergeWindows(kept)
}

// spanHasWeekend reports whether any day from Start through End inclusive
// falls on a Friday or Saturday.
func spanHasWeekend(w providers.DateRange) bool {
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Friday || wd == time.Saturday {
			return true
		}
	}
	return false
}

// mergeWindows unions overlapping or adjacent windows. Input must be sorted
// by start date, which the sliding scan guarantees.
func mergeWindows(ws []providers.DateRange) []providers.DateRange {
	if len(ws) == 0 {
		return nil
	}
	out := []providers.DateRange{ws[0]}
	for _, w := range ws[1:] {
		last := &out[len(out)-1]
		if !w.Start.After(last.End) {
			if w.End.After(last.End) {
				last.End = w.End
			}
			continue
		}
		out = append(out, w)
	}
	return out
}
