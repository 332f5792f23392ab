package period

import (
	"iter"
	"math"
	"time"

	"github.com/samber/mo"
)

const secondsPerDay = 24 * 60 * 60

// EnumerateBetween calls emit, in ascending order and without duplicates,
// for every date in [start, end] on which r fires.
//
// When last is present the search resumes the day after it: last moves
// where the walk starts, it does not widen [start, end], and no date on or
// before last is emitted. A rule that is unset, has a zero stride or
// selects no detail emits nothing, as do zero-valued bounds and a start
// after end. Times are reduced to their calendar date and emitted as
// midnight UTC.
func EnumerateBetween(r *Rule, last mo.Option[time.Time], start, end time.Time, emit func(time.Time)) {
	if emit == nil {
		return
	}
	walk(r, last, start, end, func(d time.Time) bool {
		emit(d)
		return true
	})
}

// Dates is the lazy form of EnumerateBetween. Breaking out of the range
// loop stops the enumeration.
func Dates(r *Rule, last mo.Option[time.Time], start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		walk(r, last, start, end, yield)
	}
}

// Between collects the dates of EnumerateBetween.
func Between(r *Rule, last mo.Option[time.Time], start, end time.Time) []time.Time {
	var dates []time.Time
	for d := range Dates(r, last, start, end) {
		dates = append(dates, d)
	}
	return dates
}

// window holds the normalized bounds of one enumeration.
type window struct {
	from  time.Time // first day searched
	lower time.Time // first day that may be emitted
	end   time.Time // last day that may be emitted
}

func (w window) accepts(d time.Time) bool {
	return !d.Before(w.lower) && !d.After(w.end)
}

func walk(r *Rule, last mo.Option[time.Time], start, end time.Time, yield func(time.Time) bool) {
	if r == nil || r.Validate() != nil || start.IsZero() || end.IsZero() {
		return
	}
	w := window{from: civil(start), lower: civil(start), end: civil(end)}
	if l, ok := last.Get(); ok && !l.IsZero() {
		w.from = civil(l).AddDate(0, 0, 1)
		if w.from.After(w.lower) {
			w.lower = w.from
		}
	}
	if w.lower.After(w.end) {
		return
	}

	step := stride(r.every)
	switch r.key {
	case KindDaily:
		walkDaily(step, w, yield)
	case KindWeekly:
		walkWeekly(r.details, step, w, yield)
	case KindMonthly:
		walkMonthly(r.details, step, w, yield)
	case KindYearly:
		walkYearly(r.details, step, w, yield)
	}
}

func walkDaily(step int, w window, yield func(time.Time) bool) {
	d := w.from
	if gap := daysBetween(w.from, w.lower); gap > 0 {
		d = d.AddDate(0, 0, int(gap/int64(step))*step)
	}
	for ; !d.After(w.end); d = d.AddDate(0, 0, step) {
		if !w.accepts(d) {
			continue
		}
		if !yield(d) {
			return
		}
	}
}

func walkWeekly(details []uint, step int, w window, yield func(time.Time) bool) {
	// Monday of the week holding the first searched day.
	anchor := w.from.AddDate(0, 0, -int(WeekdayOf(w.from.Weekday())-Monday))
	days := step * daysInWeek
	if gap := daysBetween(anchor, w.lower); gap > 0 {
		anchor = anchor.AddDate(0, 0, int(gap/int64(days))*days)
	}
	for ; !anchor.After(w.end); anchor = anchor.AddDate(0, 0, days) {
		// details are sorted, so Monday..Sunday order is kept
		for _, id := range details {
			wd := Weekday(id)
			if !wd.Valid() {
				continue
			}
			d := anchor.AddDate(0, 0, int(wd-Monday))
			if d.After(w.end) {
				return
			}
			if !w.accepts(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

func walkMonthly(details []uint, step int, w window, yield func(time.Time) bool) {
	anchor := time.Date(w.from.Year(), w.from.Month(), 1, 0, 0, 0, 0, time.UTC)
	gap := monthIndex(w.lower) - monthIndex(anchor)
	if gap > 0 {
		anchor = anchor.AddDate(0, int(gap/int64(step))*step, 0)
	}
	for ; !anchor.After(w.end); anchor = anchor.AddDate(0, step, 0) {
		n := uint(daysInMonth(anchor.Year(), anchor.Month()))
		for _, day := range details {
			if day == 0 || day > n {
				continue
			}
			d := anchor.AddDate(0, 0, int(day)-1)
			if d.After(w.end) {
				return
			}
			if !w.accepts(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

func walkYearly(details []uint, step int, w window, yield func(time.Time) bool) {
	anchor := time.Date(w.from.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if gap := w.lower.Year() - anchor.Year(); gap > 0 {
		anchor = anchor.AddDate((gap/step)*step, 0, 0)
	}
	for ; !anchor.After(w.end); anchor = anchor.AddDate(step, 0, 0) {
		n := uint(daysInYear(anchor.Year()))
		for _, yday := range details {
			if yday == 0 || yday > n {
				continue
			}
			d := anchor.AddDate(0, 0, int(yday)-1)
			if d.After(w.end) {
				return
			}
			if !w.accepts(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// civil truncates t to its calendar date at midnight UTC.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// stride converts a repetition count to a step usable with AddDate. Counts
// beyond int32 behave like "once", which they are for any real window.
func stride(every uint) int {
	if every > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(every)
}

// daysBetween counts the days from a to b, both civil dates.
func daysBetween(a, b time.Time) int64 {
	return (b.Unix() - a.Unix()) / secondsPerDay
}

func monthIndex(t time.Time) int64 {
	return int64(t.Year())*12 + int64(t.Month()) - 1
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
