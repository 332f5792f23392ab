/*
Package period evaluates recurrence rules: "every N days", "every N weeks
on Monday and Wednesday", "every N months on the 1st and the 15th",
"every N years on day 100".

# Rules

A Rule is a (kind, stride, details) triple. It is persisted as three
scalar fields: a one-letter kind code (U, D, W, M, Y), the stride, and the
details as a comma separated list:

	r := period.NewWithData("W", 1, "1,3") // Mondays and Wednesdays
	if ok, reason := r.IsValid(); !ok {
		fmt.Println(reason)
	}

Weekly details use the internal weekday numbering, Monday=1 through
Sunday=7. Monthly details are days of month (1..31) and yearly details
are days of year (1..366).

# Enumeration

EnumerateBetween emits the dates on which a rule fires within a closed
window. An optional last occurrence resumes the search after it:

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	period.EnumerateBetween(r, mo.None[time.Time](), start, end, func(d time.Time) {
		fmt.Println(d.Format(time.DateOnly))
	})

Degenerate input never fails: an unset rule, a zero stride, an empty
detail set or an empty window simply produce no date.

# Engine

Engine wraps enumeration for servers that answer the same queries many
times. It clamps windows, caps result sizes and caches results:

	engine := period.NewEngine(period.WithConfig(period.HighPerformanceConfig))
	defer engine.Close()
	dates := engine.Occurrences(r, mo.None[time.Time](), start, end)

# iCalendar

Rules convert to and from RFC 5545 RRULE values, and enumerated dates can
be exported as an iCalendar document of all-day events.
*/
package period
