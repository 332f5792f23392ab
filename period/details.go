package period

import "strconv"

const (
	daysInWeek       = 7
	maxDayOfMonth    = 31
	maxDayOfYear     = 365
	maxLeapDayOfYear = 366
)

// Detail describes one selectable position within a repetition unit.
type Detail struct {
	ID           uint   // value stored in Rule details
	StrID        string // external identifier; BYDAY token for weekdays
	Abbreviation string
	Label        string
}

// EnumerateDetails lists the details a rule of kind k may select, in
// ascending ID order. Daily and unset rules have none.
func EnumerateDetails(k Kind) []Detail {
	switch k {
	case KindWeekly:
		details := make([]Detail, 0, daysInWeek)
		for i, info := range weekdayTable {
			details = append(details, Detail{
				ID:           uint(i + 1),
				StrID:        info.strID,
				Abbreviation: info.abbreviation,
				Label:        info.label,
			})
		}
		return details
	case KindMonthly:
		return numericDetails(maxDayOfMonth)
	case KindYearly:
		return numericDetails(maxDayOfYear)
	default:
		return nil
	}
}

func numericDetails(n int) []Detail {
	details := make([]Detail, 0, n)
	for i := 1; i <= n; i++ {
		s := strconv.Itoa(i)
		details = append(details, Detail{ID: uint(i), StrID: s, Abbreviation: s, Label: s})
	}
	return details
}

// DetailLabel returns the label of detail id for kind k. Values outside the
// table are rendered as plain numbers.
func DetailLabel(k Kind, id uint) string {
	if k == KindWeekly && Weekday(id).Valid() {
		return Weekday(id).String()
	}
	return strconv.FormatUint(uint64(id), 10)
}
