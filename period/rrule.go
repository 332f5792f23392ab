package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ErrUnsupportedRRule is returned when an RRULE uses parts that a Rule
// cannot express (COUNT, UNTIL, BYMONTH, ordinal weekdays, ...).
var ErrUnsupportedRRule = errors.New("unsupported recurrence rule")

// rruleWeekdays is indexed by Weekday-1.
var rruleWeekdays = [daysInWeek]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

var kindFreq = map[Kind]rrule.Frequency{
	KindDaily:   rrule.DAILY,
	KindWeekly:  rrule.WEEKLY,
	KindMonthly: rrule.MONTHLY,
	KindYearly:  rrule.YEARLY,
}

// RRuleString renders the rule as an RFC 5545 RRULE value, without the
// "RRULE:" prefix and without DTSTART. Invalid rules, and rules whose
// details are all out of range, render as "".
//
// Weekly rules always carry WKST=MO: with an interval above one the week
// start decides which weeks fire, and Monday is the week start the
// evaluator uses.
func (r *Rule) RRuleString() string {
	if r.Validate() != nil {
		return ""
	}
	details := r.exportDetails()
	if r.key != KindDaily && len(details) == 0 {
		return ""
	}
	parts := []string{
		"FREQ=" + strings.ToUpper(r.key.Label()),
		"INTERVAL=" + strconv.FormatUint(uint64(r.every), 10),
	}
	list := make([]string, len(details))
	for i, d := range details {
		if r.key == KindWeekly {
			list[i] = weekdayTable[d-1].strID
		} else {
			list[i] = strconv.FormatUint(uint64(d), 10)
		}
	}
	switch r.key {
	case KindWeekly:
		parts = append(parts, "BYDAY="+strings.Join(list, ","), "WKST=MO")
	case KindMonthly:
		parts = append(parts, "BYMONTHDAY="+strings.Join(list, ","))
	case KindYearly:
		parts = append(parts, "BYYEARDAY="+strings.Join(list, ","))
	}
	return strings.Join(parts, ";")
}

// exportDetails keeps the details that can ever match for the rule's kind.
// The evaluator never fires on the others, so they are left out of RRULEs.
func (r *Rule) exportDetails() []uint {
	var limit uint
	switch r.key {
	case KindWeekly:
		limit = daysInWeek
	case KindMonthly:
		limit = maxDayOfMonth
	case KindYearly:
		limit = maxLeapDayOfYear
	default:
		return nil
	}
	var out []uint
	for _, d := range r.details {
		if d >= 1 && d <= limit {
			out = append(out, d)
		}
	}
	return out
}

// ROption converts the rule to rrule-go options starting at dtstart.
// Details outside the kind's range are dropped; a rule left without any
// returns ErrNoDetail.
func (r *Rule) ROption(dtstart time.Time) (*rrule.ROption, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	opt := &rrule.ROption{
		Freq:     kindFreq[r.key],
		Interval: stride(r.every),
		Wkst:     rrule.MO,
	}
	if !dtstart.IsZero() {
		opt.Dtstart = civil(dtstart)
	}
	details := r.exportDetails()
	if r.key != KindDaily && len(details) == 0 {
		return nil, ErrNoDetail
	}
	switch r.key {
	case KindWeekly:
		for _, id := range details {
			opt.Byweekday = append(opt.Byweekday, rruleWeekdays[id-1])
		}
	case KindMonthly:
		opt.Bymonthday = toInts(details)
	case KindYearly:
		opt.Byyearday = toInts(details)
	}
	return opt, nil
}

// RRule builds an rrule-go recurrence starting at dtstart. Its expansion
// matches Between for the same rule when dtstart is the search start.
func (r *Rule) RRule(dtstart time.Time) (*rrule.RRule, error) {
	opt, err := r.ROption(dtstart)
	if err != nil {
		return nil, err
	}
	return rrule.NewRRule(*opt)
}

// ParseRRule parses an RRULE value, with or without the "RRULE:" prefix.
func ParseRRule(s string) (*Rule, error) {
	s = strings.TrimSpace(s)
	if len(s) > 6 && strings.EqualFold(s[:6], "RRULE:") {
		s = s[6:]
	}
	opt, err := rrule.StrToROption(strings.ToUpper(s))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE '%s': %w", s, err)
	}
	return RuleFromROption(opt)
}

// RuleFromROption converts rrule-go options to a Rule.
func RuleFromROption(opt *rrule.ROption) (*Rule, error) {
	if opt == nil {
		return New(), nil
	}
	if opt.Count != 0 || !opt.Until.IsZero() {
		return nil, fmt.Errorf("%w: COUNT and UNTIL are not supported", ErrUnsupportedRRule)
	}
	if len(opt.Bysetpos) > 0 || len(opt.Bymonth) > 0 || len(opt.Byweekno) > 0 ||
		len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 || len(opt.Byeaster) > 0 {
		return nil, fmt.Errorf("%w: only BYDAY, BYMONTHDAY and BYYEARDAY are supported", ErrUnsupportedRRule)
	}

	r := New()
	every := opt.Interval
	if every <= 0 {
		every = 1
	}
	r.SetEvery(uint(every))

	switch opt.Freq {
	case rrule.DAILY:
		if len(opt.Byweekday) > 0 || len(opt.Bymonthday) > 0 || len(opt.Byyearday) > 0 {
			return nil, fmt.Errorf("%w: daily rules take no BY parts", ErrUnsupportedRRule)
		}
		r.SetKey(KindDaily)
	case rrule.WEEKLY:
		if len(opt.Bymonthday) > 0 || len(opt.Byyearday) > 0 {
			return nil, fmt.Errorf("%w: weekly rules only take BYDAY", ErrUnsupportedRRule)
		}
		if opt.Wkst.Day() != rrule.MO.Day() && every > 1 {
			return nil, fmt.Errorf("%w: week start must be MO", ErrUnsupportedRRule)
		}
		r.SetKey(KindWeekly)
		for _, wd := range opt.Byweekday {
			if wd.N() != 0 {
				return nil, fmt.Errorf("%w: ordinal weekday %s", ErrUnsupportedRRule, wd.String())
			}
			r.AddDetail(uint(wd.Day()) + 1)
		}
	case rrule.MONTHLY:
		if len(opt.Byweekday) > 0 || len(opt.Byyearday) > 0 {
			return nil, fmt.Errorf("%w: monthly rules only take BYMONTHDAY", ErrUnsupportedRRule)
		}
		r.SetKey(KindMonthly)
		if err := addPositive(r, opt.Bymonthday, maxDayOfMonth); err != nil {
			return nil, err
		}
	case rrule.YEARLY:
		if len(opt.Byweekday) > 0 || len(opt.Bymonthday) > 0 {
			return nil, fmt.Errorf("%w: yearly rules only take BYYEARDAY", ErrUnsupportedRRule)
		}
		r.SetKey(KindYearly)
		if err := addPositive(r, opt.Byyearday, maxLeapDayOfYear); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: frequency %v", ErrUnsupportedRRule, opt.Freq)
	}
	return r, nil
}

func addPositive(r *Rule, values []int, limit int) error {
	for _, v := range values {
		if v <= 0 || v > limit {
			return fmt.Errorf("%w: day %d out of range 1..%d", ErrUnsupportedRRule, v, limit)
		}
		r.AddDetail(uint(v))
	}
	return nil
}

func toInts(values []uint) []int {
	ints := make([]int, len(values))
	for i, v := range values {
		ints[i] = int(v)
	}
	return ints
}
