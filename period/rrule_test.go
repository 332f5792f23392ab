package period

import (
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
)

func TestRule_RRuleString(t *testing.T) {
	tests := []struct {
		rule *Rule
		want string
	}{
		{NewWithData("D", 3, ""), "FREQ=DAILY;INTERVAL=3"},
		{NewWithData("W", 1, "3,1"), "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE;WKST=MO"},
		{NewWithData("M", 2, "1,15"), "FREQ=MONTHLY;INTERVAL=2;BYMONTHDAY=1,15"},
		{NewWithData("Y", 1, "100"), "FREQ=YEARLY;INTERVAL=1;BYYEARDAY=100"},
		{NewWithData("W", 1, ""), ""},
		{New(), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rule.RRuleString())
	}
}

func TestParseRRule_RoundTrip(t *testing.T) {
	rules := []*Rule{
		NewWithData("D", 1, ""),
		NewWithData("D", 10, ""),
		NewWithData("W", 2, "1,2,3,4,5,6,7"),
		NewWithData("M", 1, "31"),
		NewWithData("Y", 4, "1,366"),
	}
	for _, r := range rules {
		t.Run(r.String(), func(t *testing.T) {
			parsed, err := ParseRRule("RRULE:" + r.RRuleString())
			require.NoError(t, err)
			assert.True(t, r.Equal(parsed), "got %s", parsed)
		})
	}
}

func TestParseRRule(t *testing.T) {
	r, err := ParseRRule("freq=weekly;byday=fr,mo")
	require.NoError(t, err)
	assert.Equal(t, KindWeekly, r.Key())
	assert.Equal(t, uint(1), r.Every())
	assert.Equal(t, []uint{1, 5}, r.Details())
}

func TestParseRRule_Unsupported(t *testing.T) {
	tests := []string{
		"FREQ=DAILY;COUNT=5",
		"FREQ=DAILY;UNTIL=20240101T000000Z",
		"FREQ=MONTHLY;BYDAY=1MO",
		"FREQ=WEEKLY;BYDAY=1MO",
		"FREQ=YEARLY;BYMONTH=3;BYMONTHDAY=1",
		"FREQ=MONTHLY;BYMONTHDAY=-1",
		"FREQ=HOURLY",
		"FREQ=DAILY;BYDAY=MO",
		"FREQ=WEEKLY;INTERVAL=2;BYDAY=MO;WKST=SU",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			_, err := ParseRRule(s)
			assert.ErrorIs(t, err, ErrUnsupportedRRule)
		})
	}

	_, err := ParseRRule("not a rule")
	assert.Error(t, err)
}

func TestRule_ROption(t *testing.T) {
	dtstart := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	opt, err := NewWithData("W", 2, "1,5").ROption(dtstart)
	require.NoError(t, err)

	assert.Equal(t, rrule.WEEKLY, opt.Freq)
	assert.Equal(t, 2, opt.Interval)
	assert.Equal(t, []rrule.Weekday{rrule.MO, rrule.FR}, opt.Byweekday)
	assert.Equal(t, date(2024, 3, 4), opt.Dtstart)

	_, err = New().ROption(dtstart)
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestRuleFromROption_Nil(t *testing.T) {
	r, err := RuleFromROption(nil)
	require.NoError(t, err)
	assert.True(t, r.IsEmpty())
}

func TestRule_OutOfRangeDetailsExport(t *testing.T) {
	t.Run("nothing left", func(t *testing.T) {
		for _, r := range []*Rule{
			NewWithData("W", 1, "9"),
			NewWithData("M", 1, "0"),
			NewWithData("M", 1, "40"),
			NewWithData("Y", 1, "400"),
		} {
			assert.Empty(t, r.RRuleString(), r.String())
			_, err := r.ROption(date(2024, 1, 1))
			assert.ErrorIs(t, err, ErrNoDetail, r.String())
			assert.Empty(t, Between(r, none, date(2024, 1, 1), date(2024, 12, 31)), r.String())

			comp := &ical.Component{Name: "VEVENT", Props: make(ical.Props)}
			ApplyToComponent(comp, r)
			assert.Nil(t, comp.Props.Get(ical.PropRecurrenceRule), r.String())
		}
	})

	tests := []struct {
		rule *Rule
		want string
	}{
		{NewWithData("W", 1, "1,9"), "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO;WKST=MO"},
		{NewWithData("M", 1, "15,40"), "FREQ=MONTHLY;INTERVAL=1;BYMONTHDAY=15"},
		{NewWithData("Y", 1, "60,367"), "FREQ=YEARLY;INTERVAL=1;BYYEARDAY=60"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.RRuleString())

			start, end := date(2024, 1, 1), date(2025, 12, 31)
			opt, err := tt.rule.ROption(start)
			require.NoError(t, err)
			set, err := rrule.NewRRule(*opt)
			require.NoError(t, err)
			assert.Equal(t, Between(tt.rule, none, start, end), set.Between(start, end, true))
		})
	}
}
