package period

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IsEmpty(t *testing.T) {
	r := New()
	assert.True(t, r.IsEmpty())
	assert.Equal(t, KindUnset, r.Key())
	assert.Equal(t, uint(0), r.Every())
	assert.Empty(t, r.Details())

	var zero Rule
	assert.True(t, zero.Equal(r))
}

func TestNewWithData(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		every   uint
		details string
		key     Kind
		want    []uint
	}{
		{name: "weekly", code: "W", every: 1, details: "1,3", key: KindWeekly, want: []uint{1, 3}},
		{name: "unsorted with duplicates", code: "M", every: 2, details: "15, 1,15 ,3", key: KindMonthly, want: []uint{1, 3, 15}},
		{name: "lower case code", code: "y", every: 1, details: "100", key: KindYearly, want: []uint{100}},
		{name: "label as code", code: "Daily", every: 3, details: "", key: KindDaily, want: nil},
		{name: "unknown code", code: "Q", every: 1, details: "1", key: KindUnset, want: []uint{1}},
		{name: "invalid detail skipped", code: "M", every: 1, details: "1,x,-2,5", key: KindMonthly, want: []uint{1, 5}},
		{name: "blank items", code: "W", every: 1, details: ",,2,", key: KindWeekly, want: []uint{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewWithData(tt.code, tt.every, tt.details)
			assert.Equal(t, tt.key, r.Key())
			assert.Equal(t, tt.every, r.Every())
			if tt.want == nil {
				assert.Empty(t, r.Details())
			} else {
				assert.Equal(t, tt.want, r.Details())
			}
		})
	}
}

func TestRule_DetailsSortedSet(t *testing.T) {
	r := New()
	r.SetKey(KindMonthly)

	ops := []struct {
		add bool
		n   uint
	}{
		{true, 15}, {true, 3}, {true, 31}, {true, 3}, {false, 99},
		{true, 1}, {false, 15}, {true, 20}, {true, 1}, {false, 1},
	}
	for _, op := range ops {
		if op.add {
			r.AddDetail(op.n)
		} else {
			r.RemoveDetail(op.n)
		}
		d := r.Details()
		assert.True(t, slices.IsSorted(d), "details %v not sorted", d)
		assert.Equal(t, len(d), len(slices.Compact(slices.Clone(d))), "details %v has duplicates", d)
	}
	assert.Equal(t, []uint{3, 20, 31}, r.Details())
}

func TestRule_AddDetailIdempotent(t *testing.T) {
	r := New()
	r.AddDetail(5)
	r.AddDetail(5)
	assert.Equal(t, []uint{5}, r.Details())

	r.RemoveDetail(99)
	assert.Equal(t, []uint{5}, r.Details())
	assert.True(t, r.HasDetail(5))
	assert.False(t, r.HasDetail(99))
}

func TestRule_DetailsIsCopy(t *testing.T) {
	r := NewWithData("W", 1, "1,2")
	d := r.Details()
	d[0] = 7
	assert.Equal(t, []uint{1, 2}, r.Details())
}

func TestRule_DetailsString(t *testing.T) {
	r := New()
	r.SetDetails([]uint{7, 1, 3, 1})
	assert.Equal(t, "1,3,7", r.DetailsString())

	r.SetDetailsString("")
	assert.Equal(t, "", r.DetailsString())
}

func TestRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rule    *Rule
		wantErr error
		reason  string
	}{
		{name: "unset", rule: New(), wantErr: ErrNotSet, reason: "period not set"},
		{name: "weekly without detail", rule: NewWithData("W", 2, ""), wantErr: ErrNoDetail, reason: "no detail selected"},
		{name: "weekly with zero stride", rule: NewWithData("W", 0, "1"), wantErr: ErrZeroEvery, reason: "repetition count is zero"},
		{name: "daily", rule: NewWithData("D", 1, ""), wantErr: nil},
		{name: "monthly", rule: NewWithData("M", 1, "31"), wantErr: nil},
		{name: "yearly without detail", rule: NewWithData("Y", 1, ""), wantErr: ErrNoDetail, reason: "no detail selected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			ok, reason := tt.rule.IsValid()
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Empty(t, reason)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestRule_IsEmptyIsWeakerThanValid(t *testing.T) {
	r := NewWithData("W", 0, "")
	assert.False(t, r.IsEmpty())
	ok, _ := r.IsValid()
	assert.False(t, ok)
}

func TestRule_CloneEqual(t *testing.T) {
	r := NewWithData("W", 2, "1,5")
	c := r.Clone()
	assert.True(t, r.Equal(c))

	c.AddDetail(3)
	assert.False(t, r.Equal(c))
	assert.Equal(t, []uint{1, 5}, r.Details())

	assert.False(t, r.Equal(nil))
}

func TestRule_String(t *testing.T) {
	tests := []struct {
		rule *Rule
		want string
	}{
		{New(), "not set"},
		{NewWithData("D", 1, ""), "every day"},
		{NewWithData("D", 3, ""), "every 3 days"},
		{NewWithData("W", 2, "1,3"), "every 2 weeks on Monday, Wednesday"},
		{NewWithData("M", 1, "1,15"), "every month on day 1, 15"},
		{NewWithData("Y", 0, "100"), "never (yearly)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.rule.String())
	}
}
