package period

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrNotSet is returned by Validate when the rule has no kind
	ErrNotSet = errors.New("period not set")
	// ErrZeroEvery is returned by Validate when the repetition count is zero
	ErrZeroEvery = errors.New("repetition count is zero")
	// ErrNoDetail is returned by Validate when a weekly, monthly or yearly
	// rule selects no day
	ErrNoDetail = errors.New("no detail selected")
)

// Rule is a recurrence rule: fire every Every units of Key, on the days
// listed in details. The zero value is an empty (unset) rule.
//
// A Rule is not safe for concurrent mutation, but enumeration only reads
// it, so a rule that is no longer modified may be enumerated from several
// goroutines.
type Rule struct {
	key     Kind
	every   uint
	details []uint // ascending, no duplicates
}

// New returns an empty rule.
func New() *Rule {
	return &Rule{}
}

// NewWithData builds a rule from its three persisted fields. An unknown
// code leaves the rule unset.
func NewWithData(code string, every uint, details string) *Rule {
	r := &Rule{
		key:   KeyFromCode(code),
		every: every,
	}
	r.SetDetailsString(details)
	return r
}

func (r *Rule) Key() Kind {
	return r.key
}

func (r *Rule) SetKey(k Kind) {
	r.key = k
}

func (r *Rule) Every() uint {
	return r.every
}

func (r *Rule) SetEvery(n uint) {
	r.every = n
}

// Details returns a copy of the selected details in ascending order.
func (r *Rule) Details() []uint {
	return slices.Clone(r.details)
}

// SetDetails replaces the selected details. The input may be unsorted and
// contain duplicates.
func (r *Rule) SetDetails(details []uint) {
	d := slices.Clone(details)
	slices.Sort(d)
	r.details = slices.Compact(d)
}

// AddDetail inserts n, keeping the details sorted. Adding a value that is
// already present does nothing.
func (r *Rule) AddDetail(n uint) {
	i, found := slices.BinarySearch(r.details, n)
	if found {
		return
	}
	r.details = slices.Insert(r.details, i, n)
}

// RemoveDetail removes n if present.
func (r *Rule) RemoveDetail(n uint) {
	if i, found := slices.BinarySearch(r.details, n); found {
		r.details = slices.Delete(r.details, i, i+1)
	}
}

// HasDetail reports whether n is selected.
func (r *Rule) HasDetail(n uint) bool {
	_, found := slices.BinarySearch(r.details, n)
	return found
}

// DetailsString returns the details as a comma separated list, the form
// they are persisted in.
func (r *Rule) DetailsString() string {
	parts := make([]string, len(r.details))
	for i, d := range r.details {
		parts[i] = strconv.FormatUint(uint64(d), 10)
	}
	return strings.Join(parts, ",")
}

// SetDetailsString replaces the details from a comma separated list. Blank
// items are ignored; items that are not non-negative integers are skipped
// and logged.
func (r *Rule) SetDetailsString(s string) {
	var details []uint
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.ParseUint(tok, 10, 0)
		if err != nil {
			logger.Warn("ignoring invalid period detail", slog.String("detail", tok))
			continue
		}
		details = append(details, uint(n))
	}
	r.SetDetails(details)
}

// IsEmpty reports whether the rule has no kind.
func (r *Rule) IsEmpty() bool {
	return r.key == KindUnset
}

// Validate returns nil when the rule can produce dates, or one of
// ErrNotSet, ErrZeroEvery and ErrNoDetail.
func (r *Rule) Validate() error {
	if r.key == KindUnset {
		return ErrNotSet
	}
	if r.every == 0 {
		return ErrZeroEvery
	}
	if r.key != KindDaily && len(r.details) == 0 {
		return ErrNoDetail
	}
	return nil
}

// IsValid is Validate in a form suitable for display: the boolean result
// and, when invalid, a human readable reason.
func (r *Rule) IsValid() (bool, string) {
	if err := r.Validate(); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// Clone returns a deep copy of r.
func (r *Rule) Clone() *Rule {
	return &Rule{key: r.key, every: r.every, details: slices.Clone(r.details)}
}

// Equal reports whether both rules have the same kind, stride and details.
func (r *Rule) Equal(o *Rule) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.key == o.key && r.every == o.every && slices.Equal(r.details, o.details)
}

// String summarizes the rule, e.g. "every 2 weeks on Monday, Wednesday".
func (r *Rule) String() string {
	if r.key == KindUnset {
		return "not set"
	}
	var b strings.Builder
	switch r.every {
	case 0:
		fmt.Fprintf(&b, "never (%s)", strings.ToLower(r.key.Label()))
		return b.String()
	case 1:
		fmt.Fprintf(&b, "every %s", r.key.unit())
	default:
		fmt.Fprintf(&b, "every %d %ss", r.every, r.key.unit())
	}
	if len(r.details) > 0 && r.key != KindDaily {
		labels := make([]string, len(r.details))
		for i, d := range r.details {
			labels[i] = DetailLabel(r.key, d)
		}
		switch r.key {
		case KindWeekly:
			b.WriteString(" on ")
		default:
			b.WriteString(" on day ")
		}
		b.WriteString(strings.Join(labels, ", "))
	}
	return b.String()
}
