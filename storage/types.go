package storage

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openbook/libperiod/period"
	"github.com/samber/mo"
)

// Error types
type ErrorType string

const (
	ErrNotFound      ErrorType = "not_found"
	ErrAlreadyExists ErrorType = "already_exists"
	ErrInvalidInput  ErrorType = "invalid_input"
	ErrInvalidData   ErrorType = "invalid_data"
)

// Error represents a storage-related error
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsType reports whether err is, or wraps, a storage error of type t.
func IsType(err error, t ErrorType) bool {
	var serr *Error
	return errors.As(err, &serr) && serr.Type == t
}

// Record is the persisted form of a rule. Key, Every and Details carry the
// rule itself: the kind code, the stride and the comma separated details.
type Record struct {
	ID    string
	Label string

	Key     string
	Every   uint
	Details string

	// LastOccurrence is the date the rule last fired, if ever.
	LastOccurrence *time.Time

	Created  time.Time
	Modified time.Time
}

// NewID returns a fresh record identifier
func NewID() string {
	return uuid.NewString()
}

// FromRule builds a record holding r. A nil rule is stored as unset.
func FromRule(id, label string, r *period.Rule) *Record {
	if r == nil {
		r = period.New()
	}
	return &Record{
		ID:      id,
		Label:   label,
		Key:     r.Key().Code(),
		Every:   r.Every(),
		Details: r.DetailsString(),
	}
}

// Rule rebuilds the rule stored in the record. A kind code that is not
// recognised still yields a usable unset rule, returned together with an
// invalid_data error so the caller can report the damaged record.
func (rec *Record) Rule() (*period.Rule, error) {
	r := period.NewWithData(rec.Key, rec.Every, rec.Details)
	if !period.IsKnownCode(rec.Key) {
		return r, &Error{
			Type:    ErrInvalidData,
			Message: fmt.Sprintf("record %s has unknown period code %q", rec.ID, rec.Key),
		}
	}
	return r, nil
}

// SetRule replaces the persisted rule fields
func (rec *Record) SetRule(r *period.Rule) {
	fresh := FromRule(rec.ID, rec.Label, r)
	rec.Key, rec.Every, rec.Details = fresh.Key, fresh.Every, fresh.Details
}

// Last returns the last occurrence as an option
func (rec *Record) Last() mo.Option[time.Time] {
	if rec.LastOccurrence == nil || rec.LastOccurrence.IsZero() {
		return mo.None[time.Time]()
	}
	return mo.Some(*rec.LastOccurrence)
}

// SetLast records d as the last occurrence
func (rec *Record) SetLast(d time.Time) {
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	rec.LastOccurrence = &d
}

// Clone returns a deep copy of the record
func (rec *Record) Clone() *Record {
	if rec == nil {
		return nil
	}
	c := *rec
	if rec.LastOccurrence != nil {
		last := *rec.LastOccurrence
		c.LastOccurrence = &last
	}
	return &c
}

// ListOptions narrows ListRecords
type ListOptions struct {
	// Key keeps only records of this kind code, matched case-insensitively.
	Key string
}

// Matches reports whether rec passes the options. Nil options match all.
func (o *ListOptions) Matches(rec *Record) bool {
	if o == nil || o.Key == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(o.Key), strings.TrimSpace(rec.Key))
}

// SortRecords orders records by label, then id
func SortRecords(records []*Record) {
	slices.SortFunc(records, func(a, b *Record) int {
		if c := strings.Compare(a.Label, b.Label); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
