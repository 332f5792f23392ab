package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/openbook/libperiod/period"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// ruleFlags are the three persisted fields of a rule given on the
// command line
type ruleFlags struct {
	key     string
	every   uint
	details string
}

func (f *ruleFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.key, "key", "k", "", "Period kind: D, W, M or Y (or daily, weekly, ...)")
	cmd.Flags().UintVarP(&f.every, "every", "e", 1, "Stride: every N periods")
	cmd.Flags().StringVarP(&f.details, "details", "d", "", "Comma separated details (weekdays 1-7, days of month, days of year)")
}

// rule builds the rule; an unknown kind is an error here rather than the
// silent fallback to unset
func (f *ruleFlags) rule() (*period.Rule, error) {
	if strings.TrimSpace(f.key) == "" {
		return nil, fmt.Errorf("--key is required")
	}
	if !period.IsKnownCode(f.key) {
		return nil, fmt.Errorf("unknown period kind %q", f.key)
	}
	return period.NewWithData(f.key, f.every, f.details), nil
}

func parseDate(name, value string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", name, value)
	}
	return d, nil
}

func parseOptionalDate(name, value string) (mo.Option[time.Time], error) {
	if strings.TrimSpace(value) == "" {
		return mo.None[time.Time](), nil
	}
	d, err := parseDate(name, value)
	if err != nil {
		return mo.None[time.Time](), err
	}
	return mo.Some(d), nil
}

func formatDate(d time.Time) string {
	return d.Format(time.DateOnly)
}
