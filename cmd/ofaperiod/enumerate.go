package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/openbook/libperiod/internal/config"
	"github.com/openbook/libperiod/period"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func enumerateCmd(a *app) *cobra.Command {
	var (
		rf      ruleFlags
		id      string
		from    string
		to      string
		last    string
		format  string
		summary string
		series  bool
	)

	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "List the dates on which a rule fires",
		Long: `List the dates on which a rule fires between --from and --to, both
included. With --last the search resumes the day after that date. With --id
the rule and its last occurrence come from the rule store.`,
		Example: `  ofaperiod enumerate -k W -d 1,3 --from 2024-01-01 --to 2024-01-31
  ofaperiod enumerate --id 5f0c... --format ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				r      *period.Rule
				lastAt mo.Option[time.Time]
				err    error
			)
			if id != "" {
				r, lastAt, err = a.storedRule(cmd.Context(), id)
			} else {
				r, err = rf.rule()
			}
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("last") || id == "" {
				if lastAt, err = parseOptionalDate("last", last); err != nil {
					return err
				}
			}
			if err := r.Validate(); err != nil {
				return fmt.Errorf("invalid rule: %w", err)
			}

			start := a.today()
			if from != "" {
				if start, err = parseDate("from", from); err != nil {
					return err
				}
			}
			end := start.AddDate(1, 0, 0)
			if to != "" {
				if end, err = parseDate("to", to); err != nil {
					return err
				}
			}
			if end.Before(start) {
				return fmt.Errorf("--to %s is before --from %s", formatDate(end), formatDate(start))
			}

			if format == "" {
				format = a.config.Output.Format
			}
			if summary == "" {
				summary = a.config.Output.Summary
			}
			return a.writeOccurrences(cmd.OutOrStdout(), r, lastAt, start, end, format, summary, series)
		},
	}

	rf.bind(cmd)
	cmd.Flags().StringVar(&id, "id", "", "Use the stored rule with this id")
	cmd.Flags().StringVar(&from, "from", "", "First day of the window (default today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day of the window (default one year after --from)")
	cmd.Flags().StringVar(&last, "last", "", "Date of the last occurrence")
	cmd.Flags().StringVarP(&format, "format", "o", "", "Output format: text, ics or rrule")
	cmd.Flags().StringVar(&summary, "summary", "", "Event summary for ics output")
	cmd.Flags().BoolVar(&series, "series", false, "With ics output, write one recurring event instead of one event per date")
	cmd.MarkFlagsMutuallyExclusive("id", "key")

	return cmd
}

func (a *app) writeOccurrences(w io.Writer, r *period.Rule, last mo.Option[time.Time], start, end time.Time, format, summary string, series bool) error {
	switch format {
	case config.FormatText:
		for _, d := range a.engine.Occurrences(r, last, start, end) {
			fmt.Fprintln(w, formatDate(d))
		}
		return nil

	case config.FormatRRule:
		value := r.RRuleString()
		if value == "" {
			return fmt.Errorf("rule %q has no detail that can fire", r.DetailsString())
		}
		first := a.engine.First(r, last, start, end).OrElse(start)
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\nRRULE:%s\n", first.Format("20060102"), value)
		return nil

	case config.FormatICS:
		var (
			ics string
			err error
		)
		if series {
			if r.RRuleString() == "" {
				return fmt.Errorf("rule %q has no detail that can fire", r.DetailsString())
			}
			first, ok := a.engine.First(r, last, start, end).Get()
			if !ok {
				return fmt.Errorf("rule does not fire between %s and %s", formatDate(start), formatDate(end))
			}
			ics, err = period.EventsToICS(period.SeriesEvent(r, first, summary))
		} else {
			ics, err = period.EncodeICS(period.OccurrencesCalendar(r, a.engine.Occurrences(r, last, start, end), summary))
		}
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, ics)
		return err

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// storedRule loads a rule and its last occurrence from the store. A record
// with a damaged kind code is reported as an error.
func (a *app) storedRule(ctx context.Context, id string) (*period.Rule, mo.Option[time.Time], error) {
	store, err := a.openStore()
	if err != nil {
		return nil, mo.None[time.Time](), err
	}
	rec, err := store.GetRecord(ctx, id)
	if err != nil {
		return nil, mo.None[time.Time](), err
	}
	r, err := rec.Rule()
	if err != nil {
		return nil, mo.None[time.Time](), err
	}
	return r, rec.Last(), nil
}
