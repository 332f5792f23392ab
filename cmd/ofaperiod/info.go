package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/openbook/libperiod/period"
	"github.com/spf13/cobra"
)

func detailsCmd(a *app) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "details",
		Short: "List the details a period kind accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !period.IsKnownCode(key) {
				return fmt.Errorf("unknown period kind %q", key)
			}
			k := period.KeyFromCode(key)
			details := period.EnumerateDetails(k)
			if len(details) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s rules take no details\n", k.Label())
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCODE\tABBR\tLABEL")
			for _, d := range details {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.ID, d.StrID, d.Abbreviation, d.Label)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "W", "Period kind: D, W, M or Y")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	var rf ruleFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a rule and describe it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rf.rule()
			if err != nil {
				return err
			}
			if ok, reason := r.IsValid(); !ok {
				return fmt.Errorf("invalid rule: %s", reason)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %s\n", r)
			return nil
		},
	}
	rf.bind(cmd)
	return cmd
}

func rruleCmd(a *app) *cobra.Command {
	var (
		rf    ruleFlags
		parse string
	)

	cmd := &cobra.Command{
		Use:   "rrule",
		Short: "Convert between rules and RFC 5545 RRULE values",
		Example: `  ofaperiod rrule -k W -e 2 -d 1,5
  ofaperiod rrule --parse "FREQ=MONTHLY;BYMONTHDAY=1,15"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if parse != "" {
				r, err := period.ParseRRule(parse)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "key: %s\nevery: %d\ndetails: %s\nsummary: %s\n",
					r.Key().Code(), r.Every(), r.DetailsString(), r)
				return nil
			}

			r, err := rf.rule()
			if err != nil {
				return err
			}
			if err := r.Validate(); err != nil {
				return fmt.Errorf("invalid rule: %w", err)
			}
			value := r.RRuleString()
			if value == "" {
				return fmt.Errorf("rule %q has no detail that can fire", r.DetailsString())
			}
			fmt.Fprintf(out, "RRULE:%s\n", value)
			return nil
		},
	}
	rf.bind(cmd)
	cmd.Flags().StringVar(&parse, "parse", "", "RRULE value to convert into a rule")
	cmd.MarkFlagsMutuallyExclusive("parse", "key")
	return cmd
}
