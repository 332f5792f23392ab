package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/openbook/libperiod/storage"
	"github.com/spf13/cobra"
)

func rulesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage stored rules",
	}
	cmd.AddCommand(
		rulesListCmd(a),
		rulesAddCmd(a),
		rulesShowCmd(a),
		rulesDoneCmd(a),
		rulesRemoveCmd(a),
	)
	return cmd
}

func rulesListCmd(a *app) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			records, err := store.ListRecords(cmd.Context(), &storage.ListOptions{Key: key})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tRULE\tLAST")
			for _, rec := range records {
				r, err := rec.Rule()
				if err != nil {
					a.logger.Warn("damaged rule record", slog.String("id", rec.ID), slog.Any("error", err))
				}
				lastAt := "-"
				if d, ok := rec.Last().Get(); ok {
					lastAt = formatDate(d)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.ID, rec.Label, r, lastAt)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Only list rules of this kind")
	return cmd
}

func rulesAddCmd(a *app) *cobra.Command {
	var (
		rf    ruleFlags
		label string
		last  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a new rule and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rf.rule()
			if err != nil {
				return err
			}
			if ok, reason := r.IsValid(); !ok {
				return fmt.Errorf("invalid rule: %s", reason)
			}
			lastAt, err := parseOptionalDate("last", last)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			rec := storage.FromRule(storage.NewID(), label, r)
			if d, ok := lastAt.Get(); ok {
				rec.SetLast(d)
			}
			if err := store.CreateRecord(cmd.Context(), rec); err != nil {
				return err
			}
			a.logger.Info("rule stored", slog.String("id", rec.ID), slog.String("rule", r.String()))
			fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
			return nil
		},
	}
	rf.bind(cmd)
	cmd.Flags().StringVarP(&label, "label", "l", "", "Label of the rule")
	cmd.Flags().StringVar(&last, "last", "", "Date of the last occurrence")
	return cmd
}

func rulesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a stored rule and its next occurrence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			rec, err := store.GetRecord(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r, ruleErr := rec.Rule()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id: %s\nlabel: %s\nkey: %s\nevery: %d\ndetails: %s\nsummary: %s\n",
				rec.ID, rec.Label, rec.Key, rec.Every, rec.Details, r)
			if d, ok := rec.Last().Get(); ok {
				fmt.Fprintf(out, "last: %s\n", formatDate(d))
			}
			if ruleErr != nil {
				return ruleErr
			}

			today := a.today()
			if next, ok := a.engine.First(r, rec.Last(), today, today.AddDate(10, 0, 0)).Get(); ok {
				fmt.Fprintf(out, "next: %s\n", formatDate(next))
			} else {
				fmt.Fprintln(out, "next: none")
			}
			return nil
		},
	}
}

func rulesDoneCmd(a *app) *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "done ID",
		Short: "Record the last occurrence of a stored rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := a.today()
			if on != "" {
				var err error
				if day, err = parseDate("on", on); err != nil {
					return err
				}
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			rec, err := store.GetRecord(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rec.SetLast(day)
			return store.UpdateRecord(cmd.Context(), rec)
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "Date of the occurrence (default today)")
	return cmd
}

func rulesRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a stored rule",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			return store.DeleteRecord(cmd.Context(), args[0])
		},
	}
}
