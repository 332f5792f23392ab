package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openbook/libperiod/storage/xmlfile"
	"github.com/spf13/cobra"
)

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the rule store loaded and reload it when the file changes",
		Long: `Open the XML rule store and reload it whenever another process
rewrites the document, until interrupted. Reloads are logged at info level.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			xs, ok := store.(*xmlfile.Store)
			if !ok {
				return fmt.Errorf("watch needs the xml backend, got %s", a.config.Storage.Backend)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return xs.Watch(ctx)
		},
	}
}
