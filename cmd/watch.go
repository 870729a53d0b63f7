package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/labs/internal/history"
	"github.com/fakeyudi/labs/internal/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print each command of this session as it finishes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd, store)
	},
}

func runWatch(ctx context.Context, cmd *cobra.Command, store *session.Store) error {
	var printErr error
	err := history.Watch(ctx, store, func(rec session.Record) {
		if printErr != nil {
			return
		}
		printErr = printRecords(cmd, []session.Record{rec})
	})
	if err != nil {
		return queryError(err)
	}
	return printErr
}

func init() {
	watchCmd.Flags().BoolVar(&jsonOutput, "json", false, "print records as JSON")
	rootCmd.AddCommand(watchCmd)
}
