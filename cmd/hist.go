package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/labs/internal/history"
	"github.com/fakeyudi/labs/internal/session"
)

var (
	histCount    int
	histPrev     int
	histCommands bool
	jsonOutput   bool
)

var histCmd = &cobra.Command{
	Use:   "hist [-n N] [--prev K]",
	Short: "Show the most recent commands of this session, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQuery()
		if err != nil {
			return err
		}
		records, err := q.Hist(histCount, histPrev)
		if err != nil {
			return queryError(err)
		}
		return printRecords(cmd, records)
	},
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Show the most recent command of this session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQuery()
		if err != nil {
			return err
		}
		rec, err := q.Prev()
		if err != nil {
			return queryError(err)
		}
		return printRecords(cmd, []session.Record{rec})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Show one recorded command by index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil || index < 0 {
			return fmt.Errorf("invalid index %q", args[0])
		}
		q, err := openQuery()
		if err != nil {
			return err
		}
		rec, err := q.Show(index)
		if err != nil {
			return queryError(err)
		}
		return printRecords(cmd, []session.Record{rec})
	},
}

func openQuery() (*history.Query, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return history.New(store, cfg.HistCount), nil
}

// queryError shortens store errors to the one-line messages users see.
func queryError(err error) error {
	var nf *session.NotFoundError
	switch {
	case errors.As(err, &nf) && nf.Index < 0:
		return errors.New("no history")
	case errors.As(err, &nf):
		return fmt.Errorf("no record with index %d", nf.Index)
	case errors.Is(err, session.ErrSessionNotFound):
		return err
	}
	return fmt.Errorf("reading history: %w", err)
}

// printRecords renders everything before writing so errors never leave
// partial output behind.
func printRecords(cmd *cobra.Command, records []session.Record) error {
	var r history.Renderer = &history.TextRenderer{CommandsOnly: histCommands}
	if jsonOutput {
		r = &history.JSONRenderer{}
	}
	data, err := r.Render(records)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func init() {
	histCmd.Flags().IntVarP(&histCount, "count", "n", 0, "number of records to show (default from config, 10)")
	histCmd.Flags().IntVar(&histPrev, "prev", 0, "skip this many of the newest records")
	histCmd.Flags().BoolVarP(&histCommands, "commands", "c", false, "print command lines only")
	for _, c := range []*cobra.Command{histCmd, prevCmd, showCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "print records as JSON")
		rootCmd.AddCommand(c)
	}
}
