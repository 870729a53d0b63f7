package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/labs/internal/recorder"
	"github.com/fakeyudi/labs/internal/shell"
)

var (
	preIndex int

	postIndex      int
	postStatus     int
	postStdout     string
	postStderr     string
	postCombined   string
	postCaptureDir string
	postStdin      bool
)

// The record commands run from shell hooks. Recording failures are logged by
// the recorder and never turned into a nonzero exit.
var recordPreCmd = &cobra.Command{
	Use:   "record-pre [--index N] -- <command...>",
	Short: "Record a command about to run (shell preexec hook)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		rec := recorder.New(store, logger)
		text := strings.Join(args, " ")

		if preIndex >= 0 {
			_ = rec.Preexec(preIndex, text)
			return nil
		}
		index, err := rec.Begin(text)
		if err != nil {
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), index)
		return nil
	},
}

var recordPostCmd = &cobra.Command{
	Use:   "record-post [--index N] [--status S]",
	Short: "Record the output and exit status of the last command (shell precmd hook)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		rec := recorder.New(store, logger)

		index := postIndex
		if index < 0 {
			last, ok, err := store.Latest()
			if err != nil {
				logger.Debug().Err(err).Msg("record-post: no session yet")
			}
			if ok {
				index = last
			} else {
				index = 0
			}
		}

		out := recorder.Output{
			Stdout:   postStdout,
			Stderr:   postStderr,
			Combined: postCombined,
		}
		if postStatus >= 0 {
			s := postStatus
			out.ExitStatus = &s
		}
		if postCaptureDir != "" {
			c, err := shell.ReadCapture(postCaptureDir)
			if err != nil {
				logger.Warn().Err(err).Str("dir", postCaptureDir).Msg("reading capture failed")
			}
			out.Stdout += c.Stdout
			out.Stderr += c.Stderr
			out.Combined += c.Combined
		}
		if postStdin {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				logger.Warn().Err(err).Msg("reading stdin failed")
			}
			out.Combined += string(data)
		}

		if err := rec.Precmd(index, out); err != nil {
			return nil
		}
		if postCaptureDir != "" {
			if err := shell.ResetCapture(postCaptureDir); err != nil {
				logger.Warn().Err(err).Str("dir", postCaptureDir).Msg("resetting capture failed")
			}
		}
		return nil
	},
}

func init() {
	recordPreCmd.Flags().IntVar(&preIndex, "index", -1, "command index supplied by the shell (default: allocate and print the next one)")

	recordPostCmd.Flags().IntVar(&postIndex, "index", -1, "command index (default: latest recorded)")
	recordPostCmd.Flags().IntVar(&postStatus, "status", -1, "exit status of the command")
	recordPostCmd.Flags().StringVar(&postStdout, "stdout", "", "captured stdout")
	recordPostCmd.Flags().StringVar(&postStderr, "stderr", "", "captured stderr")
	recordPostCmd.Flags().StringVar(&postCombined, "full", "", "captured combined output")
	recordPostCmd.Flags().StringVar(&postCaptureDir, "capture-dir", "", "read stdout/stderr/full files written by the shell hook")
	recordPostCmd.Flags().BoolVar(&postStdin, "stdin", false, "append standard input to the combined output")

	rootCmd.AddCommand(recordPreCmd)
	rootCmd.AddCommand(recordPostCmd)
}
