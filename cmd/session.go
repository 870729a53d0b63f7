package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/labs/internal/config"
	"github.com/fakeyudi/labs/internal/session"
)

var sessionExport bool

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create or inspect recording sessions",
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new session directory and print its path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base := cfg.SessionsDir
		if base == "" {
			data, err := session.DataDir()
			if err != nil {
				return fmt.Errorf("resolving data directory: %w", err)
			}
			base = filepath.Join(data, "sessions")
		}

		cwd, _ := os.Getwd()
		meta := &session.Session{
			ID:        uuid.New().String(),
			StartTime: time.Now(),
			Shell:     filepath.Base(os.Getenv("SHELL")),
			WorkDir:   cwd,
		}
		root := session.NewRoot(base, meta)
		if err := session.NewStore(root).SaveMeta(meta); err != nil {
			return err
		}
		logger.Debug().Str("session", root).Str("id", meta.ID).Msg("session created")

		if sessionExport {
			fmt.Fprintf(cmd.OutOrStdout(), "export %s=%s\n", config.SessionEnv, shellQuote(root))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), root)
		return nil
	},
}

var sessionInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		indices, err := store.ListRecords()
		if err != nil {
			return queryError(err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Root: %s\n", store.Root())
		meta, err := store.LoadMeta()
		switch {
		case err == nil:
			fmt.Fprintf(out, "ID: %s\n", meta.ID)
			fmt.Fprintf(out, "Started: %s\n", meta.StartTime.Format(time.RFC3339))
			fmt.Fprintf(out, "Duration: %s\n", time.Since(meta.StartTime).Round(time.Second).String())
		case !errors.Is(err, session.ErrNoMeta):
			return err
		}
		fmt.Fprintf(out, "Commands: %d\n", len(indices))
		return nil
	},
}

// shellQuote single-quotes s for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func init() {
	sessionNewCmd.Flags().BoolVar(&sessionExport, "export", false, "print an export statement for "+config.SessionEnv)
	sessionCmd.AddCommand(sessionNewCmd, sessionInfoCmd)
	rootCmd.AddCommand(sessionCmd)
}
