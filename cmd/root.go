package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/labs/internal/config"
	"github.com/fakeyudi/labs/internal/logging"
	"github.com/fakeyudi/labs/internal/session"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// logger is built from cfg in PersistentPreRunE.
var logger = zerolog.Nop()

// logCloser is the open log file, if any.
var logCloser io.Closer

var (
	sessionFlag string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "labs",
	Short:         "Record shell commands and their output per session, and browse them",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		var override config.Config
		if verbose {
			override.LogLevel = "debug"
		}
		cfg = config.Merge(global, &override)

		if cfg.LogFile != "" {
			l, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
			if err != nil {
				return err
			}
			logger, logCloser = l, closer
			return nil
		}
		l, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, term.IsTerminal(os.Stderr.Fd()))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error after printing a
// one-line message.
func Execute() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "labs: %v\n", err)
		os.Exit(1)
	}
}

// run executes the root command and closes the log file whether or not the
// command failed.
func run() error {
	defer closeLog()
	return rootCmd.Execute()
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
	logger = zerolog.Nop()
}

// openStore resolves the session root from --session or $LABS_SESSION_DIR.
func openStore() (*session.Store, error) {
	root, err := config.ResolveSessionRoot(sessionFlag)
	if err != nil {
		return nil, err
	}
	return session.NewStore(root), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionFlag, "session", "", "session root directory (default $"+config.SessionEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug detail to stderr")
}
