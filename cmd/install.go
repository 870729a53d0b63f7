package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/labs/internal/shell"
)

var printPlugin bool

var installCmd = &cobra.Command{
	Use:       "install <zsh|bash>",
	Short:     "Install the shell hooks that record every command",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"zsh", "bash"},
	// Installing hooks needs no session.
	RunE: func(cmd *cobra.Command, args []string) error {
		if printPlugin {
			src, err := shell.Plugin(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), src)
			return nil
		}
		if _, err := shell.Install(args[0], cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("plugin install failed: %w", err)
		}
		return nil
	},
}

func init() {
	installCmd.Flags().BoolVar(&printPlugin, "print", false, "print the plugin to stdout instead of installing it")
	rootCmd.AddCommand(installCmd)
}
