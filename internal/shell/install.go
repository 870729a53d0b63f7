// Package shell ships the zsh and bash hook scripts that feed labs, and reads
// the stream captures those scripts leave behind.
package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fakeyudi/labs/internal/config"
)

// Plugin returns the hook script for shell.
func Plugin(shell string) (string, error) {
	switch shell {
	case "zsh":
		return ZshPlugin, nil
	case "bash":
		return BashPlugin, nil
	default:
		return "", fmt.Errorf("unsupported shell for plugin: %s (supported: zsh, bash)", shell)
	}
}

// PluginPath returns the path where the plugin file should be written.
func PluginPath(shell string) (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "labs.plugin."+shell), nil
}

// Install writes the plugin file for the given shell and prints the source
// instruction the user needs to add to their rc file to w.
func Install(shell string, w io.Writer) (string, error) {
	content, err := Plugin(shell)
	if err != nil {
		return "", err
	}
	path, err := PluginPath(shell)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing plugin file: %w", err)
	}

	rcFile := rcFileName(shell)
	fmt.Fprintf(w, "Plugin written to %s\n", path)
	fmt.Fprintf(w, "\nAdd this line to your %s:\n", rcFile)
	fmt.Fprintf(w, "  source %s\n", path)
	fmt.Fprintf(w, "\nThen open a new shell, or run: source %s\n", rcFile)
	return path, nil
}

// IsInstalled reports whether the plugin file exists on disk.
func IsInstalled(shell string) bool {
	path, err := PluginPath(shell)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func rcFileName(shell string) string {
	switch shell {
	case "zsh":
		return "~/.zshrc"
	case "bash":
		return "~/.bashrc"
	default:
		return "~/." + shell + "rc"
	}
}
