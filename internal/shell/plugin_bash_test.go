package shell

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLabs stands in for the labs binary and logs every command record-pre
// receives, one per line.
const stubLabs = `#!/bin/sh
case "$1" in
record-pre)
  shift
  [ "$1" = "--" ] && shift
  printf '%s\n' "$*" >> "$LABS_STUB_LOG"
  wc -l < "$LABS_STUB_LOG" | tr -d ' '
  ;;
esac
exit 0
`

// runBash feeds input to an interactive bash that sources the plugin and
// returns the commands recorded through record-pre.
func runBash(t *testing.T, histfile, rcExtra, input string) []string {
	t.Helper()
	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not available")
	}

	tmp := t.TempDir()
	bin := filepath.Join(tmp, "labs")
	require.NoError(t, os.WriteFile(bin, []byte(stubLabs), 0o755))
	plugin := filepath.Join(tmp, "labs.plugin.bash")
	require.NoError(t, os.WriteFile(plugin, []byte(BashPlugin), 0o644))
	rc := filepath.Join(tmp, "bashrc")
	require.NoError(t, os.WriteFile(rc, []byte(rcExtra+"\nsource "+plugin+"\n"), 0o644))
	hist := filepath.Join(tmp, "history")
	require.NoError(t, os.WriteFile(hist, []byte(histfile), 0o644))
	logPath := filepath.Join(tmp, "recorded")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, bash, "--noprofile", "--rcfile", rc, "-i")
	cmd.Dir = tmp
	cmd.Stdin = strings.NewReader(input)
	cmd.Env = []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + tmp,
		"TERM=dumb",
		"HISTFILE=" + hist,
		"LABS_BIN=" + bin,
		"LABS_SESSION_DIR=" + filepath.Join(tmp, "session"),
		"LABS_NO_CAPTURE=1",
		"LABS_STUB_LOG=" + logPath,
	}
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "bash output:\n%s", out)

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestBashPluginSkipsStartup(t *testing.T) {
	got := runBash(t, "rm -rf build-from-yesterday\n", "", "echo today\n")
	assert.Equal(t, []string{"echo today"}, got)
}

func TestBashPluginCommandsKeptOutOfHistory(t *testing.T) {
	got := runBash(t, "", "HISTCONTROL=ignoreboth",
		"echo first\n echo hidden\necho first\n\necho last\n")
	assert.Equal(t, []string{"echo first", "echo hidden", "echo first", "echo last"}, got)
}
