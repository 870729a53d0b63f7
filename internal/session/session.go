package session

import (
	"strings"
	"time"
)

// Session is the metadata written to session.json when a session is created
// by `labs session new`. Any directory can serve as a session root; the
// metadata file is optional.
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	Shell     string    `json:"shell,omitempty"`
	WorkDir   string    `json:"work_dir,omitempty"`
}

// Record is one executed command as persisted under the session root.
type Record struct {
	Index      int    `json:"index"`
	Label      string `json:"label"`
	Dir        string `json:"dir"`
	Command    string `json:"command"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	Combined   string `json:"combined"`
	ExitStatus *int   `json:"exit_status,omitempty"` // nil when precmd never reported one
}

// Complete reports whether the command has finished and its status is known.
func (r Record) Complete() bool {
	return r.ExitStatus != nil
}

// IsFallback reports whether the record was created by precmd without a
// matching preexec.
func (r Record) IsFallback() bool {
	return r.Label == FallbackLabel
}

// Files inside a record directory.
const (
	CommandFile    = "command.txt"
	StdoutFile     = "stdout.txt"
	StderrFile     = "stderr.txt"
	CombinedFile   = "full.txt"
	ExitStatusFile = "exit_status.txt"
)

// FallbackLabel names record directories created by precmd when no preexec
// directory exists for the index.
const FallbackLabel = "last_command"

// maxLabelLen bounds the label part of a record directory name.
const maxLabelLen = 48

// Label turns command text into a filesystem-safe directory label.
// Bytes outside [A-Za-z0-9._-] become '_', runs of '_' collapse, and the
// result is trimmed to maxLabelLen. An empty result becomes "command", and
// FallbackLabel gets a trailing '_' so a real command never reads as a fallback.
func Label(command string) string {
	var sb strings.Builder
	lastUnderscore := false
	for i := 0; i < len(command); i++ {
		c := command[i]
		ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '.' || c == '-'
		if !ok {
			if lastUnderscore {
				continue
			}
			sb.WriteByte('_')
			lastUnderscore = true
			continue
		}
		sb.WriteByte(c)
		lastUnderscore = false
	}
	label := strings.Trim(sb.String(), "_.")
	if len(label) > maxLabelLen {
		label = strings.TrimRight(label[:maxLabelLen], "_.")
	}
	switch label {
	case "":
		return "command"
	case FallbackLabel:
		return FallbackLabel + "_"
	}
	return label
}
