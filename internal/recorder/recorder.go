// Package recorder writes command records from the shell's preexec and
// precmd hooks.
package recorder

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/fakeyudi/labs/internal/session"
)

// Output is what the shell hook captured while a command ran.
type Output struct {
	Stdout     string
	Stderr     string
	Combined   string
	ExitStatus *int // nil when the hook could not observe the status
}

// Recorder writes records into one session. Every failure is logged at warn
// level before being returned; callers running inside a shell hook are
// expected to drop the error so the user's command is unaffected.
type Recorder struct {
	store *session.Store
	log   zerolog.Logger
}

// New returns a Recorder for store.
func New(store *session.Store, log zerolog.Logger) *Recorder {
	return &Recorder{
		store: store,
		log:   log.With().Str("session", store.Root()).Logger(),
	}
}

// Preexec records command as about to run under index. A directory that
// already exists for index is reused and its command.txt overwritten.
func (r *Recorder) Preexec(index int, command string) error {
	dir, err := r.store.Find(index)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrSessionNotFound) {
			return r.fail("preexec", index, err)
		}
		if dir, err = r.store.RecordDir(index, command); err != nil {
			return r.fail("preexec", index, err)
		}
	}
	if err := writeFile(filepath.Join(dir, session.CommandFile), []byte(command), os.O_TRUNC); err != nil {
		return r.fail("preexec", index, err)
	}
	r.log.Debug().Int("index", index).Str("dir", dir).Msg("preexec recorded")
	return nil
}

// Begin allocates the next index in the session and records command under
// it. It is used when the hook does not track indices itself.
func (r *Recorder) Begin(command string) (int, error) {
	index, dir, err := r.store.Allocate(command)
	if err != nil {
		return 0, r.fail("preexec", -1, err)
	}
	if err := writeFile(filepath.Join(dir, session.CommandFile), []byte(command), os.O_TRUNC); err != nil {
		return index, r.fail("preexec", index, err)
	}
	r.log.Debug().Int("index", index).Str("dir", dir).Msg("preexec recorded")
	return index, nil
}

// Precmd appends the captured streams to the record for index and writes its
// exit status. Without a matching preexec directory the output lands in
// `{index}__last_command` so it is never dropped.
func (r *Recorder) Precmd(index int, out Output) error {
	dir, err := r.store.Find(index)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrSessionNotFound) {
			return r.fail("precmd", index, err)
		}
		r.log.Info().Int("index", index).Msg("precmd without preexec; recording as " + session.FallbackLabel)
		if dir, err = r.store.FallbackDir(index); err != nil {
			return r.fail("precmd", index, err)
		}
	}

	streams := []struct {
		name string
		data string
	}{
		{session.StdoutFile, out.Stdout},
		{session.StderrFile, out.Stderr},
		{session.CombinedFile, out.Combined},
	}
	for _, s := range streams {
		if err := writeFile(filepath.Join(dir, s.name), []byte(s.data), os.O_APPEND); err != nil {
			return r.fail("precmd", index, err)
		}
	}

	if out.ExitStatus != nil {
		status := strconv.Itoa(*out.ExitStatus) + "\n"
		if err := writeFile(filepath.Join(dir, session.ExitStatusFile), []byte(status), os.O_TRUNC); err != nil {
			return r.fail("precmd", index, err)
		}
	}
	r.log.Debug().Int("index", index).Str("dir", dir).Msg("precmd recorded")
	return nil
}

func (r *Recorder) fail(hook string, index int, err error) error {
	r.log.Warn().Err(err).Str("hook", hook).Int("index", index).Msg("recording failed")
	return err
}

// writeFile opens path with O_CREATE|O_WRONLY plus mode (O_TRUNC or O_APPEND)
// and writes data.
func writeFile(path string, data []byte, mode int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|mode, 0o644)
	if err != nil {
		return &session.IOError{Op: "open", Path: path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return &session.IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &session.IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}
