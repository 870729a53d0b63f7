package recorder

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/labs/internal/session"
)

func newRecorder(t *testing.T) (*Recorder, *session.Store) {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session"))
	return New(store, zerolog.Nop()), store
}

func status(n int) *int { return &n }

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPreexecWritesCommand(t *testing.T) {
	rec, store := newRecorder(t)

	require.NoError(t, rec.Preexec(0, "echo hi"))

	dir := filepath.Join(store.Root(), "0__echo_hi")
	assert.Equal(t, "echo hi", readFile(t, filepath.Join(dir, session.CommandFile)))
}

func TestPreexecTwiceSameIndexIsIdempotent(t *testing.T) {
	rec, store := newRecorder(t)

	require.NoError(t, rec.Preexec(1, "ls"))
	require.NoError(t, rec.Preexec(1, "ls -la"))

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1, "second preexec must reuse the index directory")

	got, err := store.Load(1)
	require.NoError(t, err)
	assert.Equal(t, "ls -la", got.Command)
}

func TestPrecmdCompletesRecord(t *testing.T) {
	rec, store := newRecorder(t)

	require.NoError(t, rec.Preexec(2, "make"))
	require.NoError(t, rec.Precmd(2, Output{
		Stdout:     "built\n",
		Stderr:     "warning\n",
		Combined:   "built\nwarning\n",
		ExitStatus: status(0),
	}))

	got, err := store.Load(2)
	require.NoError(t, err)
	assert.Equal(t, "make", got.Command)
	assert.Equal(t, "built\n", got.Stdout)
	assert.Equal(t, "warning\n", got.Stderr)
	assert.Equal(t, "built\nwarning\n", got.Combined)
	require.NotNil(t, got.ExitStatus)
	assert.Equal(t, 0, *got.ExitStatus)
	assert.Equal(t, "0\n", readFile(t, filepath.Join(got.Dir, session.ExitStatusFile)))
}

func TestPrecmdAppendsStreams(t *testing.T) {
	rec, store := newRecorder(t)

	require.NoError(t, rec.Preexec(0, "tail -f log"))
	require.NoError(t, rec.Precmd(0, Output{Stdout: "one\n", Combined: "one\n"}))
	require.NoError(t, rec.Precmd(0, Output{Stdout: "two\n", Combined: "two\n", ExitStatus: status(130)}))

	got, err := store.Load(0)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", got.Stdout)
	assert.Equal(t, "one\ntwo\n", got.Combined)
	require.NotNil(t, got.ExitStatus)
	assert.Equal(t, 130, *got.ExitStatus)
}

func TestPrecmdWithoutStatusLeavesItUnknown(t *testing.T) {
	rec, store := newRecorder(t)

	require.NoError(t, rec.Preexec(0, "true"))
	require.NoError(t, rec.Precmd(0, Output{}))

	got, err := store.Load(0)
	require.NoError(t, err)
	assert.Nil(t, got.ExitStatus)
	_, err = os.Stat(filepath.Join(got.Dir, session.StdoutFile))
	assert.NoError(t, err, "empty streams still produce files")
}

func TestPrecmdWithoutPreexecFallsBack(t *testing.T) {
	rec, store := newRecorder(t)

	require.NoError(t, rec.Precmd(5, Output{Stdout: "orphan\n", Combined: "orphan\n", ExitStatus: status(1)}))

	dir := filepath.Join(store.Root(), "5__"+session.FallbackLabel)
	assert.DirExists(t, dir)

	got, err := store.Load(5)
	require.NoError(t, err)
	assert.True(t, got.IsFallback())
	assert.Equal(t, "orphan\n", got.Stdout)
	require.NotNil(t, got.ExitStatus)
	assert.Equal(t, 1, *got.ExitStatus)

	indices, err := store.ListRecords()
	require.NoError(t, err)
	assert.Equal(t, []int{5}, indices)
}

func TestCommandNamedLikeFallbackIsNotFallback(t *testing.T) {
	rec, store := newRecorder(t)

	require.NoError(t, rec.Preexec(0, session.FallbackLabel))
	require.NoError(t, rec.Precmd(0, Output{Stdout: "x\n", ExitStatus: status(0)}))

	assert.NoDirExists(t, filepath.Join(store.Root(), "0__"+session.FallbackLabel))
	got, err := store.Load(0)
	require.NoError(t, err)
	assert.False(t, got.IsFallback())
	assert.Equal(t, session.FallbackLabel, got.Command)
	assert.Equal(t, "x\n", got.Stdout)
}

func TestBeginAllocatesSequentialIndices(t *testing.T) {
	rec, store := newRecorder(t)

	for want, cmd := range []string{"ls", "pwd", "echo hi"} {
		got, err := rec.Begin(cmd)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	r, err := store.Load(2)
	require.NoError(t, err)
	assert.Equal(t, "echo hi", r.Command)
}

func TestFailuresAreLoggedAndReturned(t *testing.T) {
	root := t.TempDir()
	store := session.NewStore(root)
	// A regular file where the record directory should go.
	require.NoError(t, os.WriteFile(filepath.Join(root, "0__ls"), nil, 0o644))

	var buf bytes.Buffer
	rec := New(store, zerolog.New(&buf))

	err := rec.Preexec(0, "ls")
	require.Error(t, err)
	var ioErr *session.IOError
	assert.True(t, errors.As(err, &ioErr), "expected *IOError, got %T", err)
	assert.Contains(t, buf.String(), "recording failed")
	assert.Contains(t, buf.String(), `"hook":"preexec"`)
}
