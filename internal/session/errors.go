package session

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// ErrSessionNotFound is returned by queries when the session root does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoMeta is returned by LoadMeta when the session has no session.json.
var ErrNoMeta = errors.New("no session metadata")

// NotFoundError reports a query against a session with no records, or for an
// index that was never recorded. Index is negative in the first case.
type NotFoundError struct {
	Root  string
	Index int
}

func (e *NotFoundError) Error() string {
	if e.Index < 0 {
		return "no history in session " + e.Root
	}
	return fmt.Sprintf("no record with index %d in session %s", e.Index, e.Root)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func ioErr(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
