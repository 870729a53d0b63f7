// Package session manages the on-disk layout of one shell session: a root
// directory holding one `{index}__{label}` subdirectory per command.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

// MetaFile is the session metadata file inside the session root.
const MetaFile = "session.json"

const lockFile = ".labs.lock"

var recordDirPattern = regexp.MustCompile(`^(\d+)__(.+)$`)

// Store resolves and creates record directories under a session root.
// It performs no I/O until one of its methods is called.
type Store struct {
	root string
}

// NewStore returns a Store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the session root directory.
func (s *Store) Root() string {
	return s.root
}

// DataDir returns the labs-specific XDG data directory.
// Path: $XDG_DATA_HOME/labs or ~/.local/share/labs
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "labs"), nil
}

// DirName returns the directory name for a record.
func DirName(index int, label string) string {
	return strconv.Itoa(index) + "__" + label
}

// ParseDirName splits a record directory name into its index and label.
func ParseDirName(name string) (index int, label string, ok bool) {
	m := recordDirPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return index, m[2], true
}

// RecordDir joins the root, index and sanitized label, creating the directory
// and its parents if absent. An existing directory is not an error.
func (s *Store) RecordDir(index int, label string) (string, error) {
	return s.mkdir(index, Label(label))
}

// FallbackDir is RecordDir for a record whose command was never seen.
func (s *Store) FallbackDir(index int) (string, error) {
	return s.mkdir(index, FallbackLabel)
}

func (s *Store) mkdir(index int, label string) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("invalid record index %d", index)
	}
	dir := filepath.Join(s.root, DirName(index, label))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ioErr("create record directory", dir, err)
	}
	return dir, nil
}

// entry is one parsed record directory.
type entry struct {
	index int
	label string
}

// scan returns every record directory under the root, ordered by index and
// then by label. A missing root yields ErrSessionNotFound.
func (s *Store) scan() ([]entry, error) {
	dirents, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, s.root)
		}
		return nil, ioErr("read session", s.root, err)
	}

	var entries []entry
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		idx, label, ok := ParseDirName(d.Name())
		if !ok {
			continue
		}
		entries = append(entries, entry{index: idx, label: label})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].index != entries[j].index {
			return entries[i].index < entries[j].index
		}
		return entries[i].label < entries[j].label
	})
	return entries, nil
}

// ListRecords returns the recorded indices in ascending numeric order, each
// index once. An empty session yields an empty slice.
func (s *Store) ListRecords() ([]int, error) {
	entries, err := s.scan()
	if err != nil {
		return nil, err
	}
	indices := make([]int, 0, len(entries))
	for _, e := range entries {
		if n := len(indices); n > 0 && indices[n-1] == e.index {
			continue
		}
		indices = append(indices, e.index)
	}
	return indices, nil
}

// Latest returns the highest recorded index. ok is false for an empty session.
func (s *Store) Latest() (index int, ok bool, err error) {
	indices, err := s.ListRecords()
	if err != nil {
		return 0, false, err
	}
	if len(indices) == 0 {
		return 0, false, nil
	}
	return indices[len(indices)-1], true, nil
}

// Find returns the existing directory for index. A directory labelled by its
// command wins over a last_command fallback.
func (s *Store) Find(index int) (string, error) {
	entries, err := s.scan()
	if err != nil {
		return "", err
	}
	var fallback string
	for _, e := range entries {
		if e.index != index {
			continue
		}
		dir := filepath.Join(s.root, DirName(e.index, e.label))
		if e.label != FallbackLabel {
			return dir, nil
		}
		fallback = dir
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", &NotFoundError{Root: s.root, Index: index}
}

// Load reads the record stored for index. Files that were never written read
// as empty; a missing or unparsable exit_status.txt leaves ExitStatus nil.
func (s *Store) Load(index int) (Record, error) {
	dir, err := s.Find(index)
	if err != nil {
		return Record{}, err
	}
	_, label, _ := ParseDirName(filepath.Base(dir))

	rec := Record{Index: index, Label: label, Dir: dir}
	fields := []struct {
		name string
		dst  *string
	}{
		{CommandFile, &rec.Command},
		{StdoutFile, &rec.Stdout},
		{StderrFile, &rec.Stderr},
		{CombinedFile, &rec.Combined},
	}
	for _, f := range fields {
		if *f.dst, err = readOptional(filepath.Join(dir, f.name)); err != nil {
			return Record{}, err
		}
	}

	status, err := readOptional(filepath.Join(dir, ExitStatusFile))
	if err != nil {
		return Record{}, err
	}
	if code, err := strconv.Atoi(strings.TrimSpace(status)); err == nil {
		rec.ExitStatus = &code
	}
	return rec, nil
}

func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", ioErr("read", path, err)
	}
	return string(data), nil
}

// Allocate picks the next free index (0 for an empty session) and creates its
// directory while holding an exclusive lock on the session, so concurrent
// callers never receive the same index.
func (s *Store) Allocate(label string) (int, string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return 0, "", ioErr("create session", s.root, err)
	}

	lockPath := filepath.Join(s.root, lockFile)
	lock := flock.New(lockPath)
	if err := lock.Lock(); err != nil {
		return 0, "", ioErr("lock session", lockPath, err)
	}
	defer lock.Unlock()

	next := 0
	last, ok, err := s.Latest()
	if err != nil {
		return 0, "", err
	}
	if ok {
		next = last + 1
	}
	dir, err := s.RecordDir(next, label)
	if err != nil {
		return 0, "", err
	}
	return next, dir, nil
}

// SaveMeta writes the session metadata atomically via a temp file + os.Rename.
func (s *Store) SaveMeta(meta *Session) (err error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return ioErr("create session", s.root, err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session metadata: %w", err)
	}

	// Temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(s.root, "session-*.json.tmp")
	if err != nil {
		return ioErr("write session metadata", s.root, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return ioErr("write session metadata", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return ioErr("write session metadata", tmpName, err)
	}
	path := filepath.Join(s.root, MetaFile)
	if err = os.Rename(tmpName, path); err != nil {
		return ioErr("write session metadata", path, err)
	}
	return nil
}

// LoadMeta reads session.json. Returns ErrNoMeta if the file does not exist.
func (s *Store) LoadMeta() (*Session, error) {
	path := filepath.Join(s.root, MetaFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoMeta
		}
		return nil, ioErr("read session metadata", path, err)
	}
	var meta Session
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse session metadata: %w", err)
	}
	return &meta, nil
}

// NewRoot returns the root directory for session meta under base. The short ID
// suffix keeps two shells started in the same second apart.
func NewRoot(base string, meta *Session) string {
	name := "session_" + meta.StartTime.Format("20060102T150405")
	if id := strings.ReplaceAll(meta.ID, "-", ""); len(id) >= 8 {
		name += "_" + id[:8]
	}
	return filepath.Join(base, name)
}
