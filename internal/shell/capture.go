package shell

import (
	"errors"
	"os"
	"path/filepath"
)

// CaptureDirName is the directory under the session root where the hook
// scripts tee a running command's output.
const CaptureDirName = ".capture"

// Capture file names written by the hook scripts.
const (
	CaptureStdout   = "stdout"
	CaptureStderr   = "stderr"
	CaptureCombined = "full"
)

// Capture is the content of a capture directory.
type Capture struct {
	Stdout   string
	Stderr   string
	Combined string
}

// CaptureDir returns the capture directory for a session root.
func CaptureDir(root string) string {
	return filepath.Join(root, CaptureDirName)
}

// ReadCapture reads the capture files in dir. Missing files read as empty;
// a missing directory is not an error.
func ReadCapture(dir string) (Capture, error) {
	var c Capture
	fields := []struct {
		name string
		dst  *string
	}{
		{CaptureStdout, &c.Stdout},
		{CaptureStderr, &c.Stderr},
		{CaptureCombined, &c.Combined},
	}
	for _, f := range fields {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Capture{}, err
		}
		*f.dst = string(data)
	}
	return c, nil
}

// ResetCapture empties the capture files so the next command starts clean.
func ResetCapture(dir string) error {
	for _, name := range []string{CaptureStdout, CaptureStderr, CaptureCombined} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return err
		}
	}
	return nil
}
