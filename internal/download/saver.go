// Package download persists downloaded payloads to the user's filesystem.
//
// A payload is first written to a generated temporary file next to the
// destination and then renamed onto the fixed file name. The temporary file
// is always removed, so a failed save never leaves a partial file behind.
package download

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paperlane/storefront/internal/model"
)

var (
	ErrEmptyPayload = errors.New("download: empty payload")
	ErrNotWorkbook  = errors.New("download: payload is not a spreadsheet")
)

// xlsx files are zip containers.
var zipMagic = []byte("PK\x03\x04")

// Saver writes payloads into Dir.
type Saver struct {
	Dir string
}

// NewSaver returns a Saver for dir, defaulting to ~/Downloads and then the
// working directory.
func NewSaver(dir string) *Saver {
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, "Downloads")
		} else {
			dir = "."
		}
	}
	return &Saver{Dir: dir}
}

// SaveTemplate stores an agency template under model.TemplateFileName.
func (s *Saver) SaveTemplate(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", ErrEmptyPayload
	}
	if !bytes.HasPrefix(payload, zipMagic) {
		return "", ErrNotWorkbook
	}
	return s.Save(model.TemplateFileName, payload)
}

// Save writes payload to Dir/name and returns the final path.
func (s *Saver) Save(name string, payload []byte) (path string, err error) {
	if len(payload) == 0 {
		return "", ErrEmptyPayload
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("download: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+name+".*.part")
	if err != nil {
		return "", fmt.Errorf("download: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// The temp reference is released whether or not the rename happened.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return "", fmt.Errorf("download: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("download: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("download: close: %w", err)
	}

	path = filepath.Join(s.Dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("download: rename: %w", err)
	}
	return path, nil
}
