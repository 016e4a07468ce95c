// Package session reads the client-local credential values. The file lives in
// the user's runtime directory and is expected to disappear with the login
// session; nothing here validates token shape or expiry.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/paperlane/storefront/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	envToken = "STOREFRONT_TOKEN"
	envEmail = "STOREFRONT_EMAIL"
	fileName = "session.yml"
)

// DefaultPath returns $XDG_RUNTIME_DIR/storefront/session.yml, falling back
// to the OS temp dir.
func DefaultPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "storefront", fileName)
}

// Load returns the session at path. A missing or unreadable file yields an
// empty token and the placeholder email. Environment values win over the file.
func Load(path string) model.Session {
	s, _ := ReadFile(path)
	if v := os.Getenv(envToken); v != "" {
		s.Token = v
	}
	if v := os.Getenv(envEmail); v != "" {
		s.Email = v
	}
	s.Token = strings.TrimSpace(s.Token)
	s.Email = strings.TrimSpace(s.Email)
	if s.Email == "" {
		s.Email = model.PlaceholderEmail
	}
	return s
}

// ReadFile returns the session stored at path without environment overrides.
// A missing file is not an error.
func ReadFile(path string) (model.Session, error) {
	var s model.Session
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("session: read: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return model.Session{}, fmt.Errorf("session: decode: %w", err)
	}
	return s, nil
}

// Save writes s to path with user-only permissions.
func Save(path string, s model.Session) error {
	if path == "" {
		return errors.New("session: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("session: mkdir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}
