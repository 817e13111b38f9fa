// Package upload stores user-supplied file attachments on disk.
//
// The allowlist and target directory are explicit configuration handed to the
// store at construction, not process globals. Stored references are opaque
// random names; callers persist the returned reference and serve files back
// through Path.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrExtensionNotAllowed is returned when the file extension is not on the allowlist.
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	// ErrFilenameEmpty is returned when the original filename is empty.
	ErrFilenameEmpty = errors.New("filename cannot be empty")
)

// DefaultAllowedExtensions is the stock attachment allowlist.
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "pdf", "zip"}

// Config holds the upload store settings.
type Config struct {
	// Dir is the directory stored files are written to.
	Dir string `toml:"dir"`
	// AllowedExtensions lists the permitted file extensions, without dots.
	// Empty means DefaultAllowedExtensions.
	AllowedExtensions []string `toml:"allowedExtensions"`
}

// Store saves and serves uploaded attachments.
type Store struct {
	dir     string
	allowed map[string]bool
}

// NewStore creates an upload store and ensures the target directory exists.
func NewStore(cfg Config) (*Store, error) {
	exts := cfg.AllowedExtensions
	if len(exts) == 0 {
		exts = DefaultAllowedExtensions
	}

	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, err
	}

	return &Store{dir: cfg.Dir, allowed: allowed}, nil
}

// Allowed reports whether the filename's extension is on the allowlist.
func (s *Store) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}

	return s.allowed[ext]
}

// Save writes the file under a unique random name and returns the stored
// reference. Files with a disallowed extension are rejected with
// ErrExtensionNotAllowed.
func (s *Store) Save(filename string, data []byte) (string, error) {
	if filename == "" {
		return "", ErrFilenameEmpty
	}

	if !s.Allowed(filename) {
		return "", ErrExtensionNotAllowed
	}

	prefix, err := randomPrefix()
	if err != nil {
		return "", err
	}

	stored := prefix + "_" + sanitize(filepath.Base(filename))

	if err := os.WriteFile(filepath.Join(s.dir, stored), data, 0o640); err != nil {
		return "", err
	}

	return stored, nil
}

// Path resolves a stored reference to its on-disk path. References that try
// to escape the upload directory resolve to nothing.
func (s *Store) Path(stored string) (string, bool) {
	if stored == "" || stored == "." || stored == ".." || stored != filepath.Base(stored) {
		return "", false
	}

	p := filepath.Join(s.dir, stored)
	if info, err := os.Stat(p); err != nil || info.IsDir() {
		return "", false
	}

	return p, true
}

// randomPrefix generates a 128-bit random hex name prefix.
func randomPrefix() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// sanitize strips path separators and other shell-hostile characters from
// the original filename, keeping letters, digits, dot, dash and underscore.
func sanitize(name string) string {
	var b strings.Builder

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return b.String()
}
