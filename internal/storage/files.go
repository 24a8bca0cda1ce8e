// Package storage is the blob-store collaborator: it accepts an uploaded
// byte stream plus a logical folder and returns the stored path. Only
// the path is recorded by the catalog; a failure after the file is
// written but before the database commit leaves an orphaned file, which
// is accepted.
package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploads under a root directory.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

// Save writes the stream into <root>/<folder>/<filename> and returns the
// stored path. The filename is sanitized first.
func (s *LocalStore) Save(r io.Reader, folder, filename string) (string, error) {
	dir := filepath.Join(s.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, SanitizeFilename(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return path, nil
}

// SanitizeFilename strips any path components and replaces characters
// that are unsafe in a stored name.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		out = "file"
	}
	return out
}
