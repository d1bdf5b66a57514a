package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store keeps uploaded submission files on the local filesystem, flat
// under one base directory. Keys are sanitized file names; the JSON
// document holds the returned path and id, so the layout here can stay
// dumb.
type Store struct {
	base string
}

func NewStore(base string) (*Store, error) {
	if base == "" {
		base = "data/files"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &Store{base: base}, nil
}

func (s *Store) Dir() string { return s.base }

// Save writes an upload under a fresh uuid-prefixed name and returns the
// file id, the stored path, and the byte count.
func (s *Store) Save(r io.Reader, ownerName, originalName string) (fileID, path string, size int64, err error) {
	fileID = uuid.NewString()
	name := fmt.Sprintf("%s_%s_%s", fileID, sanitize(ownerName), sanitize(originalName))
	path = filepath.Join(s.base, name)

	f, err := os.Create(path)
	if err != nil {
		return "", "", 0, err
	}
	defer f.Close()
	size, err = io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", "", 0, err
	}
	return fileID, path, size, nil
}

// Open returns the stored file at path, refusing anything outside the
// base directory.
func (s *Store) Open(path string) (io.ReadCloser, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	base, err := filepath.Abs(s.base)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(abs, base+string(filepath.Separator)) {
		return nil, errors.New("path outside file store")
	}
	return os.Open(abs)
}

// sanitize keeps names shell- and path-safe; anything suspicious becomes
// an underscore.
func sanitize(name string) string {
	if name == "" {
		return "file"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
