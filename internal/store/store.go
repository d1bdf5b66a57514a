package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/classpad/classpad/internal/model"
)

// Store persists the whole application state as a single JSON document.
// Mutate serializes every write process-wide behind one mutex and
// replaces the file atomically (temp file, fsync, rename), so the on-disk
// document is always either the pre-mutation or the fully written
// post-mutation state. Read is an unlocked snapshot load: it may race
// with a concurrent Mutate and return either the prior or the new
// document, never a torn one.
type Store struct {
	mu   sync.Mutex
	path string
}

// New opens (or creates) the document at path. The default-shaped empty
// document is written on first access so later reads always find a
// well-formed file.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(model.NewDocument(time.Now())); err != nil {
			return nil, fmt.Errorf("initialize document: %w", err)
		}
		log.Info().Str("path", path).Msg("Created empty data document")
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the live document file.
func (s *Store) Path() string { return s.path }

// Read loads the current document without taking the mutation lock.
func (s *Store) Read() (*model.Document, error) {
	return s.load()
}

// Mutate runs fn with exclusive access to the whole document. If fn
// returns an error nothing is written and the document on disk is
// exactly as it was. On success meta.last_updated is stamped and the
// file is atomically replaced before the lock is released.
func (s *Store) Mutate(fn func(d *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	doc.Meta.LastUpdated = model.FormatTime(time.Now())
	return s.write(doc)
}

func (s *Store) load() (*model.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewDocument(time.Now()), nil
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.EnsureMaps()
	return &doc, nil
}

func (s *Store) write(doc *model.Document) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "data_*.json")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encode document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
