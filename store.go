package budget

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is the durable home of the whole ledger document. Save must be
// atomic: a crash mid-write never leaves a truncated document behind.
type Store interface {
	Save(data []byte) error
	// Load returns fs.ErrNotExist when no document has been saved yet.
	Load() ([]byte, error)
}

// FileStore persists the ledger document to a single file under the
// application's private data directory, using write-to-temp-then-rename.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to the given file path.
func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

// Path returns the file path the store writes to.
func (s *FileStore) Path() string { return s.path }

// Save writes the document atomically.
func (s *FileStore) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create data directory %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("could not write temp file %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not close temp file %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not replace %q: %w", s.path, err)
	}
	return nil
}

// Load reads the document, or fs.ErrNotExist if it was never saved.
func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fs.ErrNotExist
		}
		return nil, fmt.Errorf("could not read %q: %w", s.path, err)
	}
	return data, nil
}

// MemoryStore keeps the document in memory. It backs tests and the
// export/import plumbing.
type MemoryStore struct {
	data []byte
	// FailNextSave makes the next Save return an error, to exercise the
	// persistence error path.
	FailNextSave error
}

func (s *MemoryStore) Save(data []byte) error {
	if s.FailNextSave != nil {
		err := s.FailNextSave
		s.FailNextSave = nil
		return err
	}
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Load() ([]byte, error) {
	if s.data == nil {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), s.data...), nil
}
