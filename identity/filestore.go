package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileStore persists the record mapping as a single JSON document.
// It is the one owner of its file: all writes go through the mutex and
// land via write-to-temp-then-rename, so readers never observe a
// partially written mapping.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the file at path. The file is
// created lazily on first Write, not here.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read loads the full mapping. A missing file is first-use bootstrap
// and yields an empty mapping; a file that exists but fails to parse
// yields CorruptStoreErr.
func (s *FileStore) Read() (RecordMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *FileStore) readLocked() (RecordMap, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return RecordMap{}, nil
		}
		return nil, errors.Wrap(err, "[FileStore.Read] read token file")
	}

	records := RecordMap{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(CorruptStoreErr, "[FileStore.Read] decode %s: %v", s.path, err)
	}
	return records, nil
}

// Write atomically replaces the persisted mapping with records.
func (s *FileStore) Write(records RecordMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(records)
}

// Update re-reads the mapping and applies fn to the fresh copy, all
// under the write lock. Mutations prepared while another writer was in
// flight therefore land on top of that writer's result instead of a
// stale snapshot.
func (s *FileStore) Update(fn func(RecordMap) (RecordMap, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readLocked()
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return s.writeLocked(updated)
}

func (s *FileStore) writeLocked(records RecordMap) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return errors.Wrap(err, "[FileStore.Write] create data folder")
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStore.Write] encode records")
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.Write] write temp file")
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "[FileStore.Write] rename temp file")
	}
	return nil
}

var _ Store = (*FileStore)(nil)
