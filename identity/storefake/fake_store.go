// Package storefake provides an in-memory identity.Store for tests.
package storefake

import (
	"sync"

	"github.com/kienminhkhai84-max/learngate/identity"
)

// FakeStore is an in-memory identity.Store. ReadErr/WriteErr can be set
// to force failures; WriteCount lets tests assert that failed exchanges
// never touched the store.
type FakeStore struct {
	mu         sync.RWMutex
	records    identity.RecordMap
	ReadErr    error
	WriteErr   error
	WriteCount int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{records: identity.RecordMap{}}
}

func (s *FakeStore) Read() (identity.RecordMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	out := make(identity.RecordMap, len(s.records))
	for email, rec := range s.records {
		out[email] = rec
	}
	return out, nil
}

func (s *FakeStore) Write(records identity.RecordMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.WriteErr != nil {
		return s.WriteErr
	}
	out := make(identity.RecordMap, len(records))
	for email, rec := range records {
		out[email] = rec
	}
	s.records = out
	s.WriteCount++
	return nil
}

// Update applies fn to a fresh copy of the records under the write
// lock, mirroring the real store's read-modify-write guarantee.
func (s *FakeStore) Update(fn func(identity.RecordMap) (identity.RecordMap, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ReadErr != nil {
		return s.ReadErr
	}
	if s.WriteErr != nil {
		return s.WriteErr
	}
	current := make(identity.RecordMap, len(s.records))
	for email, rec := range s.records {
		current[email] = rec
	}
	updated, err := fn(current)
	if err != nil {
		return err
	}
	s.records = updated
	s.WriteCount++
	return nil
}

// Seed inserts a record directly, bypassing Write accounting.
func (s *FakeStore) Seed(email string, rec identity.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[email] = rec
}

var _ identity.Store = (*FakeStore)(nil)
