package identity

import "errors"

var (
	// CorruptStoreErr signals that the backing store exists but could
	// not be parsed. It is deliberately distinct from the absent-store
	// case, which Read treats as an empty mapping: callers must never
	// paper a corrupt store over as "no such user".
	CorruptStoreErr = errors.New("token store is corrupt")
)

// Store is the persisted mapping from email to Record.
//
// Write replaces the whole mapping in one shot. Implementations must
// guarantee a concurrent reader only ever sees the old complete content
// or the new complete content.
//
// Update is the read-modify-write path: implementations re-read the
// current mapping and apply fn under the same lock that guards Write,
// so a mutation prepared against a stale snapshot can never erase a
// record committed in the meantime. If fn returns an error nothing is
// written.
type Store interface {
	Read() (RecordMap, error)
	Write(RecordMap) error
	Update(fn func(RecordMap) (RecordMap, error)) error
}
