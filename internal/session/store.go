// Package session holds per-session notification acknowledgment state: the
// read and cleared identity sets. Both sets are monotonic unions — an
// identity is never removed once added — so ordering between a derivation
// tick and a user action only needs eventual convergence.
package session

// AckStore is the persistence contract for acknowledgment sets.
type AckStore interface {
	// MarkRead adds ids to the read set. Already-present ids are ignored.
	MarkRead(ids ...string) error
	// Clear adds ids to the cleared set. Cleared notifications disappear
	// from every future derivation until their identity changes.
	Clear(ids ...string) error

	IsRead(id string) (bool, error)
	IsCleared(id string) (bool, error)

	// ReadSet and ClearedSet return snapshots for a derivation tick.
	ReadSet() (map[string]struct{}, error)
	ClearedSet() (map[string]struct{}, error)

	Close() error
}
