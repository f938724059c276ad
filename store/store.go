// Package store defines the persistence boundary for trait assignments.
//
// A Snapshot is the persisted form of the registry: the "traits" section of
// the document, keyed by the player's UUID string, valued by a trait
// identifier such as "SPEED_PLUS". Stores do not validate entries; the
// registry drops anything it cannot parse.
package store

import (
	"context"
	"maps"
)

//go:generate mockgen -destination=mocks/store.go -package=storemocks -source=store.go

// Snapshot maps player UUID strings to trait identifiers.
type Snapshot map[string]string

// Clone returns a copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return maps.Clone(s)
}

// Store loads and saves snapshots.
type Store interface {
	// Load returns the persisted snapshot. A store that holds nothing yet
	// returns an empty snapshot and no error.
	Load(ctx context.Context) (Snapshot, error)
	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snap Snapshot) error
	// Close releases resources held by the store.
	Close() error
}
