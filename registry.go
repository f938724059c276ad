package traitswap

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/oriumgames/traitswap/store"
)

// ErrUnassigned is returned by Registry.Swap when a player has no trait.
var ErrUnassigned = errors.New("traitswap: player has no assigned trait")

// Registry is the source of truth for which player holds which trait.
//
// Concurrency:
// Dragonfly runs every world on its own goroutine, so joins and deaths in
// different worlds may reach the registry at the same time. All reads and
// writes of the assignments and of the pool are serialized by mu, which makes
// Swap atomic with respect to concurrent EnsureAssigned calls on either player.
type Registry struct {
	mu     sync.Mutex
	traits map[uuid.UUID]Trait
	// unparsed holds persisted entries Load could not understand. They are
	// written back by Snapshot so a newer build can still read them.
	unparsed store.Snapshot
	pool     *Pool
	onChange func()
	log      *slog.Logger
}

// NewRegistry creates an empty registry that fills gaps from pool. onChange is
// called, outside the lock, after every mutation.
func NewRegistry(pool *Pool, onChange func(), log *slog.Logger) *Registry {
	if onChange == nil {
		onChange = func() {}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		traits:   make(map[uuid.UUID]Trait),
		unparsed: make(store.Snapshot),
		pool:     pool,
		onChange: onChange,
		log:      log,
	}
}

// Get returns the trait assigned to id.
func (r *Registry) Get(id uuid.UUID) (Trait, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.traits[id]
	return t, ok
}

// EnsureAssigned returns the trait assigned to id, drawing and storing a new
// one if there is none. drawn reports whether a new trait was drawn.
func (r *Registry) EnsureAssigned(id uuid.UUID) (t Trait, drawn bool) {
	r.mu.Lock()
	if t, ok := r.traits[id]; ok {
		r.mu.Unlock()
		return t, false
	}
	t = r.pool.Draw()
	r.traits[id] = t
	r.mu.Unlock()

	r.onChange()
	return t, true
}

// Swap exchanges the traits of a and b. Both must already be assigned.
func (r *Registry) Swap(a, b uuid.UUID) error {
	r.mu.Lock()
	ta, okA := r.traits[a]
	tb, okB := r.traits[b]
	switch {
	case !okA:
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnassigned, a)
	case !okB:
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnassigned, b)
	}
	r.traits[a], r.traits[b] = tb, ta
	r.mu.Unlock()

	r.onChange()
	return nil
}

// Len returns the number of assigned players.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.traits)
}

// Clear removes every assignment, unparsed entries included, and starts a new
// draw cycle.
func (r *Registry) Clear() {
	r.mu.Lock()
	clear(r.traits)
	clear(r.unparsed)
	r.pool.Reset()
	r.mu.Unlock()

	r.onChange()
}

// Load merges a persisted snapshot into the registry. Entries with an
// unparseable player id or an unknown trait are skipped, but kept verbatim for
// Snapshot. Every loaded trait is marked used in the pool. Load returns the
// number of skipped entries and does not notify onChange.
func (r *Registry) Load(snap store.Snapshot) (skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, name := range snap {
		id, err := uuid.Parse(key)
		if err != nil {
			r.log.Debug("traitswap: skipping persisted entry", "key", key, "error", err)
			r.unparsed[key] = name
			skipped++
			continue
		}
		t, err := ParseTrait(name)
		if err != nil {
			r.log.Debug("traitswap: skipping persisted entry", "key", key, "error", err)
			r.unparsed[key] = name
			skipped++
			continue
		}
		delete(r.unparsed, key)
		r.traits[id] = t
		r.pool.MarkUsed(t)
	}
	return skipped
}

// Snapshot returns the persisted form of the registry. Entries Load skipped
// are included unchanged unless the player has been assigned a trait since.
func (r *Registry) Snapshot() store.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := make(store.Snapshot, len(r.traits)+len(r.unparsed))
	for key, name := range r.unparsed {
		if id, err := uuid.Parse(key); err == nil {
			if _, ok := r.traits[id]; ok {
				continue
			}
		}
		snap[key] = name
	}
	for id, t := range r.traits {
		snap[id.String()] = t.String()
	}
	return snap
}

// UsedTraits returns the traits drawn in the current cycle.
func (r *Registry) UsedTraits() []Trait {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pool.Used()
}
