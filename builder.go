package traitswap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oriumgames/traitswap/store"
)

// Builder configures traitswap before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	store        store.Store
	catalog      []Trait
	rand         Rand
	log          *slog.Logger
	respawnDelay int
	saveTimeout  time.Duration
}

// NewBuilder creates a new traitswap builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Store sets the store assignments are persisted to. Required. The manager
// takes ownership and closes it on Shutdown.
func (b *Builder) Store(s store.Store) *Builder {
	b.store = s
	return b
}

// Catalog restricts the traits handed out to players.
func (b *Builder) Catalog(traits ...Trait) *Builder {
	b.catalog = traits
	return b
}

// Rand sets the randomness source for draws.
func (b *Builder) Rand(r Rand) *Builder {
	b.rand = r
	return b
}

// Logger sets the logger. Defaults to slog.Default().
func (b *Builder) Logger(log *slog.Logger) *Builder {
	b.log = log
	return b
}

// RespawnDelay sets how many ticks after a respawn the trait is reapplied.
func (b *Builder) RespawnDelay(ticks int) *Builder {
	b.respawnDelay = ticks
	return b
}

// SaveTimeout bounds every background save.
func (b *Builder) SaveTimeout(d time.Duration) *Builder {
	b.saveTimeout = d
	return b
}

// Init loads persisted assignments and starts the scheduler and background
// persistence. The returned Manager should be stored and used to create
// sessions; call Shutdown when the server stops.
//
// Usage:
//
//	mngr, err := traitswap.NewBuilder().
//	    Store(yamlstore.New("traits.yml")).
//	    Init(ctx)
//
//	for p := range srv.Accept() {
//	    sess, err := mngr.NewSession(p)
//	    if err != nil {
//	        p.Disconnect("failed to initialize session")
//	        continue
//	    }
//	    p.Handle(traitswap.NewHandler(sess))
//	}
func (b *Builder) Init(ctx context.Context) (*Manager, error) {
	if b.store == nil {
		return nil, errors.New("traitswap: store is required")
	}
	log := b.log
	if log == nil {
		log = slog.Default()
	}

	m := newManager(log)
	m.store = b.store

	coord, err := NewCoordinator(&Config{
		Store:        b.store,
		Scheduler:    m,
		Catalog:      b.catalog,
		Rand:         b.rand,
		Logger:       log,
		RespawnDelay: b.respawnDelay,
		SaveTimeout:  b.saveTimeout,
	})
	if err != nil {
		return nil, err
	}
	m.coord = coord

	if err := coord.Enable(ctx); err != nil {
		return nil, err
	}

	m.scheduler.Start()
	return m, nil
}
