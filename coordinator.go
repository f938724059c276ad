package traitswap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft/text"

	"github.com/oriumgames/traitswap/store"
)

// DefaultRespawnDelay is the number of ticks respawn reapplication waits for,
// so that it runs after the host has finished resetting the player.
const DefaultRespawnDelay = 1

// Config holds the dependencies of a Coordinator.
type Config struct {
	// Store persists assignments. Required.
	Store store.Store
	// Scheduler defers respawn reapplication. Required.
	Scheduler TaskScheduler
	// Catalog restricts the traits handed out. Defaults to Catalog().
	Catalog []Trait
	// Rand drives draws. Defaults to the global math/rand/v2 source.
	Rand Rand
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// RespawnDelay in ticks. Defaults to DefaultRespawnDelay.
	RespawnDelay int
	// SaveTimeout bounds every background save. Defaults to 5 seconds.
	SaveTimeout time.Duration
}

// Validate ensures all required dependencies are provided.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("traitswap: config is required")
	}
	if c.Store == nil {
		return errors.New("traitswap: store is required")
	}
	if c.Scheduler == nil {
		return errors.New("traitswap: scheduler is required")
	}
	for _, t := range c.Catalog {
		if !t.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownTrait, t)
		}
	}
	if c.RespawnDelay < 0 {
		return errors.New("traitswap: respawn delay must not be negative")
	}
	return nil
}

// Death describes a player death event.
type Death struct {
	Victim Player
	// Killer is nil when the victim was not killed by another player.
	Killer Player
	// SuppressBroadcast silences the host's default death message. Optional.
	SuppressBroadcast func()
}

// Coordinator reacts to player lifecycle events. It owns the registry, the
// pool and the persister; one Coordinator exists per running server.
type Coordinator struct {
	registry     *Registry
	applier      *Applier
	persister    *persister
	scheduler    TaskScheduler
	store        store.Store
	respawnDelay int
	log          *slog.Logger
}

// NewCoordinator creates a Coordinator. Enable must be called before events
// are handled.
func NewCoordinator(cfg *Config) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	cat := cfg.Catalog
	if len(cat) == 0 {
		cat = Catalog()
	}
	delay := cfg.RespawnDelay
	if delay == 0 {
		delay = DefaultRespawnDelay
	}

	c := &Coordinator{
		applier:      NewApplier(log),
		scheduler:    cfg.Scheduler,
		store:        cfg.Store,
		respawnDelay: delay,
		log:          log,
	}
	c.registry = NewRegistry(NewPool(cat, cfg.Rand), c.notify, log)
	c.persister = newPersister(cfg.Store, c.registry.Snapshot, cfg.SaveTimeout, log)
	return c, nil
}

func (c *Coordinator) notify() {
	c.persister.Notify()
}

// Registry returns the registry owned by the coordinator.
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Enable loads persisted assignments, starts background persistence and
// reconciles the players that are already online.
func (c *Coordinator) Enable(ctx context.Context, online ...Player) error {
	snap, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load traits: %w", err)
	}
	skipped := c.registry.Load(snap)
	c.log.Info("traitswap: loaded traits",
		"players", c.registry.Len(),
		"skipped", skipped)

	c.persister.Start()

	for _, p := range online {
		c.Reconcile(p)
	}
	return nil
}

// Disable flushes the registry one last time. The store is not closed.
func (c *Coordinator) Disable(ctx context.Context) error {
	if err := c.persister.Close(ctx); err != nil {
		return fmt.Errorf("flush traits: %w", err)
	}
	c.log.Info("traitswap: traits saved", "players", c.registry.Len())
	return nil
}

// Join assigns a trait to p if needed and applies it with a full heal.
func (c *Coordinator) Join(p Player) {
	if p == nil {
		return
	}
	t, drawn := c.registry.EnsureAssigned(p.UUID())
	c.applier.Apply(p, t, true)
	if drawn {
		c.announceAssigned(p, t)
	}
}

// Reconcile handles a player that was already online when the coordinator
// was enabled: a missing trait is assigned with a full heal, an existing one
// is reapplied without healing.
func (c *Coordinator) Reconcile(p Player) {
	if p == nil {
		return
	}
	if t, ok := c.registry.Get(p.UUID()); ok {
		c.applier.Apply(p, t, false)
		return
	}
	c.Join(p)
}

// Respawn reapplies the player's trait a few ticks after the host's own
// respawn handling, without healing.
func (c *Coordinator) Respawn(p Player) {
	if p == nil {
		return
	}
	id := p.UUID()
	c.scheduler.ScheduleTicks(id, c.respawnDelay, func(p Player) {
		c.reapply(id, p)
	})
}

func (c *Coordinator) reapply(id uuid.UUID, p Player) {
	if p == nil {
		return
	}
	t, ok := c.registry.Get(id)
	if !ok {
		return
	}
	c.applier.Apply(p, t, false)
}

// Death swaps the traits of the victim and the killer. Deaths without a
// player killer leave every assignment untouched.
func (c *Coordinator) Death(d Death) {
	if d.SuppressBroadcast != nil {
		d.SuppressBroadcast()
	}
	if d.Victim == nil || d.Killer == nil {
		return
	}
	victimID, killerID := d.Victim.UUID(), d.Killer.UUID()
	if victimID == killerID {
		return
	}

	// Either player may have been online since before the registry knew them.
	if t, drawn := c.registry.EnsureAssigned(victimID); drawn {
		c.announceAssigned(d.Victim, t)
	}
	if t, drawn := c.registry.EnsureAssigned(killerID); drawn {
		c.announceAssigned(d.Killer, t)
	}
	if err := c.registry.Swap(victimID, killerID); err != nil {
		c.log.Warn("traitswap: swap failed",
			"victim", d.Victim.Name(),
			"killer", d.Killer.Name(),
			"error", err)
		return
	}

	victimTrait, _ := c.registry.Get(victimID)
	killerTrait, _ := c.registry.Get(killerID)
	c.applier.Apply(d.Victim, victimTrait, false)
	c.applier.Apply(d.Killer, killerTrait, false)

	c.log.Debug("traitswap: traits swapped",
		"victim", d.Victim.Name(),
		"victim_trait", victimTrait,
		"killer", d.Killer.Name(),
		"killer_trait", killerTrait)

	d.Victim.Message(swapMessage(d.Killer.Name()))
	d.Killer.Message(swapMessage(d.Victim.Name()))
}

// Describe returns the /trait reply for the player with the given id.
func (c *Coordinator) Describe(id uuid.UUID) string {
	t, ok := c.registry.Get(id)
	if !ok {
		return text.Colourf("<red>You do not currently have a trait.</red>")
	}
	return text.Colourf("<green>Your current trait: </green><aqua>%s</aqua>", t.DisplayName())
}

func (c *Coordinator) announceAssigned(p Player, t Trait) {
	p.Message(text.Colourf("<green>You've been assigned trait: </green><aqua>%s</aqua>", t.DisplayName()))
}

func swapMessage(other string) string {
	return text.Colourf("<grey>You swapped traits with </grey><red>%s</red><grey>!</grey>", other)
}
