package traitswap

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/oriumgames/traitswap/store"
)

// fakeAttribute is an in-memory AttributeInstance.
type fakeAttribute struct {
	value float64
}

func (a *fakeAttribute) BaseValue() float64     { return a.value }
func (a *fakeAttribute) SetBaseValue(v float64) { a.value = v }

// fakePlayer records every mutation made through the Player interface.
type fakePlayer struct {
	id         uuid.UUID
	name       string
	attributes map[Attribute]*fakeAttribute
	effects    map[StatusEffect]struct{}
	// foreign counts effects not granted by traits, such as poison.
	foreign  int
	health   float64
	messages []string
}

func newFakePlayer(name string) *fakePlayer {
	return &fakePlayer{
		id:   uuid.New(),
		name: name,
		attributes: map[Attribute]*fakeAttribute{
			MovementSpeed: {value: BaseMovementSpeed},
			AttackDamage:  {value: BaseAttackDamage},
			MaxHealth:     {value: BaseMaxHealth},
		},
		effects: make(map[StatusEffect]struct{}),
		health:  BaseMaxHealth,
	}
}

func (p *fakePlayer) UUID() uuid.UUID { return p.id }
func (p *fakePlayer) Name() string    { return p.name }

func (p *fakePlayer) Attribute(a Attribute) (AttributeInstance, bool) {
	inst, ok := p.attributes[a]
	if !ok {
		return nil, false
	}
	return inst, true
}

func (p *fakePlayer) ClearEffects() {
	clear(p.effects)
	p.foreign = 0
}

func (p *fakePlayer) AddEffect(e StatusEffect) { p.effects[e] = struct{}{} }

func (p *fakePlayer) Health() float64 { return p.health }

func (p *fakePlayer) MaxHealth() float64 {
	if inst, ok := p.attributes[MaxHealth]; ok {
		return inst.value
	}
	return BaseMaxHealth
}

func (p *fakePlayer) SetHealth(h float64) { p.health = h }

func (p *fakePlayer) Message(msg string) { p.messages = append(p.messages, msg) }

func (p *fakePlayer) attr(a Attribute) float64 {
	return p.attributes[a].value
}

func (p *fakePlayer) hasEffect(e StatusEffect) bool {
	_, ok := p.effects[e]
	return ok
}

// deferredTask is a task captured by fakeScheduler.
type deferredTask struct {
	id    uuid.UUID
	ticks int
	fn    func(Player)
}

// fakeScheduler captures scheduled tasks so tests can run them explicitly.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []deferredTask
}

func (s *fakeScheduler) ScheduleTicks(id uuid.UUID, ticks int, fn func(Player)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, deferredTask{id: id, ticks: ticks, fn: fn})
}

// runAll runs every captured task, resolving players through online. Tasks
// for players missing from online are dropped, like a host would for players
// that left.
func (s *fakeScheduler) runAll(online ...*fakePlayer) {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	for _, task := range tasks {
		for _, p := range online {
			if p.id == task.id {
				task.fn(p)
			}
		}
	}
}

// memStore is an in-memory store.Store.
type memStore struct {
	mu      sync.Mutex
	snap    store.Snapshot
	saves   int
	saveErr error
	loadErr error
}

func (s *memStore) Load(ctx context.Context) (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.snap.Clone(), nil
}

func (s *memStore) Save(ctx context.Context, snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snap = snap.Clone()
	return nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) snapshot() store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// seqRand returns a fixed sequence of indices, clamped to n.
type seqRand struct {
	seq []int
	i   int
}

func (r *seqRand) IntN(n int) int {
	if len(r.seq) == 0 {
		return 0
	}
	v := r.seq[r.i%len(r.seq)]
	r.i++
	if v >= n {
		return n - 1
	}
	return v
}
