package traitswap

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Session represents a connected player.
// It wraps the player's EntityHandle (which is persistent across transactions)
// and holds the per-connection state Dragonfly has no place for.
//
// Sessions are created when players join and closed when they quit. The
// player's trait outlives the session; it is kept by the Registry.
type Session struct {
	// handle is the persistent entity handle for the player
	handle *world.EntityHandle

	// uuid and name are cached for lookups outside a transaction
	uuid uuid.UUID
	name string

	// attackDamage holds the float64 bits of the player's attack damage
	// attribute. Dragonfly has no such attribute, so melee damage dealt by
	// the player is scaled by it in SessionHandler.HandleHurt.
	attackDamage atomic.Uint64

	manager *Manager

	closed atomic.Bool

	// pendingTasks are cancelled when the session closes
	pendingTasks []*TaskHandle
	taskMu       sync.Mutex
}

func newSession(p *player.Player, m *Manager) *Session {
	s := &Session{
		handle:  p.H(),
		uuid:    p.UUID(),
		name:    p.Name(),
		manager: m,
	}
	s.attackDamage.Store(math.Float64bits(BaseAttackDamage))
	return s
}

// UUID returns the player's UUID.
func (s *Session) UUID() uuid.UUID {
	return s.uuid
}

// Name returns the player's name.
func (s *Session) Name() string {
	return s.name
}

// Manager returns the manager that owns this session.
func (s *Session) Manager() *Manager {
	return s.manager
}

// Closed returns true if the session has been closed.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// AttackDamage returns the player's attack damage attribute.
func (s *Session) AttackDamage() float64 {
	return math.Float64frombits(s.attackDamage.Load())
}

func (s *Session) setAttackDamage(v float64) {
	s.attackDamage.Store(math.Float64bits(v))
}

// Exec runs fn within the player's world transaction.
// Returns false if the player is offline or the session is closed.
func (s *Session) Exec(fn func(tx *world.Tx, p *player.Player)) bool {
	if s.closed.Load() {
		return false
	}
	return s.handle.ExecWorld(func(tx *world.Tx, e world.Entity) {
		p, ok := e.(*player.Player)
		if !ok {
			return
		}
		fn(tx, p)
	})
}

// String returns a string representation of the session for debugging.
func (s *Session) String() string {
	return "Session{Name: " + s.name + ", UUID: " + s.uuid.String() + "}"
}

func (s *Session) addTask(h *TaskHandle) {
	s.taskMu.Lock()
	s.pendingTasks = append(s.pendingTasks, h)
	s.taskMu.Unlock()
}

func (s *Session) removeTask(h *TaskHandle) {
	s.taskMu.Lock()
	for i, t := range s.pendingTasks {
		if t == h {
			s.pendingTasks = append(s.pendingTasks[:i], s.pendingTasks[i+1:]...)
			break
		}
	}
	s.taskMu.Unlock()
}

// close cancels pending tasks and unregisters the session.
// This is called automatically when the player disconnects.
func (s *Session) close() {
	if s.closed.Swap(true) {
		return
	}

	s.taskMu.Lock()
	tasks := s.pendingTasks
	s.pendingTasks = nil
	s.taskMu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}

	if s.manager != nil {
		s.manager.removeSession(s)
	}
}
