package traitswap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"

	"github.com/oriumgames/traitswap/store"
)

// Manager binds a Coordinator to a Dragonfly server.
// It tracks sessions of connected players and runs the tick scheduler the
// coordinator defers respawn handling to.
type Manager struct {
	coord     *Coordinator
	scheduler *Scheduler
	store     store.Store
	log       *slog.Logger

	// sessions holds all active sessions
	sessions   map[*world.EntityHandle]*Session
	sessionsMu sync.RWMutex

	// sessionsByUUID provides UUID-based session lookup
	sessionsByUUID   map[uuid.UUID]*Session
	sessionsByUUIDMu sync.RWMutex

	closeOnce sync.Once
}

// Compile-time check that Manager can defer coordinator work.
var _ TaskScheduler = (*Manager)(nil)

func newManager(log *slog.Logger) *Manager {
	return &Manager{
		scheduler:      newScheduler(TickRate, log),
		log:            log,
		sessions:       make(map[*world.EntityHandle]*Session),
		sessionsByUUID: make(map[uuid.UUID]*Session),
	}
}

// Coordinator returns the coordinator driven by this manager.
func (m *Manager) Coordinator() *Coordinator {
	return m.coord
}

// NewSession creates a session for a player that just joined, assigns them a
// trait if needed and applies it with a full heal. It must be called from
// within the player's transaction, as in the srv.Accept() loop.
func (m *Manager) NewSession(p *player.Player) (*Session, error) {
	s, err := m.addPlayer(p)
	if err != nil {
		return nil, err
	}
	m.coord.Join(NewPlayer(p, s))
	return s, nil
}

func (m *Manager) addPlayer(p *player.Player) (*Session, error) {
	if p == nil {
		return nil, errors.New("traitswap: nil player")
	}
	if existing := m.GetSession(p); existing != nil {
		return nil, fmt.Errorf("traitswap: player %s already has a session", p.Name())
	}
	s := newSession(p, m)
	m.addSession(s)
	return s, nil
}

// addSession registers a session with the manager.
func (m *Manager) addSession(s *Session) {
	m.sessionsMu.Lock()
	m.sessions[s.handle] = s
	m.sessionsMu.Unlock()

	m.sessionsByUUIDMu.Lock()
	m.sessionsByUUID[s.uuid] = s
	m.sessionsByUUIDMu.Unlock()
}

// removeSession unregisters a session from the manager.
func (m *Manager) removeSession(s *Session) {
	m.sessionsMu.Lock()
	delete(m.sessions, s.handle)
	m.sessionsMu.Unlock()

	m.sessionsByUUIDMu.Lock()
	if m.sessionsByUUID[s.uuid] == s {
		delete(m.sessionsByUUID, s.uuid)
	}
	m.sessionsByUUIDMu.Unlock()
}

// GetSession retrieves the session for a player.
func (m *Manager) GetSession(p *player.Player) *Session {
	return m.GetSessionByHandle(p.H())
}

// GetSessionByHandle retrieves a session by entity handle.
func (m *Manager) GetSessionByHandle(h *world.EntityHandle) *Session {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()
	return m.sessions[h]
}

// GetSessionByUUID retrieves a session by UUID.
func (m *Manager) GetSessionByUUID(id uuid.UUID) *Session {
	m.sessionsByUUIDMu.RLock()
	defer m.sessionsByUUIDMu.RUnlock()
	return m.sessionsByUUID[id]
}

// AllSessions returns a slice of all active sessions.
func (m *Manager) AllSessions() []*Session {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if !s.closed.Load() {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// SessionCount returns the number of active sessions.
func (m *Manager) SessionCount() int {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()
	return len(m.sessions)
}

// ScheduleTicks runs fn inside the player's world transaction after the given
// number of ticks. Nothing happens if the player has no session, or quits
// before the task is due.
func (m *Manager) ScheduleTicks(id uuid.UUID, ticks int, fn func(p Player)) {
	s := m.GetSessionByUUID(id)
	if s == nil || s.closed.Load() {
		return
	}

	h := m.scheduler.prepare(m.scheduler.ticks(ticks))
	h.task.run = func() {
		s.removeTask(h)
		s.Exec(func(tx *world.Tx, p *player.Player) {
			fn(NewPlayer(p, s))
		})
	}
	s.addTask(h)
	m.scheduler.enqueue(h)
}

// Shutdown stops the scheduler, closes all sessions, flushes the registry and
// closes the store.
func (m *Manager) Shutdown(ctx context.Context) error {
	var err error
	m.closeOnce.Do(func() {
		m.scheduler.Stop()

		m.sessionsMu.RLock()
		sessions := make([]*Session, 0, len(m.sessions))
		for _, s := range m.sessions {
			sessions = append(sessions, s)
		}
		m.sessionsMu.RUnlock()

		for _, s := range sessions {
			s.close()
		}

		err = errors.Join(m.coord.Disable(ctx), m.store.Close())
	})
	return err
}
