package traitswap

import (
	"time"

	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// SessionHandler implements player.Handler for a session and forwards the
// lifecycle events traitswap cares about to the manager's Coordinator.
//
// Concurrency:
// Handlers are executed synchronously by Dragonfly within the player's world
// transaction, so the *player.Player values passed in (and any attacker found
// in a damage source) may be used directly for the duration of the call.
type SessionHandler struct {
	player.NopHandler
	session *Session
}

// NewHandler creates a new player.Handler for the given session.
func NewHandler(s *Session) player.Handler {
	return &SessionHandler{session: s}
}

// Compile-time check that SessionHandler implements player.Handler.
var _ player.Handler = (*SessionHandler)(nil)

// Session returns the session associated with this handler.
func (h *SessionHandler) Session() *Session {
	return h.session
}

func (h *SessionHandler) coordinator() *Coordinator {
	s := h.session
	if s == nil || s.manager == nil || s.closed.Load() {
		return nil
	}
	return s.manager.coord
}

// HandleDeath swaps traits with the player's killer, if there is one.
func (h *SessionHandler) HandleDeath(p *player.Player, src world.DamageSource, keepInv *bool) {
	c := h.coordinator()
	if c == nil {
		return
	}

	d := Death{Victim: NewPlayer(p, h.session)}
	if k := killer(src); k != nil {
		d.Killer = NewPlayer(k, h.session.manager.GetSession(k))
	}
	c.Death(d)
}

// HandleRespawn schedules the player's trait to be reapplied once Dragonfly
// has finished respawning them.
func (h *SessionHandler) HandleRespawn(p *player.Player, pos *mgl64.Vec3, w **world.World) {
	c := h.coordinator()
	if c == nil {
		return
	}
	c.Respawn(NewPlayer(p, h.session))
}

// HandleHurt scales melee damage dealt to the player by the attacker's attack
// damage attribute.
func (h *SessionHandler) HandleHurt(ctx *player.Context, damage *float64, immune bool, attackImmunity *time.Duration, src world.DamageSource) {
	if h.coordinator() == nil {
		return
	}
	*damage = meleeDamage(*damage, src, h.session.manager.GetSession)
}

// meleeDamage scales damage dealt by a player attacker by the attack damage
// attribute of the attacker's session. Other damage is returned unchanged.
func meleeDamage(damage float64, src world.DamageSource, sessionOf func(*player.Player) *Session) float64 {
	s, ok := src.(entity.AttackDamageSource)
	if !ok {
		return damage
	}
	attacker, ok := s.Attacker.(*player.Player)
	if !ok || attacker == nil {
		return damage
	}
	as := sessionOf(attacker)
	if as == nil {
		return damage
	}
	return damage * as.AttackDamage() / BaseAttackDamage
}

// HandleQuit closes the session. The player's trait stays in the registry.
func (h *SessionHandler) HandleQuit(p *player.Player) {
	if h.session != nil {
		h.session.close()
	}
}

// killer returns the player responsible for a death, or nil if the damage
// source has no player behind it.
func killer(src world.DamageSource) *player.Player {
	switch s := src.(type) {
	case entity.AttackDamageSource:
		if p, ok := s.Attacker.(*player.Player); ok && p != nil {
			return p
		}
	case entity.ProjectileDamageSource:
		if p, ok := s.Owner.(*player.Player); ok && p != nil {
			return p
		}
	}
	return nil
}
