package traitswap

import (
	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// lastingEffects maps status effects to their Dragonfly types.
var lastingEffects = map[StatusEffect]effect.LastingType{
	Regeneration:  effect.Regeneration,
	Hunger:        effect.Hunger,
	Haste:         effect.Haste,
	MiningFatigue: effect.MiningFatigue,
	JumpBoost:     effect.JumpBoost,
	NightVision:   effect.NightVision,
}

// dfPlayer adapts a *player.Player to the Player interface. It is only valid
// inside the transaction p was obtained from.
type dfPlayer struct {
	p *player.Player
	// s is nil for players without a session (e.g. NPCs), which then lack
	// the attack damage attribute.
	s *Session
}

// NewPlayer wraps p for use with a Coordinator. s may be nil.
func NewPlayer(p *player.Player, s *Session) Player {
	return dfPlayer{p: p, s: s}
}

func (d dfPlayer) UUID() uuid.UUID { return d.p.UUID() }
func (d dfPlayer) Name() string    { return d.p.Name() }

func (d dfPlayer) Attribute(a Attribute) (AttributeInstance, bool) {
	switch a {
	case MovementSpeed:
		return speedAttribute{d.p}, true
	case MaxHealth:
		return maxHealthAttribute{d.p}, true
	case AttackDamage:
		if d.s == nil {
			return nil, false
		}
		return attackDamageAttribute{d.s}, true
	}
	return nil, false
}

func (d dfPlayer) ClearEffects() {
	for _, e := range d.p.Effects() {
		d.p.RemoveEffect(e.Type())
	}
}

func (d dfPlayer) AddEffect(e StatusEffect) {
	t, ok := lastingEffects[e]
	if !ok {
		return
	}
	d.p.AddEffect(effect.NewInfinite(t, 1).WithoutParticles())
}

func (d dfPlayer) Health() float64    { return d.p.Health() }
func (d dfPlayer) MaxHealth() float64 { return d.p.MaxHealth() }

// SetHealth moves the player's health to the target. Dragonfly only exposes
// healing and hurting, so the difference is applied through one of them.
func (d dfPlayer) SetHealth(health float64) {
	cur := d.p.Health()
	switch {
	case health > cur:
		d.p.Heal(health-cur, traitHealingSource{})
	case health < cur:
		d.p.Hurt(cur-health, traitDamageSource{})
	}
}

func (d dfPlayer) Message(msg string) { d.p.Message(msg) }

type speedAttribute struct{ p *player.Player }

func (a speedAttribute) BaseValue() float64     { return a.p.Speed() }
func (a speedAttribute) SetBaseValue(v float64) { a.p.SetSpeed(v) }

type maxHealthAttribute struct{ p *player.Player }

func (a maxHealthAttribute) BaseValue() float64     { return a.p.MaxHealth() }
func (a maxHealthAttribute) SetBaseValue(v float64) { a.p.SetMaxHealth(v) }

type attackDamageAttribute struct{ s *Session }

func (a attackDamageAttribute) BaseValue() float64     { return a.s.AttackDamage() }
func (a attackDamageAttribute) SetBaseValue(v float64) { a.s.setAttackDamage(v) }

// traitHealingSource is the source of health restored when a trait is applied.
type traitHealingSource struct{}

func (traitHealingSource) HealingSource() {}

// traitDamageSource is the source of health removed when a trait lowers the
// player's maximum health below their current health.
type traitDamageSource struct{}

func (traitDamageSource) ReducedByArmour() bool     { return false }
func (traitDamageSource) ReducedByResistance() bool { return false }
func (traitDamageSource) Fire() bool                { return false }
func (traitDamageSource) IgnoreTotem() bool         { return true }

var (
	_ world.HealingSource = traitHealingSource{}
	_ world.DamageSource  = traitDamageSource{}
)
