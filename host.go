package traitswap

import (
	"github.com/google/uuid"
)

// Attribute identifies one of the modifiable base attributes a trait may change.
type Attribute uint8

const (
	// MovementSpeed is the player's base walking speed.
	MovementSpeed Attribute = iota
	// AttackDamage is the base damage multiplier of the player's melee attacks.
	AttackDamage
	// MaxHealth is the player's maximum health.
	MaxHealth
)

// Baseline values every attribute is reset to before a trait is applied.
const (
	BaseMovementSpeed = 0.1
	BaseAttackDamage  = 1.0
	BaseMaxHealth     = 20.0
)

// String returns the string representation of the attribute.
func (a Attribute) String() string {
	switch a {
	case MovementSpeed:
		return "movement_speed"
	case AttackDamage:
		return "attack_damage"
	case MaxHealth:
		return "max_health"
	default:
		return "unknown"
	}
}

// baseline returns the value the attribute is reset to.
func (a Attribute) baseline() float64 {
	switch a {
	case MovementSpeed:
		return BaseMovementSpeed
	case AttackDamage:
		return BaseAttackDamage
	default:
		return BaseMaxHealth
	}
}

// StatusEffect is a lasting status effect a trait may grant.
type StatusEffect uint8

const (
	Regeneration StatusEffect = iota
	Hunger
	Haste
	MiningFatigue
	JumpBoost
	NightVision
)

// String returns the string representation of the status effect.
func (e StatusEffect) String() string {
	switch e {
	case Regeneration:
		return "regeneration"
	case Hunger:
		return "hunger"
	case Haste:
		return "haste"
	case MiningFatigue:
		return "mining_fatigue"
	case JumpBoost:
		return "jump_boost"
	case NightVision:
		return "night_vision"
	default:
		return "unknown"
	}
}

// AttributeInstance is a handle to a single modifiable attribute of a player.
type AttributeInstance interface {
	BaseValue() float64
	SetBaseValue(v float64)
}

// Player is the capability surface traitswap needs from the host runtime.
// Implementations only need to be valid for the duration of a single event or
// scheduled task.
type Player interface {
	UUID() uuid.UUID
	Name() string

	// Attribute returns the attribute handle, or false if the host does not
	// expose that attribute for this player.
	Attribute(a Attribute) (AttributeInstance, bool)

	// ClearEffects removes every active status effect, including ones not
	// granted by a trait.
	ClearEffects()
	// AddEffect grants an infinite, particle-free status effect.
	AddEffect(e StatusEffect)

	Health() float64
	MaxHealth() float64
	SetHealth(health float64)

	Message(msg string)
}

// TaskScheduler defers work to a later tick of the host.
type TaskScheduler interface {
	// ScheduleTicks runs fn after the given number of ticks if the player with
	// the given id is still online at that point. fn receives a Player valid for
	// the duration of the call.
	ScheduleTicks(id uuid.UUID, ticks int, fn func(p Player))
}
