package traitswap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTrait is returned when a trait identifier is not part of the catalog.
var ErrUnknownTrait = errors.New("traitswap: unknown trait")

// Trait is one variant of the fixed trait catalog.
type Trait uint8

const (
	SpeedPlus Trait = iota
	SpeedMinus
	DamagePlus
	DamageMinus
	HealthPlus
	HealthMinus
	RegenPlus
	RegenMinus
	MiningPlus
	MiningMinus
	JumpPlus
	NoTrait
	VisionPlus

	traitCount
)

type traitInfo struct {
	id      string
	display string
	apply   func(p Player)
}

// catalog maps every trait to its identifier, display name and effect.
// Effects run against a player that was just reset to baseline, so each one
// only needs to set what differs from it.
var catalog = [traitCount]traitInfo{
	SpeedPlus:   {"SPEED_PLUS", "+15% Speed", setAttribute(MovementSpeed, 0.115)},
	SpeedMinus:  {"SPEED_MINUS", "-15% Speed", setAttribute(MovementSpeed, 0.085)},
	DamagePlus:  {"DAMAGE_PLUS", "+10% Damage", setAttribute(AttackDamage, 1.1)},
	DamageMinus: {"DAMAGE_MINUS", "-10% Damage", setAttribute(AttackDamage, 0.9)},
	HealthPlus:  {"HEALTH_PLUS", "+10% Max Health", setAttribute(MaxHealth, 22)},
	HealthMinus: {"HEALTH_MINUS", "-10% Max Health", setAttribute(MaxHealth, 18)},
	RegenPlus:   {"REGEN_PLUS", "Regeneration", addEffect(Regeneration)},
	RegenMinus:  {"REGEN_MINUS", "Hunger", addEffect(Hunger)},
	MiningPlus:  {"MINING_PLUS", "Faster Mining", addEffect(Haste)},
	MiningMinus: {"MINING_MINUS", "Slower Mining", addEffect(MiningFatigue)},
	JumpPlus:    {"JUMP_PLUS", "Jump Boost", addEffect(JumpBoost)},
	NoTrait:     {"NO_TRAIT", "No Trait", func(Player) {}},
	VisionPlus:  {"VISION_PLUS", "Night Vision", addEffect(NightVision)},
}

func setAttribute(a Attribute, v float64) func(p Player) {
	return func(p Player) {
		if inst, ok := p.Attribute(a); ok {
			inst.SetBaseValue(v)
		}
	}
}

func addEffect(e StatusEffect) func(p Player) {
	return func(p Player) {
		p.AddEffect(e)
	}
}

// Catalog returns every trait in declaration order.
func Catalog() []Trait {
	traits := make([]Trait, 0, traitCount)
	for t := range traitCount {
		traits = append(traits, t)
	}
	return traits
}

// ParseTrait resolves a persisted trait identifier such as "SPEED_PLUS".
func ParseTrait(id string) (Trait, error) {
	id = strings.TrimSpace(id)
	for t, info := range catalog {
		if info.id == id {
			return Trait(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTrait, id)
}

// Valid reports whether t is a member of the catalog.
func (t Trait) Valid() bool {
	return t < traitCount
}

// String returns the persisted identifier of the trait.
func (t Trait) String() string {
	if !t.Valid() {
		return "UNKNOWN"
	}
	return catalog[t].id
}

// DisplayName returns the human readable name shown to players.
func (t Trait) DisplayName() string {
	if !t.Valid() {
		return "Unknown"
	}
	return catalog[t].display
}

// Apply runs the trait's effect against p. It is idempotent.
func (t Trait) Apply(p Player) {
	if !t.Valid() {
		return
	}
	catalog[t].apply(p)
}
