package traitswap

import (
	"log/slog"
)

// resetAttributes lists the attributes reset to baseline before every apply.
var resetAttributes = [...]Attribute{MovementSpeed, AttackDamage, MaxHealth}

// Applier makes a player's observable state match a trait.
type Applier struct {
	log *slog.Logger
}

// NewApplier creates an Applier logging to log, or slog.Default if nil.
func NewApplier(log *slog.Logger) *Applier {
	if log == nil {
		log = slog.Default()
	}
	return &Applier{log: log}
}

// Apply clears the player's effects, resets the modifiable attributes to
// baseline and applies t. If restoreHealth is true the player is healed to
// their (possibly new) max health; otherwise health is only lowered when it
// exceeds the new maximum.
func (a *Applier) Apply(p Player, t Trait, restoreHealth bool) {
	if p == nil {
		return
	}

	p.ClearEffects()

	for _, attr := range resetAttributes {
		inst, ok := p.Attribute(attr)
		if !ok {
			a.log.Debug("traitswap: attribute not exposed, skipping reset",
				"player", p.Name(),
				"attribute", attr)
			continue
		}
		inst.SetBaseValue(attr.baseline())
	}

	t.Apply(p)

	maxHealth := p.MaxHealth()
	if restoreHealth {
		p.SetHealth(maxHealth)
		return
	}
	if p.Health() > maxHealth {
		p.SetHealth(maxHealth)
	}
}
