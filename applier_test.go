package traitswap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyResetsBeforeApplying(t *testing.T) {
	a := NewApplier(nil)
	p := newFakePlayer("alex")

	a.Apply(p, SpeedPlus, true)
	a.Apply(p, RegenPlus, true)

	assert.Equal(t, BaseMovementSpeed, p.attr(MovementSpeed), "previous trait is undone")
	assert.True(t, p.hasEffect(Regeneration))

	a.Apply(p, HealthMinus, true)
	assert.False(t, p.hasEffect(Regeneration), "effects are cleared")
	assert.Equal(t, 18.0, p.attr(MaxHealth))
}

func TestApplyClearsForeignEffects(t *testing.T) {
	p := newFakePlayer("alex")
	p.foreign = 2

	NewApplier(nil).Apply(p, NoTrait, false)
	assert.Zero(t, p.foreign)
}

func TestApplyIsIdempotent(t *testing.T) {
	a := NewApplier(nil)
	for _, tr := range Catalog() {
		p := newFakePlayer("alex")
		a.Apply(p, tr, false)
		speed, dmg, maxHealth, health := p.attr(MovementSpeed), p.attr(AttackDamage), p.attr(MaxHealth), p.health
		effects := len(p.effects)

		a.Apply(p, tr, false)
		assert.Equal(t, speed, p.attr(MovementSpeed), tr.String())
		assert.Equal(t, dmg, p.attr(AttackDamage), tr.String())
		assert.Equal(t, maxHealth, p.attr(MaxHealth), tr.String())
		assert.Equal(t, health, p.health, tr.String())
		assert.Len(t, p.effects, effects, tr.String())
	}
}

func TestApplyRestoresHealth(t *testing.T) {
	p := newFakePlayer("alex")
	p.health = 3

	NewApplier(nil).Apply(p, HealthPlus, true)
	assert.Equal(t, 22.0, p.health)
}

func TestApplyWithoutRestoreNeverHeals(t *testing.T) {
	p := newFakePlayer("alex")
	p.health = 7

	NewApplier(nil).Apply(p, HealthPlus, false)
	assert.Equal(t, 7.0, p.health)
}

func TestApplyWithoutRestoreClampsToNewMax(t *testing.T) {
	p := newFakePlayer("alex")
	p.attributes[MaxHealth].value = 22
	p.health = 22

	NewApplier(nil).Apply(p, HealthMinus, false)
	assert.Equal(t, 18.0, p.health)
}

func TestApplySkipsMissingAttributes(t *testing.T) {
	p := newFakePlayer("villager")
	delete(p.attributes, AttackDamage)
	delete(p.attributes, MovementSpeed)
	p.health = 5

	assert.NotPanics(t, func() {
		NewApplier(nil).Apply(p, DamagePlus, true)
	})
	assert.Equal(t, BaseMaxHealth, p.attr(MaxHealth))
	assert.Equal(t, BaseMaxHealth, p.health)
}

func TestApplyNilPlayer(t *testing.T) {
	assert.NotPanics(t, func() { NewApplier(nil).Apply(nil, SpeedPlus, true) })
}
