package traitswap

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolDrawsEveryTraitBeforeRepeating(t *testing.T) {
	cat := Catalog()
	p := NewPool(cat, rand.New(rand.NewPCG(1, 2)))

	for cycle := 0; cycle < 3; cycle++ {
		seen := make(map[Trait]bool)
		for range cat {
			tr := p.Draw()
			require.False(t, seen[tr], "cycle %d repeated %s", cycle, tr)
			seen[tr] = true
		}
		assert.Len(t, seen, len(cat))
	}
}

func TestPoolTwoTraitScenario(t *testing.T) {
	p := NewPool([]Trait{SpeedPlus, SpeedMinus}, &seqRand{seq: []int{1, 0, 0}})

	first := p.Draw()
	second := p.Draw()
	assert.Equal(t, SpeedMinus, first)
	assert.Equal(t, SpeedPlus, second)
	assert.NotEqual(t, first, second)
	assert.ElementsMatch(t, []Trait{SpeedPlus, SpeedMinus}, p.Used())

	third := p.Draw()
	assert.Contains(t, []Trait{SpeedPlus, SpeedMinus}, third)
	assert.Equal(t, []Trait{third}, p.Used(), "pool resets before the third draw")
}

func TestPoolDeterministicWithSameSeed(t *testing.T) {
	a := NewPool(Catalog(), rand.New(rand.NewPCG(7, 7)))
	b := NewPool(Catalog(), rand.New(rand.NewPCG(7, 7)))

	for range 40 {
		assert.Equal(t, a.Draw(), b.Draw())
	}
}

func TestPoolMarkUsed(t *testing.T) {
	p := NewPool([]Trait{SpeedPlus, SpeedMinus, NoTrait}, &seqRand{seq: []int{0}})
	p.MarkUsed(SpeedPlus)
	p.MarkUsed(VisionPlus) // not in this pool's catalog

	assert.Equal(t, []Trait{SpeedPlus}, p.Used())
	assert.Equal(t, SpeedMinus, p.Draw())
	assert.Equal(t, NoTrait, p.Draw())

	p.Reset()
	assert.Empty(t, p.Used())
}

func TestPoolRejectsEmptyCatalog(t *testing.T) {
	assert.Panics(t, func() { NewPool(nil, nil) })
}

func TestPoolDefaultRand(t *testing.T) {
	p := NewPool(Catalog(), nil)
	assert.True(t, p.Draw().Valid())
}
