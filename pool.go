package traitswap

import (
	"math/rand/v2"
	"slices"
)

// Rand is the randomness source used for draws. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Pool hands out traits so that no trait repeats across the whole population
// before every trait in the catalog has been drawn once since the last reset.
//
// Pool is not safe for concurrent use; the Registry serializes access to it.
type Pool struct {
	catalog []Trait
	used    map[Trait]struct{}
	rand    Rand
}

// NewPool creates a pool drawing from the given catalog. A nil Rand uses the
// global math/rand/v2 source.
func NewPool(catalog []Trait, r Rand) *Pool {
	if len(catalog) == 0 {
		panic("traitswap: pool needs a non-empty catalog")
	}
	if r == nil {
		r = globalRand{}
	}
	return &Pool{
		catalog: append([]Trait(nil), catalog...),
		used:    make(map[Trait]struct{}, len(catalog)),
		rand:    r,
	}
}

// Draw selects an unused trait uniformly at random and marks it used. When
// every trait has been used the cycle restarts with the full catalog.
func (p *Pool) Draw() Trait {
	available := p.available()
	if len(available) == 0 {
		clear(p.used)
		available = p.catalog
	}

	t := available[p.rand.IntN(len(available))]
	p.used[t] = struct{}{}
	return t
}

// available returns the unused traits in catalog order.
func (p *Pool) available() []Trait {
	available := make([]Trait, 0, len(p.catalog))
	for _, t := range p.catalog {
		if _, ok := p.used[t]; !ok {
			available = append(available, t)
		}
	}
	return available
}

// MarkUsed records t as drawn in the current cycle. Traits outside the pool's
// catalog are ignored.
func (p *Pool) MarkUsed(t Trait) {
	if slices.Contains(p.catalog, t) {
		p.used[t] = struct{}{}
	}
}

// Used returns the traits drawn in the current cycle, in catalog order.
func (p *Pool) Used() []Trait {
	used := make([]Trait, 0, len(p.used))
	for _, t := range p.catalog {
		if _, ok := p.used[t]; ok {
			used = append(used, t)
		}
	}
	return used
}

// Reset starts a new cycle.
func (p *Pool) Reset() {
	clear(p.used)
}
