// Package generator draws quiz rounds.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/model"
)

// Generator produces randomized rounds.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Round selects a target uniformly and fills the remaining candidate slots.
// The pool must not be empty.
func (g *Generator) Round(pool []model.Symbol, roundSize int) model.Round {
	target := pool[g.rnd.Intn(len(pool))]
	return g.roundFor(target, pool, roundSize)
}

// RoundWeighted selects a target with a bias toward weak symbols.
func (g *Generator) RoundWeighted(pool []model.Symbol, roundSize int, weakSet map[string]struct{}, factor float64) model.Round {
	weights := make([]float64, len(pool))
	total := 0.0
	for i, s := range pool {
		w := 1.0
		if _, ok := weakSet[s.ID]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	r := g.rnd.Float64() * total
	acc := 0.0
	idx := len(pool) - 1
	for j, w := range weights {
		acc += w
		if r <= acc {
			idx = j
			break
		}
	}
	return g.roundFor(pool[idx], pool, roundSize)
}

func (g *Generator) roundFor(target model.Symbol, pool []model.Symbol, roundSize int) model.Round {
	candidates, full := catalog.ChooseRoundCandidates(g.rnd, target, pool, roundSize)
	return model.Round{
		Target:     target,
		Candidates: candidates,
		Shortfall:  !full,
	}
}
