package generator

import (
	"testing"

	"github.com/verte-zerg/lettersound/internal/model"
)

func pool() []model.Symbol {
	return []model.Symbol{
		{ID: "a", Tier: model.TierEasy},
		{ID: "b", Tier: model.TierEasy},
		{ID: "c", Tier: model.TierEasy},
		{ID: "d", Tier: model.TierEasy},
	}
}

func TestRoundShape(t *testing.T) {
	g := NewWithSeed(7)
	r := g.Round(pool(), 3)
	if len(r.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(r.Candidates))
	}
	if r.Shortfall {
		t.Fatalf("expected no shortfall")
	}
	found := 0
	for _, c := range r.Candidates {
		if c.ID == r.Target.ID {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("expected target once, got %d", found)
	}
}

func TestRoundShortfall(t *testing.T) {
	g := NewWithSeed(7)
	r := g.Round(pool()[:2], 4)
	if !r.Shortfall {
		t.Fatalf("expected shortfall for 2-symbol pool")
	}
	if len(r.Candidates) != 2 {
		t.Fatalf("expected round capped at pool size, got %d", len(r.Candidates))
	}
}

func TestRoundWeightedFavorsWeak(t *testing.T) {
	g := NewWithSeed(3)
	weak := map[string]struct{}{"d": {}}
	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		r := g.RoundWeighted(pool(), 2, weak, 9)
		counts[r.Target.ID]++
	}
	if counts["d"] <= counts["a"]*3 {
		t.Fatalf("expected weak symbol to dominate targets, got %v", counts)
	}
}
