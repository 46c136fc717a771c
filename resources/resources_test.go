package resources

import (
	"testing"

	"github.com/wudi/infosvg/svg"
)

func TestAccumulatorDeduplicates(t *testing.T) {
	acc := NewAccumulator()
	first := &svg.Element{Name: "linearGradient"}
	if !acc.Add("g1", first) {
		t.Fatal("expected first add to register")
	}
	if acc.Add("g1", &svg.Element{Name: "radialGradient"}) {
		t.Fatal("expected duplicate id to be rejected")
	}
	acc.Add("p1", &svg.Element{Name: "pattern"})

	if acc.Len() != 2 {
		t.Fatalf("expected 2 definitions, got %d", acc.Len())
	}
	p, ok := acc.Lookup("g1")
	if !ok || p.Element != first {
		t.Errorf("expected the first definition to win")
	}
	paints := acc.Paints()
	if paints[0].ID != "g1" || paints[1].ID != "p1" {
		t.Errorf("expected insertion order, got %v, %v", paints[0].ID, paints[1].ID)
	}
	if CategoryOf(paints[1].Element) != CategoryPattern {
		t.Errorf("expected pattern category")
	}
}

func TestAccumulatorRejectsEmpty(t *testing.T) {
	acc := NewAccumulator()
	if acc.Add("", &svg.Element{}) {
		t.Error("expected empty id to be rejected")
	}
	if acc.Add("x", nil) {
		t.Error("expected nil element to be rejected")
	}
}

func TestNewGradientIDSkipsTaken(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("bg-grad-1", &svg.Element{Name: "linearGradient"})
	id := acc.NewGradientID()
	if id != "bg-grad-2" {
		t.Errorf("expected bg-grad-2, got %s", id)
	}
	acc.Add(id, &svg.Element{Name: "linearGradient"})
	if next := acc.NewGradientID(); next != "bg-grad-3" {
		t.Errorf("expected bg-grad-3, got %s", next)
	}
}
