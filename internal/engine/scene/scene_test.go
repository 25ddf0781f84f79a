package scene

import "testing"

type dummy struct{ x, y, z float64 }

func (d dummy) WorldPosition() (float64, float64, float64) { return d.x, d.y, d.z }

func TestAddRemove(t *testing.T) {
	g := NewGraph()
	h := g.Add(dummy{1, 2, 3})

	if !g.Contains(h) {
		t.Fatal("graph should contain just-added handle")
	}
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}

	obj, ok := g.Remove(h)
	if !ok {
		t.Fatal("Remove returned ok=false for live handle")
	}
	if obj.(dummy) != (dummy{1, 2, 3}) {
		t.Errorf("Remove returned wrong object: %v", obj)
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d after removal, want 0", g.Len())
	}
}

func TestRemoveUnknownHandle(t *testing.T) {
	g := NewGraph()
	if _, ok := g.Remove(Handle(99)); ok {
		t.Error("Remove of unknown handle returned ok=true")
	}
}

func TestWorldPosition(t *testing.T) {
	g := NewGraph()
	h := g.Add(dummy{10, 20, 30})

	x, y, z, ok := g.WorldPosition(h)
	if !ok {
		t.Fatal("WorldPosition returned ok=false")
	}
	if x != 10 || y != 20 || z != 30 {
		t.Errorf("WorldPosition = (%v,%v,%v), want (10,20,30)", x, y, z)
	}

	g.Remove(h)
	if _, _, _, ok := g.WorldPosition(h); ok {
		t.Error("WorldPosition of removed handle returned ok=true")
	}
}

func TestHandlesAreUnique(t *testing.T) {
	g := NewGraph()
	seen := map[Handle]bool{}
	for i := 0; i < 100; i++ {
		h := g.Add(dummy{})
		if seen[h] {
			t.Fatalf("handle %d issued twice", h)
		}
		seen[h] = true
	}
}
