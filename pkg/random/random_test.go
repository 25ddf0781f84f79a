package random

import (
	"math"
	"testing"
)

func TestSameSeedSameSequence(t *testing.T) {
	g1 := New(42)
	g2 := New(42)

	for i := 0; i < 1000; i++ {
		v1, v2 := g1.Next(), g2.Next()
		if v1 != v2 {
			t.Fatalf("draw %d: %v != %v", i, v1, v2)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	g1 := New(1)
	g2 := New(2)

	same := true
	for i := 0; i < 10; i++ {
		if g1.Next() != g2.Next() {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should produce different sequences")
	}
}

func TestNextRange(t *testing.T) {
	g := New(7)
	for i := 0; i < 10000; i++ {
		v := g.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("Next() = %v, want [0,1)", v)
		}
	}
}

func TestNextIntInclusive(t *testing.T) {
	g := New(99)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := g.NextInt(3, 7)
		if v < 3 || v > 7 {
			t.Fatalf("NextInt(3,7) = %d", v)
		}
		seen[v] = true
	}
	for want := 3; want <= 7; want++ {
		if !seen[want] {
			t.Errorf("NextInt(3,7) never produced %d", want)
		}
	}
}

func TestNextIntSwappedBounds(t *testing.T) {
	g := New(1)
	v := g.NextInt(7, 3)
	if v < 3 || v > 7 {
		t.Errorf("NextInt(7,3) = %d, want [3,7]", v)
	}
}

func TestNextFloatRange(t *testing.T) {
	g := New(5)
	for i := 0; i < 1000; i++ {
		v := g.NextFloat(-2.5, 2.5)
		if v < -2.5 || v >= 2.5 {
			t.Fatalf("NextFloat(-2.5,2.5) = %v", v)
		}
	}
}

func TestNextBoolExtremes(t *testing.T) {
	g := New(11)
	for i := 0; i < 100; i++ {
		if g.NextBool(0) {
			t.Fatal("NextBool(0) returned true")
		}
		if !g.NextBool(1) {
			t.Fatal("NextBool(1) returned false")
		}
	}
}

func TestResetReplaysSequence(t *testing.T) {
	g := New(1234)
	first := make([]float64, 20)
	for i := range first {
		first[i] = g.Next()
	}

	g.Reset()
	for i := range first {
		if v := g.Next(); v != first[i] {
			t.Fatalf("after Reset, draw %d: %v != %v", i, v, first[i])
		}
	}
}

func TestSetSeedMatchesFreshSource(t *testing.T) {
	g := New(1)
	g.Next()
	g.SetSeed(42)

	fresh := New(42)
	for i := 0; i < 20; i++ {
		if v1, v2 := g.Next(), fresh.Next(); v1 != v2 {
			t.Fatalf("draw %d: %v != %v", i, v1, v2)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	g := New(8)
	vals := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	g.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })

	seen := map[int]bool{}
	for _, v := range vals {
		seen[v] = true
	}
	if len(seen) != 10 {
		t.Errorf("shuffle lost elements: %v", vals)
	}
}

func TestShuffleDeterministic(t *testing.T) {
	a := []int{0, 1, 2, 3, 4, 5, 6, 7}
	b := []int{0, 1, 2, 3, 4, 5, 6, 7}
	New(3).Shuffle(len(a), func(i, j int) { a[i], a[j] = a[j], a[i] })
	New(3).Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same-seed shuffles differ at %d: %v vs %v", i, a, b)
		}
	}
}

func TestInCircleWithinRadius(t *testing.T) {
	g := New(21)
	for i := 0; i < 1000; i++ {
		x, y := g.InCircle(10)
		if d := math.Hypot(x, y); d > 10 {
			t.Fatalf("InCircle(10) produced point at distance %v", d)
		}
	}
}

func TestOnCircleOnRadius(t *testing.T) {
	g := New(22)
	for i := 0; i < 100; i++ {
		x, y := g.OnCircle(5)
		if d := math.Hypot(x, y); math.Abs(d-5) > 1e-9 {
			t.Fatalf("OnCircle(5) produced point at distance %v", d)
		}
	}
}

func TestChoiceCoversList(t *testing.T) {
	g := New(13)
	list := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[g.Choice(list)] = true
	}
	if len(seen) != 3 {
		t.Errorf("Choice never returned some elements: %v", seen)
	}
}
