package dice

import (
	"errors"
	"testing"
)

func TestRoutingBranchCountMustMatchDecision(t *testing.T) {
	_, err := NewRouting(seq(t, 4), []Die{seq(t, 4), seq(t, 8), seq(t, 10)})
	if !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("NewRouting() error = %v, want ErrInvalidDie", err)
	}
	if _, err := NewRouting(seq(t, 1), nil); !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("NewRouting() without branches error = %v, want ErrInvalidDie", err)
	}
}

func TestRoutingConditionalMatchesJoint(t *testing.T) {
	branches := func(t *testing.T) []Die { return []Die{seq(t, 4), seq(t, 6), Constant(10)} }
	conditional := must(NewRouting(seq(t, 3), branches(t)))(t)
	joint := must(NewRouting(seq(t, 3), branches(t), WithJointEnumeration()))(t)

	if conditional.Policy() != RouteConditional || joint.Policy() != RouteJoint {
		t.Fatalf("policies = %s, %s", conditional.Policy(), joint.Policy())
	}
	if n := len(enumerate(t, conditional)); n != 11 {
		t.Fatalf("conditional size = %d, want 11", n)
	}
	if n := len(enumerate(t, joint)); n != 72 {
		t.Fatalf("joint size = %d, want 72", n)
	}

	cd, jd := distribution(t, conditional), distribution(t, joint)
	for v := 0; v <= 10; v++ {
		if cd.Probability(v).Cmp(jd.Probability(v)) != 0 {
			t.Fatalf("P(%d): conditional %s, joint %s", v, cd.Probability(v).RatString(), jd.Probability(v).RatString())
		}
	}
	assertProbability(t, cd, 10, 1, 3)
	assertProbability(t, cd, 1, 5, 36)
	assertProbability(t, cd, 6, 1, 18)

	if conditional.Bound() != 10 {
		t.Fatalf("Bound() = %d, want 10", conditional.Bound())
	}
}

func TestRoutingBoundIsLargestBranch(t *testing.T) {
	for _, opts := range [][]RoutingOption{nil, {WithJointEnumeration()}} {
		r := must(NewRouting(seq(t, 3), []Die{seq(t, 2), seq(t, 7), seq(t, 5)}, opts...))(t)
		if r.Bound() != 7 {
			t.Fatalf("%s: Bound() = %d, want 7", r.Policy(), r.Bound())
		}
		if got, _ := enumerate(t, r).Max(); got != r.Bound() {
			t.Fatalf("%s: max enumerated = %d, want the bound %d", r.Policy(), got, r.Bound())
		}
	}
}

func TestRoutingDrawsOnlySelectedBranch(t *testing.T) {
	values := make([]int, 100)
	for i := range values {
		values[i] = 101 + i
	}
	pool := must(NewRemovePool(values...))(t)
	r := must(NewRouting(seq(t, 2), []Die{pool, Constant(7)}))(t)

	fromPool := 0
	for _, v := range samples(t, r, 9, 50) {
		if v > 100 {
			fromPool++
		}
	}
	if fromPool == 0 || fromPool == 50 {
		t.Fatalf("pool drawn %d of 50 times, want a mix", fromPool)
	}
	if pool.Len() != 100-fromPool {
		t.Fatalf("pool Len() = %d, want %d", pool.Len(), 100-fromPool)
	}
}

func TestRoutingDecisionOutOfRange(t *testing.T) {
	r := must(NewRouting(must(NewLeaf(0, 1))(t), []Die{seq(t, 6)}))(t)
	if _, err := r.Enumerate(); !errors.Is(err, ErrDrawDomain) {
		t.Fatalf("Enumerate() error = %v, want ErrDrawDomain", err)
	}
	joint := must(NewRouting(must(NewLeaf(0, 1))(t), []Die{seq(t, 6)}, WithJointEnumeration()))(t)
	if _, err := joint.Enumerate(); !errors.Is(err, ErrDrawDomain) {
		t.Fatalf("joint Enumerate() error = %v, want ErrDrawDomain", err)
	}
}

func TestRoutingBiasedDecision(t *testing.T) {
	decision := must(NewLeaf(1, 1, 1, 2))(t)
	r := must(NewRouting(decision, []Die{Constant(1), seq(t, 3)}))(t)
	dist := distribution(t, r)
	assertProbability(t, dist, 1, 5, 6)
	assertProbability(t, dist, 2, 1, 12)
	assertProbability(t, dist, 3, 1, 12)
}

func TestCarouselCycles(t *testing.T) {
	c := must(NewCarousel(Constant(1), Constant(2), Constant(3)))(t)

	got := samples(t, c, 1, 4)
	want := []int{1, 2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("draws = %v, want %v", got, want)
		}
	}
	assertValues(t, c, 2)
	if c.Index() != 1 {
		t.Fatalf("Index() = %d, want 1", c.Index())
	}
	c.Reset()
	assertValues(t, c, 1)
	if c.Bound() != 3 {
		t.Fatalf("Bound() = %d, want 3", c.Bound())
	}
}

func TestCarouselWindowDistribution(t *testing.T) {
	c := must(NewCarousel(seq(t, 2), seq(t, 4)))(t)
	samples(t, c, 1, 1)

	outs := must(c.EnumerateWindow())(t)
	if len(outs) != 6 {
		t.Fatalf("len(EnumerateWindow()) = %d, want 6", len(outs))
	}
	if outs[0].Path[0] != 1 || outs[len(outs)-1].Path[0] != 2 {
		t.Fatalf("paths = %v .. %v, want position prefixes 1 and 2", outs[0].Path, outs[len(outs)-1].Path)
	}
	dist := must(c.WindowDistribution())(t)
	assertProbability(t, dist, 1, 3, 8)
	assertProbability(t, dist, 2, 3, 8)
	assertProbability(t, dist, 3, 1, 8)
	assertProbability(t, dist, 4, 1, 8)
	if c.Index() != 1 {
		t.Fatalf("Index() = %d after window, want 1", c.Index())
	}
	// The next-draw view only sees the current position.
	assertValues(t, c, 1, 2, 3, 4)
}

func TestCarouselStaysOnFailure(t *testing.T) {
	pool := must(NewRemovePool(5))(t)
	c := must(NewCarousel(pool, Constant(9)))(t)

	samples(t, c, 1, 2)
	if c.Index() != 0 {
		t.Fatalf("Index() = %d, want 0", c.Index())
	}
	if _, err := c.Sample(nil); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Sample() error = %v, want ErrExhausted", err)
	}
	if c.Index() != 0 {
		t.Fatalf("Index() after failure = %d, want 0", c.Index())
	}
	if _, err := NewCarousel(); !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("NewCarousel() error = %v, want ErrInvalidDie", err)
	}
}
