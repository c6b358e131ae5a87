package dice

import (
	"errors"
	"math"
	"math/big"
	"math/rand"
	"testing"
)

func TestForLoopSumsIterations(t *testing.T) {
	l := must(NewForLoop(seq(t, 6), seq(t, 4)))(t)

	if l.Bound() != 24 {
		t.Fatalf("Bound() = %d, want 24", l.Bound())
	}
	outs := enumerate(t, l)
	if len(outs) != 6+36+216+1296 {
		t.Fatalf("len = %d, want 1554", len(outs))
	}
	if got, _ := outs.Max(); got != 24 {
		t.Fatalf("max enumerated = %d, want 24", got)
	}
	if got := distribution(t, l).Mean(); got.Cmp(big.NewRat(35, 4)) != 0 {
		t.Fatalf("Mean() = %s, want 35/4", got.RatString())
	}
}

func TestForLoopZeroIterations(t *testing.T) {
	l := must(NewForLoop(seq(t, 6), must(NewLeaf(0, 1))(t)))(t)
	dist := distribution(t, l)
	assertProbability(t, dist, 0, 1, 2)
	assertProbability(t, dist, 4, 1, 12)
	if got := dist.Mean(); got.Cmp(big.NewRat(7, 4)) != 0 {
		t.Fatalf("Mean() = %s, want 7/4", got.RatString())
	}
}

func TestForLoopNegativeIterations(t *testing.T) {
	l := must(NewForLoop(seq(t, 6), Constant(-1)))(t)
	if _, err := l.Enumerate(); !errors.Is(err, ErrDrawDomain) {
		t.Fatalf("Enumerate() error = %v, want ErrDrawDomain", err)
	}
	if _, err := l.Sample(rand.New(rand.NewSource(1))); !errors.Is(err, ErrDrawDomain) {
		t.Fatalf("Sample() error = %v, want ErrDrawDomain", err)
	}
}

func TestWhileLoopTruncatesTail(t *testing.T) {
	l := must(NewWhileLoop(seq(t, 4), seq(t, 4), 3, 2))(t)

	if l.Cap() != 2 || l.Target() != 3 {
		t.Fatalf("Cap() = %d, Target() = %d", l.Cap(), l.Target())
	}
	if l.Bound() != 8 {
		t.Fatalf("Bound() = %d, want 8", l.Bound())
	}

	outs := enumerate(t, l)
	if len(outs) != 3+12+16 {
		t.Fatalf("len = %d, want 31", len(outs))
	}
	total, err := outs.TotalWeight()
	if err != nil {
		t.Fatal(err)
	}
	if total != 256 {
		t.Fatalf("TotalWeight() = %d, want 256", total)
	}

	var truncated uint64
	for _, out := range outs {
		if len(out.Path) == 4 {
			truncated += out.Weight
		}
	}
	if got := big.NewRat(int64(truncated), int64(total)); got.Cmp(big.NewRat(1, 16)) != 0 {
		t.Fatalf("truncated mass = %s, want 1/16", got.RatString())
	}

	dist := distribution(t, l)
	assertProbability(t, dist, 0, 3, 4)
	if got, _ := outs.Max(); got != 8 {
		t.Fatalf("max enumerated = %d, want 8", got)
	}
	if got := dist.Mean(); got.Cmp(big.NewRat(25, 32)) != 0 {
		t.Fatalf("enumerated Mean() = %s, want 25/32", got.RatString())
	}
}

func TestWhileLoopSamplingIsUncapped(t *testing.T) {
	l := must(NewWhileLoop(seq(t, 4), seq(t, 4), 3, 2))(t)
	const draws = 40000

	sum, beyondCap := 0, 0
	for _, v := range samples(t, l, 21, draws) {
		sum += v
		if v > l.Bound() {
			beyondCap++
		}
	}
	if mean := float64(sum) / draws; math.Abs(mean-5.0/6.0) > 0.05 {
		t.Fatalf("sample mean = %.4f, want about 0.8333", mean)
	}
	if beyondCap == 0 {
		t.Fatal("no draw exceeded the enumeration cap")
	}
}

func TestWhileLoopConstruction(t *testing.T) {
	if _, err := NewWhileLoop(seq(t, 4), Constant(3), 3, 4); !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("never-ending loop error = %v, want ErrInvalidDie", err)
	}
	if _, err := NewWhileLoop(seq(t, 4), seq(t, 4), 3, 0); !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("zero cap error = %v, want ErrInvalidDie", err)
	}
}

func TestExplodeEnumeration(t *testing.T) {
	e := must(NewExplode(seq(t, 6), 3, 6))(t)

	if e.Bound() != 18 || e.Cap() != 3 {
		t.Fatalf("Bound() = %d, Cap() = %d", e.Bound(), e.Cap())
	}
	outs := enumerate(t, e)
	total, err := outs.TotalWeight()
	if err != nil {
		t.Fatal(err)
	}
	if total != 216 {
		t.Fatalf("TotalWeight() = %d, want 216", total)
	}
	dist := distribution(t, e)
	assertProbability(t, dist, 3, 1, 6)
	assertProbability(t, dist, 9, 1, 36)
	assertProbability(t, dist, 12, 0, 1)
	assertProbability(t, dist, 18, 1, 216)

	for _, v := range samples(t, e, 4, 2000) {
		if v%6 == 0 {
			t.Fatalf("exploding d6 ended on a multiple of 6: %d", v)
		}
	}
}

func TestExplodeUnless(t *testing.T) {
	e := must(NewExplodeUnless(seq(t, 6), 2, 1))(t)
	outs := enumerate(t, e)
	if len(outs) != 1+5+25 {
		t.Fatalf("len = %d, want 31", len(outs))
	}
	assertProbability(t, distribution(t, e), 1, 1, 6)
}

func TestExplodeConstruction(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"no values", second(NewExplode(seq(t, 6), 3))},
		{"every roll continues", second(NewExplode(Constant(6), 3, 6))},
		{"zero cap", second(NewExplode(seq(t, 6), 0, 6))},
		{"nil base", second(NewExplodeUnless(nil, 3, 1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, ErrInvalidDie) {
				t.Fatalf("error = %v, want ErrInvalidDie", tt.err)
			}
		})
	}
}
