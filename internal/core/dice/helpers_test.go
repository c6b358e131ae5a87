package dice

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/louisbranch/fairdice/internal/core/outcome"
	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
)

// must turns a constructor result into a value, failing the test on error.
//
//	d := must(Sum(a, b))(t)
func must[T any](v T, err error) func(t *testing.T) T {
	return func(t *testing.T) T {
		t.Helper()
		if err != nil {
			t.Fatalf("build die: %v", err)
		}
		return v
	}
}

func seq(t *testing.T, n int) *Leaf {
	t.Helper()
	return must(Sequential(n))(t)
}

func enumerate(t *testing.T, d Die) outcome.Outcomes {
	t.Helper()
	outs, err := d.Enumerate()
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	return outs
}

func distribution(t *testing.T, d Die) *outcome.Distribution {
	t.Helper()
	dist, err := outcome.NewDistribution(enumerate(t, d))
	if err != nil {
		t.Fatalf("NewDistribution() error = %v", err)
	}
	return dist
}

func samples(t *testing.T, d Die, seed int64, n int) []int {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	out := make([]int, n)
	for i := range out {
		v, err := d.Sample(rng)
		if err != nil {
			t.Fatalf("Sample() #%d error = %v", i, err)
		}
		out[i] = v
	}
	return out
}

func assertProbability(t *testing.T, dist *outcome.Distribution, value int, num, den int64) {
	t.Helper()
	if got := dist.Probability(value); got.Cmp(big.NewRat(num, den)) != 0 {
		t.Errorf("P(%d) = %s, want %d/%d", value, got.RatString(), num, den)
	}
}

func assertValues(t *testing.T, d Die, want ...int) {
	t.Helper()
	got := enumerate(t, d).Values()
	if len(got) != len(want) {
		t.Fatalf("values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values = %v, want %v", got, want)
		}
	}
}

func metadata(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not a domain error", err)
	}
	return appErr.Metadata
}
