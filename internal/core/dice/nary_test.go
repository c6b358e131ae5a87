package dice

import (
	"errors"
	"sort"
	"testing"
)

func constants(values ...int) []Die {
	dice := make([]Die, len(values))
	for i, v := range values {
		dice[i] = Constant(v)
	}
	return dice
}

func TestNaryReducers(t *testing.T) {
	tests := []struct {
		name   string
		reduce func(children ...Die) (*Nary, error)
		values []int
		want   int
	}{
		{"sum", Sum, []int{1, 2, 3}, 6},
		{"product", Product, []int{2, 3, 4}, 24},
		{"advantage", Advantage, []int{3, 9, 4}, 9},
		{"disadvantage", Disadvantage, []int{3, 9, 4}, 3},
		{"and all set", And, []int{1, 2}, 1},
		{"and with zero", And, []int{0, 1}, 0},
		{"or", Or, []int{0, 1}, 1},
		{"or all zero", Or, []int{0, 0}, 0},
		{"parity odd", Parity, []int{1, 2}, 1},
		{"parity even", Parity, []int{1, 3}, 0},
		{"mean floors", Mean, []int{1, 2}, 1},
		{"median odd", Median, []int{1, 5, 3}, 3},
		{"median even", Median, []int{1, 2, 3, 4}, 2},
		{"mode tie goes first", Mode, []int{2, 3, 3, 2}, 2},
		{"mode", Mode, []int{1, 4, 4}, 4},
		{"variance", Variance, []int{2, 4, 4, 4, 5, 5, 7, 9}, 4},
		{"stddev", StdDev, []int{2, 4, 4, 4, 5, 5, 7, 9}, 2},
		{"range", Range, []int{3, 9, 4}, 6},
		{"gcd", GCD, []int{12, 18}, 6},
		{"lcm", LCM, []int{4, 6}, 12},
		{"lcm with zero", LCM, []int{4, 0}, 0},
		{"concat", Concat, []int{4, 12}, 412},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := must(tt.reduce(constants(tt.values...)...))(t)
			assertValues(t, d, tt.want)
			if got := samples(t, d, 1, 1)[0]; got != tt.want {
				t.Fatalf("Sample() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSumBound(t *testing.T) {
	d := must(Sum(seq(t, 6), seq(t, 8), seq(t, 10)))(t)
	if d.Bound() != 24 {
		t.Fatalf("Bound() = %d, want 24", d.Bound())
	}
	outs := enumerate(t, d)
	if len(outs) != 480 {
		t.Fatalf("len = %d, want 480", len(outs))
	}
	if got, _ := outs.Max(); got != 24 {
		t.Fatalf("max enumerated = %d, want 24", got)
	}
	if got, _ := outs.Min(); got != 3 {
		t.Fatalf("min enumerated = %d, want 3", got)
	}
}

func TestEnumeratedMaxNeverExceedsBound(t *testing.T) {
	builders := map[string]func(t *testing.T) Die{
		"product":    func(t *testing.T) Die { return must(Product(seq(t, 4), seq(t, 3)))(t) },
		"median":     func(t *testing.T) Die { return must(Median(seq(t, 4), seq(t, 6), seq(t, 2)))(t) },
		"variance":   func(t *testing.T) Die { return must(Variance(seq(t, 6), seq(t, 6)))(t) },
		"gcd":        func(t *testing.T) Die { return must(GCD(seq(t, 6), seq(t, 4)))(t) },
		"lcm":        func(t *testing.T) Die { return must(LCM(seq(t, 6), seq(t, 4)))(t) },
		"concat":     func(t *testing.T) Die { return must(Concat(seq(t, 9), seq(t, 12)))(t) },
		"mean":       func(t *testing.T) Die { return must(Mean(seq(t, 5), seq(t, 8)))(t) },
		"advantage":  func(t *testing.T) Die { return must(Advantage(seq(t, 20), seq(t, 20)))(t) },
		"range":      func(t *testing.T) Die { return must(Range(seq(t, 8), seq(t, 3)))(t) },
		"multi":      func(t *testing.T) Die { return must(Multi(seq(t, 2), seq(t, 3), seq(t, 4)))(t) },
		"positional": func(t *testing.T) Die { return must(Positional(seq(t, 3), seq(t, 5)))(t) },
		"concat low bound first": func(t *testing.T) Die {
			return must(Concat(seq(t, 1), seq(t, 9)))(t)
		},
		"concat shared prefix": func(t *testing.T) Die {
			return must(Concat(seq(t, 91), seq(t, 9)))(t)
		},
		"variance wide":   func(t *testing.T) Die { return must(Variance(seq(t, 1), seq(t, 20)))(t) },
		"variance odd":    func(t *testing.T) Die { return must(Variance(seq(t, 1), seq(t, 20), seq(t, 20)))(t) },
		"stddev wide":     func(t *testing.T) Die { return must(StdDev(seq(t, 1), seq(t, 20)))(t) },
		"stddev mismatch": func(t *testing.T) Die { return must(StdDev(seq(t, 6), seq(t, 8), seq(t, 10)))(t) },
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			d := build(t)
			got, _ := enumerate(t, d).Max()
			if got > d.Bound() {
				t.Fatalf("max enumerated %d exceeds bound %d", got, d.Bound())
			}
		})
	}
}

func TestNaryBounds(t *testing.T) {
	tests := []struct {
		name string
		die  func(t *testing.T) Die
		want int
		max  int
	}{
		{"concat", func(t *testing.T) Die { return must(Concat(seq(t, 1), seq(t, 9)))(t) }, 91, 91},
		{"variance", func(t *testing.T) Die { return must(Variance(seq(t, 1), seq(t, 20)))(t) }, 100, 90},
		{"stddev", func(t *testing.T) Die { return must(StdDev(seq(t, 1), seq(t, 20)))(t) }, 10, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.die(t)
			if d.Bound() != tt.want {
				t.Fatalf("Bound() = %d, want %d", d.Bound(), tt.want)
			}
			if got, _ := enumerate(t, d).Max(); got != tt.max {
				t.Fatalf("max enumerated = %d, want %d", got, tt.max)
			}
		})
	}
}

func TestMultiIsLittleEndian(t *testing.T) {
	d := must(Multi(seq(t, 2), seq(t, 3)))(t)
	assertValues(t, d, 1, 3, 5, 2, 4, 6)

	values := enumerate(t, d).Values()
	sort.Ints(values)
	for i, v := range values {
		if v != i+1 {
			t.Fatalf("sorted values = %v, want 1..6", values)
		}
	}
	if d.Bound() != 6 {
		t.Fatalf("Bound() = %d, want 6", d.Bound())
	}
}

func TestWeightedMean(t *testing.T) {
	d := must(WeightedMean(constants(2, 4), constants(1, 3)))(t)
	assertValues(t, d, 3)

	zero := must(WeightedMean(constants(2), constants(0)))(t)
	if _, err := zero.Enumerate(); !errors.Is(err, ErrDrawDomain) {
		t.Fatalf("Enumerate() with zero weight error = %v, want ErrDrawDomain", err)
	}
	if _, err := WeightedMean(constants(1, 2), constants(1)); !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("mismatched WeightedMean error = %v, want ErrInvalidDie", err)
	}
}

func TestSelect(t *testing.T) {
	d := must(Select(seq(t, 2), Constant(10), Constant(20)))(t)
	dist := distribution(t, d)
	assertProbability(t, dist, 10, 1, 2)
	assertProbability(t, dist, 20, 1, 2)
	if d.Bound() != 20 {
		t.Fatalf("Bound() = %d, want 20", d.Bound())
	}

	if _, err := Select(seq(t, 3), Constant(1)); !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("Select with too few options error = %v, want ErrInvalidDie", err)
	}
	if _, err := Select(Constant(0)); !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("Select without options error = %v, want ErrInvalidDie", err)
	}

	bad := must(Select(must(NewLeaf(0, 1))(t), Constant(5)))(t)
	if _, err := bad.Enumerate(); !errors.Is(err, ErrDrawDomain) {
		t.Fatalf("Enumerate() with index 0 error = %v, want ErrDrawDomain", err)
	}
}

func TestNaryErrors(t *testing.T) {
	if _, err := Sum(); !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("Sum() error = %v, want ErrInvalidDie", err)
	}
	if _, err := Sum(seq(t, 6), nil); !errors.Is(err, ErrInvalidDie) {
		t.Fatalf("Sum(d6, nil) error = %v, want ErrInvalidDie", err)
	}
	concat := must(Concat(Constant(-1), Constant(2)))(t)
	if _, err := concat.Enumerate(); !errors.Is(err, ErrDrawDomain) {
		t.Fatalf("Concat of negative error = %v, want ErrDrawDomain", err)
	}
}

func TestNaryEnumerationLimit(t *testing.T) {
	children := make([]Die, 7)
	for i := range children {
		children[i] = seq(t, 10)
	}
	d := must(Sum(children...))(t)
	if _, err := d.Enumerate(); err == nil {
		t.Fatal("Enumerate() of 10^7 outcomes succeeded, want a size error")
	}
}
