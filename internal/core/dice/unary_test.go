package dice

import (
	"errors"
	"math/rand"
	"testing"

	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
)

func TestUnaryTransforms(t *testing.T) {
	tests := []struct {
		name      string
		build     func(t *testing.T) Die
		want      []int
		wantBound int
	}{
		{"mod folds a d6 onto 1..4", func(t *testing.T) Die { return must(Mod(seq(t, 6), 4))(t) }, []int{2, 3, 4, 1, 2, 3}, 4},
		{"offset", func(t *testing.T) Die { return must(Offset(seq(t, 3), 2))(t) }, []int{3, 4, 5}, 5},
		{"floor", func(t *testing.T) Die { return must(Floor(seq(t, 4), 3))(t) }, []int{3, 3, 3, 4}, 4},
		{"ceil", func(t *testing.T) Die { return must(Ceil(seq(t, 4), 2))(t) }, []int{1, 2, 2, 2}, 2},
		{"clamp", func(t *testing.T) Die { return must(Clamp(seq(t, 5), 2, 4))(t) }, []int{2, 2, 3, 4, 4}, 4},
		{"scale", func(t *testing.T) Die { return must(Scale(seq(t, 3), 3))(t) }, []int{3, 6, 9}, 9},
		{"factorial", func(t *testing.T) Die { return must(Factorial(seq(t, 4)))(t) }, []int{1, 2, 6, 24}, 24},
		{"power", func(t *testing.T) Die { return must(Power(seq(t, 3), 2))(t) }, []int{1, 4, 9}, 9},
		{"sqrt", func(t *testing.T) Die { return must(Sqrt(must(NewLeaf(0, 3, 4, 15, 16))(t)))(t) }, []int{0, 1, 2, 3, 4}, 4},
		{"log", func(t *testing.T) Die { return must(Log(seq(t, 8), 2))(t) }, []int{0, 1, 1, 2, 2, 2, 2, 3}, 3},
		{"exp", func(t *testing.T) Die { return must(Exp(seq(t, 2), 1))(t) }, []int{2, 7}, 7},
		{"abs of neg", func(t *testing.T) Die { return must(Abs(must(Neg(seq(t, 3)))(t)))(t) }, []int{1, 2, 3}, 3},
		{"div", func(t *testing.T) Die { return must(Div(seq(t, 6), 4))(t) }, []int{0, 0, 0, 1, 1, 1}, 1},
		{"prime", func(t *testing.T) Die { return must(Prime(seq(t, 6)))(t) }, []int{2, 3, 5, 7, 11, 13}, 13},
		{"not", func(t *testing.T) Die { return must(Not(must(NewLeaf(0, 1, 2))(t)))(t) }, []int{1, 0, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.build(t)
			assertValues(t, d, tt.want...)
			if d.Bound() != tt.wantBound {
				t.Fatalf("Bound() = %d, want %d", d.Bound(), tt.wantBound)
			}
			if d.Kind() != KindUnary {
				t.Fatalf("Kind() = %s, want unary", d.Kind())
			}
		})
	}
}

func TestUnaryConstructionErrors(t *testing.T) {
	d6 := seq(t, 6)
	tests := []struct {
		name string
		err  error
	}{
		{"mod by zero", second(Mod(d6, 0))},
		{"clamp inverted", second(Clamp(d6, 5, 2))},
		{"factorial bound", second(Factorial(seq(t, 21)))},
		{"negative power", second(Power(d6, -1))},
		{"log base one", second(Log(d6, 1))},
		{"div by zero", second(Div(d6, 0))},
		{"prime bound", second(Prime(seq(t, maxPrimeIndex+1)))},
		{"nil child", second(Sqrt(nil))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, ErrInvalidDie) {
				t.Fatalf("error = %v, want ErrInvalidDie", tt.err)
			}
		})
	}
}

func second[T any](_ T, err error) error { return err }

func TestUnaryDrawDomainErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func(t *testing.T) Die
		node    string
		operand string
		value   string
	}{
		{"log of zero", func(t *testing.T) Die { return must(Log(must(NewLeaf(0, 8))(t), 2))(t) }, "log", "argument", "0"},
		{"sqrt of negative", func(t *testing.T) Die { return must(Sqrt(must(NewLeaf(-4, 4))(t)))(t) }, "sqrt", "radicand", "-4"},
		{"factorial of negative", func(t *testing.T) Die { return must(Factorial(must(NewLeaf(-1, 3))(t)))(t) }, "factorial", "argument", "-1"},
		{"prime of zero", func(t *testing.T) Die { return must(Prime(must(NewLeaf(0, 3))(t)))(t) }, "prime", "index", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(t).Enumerate()
			if !errors.Is(err, ErrDrawDomain) {
				t.Fatalf("Enumerate() error = %v, want ErrDrawDomain", err)
			}
			meta := metadata(t, err)
			if meta[apperrors.MetaNode] != tt.node || meta[apperrors.MetaOperand] != tt.operand || meta[apperrors.MetaValue] != tt.value {
				t.Fatalf("metadata = %v, want node %s operand %s value %s", meta, tt.node, tt.operand, tt.value)
			}
		})
	}
}

func TestUnarySampleSurfacesDomainError(t *testing.T) {
	d := must(Log(Constant(0), 10))(t)
	if _, err := d.Sample(rand.New(rand.NewSource(1))); !errors.Is(err, ErrDrawDomain) {
		t.Fatalf("Sample() error = %v, want ErrDrawDomain", err)
	}
}
