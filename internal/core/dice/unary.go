package dice

import (
	"math"
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// Unary applies a pure function to the value of one child.
type Unary struct {
	name  string
	child Die
	fn    func(int) (int, error)
	bound int
}

func newUnary(name string, child Die, bound func(b int) (int, error), fn func(int) (int, error)) (*Unary, error) {
	if err := requireChild(name, "child", child); err != nil {
		return nil, err
	}
	b, err := bound(child.Bound())
	if err != nil {
		return nil, err
	}
	return &Unary{name: name, child: child, fn: fn, bound: b}, nil
}

// Name returns the transform name, for example "mod" or "sqrt".
func (u *Unary) Name() string { return u.name }

func (u *Unary) Sample(rng *rand.Rand) (int, error) {
	v, err := u.child.Sample(rng)
	if err != nil {
		return 0, err
	}
	return u.fn(v)
}

func (u *Unary) Enumerate() (outcome.Outcomes, error) {
	outs, err := u.child.Enumerate()
	if err != nil {
		return nil, err
	}
	return outs.Map(u.fn)
}

func (u *Unary) Bound() int { return u.bound }
func (u *Unary) Kind() Kind { return KindUnary }
func (u *Unary) sealed()    {}

func fixed(b int) func(int) (int, error) {
	return func(int) (int, error) { return b, nil }
}

func same(b int) (int, error) { return b, nil }

// Mod maps v to (v mod m) + 1 using floor modulo, folding any die onto 1..m.
func Mod(d Die, m int) (*Unary, error) {
	if m <= 0 {
		return nil, invalid("mod", "modulus", "modulus must be positive, got %d", m)
	}
	return newUnary("mod", d, fixed(m), func(v int) (int, error) {
		return floorMod(v, m) + 1, nil
	})
}

// Offset adds k.
func Offset(d Die, k int) (*Unary, error) {
	return newUnary("offset", d,
		func(b int) (int, error) {
			s, ok := addInt(b, k)
			if !ok {
				return 0, invalid("offset", "bound", "bound %d + %d overflows", b, k)
			}
			return s, nil
		},
		func(v int) (int, error) {
			s, ok := addInt(v, k)
			if !ok {
				return 0, outOfDomain("offset", "value", v)
			}
			return s, nil
		})
}

// Floor raises values below f to f.
func Floor(d Die, f int) (*Unary, error) {
	return newUnary("floor", d,
		func(b int) (int, error) { return max(b, f), nil },
		func(v int) (int, error) { return max(v, f), nil })
}

// Ceil lowers values above c to c.
func Ceil(d Die, c int) (*Unary, error) {
	return newUnary("ceil", d,
		func(b int) (int, error) { return min(b, c), nil },
		func(v int) (int, error) { return min(v, c), nil })
}

// Clamp limits values to [lo, hi].
func Clamp(d Die, lo, hi int) (*Unary, error) {
	if lo > hi {
		return nil, invalid("clamp", "limits", "lower limit %d exceeds upper limit %d", lo, hi)
	}
	clamp := func(v int) (int, error) { return max(lo, min(v, hi)), nil }
	return newUnary("clamp", d, clamp, clamp)
}

// Scale multiplies by k.
func Scale(d Die, k int) (*Unary, error) {
	return newUnary("scale", d,
		func(b int) (int, error) {
			p, ok := mulInt(b, k)
			if !ok {
				return 0, invalid("scale", "bound", "bound %d * %d overflows", b, k)
			}
			return p, nil
		},
		func(v int) (int, error) {
			p, ok := mulInt(v, k)
			if !ok {
				return 0, outOfDomain("scale", "value", v)
			}
			return p, nil
		})
}

// Factorial maps v to v!. Values outside 0..20 do not fit an int.
func Factorial(d Die) (*Unary, error) {
	return newUnary("factorial", d,
		func(b int) (int, error) {
			if b > maxFactorial {
				return 0, invalid("factorial", "bound", "bound %d! overflows", b)
			}
			return factorial(max(b, 0)), nil
		},
		func(v int) (int, error) {
			if v < 0 || v > maxFactorial {
				return 0, outOfDomain("factorial", "argument", v)
			}
			return factorial(v), nil
		})
}

// Power raises to the fixed exponent p.
func Power(d Die, p int) (*Unary, error) {
	if p < 0 {
		return nil, invalid("power", "exponent", "exponent must not be negative, got %d", p)
	}
	return newUnary("power", d,
		func(b int) (int, error) {
			r, ok := powInt(b, p)
			if !ok {
				return 0, invalid("power", "bound", "bound %d^%d overflows", b, p)
			}
			return r, nil
		},
		func(v int) (int, error) {
			r, ok := powInt(v, p)
			if !ok {
				return 0, outOfDomain("power", "base", v)
			}
			return r, nil
		})
}

// Sqrt maps v to ⌊√v⌋.
func Sqrt(d Die) (*Unary, error) {
	return newUnary("sqrt", d,
		func(b int) (int, error) { return isqrt(max(b, 0)), nil },
		func(v int) (int, error) {
			if v < 0 {
				return 0, outOfDomain("sqrt", "radicand", v)
			}
			return isqrt(v), nil
		})
}

// Log maps v to ⌊log_base v⌋.
func Log(d Die, base int) (*Unary, error) {
	if base < 2 {
		return nil, invalid("log", "base", "base must be at least 2, got %d", base)
	}
	return newUnary("log", d,
		func(b int) (int, error) {
			if b < 1 {
				return 0, nil
			}
			return ilog(b, base), nil
		},
		func(v int) (int, error) {
			if v <= 0 {
				return 0, outOfDomain("log", "argument", v)
			}
			return ilog(v, base), nil
		})
}

// Exp maps v to ⌊e^(v·k)⌋.
func Exp(d Die, k int) (*Unary, error) {
	exp := func(v int) (int, bool) {
		x, ok := mulInt(v, k)
		if !ok {
			return 0, false
		}
		r := math.Floor(math.Exp(float64(x)))
		if r >= math.MaxInt64/2 {
			return 0, false
		}
		return int(r), true
	}
	return newUnary("exp", d,
		func(b int) (int, error) {
			r, ok := exp(b)
			if !ok {
				return 0, invalid("exp", "bound", "e^(%d*%d) overflows", b, k)
			}
			return r, nil
		},
		func(v int) (int, error) {
			r, ok := exp(v)
			if !ok {
				return 0, outOfDomain("exp", "exponent", v)
			}
			return r, nil
		})
}

// Abs maps v to |v|.
func Abs(d Die) (*Unary, error) {
	return newUnary("abs", d, same, func(v int) (int, error) {
		if v < 0 {
			return -v, nil
		}
		return v, nil
	})
}

// Neg maps v to -v. The bound stays the child's.
func Neg(d Die) (*Unary, error) {
	return newUnary("neg", d, same, func(v int) (int, error) { return -v, nil })
}

// Div maps v to ⌊v/k⌋.
func Div(d Die, k int) (*Unary, error) {
	if k == 0 {
		return nil, invalid("div", "divisor", "divisor must not be zero")
	}
	return newUnary("div", d,
		func(b int) (int, error) { return floorDiv(b, k), nil },
		func(v int) (int, error) { return floorDiv(v, k), nil })
}

// Prime maps v to the v-th prime, 1-indexed.
func Prime(d Die) (*Unary, error) {
	return newUnary("prime", d,
		func(b int) (int, error) {
			if b > maxPrimeIndex {
				return 0, invalid("prime", "bound", "bound %d exceeds %d", b, maxPrimeIndex)
			}
			return nthPrime(max(b, 1)), nil
		},
		func(v int) (int, error) {
			if v < 1 || v > maxPrimeIndex {
				return 0, outOfDomain("prime", "index", v)
			}
			return nthPrime(v), nil
		})
}

// Not maps zero to 1 and everything else to 0.
func Not(d Die) (*Unary, error) {
	return newUnary("not", d, fixed(1), func(v int) (int, error) {
		if v == 0 {
			return 1, nil
		}
		return 0, nil
	})
}
