package dice

import (
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// Binary draws two independent children once each and reduces the pair.
// Enumeration is the Cartesian product of both enumerations, A varying
// slowest, with roll paths concatenated A then B.
type Binary struct {
	name  string
	a, b  Die
	fn    func(x, y int) (int, error)
	bound int
}

func newBinary(name string, a, b Die, bound func(ba, bb int) (int, error), fn func(x, y int) (int, error)) (*Binary, error) {
	if err := requireChild(name, "first", a); err != nil {
		return nil, err
	}
	if err := requireChild(name, "second", b); err != nil {
		return nil, err
	}
	bd, err := bound(a.Bound(), b.Bound())
	if err != nil {
		return nil, err
	}
	return &Binary{name: name, a: a, b: b, fn: fn, bound: bd}, nil
}

// Name returns the reducer name, for example "positional".
func (d *Binary) Name() string { return d.name }

func (d *Binary) Sample(rng *rand.Rand) (int, error) {
	x, err := d.a.Sample(rng)
	if err != nil {
		return 0, err
	}
	y, err := d.b.Sample(rng)
	if err != nil {
		return 0, err
	}
	return d.fn(x, y)
}

func (d *Binary) Enumerate() (outcome.Outcomes, error) {
	ea, err := d.a.Enumerate()
	if err != nil {
		return nil, err
	}
	eb, err := d.b.Enumerate()
	if err != nil {
		return nil, err
	}
	outs, err := outcome.Product([]outcome.Outcomes{ea, eb}, MaxOutcomes, func(values []int) (int, error) {
		return d.fn(values[0], values[1])
	})
	if err != nil {
		return nil, annotate(d.name, err)
	}
	return outs, nil
}

func (d *Binary) Bound() int { return d.bound }
func (d *Binary) Kind() Kind { return KindBinary }
func (d *Binary) sealed()    {}

// Positional composes two dice like the digits of a number:
// (a−1)·bound(b) + b. For fair dice on 1..bound it is a bijection onto
// 1..bound(a)·bound(b), which is how a fair d24 is built from a d6 and a d4.
func Positional(a, b Die) (*Binary, error) {
	var radix int
	d, err := newBinary("positional", a, b,
		func(ba, bb int) (int, error) {
			if ba < 1 || bb < 1 {
				return 0, invalid("positional", "bound", "both bounds must be positive, got %d and %d", ba, bb)
			}
			p, ok := mulInt(ba, bb)
			if !ok {
				return 0, invalid("positional", "bound", "bound %d * %d overflows", ba, bb)
			}
			radix = bb
			return p, nil
		},
		nil)
	if err != nil {
		return nil, err
	}
	d.fn = func(x, y int) (int, error) {
		return (x-1)*radix + y, nil
	}
	return d, nil
}

// Exponent raises the first draw to the power of the second.
func Exponent(a, b Die) (*Binary, error) {
	return newBinary("exponent", a, b,
		func(ba, bb int) (int, error) {
			if bb < 0 {
				return 0, invalid("exponent", "exponent", "exponent bound must not be negative, got %d", bb)
			}
			r, ok := powInt(ba, bb)
			if !ok {
				return 0, invalid("exponent", "bound", "bound %d^%d overflows", ba, bb)
			}
			return r, nil
		},
		func(x, y int) (int, error) {
			if y < 0 {
				return 0, outOfDomain("exponent", "exponent", y)
			}
			r, ok := powInt(x, y)
			if !ok {
				return 0, outOfDomain("exponent", "base", x)
			}
			return r, nil
		})
}

// Modulo takes the floor modulo of the first draw by the second.
func Modulo(a, b Die) (*Binary, error) {
	return newBinary("modulo", a, b,
		func(ba, _ int) (int, error) { return ba, nil },
		func(x, y int) (int, error) {
			if y == 0 {
				return 0, outOfDomain("modulo", "divisor", y)
			}
			return floorMod(x, y), nil
		})
}

// FloorDiv divides the first draw by the second, rounding down.
func FloorDiv(a, b Die) (*Binary, error) {
	return newBinary("floor-div", a, b,
		func(ba, _ int) (int, error) { return ba, nil },
		func(x, y int) (int, error) {
			if y == 0 {
				return 0, outOfDomain("floor-div", "divisor", y)
			}
			return floorDiv(x, y), nil
		})
}

func hypot(x, y int) (int, bool) {
	xx, ok := mulInt(x, x)
	if !ok {
		return 0, false
	}
	yy, ok := mulInt(y, y)
	if !ok {
		return 0, false
	}
	s, ok := addInt(xx, yy)
	if !ok {
		return 0, false
	}
	return isqrt(s), true
}

// Hypotenuse yields ⌊√(a²+b²)⌋.
func Hypotenuse(a, b Die) (*Binary, error) {
	return newBinary("hypotenuse", a, b,
		func(ba, bb int) (int, error) {
			r, ok := hypot(ba, bb)
			if !ok {
				return 0, invalid("hypotenuse", "bound", "bound overflows")
			}
			return r, nil
		},
		func(x, y int) (int, error) {
			r, ok := hypot(x, y)
			if !ok {
				return 0, outOfDomain("hypotenuse", "side", max(x, y))
			}
			return r, nil
		})
}

// Cathetus yields ⌊√(h²−k²)⌋ for hypotenuse h and known side k.
func Cathetus(h, k Die) (*Binary, error) {
	return newBinary("cathetus", h, k,
		func(bh, _ int) (int, error) { return bh, nil },
		func(x, y int) (int, error) {
			xx, ok := mulInt(x, x)
			if !ok {
				return 0, outOfDomain("cathetus", "hypotenuse", x)
			}
			yy, ok := mulInt(y, y)
			if !ok {
				return 0, outOfDomain("cathetus", "side", y)
			}
			if yy > xx {
				return 0, outOfDomain("cathetus", "radicand", xx-yy)
			}
			return isqrt(xx - yy), nil
		})
}

// Xor yields 1 when exactly one draw is non-zero.
func Xor(a, b Die) (*Binary, error) {
	return newBinary("xor", a, b,
		func(int, int) (int, error) { return 1, nil },
		func(x, y int) (int, error) {
			if (x != 0) != (y != 0) {
				return 1, nil
			}
			return 0, nil
		})
}
