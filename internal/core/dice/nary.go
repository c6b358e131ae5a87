package dice

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// Nary draws every child once and reduces the list of values.
//
// Enumeration is the full Cartesian product of the children's enumerations,
// so its cost is the product of their sizes; it fails with
// outcome.ErrTooManyOutcomes past MaxOutcomes.
type Nary struct {
	name     string
	children []Die
	fn       func(values []int) (int, error)
	bound    int
}

func newNary(name string, children []Die, bound func(bounds []int) (int, error), fn func(values []int) (int, error)) (*Nary, error) {
	if len(children) == 0 {
		return nil, invalid(name, "children", "at least one die is required")
	}
	bounds := make([]int, len(children))
	for i, child := range children {
		if err := requireChild(name, "children", child); err != nil {
			return nil, err
		}
		bounds[i] = child.Bound()
	}
	b, err := bound(bounds)
	if err != nil {
		return nil, err
	}
	return &Nary{name: name, children: append([]Die(nil), children...), fn: fn, bound: b}, nil
}

// Name returns the reducer name, for example "sum".
func (d *Nary) Name() string { return d.name }

func (d *Nary) Sample(rng *rand.Rand) (int, error) {
	values := make([]int, len(d.children))
	for i, child := range d.children {
		v, err := child.Sample(rng)
		if err != nil {
			return 0, err
		}
		values[i] = v
	}
	return d.fn(values)
}

func (d *Nary) Enumerate() (outcome.Outcomes, error) {
	lists := make([]outcome.Outcomes, len(d.children))
	for i, child := range d.children {
		outs, err := child.Enumerate()
		if err != nil {
			return nil, err
		}
		lists[i] = outs
	}
	outs, err := outcome.Product(lists, MaxOutcomes, d.fn)
	if err != nil {
		return nil, annotate(d.name, err)
	}
	return outs, nil
}

func (d *Nary) Bound() int { return d.bound }
func (d *Nary) Kind() Kind { return KindNary }
func (d *Nary) sealed()    {}

func sumInts(node string, values []int) (int, error) {
	total := 0
	for _, v := range values {
		next, ok := addInt(total, v)
		if !ok {
			return 0, outOfDomain(node, "term", v)
		}
		total = next
	}
	return total, nil
}

func productInts(node string, values []int) (int, error) {
	total := 1
	for _, v := range values {
		next, ok := mulInt(total, v)
		if !ok {
			return 0, outOfDomain(node, "factor", v)
		}
		total = next
	}
	return total, nil
}

func boundInvalid(node string) func(int, error) (int, error) {
	return func(v int, err error) (int, error) {
		if err != nil {
			return 0, invalid(node, "bound", "bound overflows")
		}
		return v, nil
	}
}

func boundOf(f func([]int) int) func([]int) (int, error) {
	return func(bounds []int) (int, error) { return f(bounds), nil }
}

// Sum adds every draw.
func Sum(children ...Die) (*Nary, error) {
	return newNary("sum", children,
		func(bounds []int) (int, error) { return boundInvalid("sum")(sumInts("sum", bounds)) },
		func(values []int) (int, error) { return sumInts("sum", values) })
}

// Product multiplies every draw.
func Product(children ...Die) (*Nary, error) {
	return newNary("product", children,
		func(bounds []int) (int, error) { return boundInvalid("product")(productInts("product", bounds)) },
		func(values []int) (int, error) { return productInts("product", values) })
}

// Advantage keeps the highest draw.
func Advantage(children ...Die) (*Nary, error) {
	return newNary("advantage", children, boundOf(maxOf),
		func(values []int) (int, error) { return maxOf(values), nil })
}

// Disadvantage keeps the lowest draw.
func Disadvantage(children ...Die) (*Nary, error) {
	return newNary("disadvantage", children, boundOf(minOf),
		func(values []int) (int, error) { return minOf(values), nil })
}

func one([]int) (int, error) { return 1, nil }

// And yields 1 when every draw is non-zero.
func And(children ...Die) (*Nary, error) {
	return newNary("and", children, one, func(values []int) (int, error) {
		for _, v := range values {
			if v == 0 {
				return 0, nil
			}
		}
		return 1, nil
	})
}

// Or yields 1 when any draw is non-zero.
func Or(children ...Die) (*Nary, error) {
	return newNary("or", children, one, func(values []int) (int, error) {
		for _, v := range values {
			if v != 0 {
				return 1, nil
			}
		}
		return 0, nil
	})
}

// Parity yields 1 when the sum of the draws is odd.
func Parity(children ...Die) (*Nary, error) {
	return newNary("parity", children, one, func(values []int) (int, error) {
		odd := 0
		for _, v := range values {
			odd ^= v & 1
		}
		return odd, nil
	})
}

// Mean yields the floor of the arithmetic mean.
func Mean(children ...Die) (*Nary, error) {
	return newNary("mean", children,
		func(bounds []int) (int, error) {
			s, err := boundInvalid("mean")(sumInts("mean", bounds))
			if err != nil {
				return 0, err
			}
			return floorDiv(s, len(bounds)), nil
		},
		func(values []int) (int, error) {
			s, err := sumInts("mean", values)
			if err != nil {
				return 0, err
			}
			return floorDiv(s, len(values)), nil
		})
}

func sorted(values []int) []int {
	s := append([]int(nil), values...)
	sort.Ints(s)
	return s
}

// Median yields the middle draw, or the floor of the two middle draws' mean.
func Median(children ...Die) (*Nary, error) {
	return newNary("median", children,
		boundOf(func(bounds []int) int { return sorted(bounds)[len(bounds)/2] }),
		func(values []int) (int, error) {
			s := sorted(values)
			mid := len(s) / 2
			if len(s)%2 == 1 {
				return s[mid], nil
			}
			return floorDiv(s[mid-1]+s[mid], 2), nil
		})
}

// Mode yields the most frequent draw; ties go to the value that appears first.
func Mode(children ...Die) (*Nary, error) {
	return newNary("mode", children, boundOf(maxOf), func(values []int) (int, error) {
		counts := make(map[int]int, len(values))
		best, bestCount := values[0], 0
		for _, v := range values {
			counts[v]++
		}
		for _, v := range values {
			if counts[v] > bestCount {
				best, bestCount = v, counts[v]
			}
		}
		return best, nil
	})
}

// variance returns the truncated population variance. n·Σx² − (Σx)² over n²
// is computed exactly in integers.
func variance(node string, values []int) (int, error) {
	n := len(values)
	s, err := sumInts(node, values)
	if err != nil {
		return 0, err
	}
	sq := 0
	for _, v := range values {
		vv, ok := mulInt(v, v)
		if !ok {
			return 0, outOfDomain(node, "value", v)
		}
		if sq, ok = addInt(sq, vv); !ok {
			return 0, outOfDomain(node, "value", v)
		}
	}
	num, ok1 := mulInt(n, sq)
	ss, ok2 := mulInt(s, s)
	if !ok1 || !ok2 {
		return 0, outOfDomain(node, "sum", s)
	}
	return (num - ss) / (n * n), nil
}

// varianceBound is ⌊U²/4⌋ for the largest child bound U, the widest
// population variance of draws in 0..U.
func varianceBound(node string) func([]int) (int, error) {
	return func(bounds []int) (int, error) {
		u := max(maxOf(bounds), 0)
		sq, ok := mulInt(u, u)
		if !ok {
			return 0, invalid(node, "bound", "bound overflows")
		}
		return sq / 4, nil
	}
}

// Variance yields the population variance, truncated.
func Variance(children ...Die) (*Nary, error) {
	return newNary("variance", children, varianceBound("variance"), func(values []int) (int, error) {
		return variance("variance", values)
	})
}

// StdDev yields the floor of the square root of the truncated variance.
func StdDev(children ...Die) (*Nary, error) {
	bound := func(bounds []int) (int, error) {
		v, err := varianceBound("stddev")(bounds)
		if err != nil {
			return 0, err
		}
		return isqrt(v), nil
	}
	return newNary("stddev", children, bound, func(values []int) (int, error) {
		v, err := variance("stddev", values)
		if err != nil {
			return 0, err
		}
		return isqrt(v), nil
	})
}

// Range yields the highest draw minus the lowest.
func Range(children ...Die) (*Nary, error) {
	return newNary("range", children, boundOf(maxOf), func(values []int) (int, error) {
		return maxOf(values) - minOf(values), nil
	})
}

// GCD yields the greatest common divisor of the draws.
func GCD(children ...Die) (*Nary, error) {
	return newNary("gcd", children, boundOf(minOf), func(values []int) (int, error) {
		g := 0
		for _, v := range values {
			g = gcdInt(g, v)
		}
		return g, nil
	})
}

// LCM yields the least common multiple of the draws, 0 if any draw is 0.
func LCM(children ...Die) (*Nary, error) {
	return newNary("lcm", children,
		func(bounds []int) (int, error) { return boundInvalid("lcm")(productInts("lcm", bounds)) },
		func(values []int) (int, error) {
			l := 1
			for _, v := range values {
				if v == 0 {
					return 0, nil
				}
				if v < 0 {
					v = -v
				}
				next, ok := mulInt(l/gcdInt(l, v), v)
				if !ok {
					return 0, outOfDomain("lcm", "value", v)
				}
				l = next
			}
			return l, nil
		})
}

func concat(node string, values []int) (int, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		if v < 0 {
			return 0, outOfDomain(node, "digit", v)
		}
		parts[i] = strconv.Itoa(v)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(parts)))
	n, err := strconv.Atoi(strings.Join(parts, ""))
	if err != nil {
		return 0, outOfDomain(node, "digit", values[0])
	}
	return n, nil
}

// Concat sorts the draws' decimal strings in descending order and reads
// their concatenation as a number. Its bound is the largest number any
// arrangement of the child bounds spells, which no draw order can beat.
func Concat(children ...Die) (*Nary, error) {
	return newNary("concat", children,
		func(bounds []int) (int, error) {
			parts := make([]string, len(bounds))
			for i, b := range bounds {
				parts[i] = strconv.Itoa(max(b, 0))
			}
			sort.Slice(parts, func(i, j int) bool { return parts[i]+parts[j] > parts[j]+parts[i] })
			n, err := strconv.Atoi(strings.Join(parts, ""))
			if err != nil {
				return 0, invalid("concat", "bound", "bound overflows")
			}
			return n, nil
		},
		func(values []int) (int, error) { return concat("concat", values) })
}

// Multi composes k dice positionally, the first die being the least
// significant digit. It generalizes Positional.
func Multi(children ...Die) (*Nary, error) {
	radices := make([]int, len(children))
	d, err := newNary("multi", children,
		func(bounds []int) (int, error) {
			for i, b := range bounds {
				if b < 1 {
					return 0, invalid("multi", "bound", "bounds must be positive, got %d", b)
				}
				radices[i] = b
			}
			return boundInvalid("multi")(productInts("multi", bounds))
		},
		nil)
	if err != nil {
		return nil, err
	}
	d.fn = func(values []int) (int, error) {
		result, place := 0, 1
		for i, v := range values {
			result += (v - 1) * place
			place *= radices[i]
		}
		return result + 1, nil
	}
	return d, nil
}

// WeightedMean pairs each value die with a weight die and yields
// ⌊Σ v·w / Σ w⌋. A zero total weight fails the draw.
func WeightedMean(values, weights []Die) (*Nary, error) {
	if len(values) != len(weights) {
		return nil, invalid("weighted-mean", "weights", "%d values but %d weights", len(values), len(weights))
	}
	k := len(values)
	children := append(append([]Die(nil), values...), weights...)
	return newNary("weighted-mean", children,
		func(bounds []int) (int, error) {
			best := 0
			for i := 0; i < k; i++ {
				p, ok := mulInt(bounds[i], bounds[k+i])
				if !ok {
					return 0, invalid("weighted-mean", "bound", "bound overflows")
				}
				if i == 0 || p > best {
					best = p
				}
			}
			return best, nil
		},
		func(drawn []int) (int, error) {
			num := 0
			for i := 0; i < k; i++ {
				p, ok := mulInt(drawn[i], drawn[k+i])
				if !ok {
					return 0, outOfDomain("weighted-mean", "value", drawn[i])
				}
				if num, ok = addInt(num, p); !ok {
					return 0, outOfDomain("weighted-mean", "value", drawn[i])
				}
			}
			total, err := sumInts("weighted-mean", drawn[k:])
			if err != nil {
				return 0, err
			}
			if total == 0 {
				return 0, outOfDomain("weighted-mean", "total weight", total)
			}
			return floorDiv(num, total), nil
		})
}

// Select draws every die; the first draw picks which of the options to yield.
// Unlike Routing, every option is drawn. len(options) must equal the index
// die's bound.
func Select(index Die, options ...Die) (*Nary, error) {
	if err := requireChild("select", "index", index); err != nil {
		return nil, err
	}
	if len(options) == 0 || len(options) != index.Bound() {
		return nil, invalid("select", "options", "%d options for an index die bounded by %d", len(options), index.Bound())
	}
	return newNary("select", append([]Die{index}, options...),
		func(bounds []int) (int, error) { return maxOf(bounds[1:]), nil },
		func(values []int) (int, error) {
			i := values[0]
			if i < 1 || i >= len(values) {
				return 0, outOfDomain("select", "index", i)
			}
			return values[i], nil
		})
}
