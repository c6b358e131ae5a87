package dice

import (
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// Leaf draws uniformly among the positions of a fixed value list, so
// duplicated values are proportionally more likely.
type Leaf struct {
	values []int
	bound  int
}

// NewLeaf returns a leaf over values. The list must not be empty.
func NewLeaf(values ...int) (*Leaf, error) {
	if len(values) == 0 {
		return nil, invalid("leaf", "values", "at least one value is required")
	}
	return &Leaf{values: append([]int(nil), values...), bound: maxOf(values)}, nil
}

// Sequential returns the fair die 1..n.
func Sequential(n int) (*Leaf, error) {
	if n < 1 {
		return nil, invalid("leaf", "sides", "sides must be positive, got %d", n)
	}
	if n > MaxOutcomes {
		return nil, invalid("leaf", "sides", "sides must not exceed %d, got %d", MaxOutcomes, n)
	}
	values := make([]int, n)
	for i := range values {
		values[i] = i + 1
	}
	return &Leaf{values: values, bound: n}, nil
}

// Constant returns a leaf that always yields v.
func Constant(v int) *Leaf {
	return &Leaf{values: []int{v}, bound: v}
}

// Values returns a copy of the listed values.
func (l *Leaf) Values() []int { return append([]int(nil), l.values...) }

func (l *Leaf) Sample(rng *rand.Rand) (int, error) {
	return l.values[rng.Intn(len(l.values))], nil
}

func (l *Leaf) Enumerate() (outcome.Outcomes, error) {
	return units(l.values), nil
}

func (l *Leaf) Bound() int { return l.bound }
func (l *Leaf) Kind() Kind { return KindLeaf }
func (l *Leaf) sealed()    {}

func units(values []int) outcome.Outcomes {
	outs := make(outcome.Outcomes, len(values))
	for i, v := range values {
		outs[i] = outcome.Unit(v)
	}
	return outs
}

func maxOf(values []int) int {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func minOf(values []int) int {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
