// Package outcome models the finite weighted outcome space that dice
// enumerate, and the exact distributions derived from it.
//
// # Weights
//
// Every Outcome carries an integer Weight. A leaf entry weighs 1; a product of
// independent enumerations multiplies weights. The probability of an outcome
// is its Weight divided by the total weight of the enumeration it belongs to,
// so mixed-depth enumerations (routing branches, loops) stay exact without
// floating point.
package outcome

import (
	"math/bits"

	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
)

// ErrWeightOverflow indicates that exact weights no longer fit in 64 bits.
var ErrWeightOverflow = apperrors.New(apperrors.CodeWeightOverflow, "outcome weight overflow")

// ErrTooManyOutcomes indicates that an enumeration would exceed its size limit.
var ErrTooManyOutcomes = apperrors.New(apperrors.CodeTooManyOutcomes, "too many outcomes")

// Outcome is one enumerated result: the raw leaf draws that produced it, the
// final value, and its integer weight.
type Outcome struct {
	Path   []int
	Value  int
	Weight uint64
}

// Outcomes is an ordered enumeration.
type Outcomes []Outcome

// Unit returns a unit-weight outcome whose path is the single raw draw v.
func Unit(v int) Outcome {
	return Outcome{Path: []int{v}, Value: v, Weight: 1}
}

// TotalWeight sums the weights of every outcome.
func (o Outcomes) TotalWeight() (uint64, error) {
	var total uint64
	for _, out := range o {
		next, err := AddWeight(total, out.Weight)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

// Values returns the value of every outcome in order.
func (o Outcomes) Values() []int {
	values := make([]int, len(o))
	for i, out := range o {
		values[i] = out.Value
	}
	return values
}

// Max returns the largest value. It reports false for an empty enumeration.
func (o Outcomes) Max() (int, bool) {
	if len(o) == 0 {
		return 0, false
	}
	max := o[0].Value
	for _, out := range o[1:] {
		if out.Value > max {
			max = out.Value
		}
	}
	return max, true
}

// Min returns the smallest value. It reports false for an empty enumeration.
func (o Outcomes) Min() (int, bool) {
	if len(o) == 0 {
		return 0, false
	}
	min := o[0].Value
	for _, out := range o[1:] {
		if out.Value < min {
			min = out.Value
		}
	}
	return min, true
}

// Map applies fn to every value, keeping paths and weights.
func (o Outcomes) Map(fn func(int) (int, error)) (Outcomes, error) {
	mapped := make(Outcomes, len(o))
	for i, out := range o {
		value, err := fn(out.Value)
		if err != nil {
			return nil, err
		}
		mapped[i] = Outcome{Path: out.Path, Value: value, Weight: out.Weight}
	}
	return mapped, nil
}

// Scale multiplies every weight by factor.
func (o Outcomes) Scale(factor uint64) (Outcomes, error) {
	scaled := make(Outcomes, len(o))
	for i, out := range o {
		weight, err := MulWeight(out.Weight, factor)
		if err != nil {
			return nil, err
		}
		scaled[i] = Outcome{Path: out.Path, Value: out.Value, Weight: weight}
	}
	return scaled, nil
}

// Prefix returns a copy of o with prefix prepended to every path.
func (o Outcomes) Prefix(prefix ...int) Outcomes {
	prefixed := make(Outcomes, len(o))
	for i, out := range o {
		prefixed[i] = Outcome{Path: Join(prefix, out.Path), Value: out.Value, Weight: out.Weight}
	}
	return prefixed
}

// Join concatenates roll paths into a fresh slice.
func Join(paths ...[]int) []int {
	size := 0
	for _, p := range paths {
		size += len(p)
	}
	joined := make([]int, 0, size)
	for _, p := range paths {
		joined = append(joined, p...)
	}
	return joined
}

// MulWeight multiplies two weights, failing on overflow.
func MulWeight(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrWeightOverflow
	}
	return lo, nil
}

// AddWeight adds two weights, failing on overflow.
func AddWeight(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrWeightOverflow
	}
	return sum, nil
}

// PowWeight raises base to exp, failing on overflow.
func PowWeight(base uint64, exp int) (uint64, error) {
	result := uint64(1)
	for i := 0; i < exp; i++ {
		next, err := MulWeight(result, base)
		if err != nil {
			return 0, err
		}
		result = next
	}
	return result, nil
}

// LCM returns the least common multiple of the given weights, failing on
// overflow. Zero weights are ignored; LCM of nothing is 1.
func LCM(weights ...uint64) (uint64, error) {
	result := uint64(1)
	for _, w := range weights {
		if w == 0 {
			continue
		}
		g := gcd(result, w)
		next, err := MulWeight(result/g, w)
		if err != nil {
			return 0, err
		}
		result = next
	}
	return result, nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
