package outcome

import (
	"math/big"
	"sort"
)

// Mass is the total weight carried by one value.
type Mass struct {
	Value  int
	Weight uint64
}

// Distribution is the exact probability mass function of an enumeration.
type Distribution struct {
	masses []Mass
	total  uint64
}

// Tally accumulates outcome masses by value without keeping the outcomes.
type Tally struct {
	byValue map[int]uint64
	total   uint64
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{byValue: map[int]uint64{}}
}

// Add folds outs into the tally.
func (t *Tally) Add(outs Outcomes) error {
	for _, out := range outs {
		next, err := AddWeight(t.byValue[out.Value], out.Weight)
		if err != nil {
			return err
		}
		total, err := AddWeight(t.total, out.Weight)
		if err != nil {
			return err
		}
		t.byValue[out.Value] = next
		t.total = total
	}
	return nil
}

// Distribution returns the distribution of everything added so far.
func (t *Tally) Distribution() *Distribution {
	masses := make([]Mass, 0, len(t.byValue))
	for value, weight := range t.byValue {
		masses = append(masses, Mass{Value: value, Weight: weight})
	}
	sort.Slice(masses, func(i, j int) bool { return masses[i].Value < masses[j].Value })
	return &Distribution{masses: masses, total: t.total}
}

// NewDistribution groups outcomes by value, sorted ascending.
func NewDistribution(outs Outcomes) (*Distribution, error) {
	t := NewTally()
	if err := t.Add(outs); err != nil {
		return nil, err
	}
	return t.Distribution(), nil
}

// Total returns the summed weight of every outcome.
func (d *Distribution) Total() uint64 {
	return d.total
}

// Masses returns a copy of the grouped masses, sorted by value.
func (d *Distribution) Masses() []Mass {
	return append([]Mass(nil), d.masses...)
}

// Support returns the distinct values, sorted ascending.
func (d *Distribution) Support() []int {
	support := make([]int, len(d.masses))
	for i, m := range d.masses {
		support[i] = m.Value
	}
	return support
}

// Probability returns the exact probability of value.
func (d *Distribution) Probability(value int) *big.Rat {
	for _, m := range d.masses {
		if m.Value == value {
			return d.ratio(m.Weight)
		}
	}
	return new(big.Rat)
}

// AtLeast returns the exact probability of drawing value or more.
func (d *Distribution) AtLeast(value int) *big.Rat {
	var weight big.Int
	for _, m := range d.masses {
		if m.Value >= value {
			weight.Add(&weight, new(big.Int).SetUint64(m.Weight))
		}
	}
	if d.total == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(&weight, new(big.Int).SetUint64(d.total))
}

// Mean returns the exact expected value.
func (d *Distribution) Mean() *big.Rat {
	if d.total == 0 {
		return new(big.Rat)
	}
	var sum big.Int
	for _, m := range d.masses {
		term := new(big.Int).SetUint64(m.Weight)
		term.Mul(term, big.NewInt(int64(m.Value)))
		sum.Add(&sum, term)
	}
	return new(big.Rat).SetFrac(&sum, new(big.Int).SetUint64(d.total))
}

// IsUniform reports whether every value in the support carries the same mass.
func (d *Distribution) IsUniform() bool {
	if len(d.masses) == 0 {
		return false
	}
	for _, m := range d.masses[1:] {
		if m.Weight != d.masses[0].Weight {
			return false
		}
	}
	return true
}

func (d *Distribution) ratio(weight uint64) *big.Rat {
	if d.total == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(new(big.Int).SetUint64(weight), new(big.Int).SetUint64(d.total))
}
