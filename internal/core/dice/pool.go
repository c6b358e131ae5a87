package dice

import (
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// Pool is a leaf whose multiset changes as it is drawn from.
//
// A remove pool deletes every drawn value; drawing from an empty remove pool
// fails with ErrExhausted. An append pool adds every drawn value back, making
// it more likely on later draws. Enumeration is a snapshot of the current
// pool, not of the pool the die was built with.
type Pool struct {
	node     string
	original []int
	values   []int
	grow     bool
	bound    int
}

// NewRemovePool returns a pool that removes each drawn value.
func NewRemovePool(values ...int) (*Pool, error) {
	return newPool("remove-pool", false, values)
}

// NewAppendPool returns a pool that appends each drawn value again.
func NewAppendPool(values ...int) (*Pool, error) {
	return newPool("append-pool", true, values)
}

func newPool(node string, grow bool, values []int) (*Pool, error) {
	if len(values) == 0 {
		return nil, invalid(node, "values", "at least one value is required")
	}
	p := &Pool{
		node:     node,
		original: append([]int(nil), values...),
		grow:     grow,
		bound:    maxOf(values),
	}
	p.Reset()
	return p, nil
}

func (p *Pool) Sample(rng *rand.Rand) (int, error) {
	if len(p.values) == 0 {
		return 0, exhausted(p.node)
	}
	i := rng.Intn(len(p.values))
	v := p.values[i]
	if p.grow {
		p.values = append(p.values, v)
	} else {
		p.values = append(p.values[:i], p.values[i+1:]...)
	}
	return v, nil
}

func (p *Pool) Enumerate() (outcome.Outcomes, error) {
	if len(p.values) == 0 {
		return nil, exhausted(p.node)
	}
	return units(p.values), nil
}

// Reset restores the multiset the pool was built with, in its original order.
func (p *Pool) Reset() {
	p.values = append(make([]int, 0, len(p.original)), p.original...)
}

// Len returns the number of values currently in the pool.
func (p *Pool) Len() int { return len(p.values) }

func (p *Pool) Bound() int { return p.bound }
func (p *Pool) Kind() Kind { return KindLeaf }
func (p *Pool) sealed()    {}
