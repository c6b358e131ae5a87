package dice

import (
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// Agreement draws two dice until they show the same value and yields it.
//
// Sampling is rejection sampling: both children are redrawn until they agree.
// Enumeration keeps only the agreeing pairs, which is the exact conditional
// distribution the sampler converges to.
type Agreement struct {
	a, b  Die
	bound int
}

// NewAgreement fails when the two children share no value, since sampling
// could then never stop.
func NewAgreement(a, b Die) (*Agreement, error) {
	if err := requireChild("agreement", "first", a); err != nil {
		return nil, err
	}
	if err := requireChild("agreement", "second", b); err != nil {
		return nil, err
	}
	ea, err := a.Enumerate()
	if err != nil {
		return nil, err
	}
	eb, err := b.Enumerate()
	if err != nil {
		return nil, err
	}
	values := make(map[int]struct{}, len(ea))
	for _, out := range ea {
		values[out.Value] = struct{}{}
	}
	shared := false
	for _, out := range eb {
		if _, ok := values[out.Value]; ok {
			shared = true
			break
		}
	}
	if !shared {
		return nil, invalid("agreement", "children", "the two dice share no value")
	}
	return &Agreement{a: a, b: b, bound: min(a.Bound(), b.Bound())}, nil
}

func (d *Agreement) Sample(rng *rand.Rand) (int, error) {
	for {
		x, err := d.a.Sample(rng)
		if err != nil {
			return 0, err
		}
		y, err := d.b.Sample(rng)
		if err != nil {
			return 0, err
		}
		if x == y {
			return x, nil
		}
	}
}

func (d *Agreement) Enumerate() (outcome.Outcomes, error) {
	ea, err := d.a.Enumerate()
	if err != nil {
		return nil, err
	}
	eb, err := d.b.Enumerate()
	if err != nil {
		return nil, err
	}
	if len(eb) > 0 && len(ea) > MaxOutcomes/len(eb) {
		return nil, annotate("agreement", outcome.ErrTooManyOutcomes)
	}
	var outs outcome.Outcomes
	for _, x := range ea {
		for _, y := range eb {
			if x.Value != y.Value {
				continue
			}
			w, err := outcome.MulWeight(x.Weight, y.Weight)
			if err != nil {
				return nil, annotate("agreement", err)
			}
			outs = append(outs, outcome.Outcome{Path: outcome.Join(x.Path, y.Path), Value: x.Value, Weight: w})
		}
	}
	if len(outs) == 0 {
		return nil, exhausted("agreement")
	}
	return outs, nil
}

func (d *Agreement) Bound() int { return d.bound }
func (d *Agreement) Kind() Kind { return KindBinary }
func (d *Agreement) sealed()    {}
