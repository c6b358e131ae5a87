package dice

import (
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// DefaultLoopCap is the enumeration cap callers use when they have no reason
// to pick another.
const DefaultLoopCap = 8

// ForLoop draws an iteration count n and yields the sum of n base draws.
//
// Enumeration expands, for every iteration outcome n, the product of n base
// enumerations. Branches with fewer iterations are padded with the weight of
// the draws they skip, so every branch shares one denominator.
type ForLoop struct {
	base       Die
	iterations Die
	bound      int
}

// NewForLoop returns a for loop summing base draws.
func NewForLoop(base, iterations Die) (*ForLoop, error) {
	if err := requireChild("for", "base", base); err != nil {
		return nil, err
	}
	if err := requireChild("for", "iterations", iterations); err != nil {
		return nil, err
	}
	b, ok := mulInt(base.Bound(), iterations.Bound())
	if !ok {
		return nil, invalid("for", "bound", "bound %d * %d overflows", base.Bound(), iterations.Bound())
	}
	return &ForLoop{base: base, iterations: iterations, bound: b}, nil
}

func (l *ForLoop) Sample(rng *rand.Rand) (int, error) {
	n, err := l.iterations.Sample(rng)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, outOfDomain("for", "iterations", n)
	}
	total := 0
	for i := 0; i < n; i++ {
		v, err := l.base.Sample(rng)
		if err != nil {
			return 0, err
		}
		var ok bool
		if total, ok = addInt(total, v); !ok {
			return 0, outOfDomain("for", "total", total)
		}
	}
	return total, nil
}

func (l *ForLoop) Enumerate() (outcome.Outcomes, error) {
	counts, err := l.iterations.Enumerate()
	if err != nil {
		return nil, err
	}
	base, err := l.base.Enumerate()
	if err != nil {
		return nil, err
	}
	baseTotal, err := base.TotalWeight()
	if err != nil {
		return nil, annotate("for", err)
	}

	most := 0
	for _, c := range counts {
		if c.Value < 0 {
			return nil, outOfDomain("for", "iterations", c.Value)
		}
		most = max(most, c.Value)
	}

	expanded := map[int]outcome.Outcomes{}
	var result outcome.Outcomes
	for _, c := range counts {
		sums, ok := expanded[c.Value]
		if !ok {
			lists := make([]outcome.Outcomes, c.Value)
			for i := range lists {
				lists[i] = base
			}
			room := MaxOutcomes - len(result)
			if room <= 0 {
				return nil, annotate("for", outcome.ErrTooManyOutcomes)
			}
			if c.Value == 0 {
				sums = outcome.Outcomes{{Path: []int{}, Value: 0, Weight: 1}}
			} else if sums, err = outcome.Product(lists, room, func(values []int) (int, error) {
				return sumInts("for", values)
			}); err != nil {
				return nil, annotate("for", err)
			}
			expanded[c.Value] = sums
		}
		pad, err := outcome.PowWeight(baseTotal, most-c.Value)
		if err != nil {
			return nil, annotate("for", err)
		}
		factor, err := outcome.MulWeight(c.Weight, pad)
		if err != nil {
			return nil, annotate("for", err)
		}
		scaled, err := sums.Scale(factor)
		if err != nil {
			return nil, annotate("for", err)
		}
		if len(result)+len(scaled) > MaxOutcomes {
			return nil, annotate("for", outcome.ErrTooManyOutcomes)
		}
		result = append(result, scaled.Prefix(c.Path...)...)
	}
	return result, nil
}

func (l *ForLoop) Bound() int { return l.bound }
func (l *ForLoop) Kind() Kind { return KindLoop }
func (l *ForLoop) sealed()    {}

// WhileLoop draws a condition and, while it equals target, adds one base draw.
//
// Sampling has no cap and can run for any number of rounds. Enumeration stops
// after Cap base draws and reports the running total at that point, so its
// distribution truncates the tail that sampling can reach.
type WhileLoop struct {
	base      Die
	condition Die
	target    int
	cap       int
	bound     int
}

// NewWhileLoop fails when cap is not positive, or when every condition
// outcome equals target, since sampling could then never stop.
func NewWhileLoop(base, condition Die, target, loopCap int) (*WhileLoop, error) {
	if err := requireChild("while", "base", base); err != nil {
		return nil, err
	}
	if err := requireChild("while", "condition", condition); err != nil {
		return nil, err
	}
	if loopCap <= 0 {
		return nil, invalid("while", "cap", "cap must be positive, got %d", loopCap)
	}
	conds, err := condition.Enumerate()
	if err != nil {
		return nil, err
	}
	stops := false
	for _, c := range conds {
		if c.Value != target {
			stops = true
			break
		}
	}
	if !stops {
		return nil, invalid("while", "condition", "every condition outcome equals the target %d", target)
	}
	b, ok := mulInt(base.Bound(), loopCap)
	if !ok {
		return nil, invalid("while", "bound", "bound %d * %d overflows", base.Bound(), loopCap)
	}
	return &WhileLoop{base: base, condition: condition, target: target, cap: loopCap, bound: b}, nil
}

// Cap returns the number of base draws after which enumeration stops.
func (l *WhileLoop) Cap() int { return l.cap }

// Target returns the condition value that keeps the loop going.
func (l *WhileLoop) Target() int { return l.target }

func (l *WhileLoop) Sample(rng *rand.Rand) (int, error) {
	total := 0
	for {
		c, err := l.condition.Sample(rng)
		if err != nil {
			return 0, err
		}
		if c != l.target {
			return total, nil
		}
		v, err := l.base.Sample(rng)
		if err != nil {
			return 0, err
		}
		var ok bool
		if total, ok = addInt(total, v); !ok {
			return 0, outOfDomain("while", "total", total)
		}
	}
}

func (l *WhileLoop) Enumerate() (outcome.Outcomes, error) {
	conds, err := l.condition.Enumerate()
	if err != nil {
		return nil, err
	}
	base, err := l.base.Enumerate()
	if err != nil {
		return nil, err
	}
	var match, fail outcome.Outcomes
	for _, c := range conds {
		if c.Value == l.target {
			match = append(match, c)
		} else {
			fail = append(fail, outcome.Outcome{Path: c.Path, Value: 0, Weight: c.Weight})
		}
	}
	step, err := outcome.Product([]outcome.Outcomes{match, base}, MaxOutcomes, func(values []int) (int, error) {
		return values[1], nil
	})
	if err != nil {
		return nil, annotate("while", err)
	}
	condTotal, err := conds.TotalWeight()
	if err != nil {
		return nil, annotate("while", err)
	}
	baseTotal, err := base.TotalWeight()
	if err != nil {
		return nil, annotate("while", err)
	}
	return unroll("while", l.cap, step, fail, func(k int) (uint64, error) {
		c, err := outcome.PowWeight(condTotal, l.cap-k-1)
		if err != nil {
			return 0, err
		}
		b, err := outcome.PowWeight(baseTotal, l.cap-k)
		if err != nil {
			return 0, err
		}
		return outcome.MulWeight(c, b)
	})
}

func (l *WhileLoop) Bound() int { return l.bound }
func (l *WhileLoop) Kind() Kind { return KindLoop }
func (l *WhileLoop) sealed()    {}

// Explode rolls a die and keeps rolling, adding every roll, while the roll
// continues the chain. Like WhileLoop, enumeration stops after Cap rolls.
type Explode struct {
	node  string
	base  Die
	set   map[int]struct{}
	stop  bool
	cap   int
	bound int
}

// NewExplode keeps rolling while the roll is one of continueOn.
func NewExplode(d Die, loopCap int, continueOn ...int) (*Explode, error) {
	return newExplode("explode", d, loopCap, false, continueOn)
}

// NewExplodeUnless keeps rolling until the roll is one of stopOn.
func NewExplodeUnless(d Die, loopCap int, stopOn ...int) (*Explode, error) {
	return newExplode("explode-unless", d, loopCap, true, stopOn)
}

func newExplode(node string, d Die, loopCap int, stop bool, values []int) (*Explode, error) {
	if err := requireChild(node, "base", d); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, invalid(node, "values", "at least one value is required")
	}
	if loopCap <= 0 {
		return nil, invalid(node, "cap", "cap must be positive, got %d", loopCap)
	}
	e := &Explode{node: node, base: d, set: make(map[int]struct{}, len(values)), stop: stop, cap: loopCap}
	for _, v := range values {
		e.set[v] = struct{}{}
	}
	outs, err := d.Enumerate()
	if err != nil {
		return nil, err
	}
	stops := false
	for _, out := range outs {
		if !e.continues(out.Value) {
			stops = true
			break
		}
	}
	if !stops {
		return nil, invalid(node, "values", "no outcome ends the chain")
	}
	b, ok := mulInt(d.Bound(), loopCap)
	if !ok {
		return nil, invalid(node, "bound", "bound %d * %d overflows", d.Bound(), loopCap)
	}
	e.bound = b
	return e, nil
}

func (e *Explode) continues(v int) bool {
	_, listed := e.set[v]
	return listed != e.stop
}

// Cap returns the number of rolls after which enumeration stops.
func (e *Explode) Cap() int { return e.cap }

func (e *Explode) Sample(rng *rand.Rand) (int, error) {
	total := 0
	for {
		v, err := e.base.Sample(rng)
		if err != nil {
			return 0, err
		}
		var ok bool
		if total, ok = addInt(total, v); !ok {
			return 0, outOfDomain(e.node, "total", total)
		}
		if !e.continues(v) {
			return total, nil
		}
	}
}

func (e *Explode) Enumerate() (outcome.Outcomes, error) {
	outs, err := e.base.Enumerate()
	if err != nil {
		return nil, err
	}
	var step, stop outcome.Outcomes
	for _, out := range outs {
		if e.continues(out.Value) {
			step = append(step, out)
		} else {
			stop = append(stop, out)
		}
	}
	total, err := outs.TotalWeight()
	if err != nil {
		return nil, annotate(e.node, err)
	}
	return unroll(e.node, e.cap, step, stop, func(k int) (uint64, error) {
		return outcome.PowWeight(total, e.cap-k-1)
	})
}

func (e *Explode) Bound() int { return e.bound }
func (e *Explode) Kind() Kind { return KindLoop }
func (e *Explode) sealed()    {}

// unroll enumerates a loop that, at every round, either takes one of the
// step outcomes and continues or one of the stop outcomes and ends. After
// rounds steps the running total is emitted as is. pad(k) is the weight of the
// rounds a chain ending after k steps never drew.
func unroll(node string, rounds int, step, stop outcome.Outcomes, pad func(k int) (uint64, error)) (outcome.Outcomes, error) {
	prefix := outcome.Outcomes{{Path: []int{}, Value: 0, Weight: 1}}
	var result outcome.Outcomes
	for k := 0; len(prefix) > 0; k++ {
		if k == rounds {
			result = append(result, prefix...)
			break
		}
		p, err := pad(k)
		if err != nil {
			return nil, annotate(node, err)
		}
		ends, err := extend(node, prefix, stop, p)
		if err != nil {
			return nil, err
		}
		result = append(result, ends...)
		if prefix, err = extend(node, prefix, step, 1); err != nil {
			return nil, err
		}
		if len(result)+len(prefix) > MaxOutcomes {
			return nil, annotate(node, outcome.ErrTooManyOutcomes)
		}
	}
	return result, nil
}

func extend(node string, prefix, next outcome.Outcomes, factor uint64) (outcome.Outcomes, error) {
	out := make(outcome.Outcomes, 0, len(prefix)*len(next))
	for _, p := range prefix {
		for _, n := range next {
			value, ok := addInt(p.Value, n.Value)
			if !ok {
				return nil, outOfDomain(node, "total", p.Value)
			}
			w, err := outcome.MulWeight(p.Weight, n.Weight)
			if err == nil {
				w, err = outcome.MulWeight(w, factor)
			}
			if err != nil {
				return nil, annotate(node, err)
			}
			out = append(out, outcome.Outcome{Path: outcome.Join(p.Path, n.Path), Value: value, Weight: w})
		}
	}
	return out, nil
}
