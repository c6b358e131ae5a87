package dice

import (
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// trackerState is the memory a Tracker carries between draws.
type trackerState struct {
	draws   int
	sum     int
	product int
	best    int
	seen    map[int]int
	history []int
}

func newTrackerState() trackerState {
	return trackerState{product: 1, seen: map[int]int{}}
}

func (s trackerState) clone() trackerState {
	c := s
	c.seen = make(map[int]int, len(s.seen))
	for k, v := range s.seen {
		c.seen[k] = v
	}
	c.history = append([]int(nil), s.history...)
	return c
}

// Tracker transforms each draw of its child using memory of earlier draws.
//
// Sample applies the step and keeps the new state. Enumerate previews the next
// draw against a copy of the current state and leaves the state untouched.
// The bound is the child's.
type Tracker struct {
	name  string
	child Die
	guard func(s *trackerState) error
	step  func(s *trackerState, v int) (int, error)
	state trackerState
}

func newTracker(name string, child Die, step func(s *trackerState, v int) (int, error)) (*Tracker, error) {
	if err := requireChild(name, "child", child); err != nil {
		return nil, err
	}
	return &Tracker{name: name, child: child, step: step, state: newTrackerState()}, nil
}

// Name returns the tracker name, for example "running-sum".
func (t *Tracker) Name() string { return t.name }

// Draws returns how many draws the tracker has recorded since the last reset.
func (t *Tracker) Draws() int { return t.state.draws }

func (t *Tracker) Sample(rng *rand.Rand) (int, error) {
	if t.guard != nil {
		if err := t.guard(&t.state); err != nil {
			return 0, err
		}
	}
	v, err := t.child.Sample(rng)
	if err != nil {
		return 0, err
	}
	next := t.state.clone()
	result, err := t.step(&next, v)
	if err != nil {
		return 0, err
	}
	next.draws++
	t.state = next
	return result, nil
}

func (t *Tracker) Enumerate() (outcome.Outcomes, error) {
	if t.guard != nil {
		preview := t.state.clone()
		if err := t.guard(&preview); err != nil {
			return nil, err
		}
	}
	outs, err := t.child.Enumerate()
	if err != nil {
		return nil, err
	}
	return outs.Map(func(v int) (int, error) {
		preview := t.state.clone()
		return t.step(&preview, v)
	})
}

// Reset forgets every recorded draw.
func (t *Tracker) Reset() { t.state = newTrackerState() }

func (t *Tracker) Bound() int { return t.child.Bound() }
func (t *Tracker) Kind() Kind { return KindUnary }
func (t *Tracker) sealed()    {}

// RunningSum yields the sum of every draw so far.
func RunningSum(d Die) (*Tracker, error) {
	return newTracker("running-sum", d, func(s *trackerState, v int) (int, error) {
		sum, ok := addInt(s.sum, v)
		if !ok {
			return 0, outOfDomain("running-sum", "value", v)
		}
		s.sum = sum
		return sum, nil
	})
}

// RunningProduct yields the product of every draw so far.
func RunningProduct(d Die) (*Tracker, error) {
	return newTracker("running-product", d, func(s *trackerState, v int) (int, error) {
		p, ok := mulInt(s.product, v)
		if !ok {
			return 0, outOfDomain("running-product", "value", v)
		}
		s.product = p
		return p, nil
	})
}

// RunningMax yields the largest draw so far.
func RunningMax(d Die) (*Tracker, error) {
	return newTracker("running-max", d, func(s *trackerState, v int) (int, error) {
		if s.draws == 0 || v > s.best {
			s.best = v
		}
		return s.best, nil
	})
}

// RunningMin yields the smallest draw so far.
func RunningMin(d Die) (*Tracker, error) {
	return newTracker("running-min", d, func(s *trackerState, v int) (int, error) {
		if s.draws == 0 || v < s.best {
			s.best = v
		}
		return s.best, nil
	})
}

// Occurrences yields how many times the drawn value has been drawn so far,
// this draw included.
func Occurrences(d Die) (*Tracker, error) {
	return newTracker("occurrences", d, func(s *trackerState, v int) (int, error) {
		s.seen[v]++
		return s.seen[v], nil
	})
}

// RunningMean yields the floor of the mean of every draw so far.
func RunningMean(d Die) (*Tracker, error) {
	return newTracker("running-mean", d, func(s *trackerState, v int) (int, error) {
		sum, ok := addInt(s.sum, v)
		if !ok {
			return 0, outOfDomain("running-mean", "value", v)
		}
		s.sum = sum
		return floorDiv(sum, s.draws+1), nil
	})
}

// Delay yields the value drawn n draws ago, and 0 until n draws have been made.
func Delay(d Die, n int) (*Tracker, error) {
	if n < 1 {
		return nil, invalid("delay", "window", "window must be positive, got %d", n)
	}
	return newTracker("delay", d, func(s *trackerState, v int) (int, error) {
		s.history = append(s.history, v)
		if len(s.history) <= n {
			return 0, nil
		}
		out := s.history[0]
		s.history = s.history[1:]
		return out, nil
	})
}

// LimitUses passes draws through and fails with ErrExhausted once n draws
// have been made. The child is not drawn once the limit is reached.
func LimitUses(d Die, n int) (*Tracker, error) {
	if n < 1 {
		return nil, invalid("limit-uses", "uses", "uses must be positive, got %d", n)
	}
	t, err := newTracker("limit-uses", d, func(_ *trackerState, v int) (int, error) {
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	t.guard = func(s *trackerState) error {
		if s.draws >= n {
			return exhausted("limit-uses")
		}
		return nil
	}
	return t, nil
}
