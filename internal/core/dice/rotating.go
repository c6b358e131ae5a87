package dice

import (
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// Rotating builds an N-sided die from a decision die and branches whose
// bounds add up to N, and makes it fair across draws rather than per draw.
//
// Branch i covers the raw sides S_i+1..S_i+bound_i, where S_i is the sum of
// the bounds before it. Each draw rolls the decision, rolls the selected
// branch to get a raw side, rotates it by a persistent offset and then
// advances the offset:
//
//	result = ((raw − offset − 1) mod N) + 1
//	offset = (offset + 1) mod N
//
// Whatever the raw side, a full rotation of N offsets maps it to every side
// exactly once, so over the window of all N offsets the die is exactly
// uniform even when the decision is biased or the branches are uneven.
//
// # Enumeration
//
// Enumerate describes the next draw only, at the current offset. The
// guarantee spans draws, so it is exposed separately by EnumerateWindow,
// which lists the next draw at every offset.
type Rotating struct {
	decision Die
	branches []Die
	starts   []int
	sides    int
	offset   int
}

// NewRotating fails unless len(branches) equals decision.Bound() and every
// branch has a positive bound.
func NewRotating(decision Die, branches []Die) (*Rotating, error) {
	if err := requireChild("rotating", "decision", decision); err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return nil, invalid("rotating", "branches", "at least one branch is required")
	}
	if len(branches) != decision.Bound() {
		return nil, invalid("rotating", "branches", "%d branches for a decision die bounded by %d", len(branches), decision.Bound())
	}
	starts := make([]int, len(branches))
	sides := 0
	for i, branch := range branches {
		if err := requireChild("rotating", "branches", branch); err != nil {
			return nil, err
		}
		if branch.Bound() < 1 {
			return nil, invalid("rotating", "branches", "branch %d has bound %d", i+1, branch.Bound())
		}
		starts[i] = sides
		var ok bool
		if sides, ok = addInt(sides, branch.Bound()); !ok {
			return nil, invalid("rotating", "bound", "side count overflows")
		}
	}
	return &Rotating{
		decision: decision,
		branches: append([]Die(nil), branches...),
		starts:   starts,
		sides:    sides,
	}, nil
}

// OneExtraSide turns an (N−1)-sided die into a fair N-sided one. A d4 folded
// onto two sides decides between the extra side, raw 1, and the base die,
// raw base+1.
func OneExtraSide(base Die) (*Rotating, error) {
	d4, err := Sequential(4)
	if err != nil {
		return nil, err
	}
	coin, err := Mod(d4, 2)
	if err != nil {
		return nil, err
	}
	return OneExtraSideWith(coin, base)
}

// OneExtraSideWith is OneExtraSide with a caller-chosen decision die, which
// must be bounded by 2.
func OneExtraSideWith(decision, base Die) (*Rotating, error) {
	if err := requireChild("rotating", "base", base); err != nil {
		return nil, err
	}
	return NewRotating(decision, []Die{Constant(1), base})
}

// Sides returns N, the number of sides the die rotates over.
func (r *Rotating) Sides() int { return r.sides }

// Offset returns the rotation the next draw uses.
func (r *Rotating) Offset() int { return r.offset }

// Reset returns the rotation to zero.
func (r *Rotating) Reset() { r.offset = 0 }

func (r *Rotating) rotate(branch, v, offset int) (int, error) {
	if v < 1 || v > r.branches[branch].Bound() {
		return 0, outOfDomain("rotating", "branch", v)
	}
	raw := r.starts[branch] + v
	return floorMod(raw-offset-1, r.sides) + 1, nil
}

func (r *Rotating) Sample(rng *rand.Rand) (int, error) {
	d, err := r.decision.Sample(rng)
	if err != nil {
		return 0, err
	}
	if d < 1 || d > len(r.branches) {
		return 0, outOfDomain("rotating", "decision", d)
	}
	v, err := r.branches[d-1].Sample(rng)
	if err != nil {
		return 0, err
	}
	result, err := r.rotate(d-1, v, r.offset)
	if err != nil {
		return 0, err
	}
	r.offset = (r.offset + 1) % r.sides
	return result, nil
}

// Enumerate lists the next draw at the current offset.
func (r *Rotating) Enumerate() (outcome.Outcomes, error) {
	return r.EnumerateAt(r.offset)
}

// EnumerateAt lists a single draw made at the given offset, taken mod N.
func (r *Rotating) EnumerateAt(offset int) (outcome.Outcomes, error) {
	offset = floorMod(offset, r.sides)
	decisions, err := r.decision.Enumerate()
	if err != nil {
		return nil, err
	}
	return routeConditional("rotating", decisions, r.branches, func(branch, v int) (int, error) {
		return r.rotate(branch, v, offset)
	})
}

// EnumerateWindow lists one draw at every offset 0..N−1, each path prefixed
// with its offset. Its distribution is exactly uniform over 1..N.
func (r *Rotating) EnumerateWindow() (outcome.Outcomes, error) {
	var window outcome.Outcomes
	for k := 0; k < r.sides; k++ {
		outs, err := r.EnumerateAt(k)
		if err != nil {
			return nil, err
		}
		if len(window)+len(outs) > MaxOutcomes {
			return nil, annotate("rotating", outcome.ErrTooManyOutcomes)
		}
		window = append(window, outs.Prefix(k)...)
	}
	return window, nil
}

// WindowDistribution is the distribution of EnumerateWindow, tallied one
// offset at a time.
func (r *Rotating) WindowDistribution() (*outcome.Distribution, error) {
	tally := outcome.NewTally()
	for k := 0; k < r.sides; k++ {
		outs, err := r.EnumerateAt(k)
		if err != nil {
			return nil, err
		}
		if err := tally.Add(outs); err != nil {
			return nil, annotate("rotating", err)
		}
	}
	return tally.Distribution(), nil
}

func (r *Rotating) Bound() int { return r.sides }
func (r *Rotating) Kind() Kind { return KindRotating }
func (r *Rotating) sealed()    {}
