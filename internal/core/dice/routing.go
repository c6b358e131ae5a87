package dice

import (
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// RoutingPolicy selects how a Routing die enumerates.
type RoutingPolicy int

const (
	// RouteConditional enumerates, for every decision outcome, only the
	// selected branch, reweighted so each decision outcome keeps its mass.
	RouteConditional RoutingPolicy = iota
	// RouteJoint enumerates the full product of the decision and every
	// branch, as if every branch were drawn on every draw. It describes the
	// same distribution over a larger outcome space.
	RouteJoint
)

// String returns the policy name.
func (p RoutingPolicy) String() string {
	if p == RouteJoint {
		return "joint"
	}
	return "conditional"
}

// RoutingOption configures a Routing die.
type RoutingOption func(*Routing)

// WithJointEnumeration switches enumeration to RouteJoint.
func WithJointEnumeration() RoutingOption {
	return func(r *Routing) { r.policy = RouteJoint }
}

// Routing draws a decision and then only the branch it selects: a decision
// of k yields a draw of branches[k-1].
type Routing struct {
	decision Die
	branches []Die
	policy   RoutingPolicy
	bound    int
}

// NewRouting fails unless len(branches) equals decision.Bound().
func NewRouting(decision Die, branches []Die, opts ...RoutingOption) (*Routing, error) {
	if err := requireChild("routing", "decision", decision); err != nil {
		return nil, err
	}
	if len(branches) == 0 {
		return nil, invalid("routing", "branches", "at least one branch is required")
	}
	if len(branches) != decision.Bound() {
		return nil, invalid("routing", "branches", "%d branches for a decision die bounded by %d", len(branches), decision.Bound())
	}
	bounds := make([]int, len(branches))
	for i, branch := range branches {
		if err := requireChild("routing", "branches", branch); err != nil {
			return nil, err
		}
		bounds[i] = branch.Bound()
	}
	r := &Routing{
		decision: decision,
		branches: append([]Die(nil), branches...),
		bound:    maxOf(bounds),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Policy returns the enumeration policy.
func (r *Routing) Policy() RoutingPolicy { return r.policy }

func (r *Routing) branch(v int) (Die, error) {
	if v < 1 || v > len(r.branches) {
		return nil, outOfDomain("routing", "decision", v)
	}
	return r.branches[v-1], nil
}

func (r *Routing) Sample(rng *rand.Rand) (int, error) {
	v, err := r.decision.Sample(rng)
	if err != nil {
		return 0, err
	}
	branch, err := r.branch(v)
	if err != nil {
		return 0, err
	}
	return branch.Sample(rng)
}

func (r *Routing) Enumerate() (outcome.Outcomes, error) {
	decisions, err := r.decision.Enumerate()
	if err != nil {
		return nil, err
	}
	if r.policy == RouteJoint {
		return r.enumerateJoint(decisions)
	}
	return r.enumerateConditional(decisions)
}

func (r *Routing) enumerateConditional(decisions outcome.Outcomes) (outcome.Outcomes, error) {
	return routeConditional("routing", decisions, r.branches, func(_, v int) (int, error) { return v, nil })
}

// routeConditional enumerates, for every decision outcome, the outcomes of the
// branch it selects. Each branch enumeration is scaled by L/W, where W is its
// total weight and L the least common multiple of every selected branch's
// total, so each decision outcome keeps exactly its own share of the mass.
// value maps a branch index (0-based) and branch value to the final value.
func routeConditional(node string, decisions outcome.Outcomes, branches []Die, value func(branch, v int) (int, error)) (outcome.Outcomes, error) {
	selected := map[int]outcome.Outcomes{}
	totals := map[int]uint64{}
	for _, d := range decisions {
		if d.Value < 1 || d.Value > len(branches) {
			return nil, outOfDomain(node, "decision", d.Value)
		}
		if _, ok := selected[d.Value]; ok {
			continue
		}
		i := d.Value - 1
		outs, err := branches[i].Enumerate()
		if err != nil {
			return nil, err
		}
		if outs, err = outs.Map(func(v int) (int, error) { return value(i, v) }); err != nil {
			return nil, err
		}
		total, err := outs.TotalWeight()
		if err != nil {
			return nil, annotate(node, err)
		}
		selected[d.Value] = outs
		totals[d.Value] = total
	}

	size := 0
	weights := make([]uint64, 0, len(totals))
	for _, d := range decisions {
		size += len(selected[d.Value])
		if size > MaxOutcomes {
			return nil, annotate(node, outcome.ErrTooManyOutcomes)
		}
	}
	for _, total := range totals {
		weights = append(weights, total)
	}
	common, err := outcome.LCM(weights...)
	if err != nil {
		return nil, annotate(node, err)
	}

	result := make(outcome.Outcomes, 0, size)
	for _, d := range decisions {
		total := totals[d.Value]
		if total == 0 {
			continue
		}
		factor, err := outcome.MulWeight(d.Weight, common/total)
		if err != nil {
			return nil, annotate(node, err)
		}
		scaled, err := selected[d.Value].Scale(factor)
		if err != nil {
			return nil, annotate(node, err)
		}
		result = append(result, scaled.Prefix(d.Path...)...)
	}
	return result, nil
}

func (r *Routing) enumerateJoint(decisions outcome.Outcomes) (outcome.Outcomes, error) {
	lists := make([]outcome.Outcomes, 0, len(r.branches)+1)
	lists = append(lists, decisions)
	for _, branch := range r.branches {
		outs, err := branch.Enumerate()
		if err != nil {
			return nil, err
		}
		lists = append(lists, outs)
	}
	outs, err := outcome.Product(lists, MaxOutcomes, func(values []int) (int, error) {
		v := values[0]
		if v < 1 || v >= len(values) {
			return 0, outOfDomain("routing", "decision", v)
		}
		return values[v], nil
	})
	if err != nil {
		return nil, annotate("routing", err)
	}
	return outs, nil
}

// Bound is the largest branch bound, since every draw is one branch's draw.
func (r *Routing) Bound() int { return r.bound }
func (r *Routing) Kind() Kind { return KindNary }
func (r *Routing) sealed()    {}
