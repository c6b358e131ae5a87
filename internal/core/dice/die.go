package dice

import (
	"fmt"
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// MaxOutcomes caps the size of any single enumeration product.
const MaxOutcomes = 1 << 22

// Kind identifies the family a die variant belongs to.
type Kind int

const (
	KindLeaf Kind = iota + 1
	KindUnary
	KindBinary
	KindNary
	KindLoop
	KindRotating
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	case KindNary:
		return "nary"
	case KindLoop:
		return "loop"
	case KindRotating:
		return "rotating"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Die is a finite random variable that can be sampled and enumerated.
//
// The set of variants is closed: only this package implements Die.
type Die interface {
	// Sample makes one draw using rng.
	Sample(rng *rand.Rand) (int, error)
	// Enumerate lists every reachable outcome of the next draw.
	Enumerate() (outcome.Outcomes, error)
	// Bound is the structural upper bound fixed at construction.
	Bound() int
	// Kind reports the variant family.
	Kind() Kind

	sealed()
}

// Resetter is implemented by dice that carry state between draws.
type Resetter interface {
	Reset()
}

// Children returns the direct children of d in evaluation order.
func Children(d Die) []Die {
	switch v := d.(type) {
	case *Leaf, *Pool:
		return nil
	case *Unary:
		return []Die{v.child}
	case *Tracker:
		return []Die{v.child}
	case *Binary:
		return []Die{v.a, v.b}
	case *Agreement:
		return []Die{v.a, v.b}
	case *Nary:
		return append([]Die(nil), v.children...)
	case *Routing:
		return append([]Die{v.decision}, v.branches...)
	case *Carousel:
		return append([]Die(nil), v.children...)
	case *ForLoop:
		return []Die{v.iterations, v.base}
	case *WhileLoop:
		return []Die{v.condition, v.base}
	case *Explode:
		return []Die{v.base}
	case *Rotating:
		return append([]Die{v.decision}, v.branches...)
	default:
		panic(fmt.Sprintf("dice: unknown die variant %T", d))
	}
}

// Walk visits d and then every descendant, depth first.
func Walk(d Die, fn func(Die)) {
	fn(d)
	for _, child := range Children(d) {
		Walk(child, fn)
	}
}

// ResetAll resets every stateful node in the tree rooted at d.
func ResetAll(d Die) {
	Walk(d, func(node Die) {
		if r, ok := node.(Resetter); ok {
			r.Reset()
		}
	})
}

// Stateful reports whether any node in the tree carries state between draws.
func Stateful(d Die) bool {
	found := false
	Walk(d, func(node Die) {
		if _, ok := node.(Resetter); ok {
			found = true
		}
	})
	return found
}
