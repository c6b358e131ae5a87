package dice

import (
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// Carousel draws from one child at a time, moving to the next child after
// every successful draw and wrapping around after the last.
type Carousel struct {
	children []Die
	index    int
	bound    int
}

// NewCarousel returns a carousel over children, starting at the first.
func NewCarousel(children ...Die) (*Carousel, error) {
	if len(children) == 0 {
		return nil, invalid("carousel", "children", "at least one die is required")
	}
	bounds := make([]int, len(children))
	for i, child := range children {
		if err := requireChild("carousel", "children", child); err != nil {
			return nil, err
		}
		bounds[i] = child.Bound()
	}
	return &Carousel{children: append([]Die(nil), children...), bound: maxOf(bounds)}, nil
}

// Index returns the position of the child the next draw uses.
func (c *Carousel) Index() int { return c.index }

func (c *Carousel) Sample(rng *rand.Rand) (int, error) {
	v, err := c.children[c.index].Sample(rng)
	if err != nil {
		return 0, err
	}
	c.index = (c.index + 1) % len(c.children)
	return v, nil
}

// Enumerate describes the next draw only: the current child's outcomes.
func (c *Carousel) Enumerate() (outcome.Outcomes, error) {
	return c.children[c.index].Enumerate()
}

// EnumerateWindow lists one draw from every child in turn, each path prefixed
// with the child's 1-based position. Every child carries the same share of
// the mass, as it does over a full cycle of draws.
func (c *Carousel) EnumerateWindow() (outcome.Outcomes, error) {
	positions := make(outcome.Outcomes, len(c.children))
	for i := range positions {
		positions[i] = outcome.Unit(i + 1)
	}
	return routeConditional("carousel", positions, c.children, func(_, v int) (int, error) { return v, nil })
}

// WindowDistribution is the distribution of EnumerateWindow.
func (c *Carousel) WindowDistribution() (*outcome.Distribution, error) {
	outs, err := c.EnumerateWindow()
	if err != nil {
		return nil, err
	}
	return outcome.NewDistribution(outs)
}

// Reset moves back to the first child.
func (c *Carousel) Reset() { c.index = 0 }

func (c *Carousel) Bound() int { return c.bound }
func (c *Carousel) Kind() Kind { return KindNary }
func (c *Carousel) sealed()    {}
