// Package catalog builds fair numbered dice d1..d100 out of the physical
// polyhedral set, and a set of named showcase dice.
//
// Every numbered die is exactly uniform over 1..n: stateless recipes per
// draw, rotating recipes over every window of n consecutive draws. A rotating
// node only ever has stateless children.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/fairdice/internal/core/dice"
	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
)

// MaxSides is the largest numbered die the catalog plans.
const MaxSides = 100

// Physical lists the sides of the dice a player actually owns.
var Physical = []int{4, 6, 8, 10, 12, 20}

// ErrUnknownDie indicates a name that is neither a numbered die, a named die
// nor dice notation.
var ErrUnknownDie = apperrors.New(apperrors.CodeCatalogUnknownDie, "unknown die")

// Step is how a numbered die is built.
type Step int

const (
	// StepPhysical is a physical die rolled as is.
	StepPhysical Step = iota + 1
	// StepDivisor folds a larger physical die: Mod(d(Parts[0]), n).
	StepDivisor
	// StepPositional composes two stateless dice: Positional(d(Parts[0]), d(Parts[1])).
	StepPositional
	// StepOneExtra adds one side to a stateless die: OneExtraSide(d(n−1)).
	StepOneExtra
	// StepSplit rotates over stateless parts chosen by Mod(d(2k), k).
	StepSplit
)

// Recipe is the plan for one numbered die.
type Recipe struct {
	Sides int
	Step  Step
	Parts []int
}

// Stateless reports whether the recipe draws without a rotating node.
func (r Recipe) Stateless() bool {
	return r.Step != StepOneExtra && r.Step != StepSplit
}

// String formats the recipe, for example "d14 = rotating(mod(d4, 2): d12, d2)".
func (r Recipe) String() string {
	var body string
	switch r.Step {
	case StepPhysical:
		body = "physical"
	case StepDivisor:
		body = fmt.Sprintf("mod(d%d, %d)", r.Parts[0], r.Sides)
	case StepPositional:
		body = fmt.Sprintf("positional(d%d, d%d)", r.Parts[0], r.Parts[1])
	case StepOneExtra:
		body = fmt.Sprintf("one-extra-side(d%d)", r.Parts[0])
	case StepSplit:
		parts := make([]string, len(r.Parts))
		for i, p := range r.Parts {
			parts[i] = "d" + strconv.Itoa(p)
		}
		k := len(r.Parts)
		body = fmt.Sprintf("rotating(mod(d%d, %d): %s)", 2*k, k, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("d%d = %s", r.Sides, body)
}

// Catalog holds the recipes for d1..d100 and the loop cap used by named
// dice that loop.
type Catalog struct {
	loopCap int
	recipes []Recipe
}

// New plans every numbered die.
func New(loopCap int) (*Catalog, error) {
	if loopCap <= 0 {
		return nil, apperrors.Newf(apperrors.CodeDieInvalid, "loop cap must be positive, got %d", loopCap).
			With(apperrors.MetaNode, "catalog").
			With(apperrors.MetaOperand, "cap")
	}
	recipes, err := plan(MaxSides)
	if err != nil {
		return nil, err
	}
	return &Catalog{loopCap: loopCap, recipes: recipes}, nil
}

// LoopCap returns the cap applied to named loop dice.
func (c *Catalog) LoopCap() int { return c.loopCap }

// plan picks a recipe for every n in 1..max. The first matching rule wins.
func plan(most int) ([]Recipe, error) {
	recipes := make([]Recipe, most+1)
	stateless := make([]bool, most+1)
	for n := 1; n <= most; n++ {
		r, ok := planOne(n, stateless)
		if !ok {
			return nil, apperrors.Newf(apperrors.CodeDieInvalid, "no recipe for d%d", n).
				With(apperrors.MetaNode, "catalog")
		}
		recipes[n] = r
		stateless[n] = r.Stateless()
	}
	return recipes, nil
}

func planOne(n int, stateless []bool) (Recipe, bool) {
	for _, p := range Physical {
		if p == n {
			return Recipe{Sides: n, Step: StepPhysical}, true
		}
	}
	for _, p := range Physical {
		if p%n == 0 {
			return Recipe{Sides: n, Step: StepDivisor, Parts: []int{p}}, true
		}
	}
	for a := n - 1; a > 1; a-- {
		if n%a == 0 && n/a > 1 && stateless[a] && stateless[n/a] {
			return Recipe{Sides: n, Step: StepPositional, Parts: []int{a, n / a}}, true
		}
	}
	if stateless[n-1] {
		return Recipe{Sides: n, Step: StepOneExtra, Parts: []int{n - 1}}, true
	}
	for a := n - 1; a > 0; a-- {
		if stateless[a] && stateless[n-a] {
			return Recipe{Sides: n, Step: StepSplit, Parts: []int{a, n - a}}, true
		}
	}
	for a := n - 2; a > 0; a-- {
		for b := n - a - 1; b > 0; b-- {
			if stateless[a] && stateless[b] && stateless[n-a-b] {
				return Recipe{Sides: n, Step: StepSplit, Parts: []int{a, b, n - a - b}}, true
			}
		}
	}
	return Recipe{}, false
}

// Recipe returns the plan for dN.
func (c *Catalog) Recipe(n int) (Recipe, bool) {
	if n < 1 || n > MaxSides {
		return Recipe{}, false
	}
	return c.recipes[n], true
}

// Recipes returns the plans for d1..d100 in order.
func (c *Catalog) Recipes() []Recipe {
	return append([]Recipe(nil), c.recipes[1:]...)
}

// Die builds a fresh dN. No node is shared between calls.
func (c *Catalog) Die(n int) (dice.Die, error) {
	r, ok := c.Recipe(n)
	if !ok {
		return nil, ErrUnknownDie.With(apperrors.MetaName, "d"+strconv.Itoa(n))
	}
	switch r.Step {
	case StepPhysical:
		return dice.Sequential(n)
	case StepDivisor:
		p, err := dice.Sequential(r.Parts[0])
		if err != nil {
			return nil, err
		}
		return dice.Mod(p, n)
	case StepPositional:
		a, err := c.Die(r.Parts[0])
		if err != nil {
			return nil, err
		}
		b, err := c.Die(r.Parts[1])
		if err != nil {
			return nil, err
		}
		return dice.Positional(a, b)
	case StepOneExtra:
		base, err := c.Die(r.Parts[0])
		if err != nil {
			return nil, err
		}
		return dice.OneExtraSide(base)
	default:
		k := len(r.Parts)
		physical, err := dice.Sequential(2 * k)
		if err != nil {
			return nil, err
		}
		decision, err := dice.Mod(physical, k)
		if err != nil {
			return nil, err
		}
		branches := make([]dice.Die, k)
		for i, p := range r.Parts {
			if branches[i], err = c.Die(p); err != nil {
				return nil, err
			}
		}
		return dice.NewRotating(decision, branches)
	}
}

// Lookup resolves a numbered die ("d7"), a named die ("exploding-d6") or dice
// notation ("2d6+1d8"), in that order.
func (c *Catalog) Lookup(name string) (dice.Die, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if n, ok := numbered(key); ok {
		return c.Die(n)
	}
	if _, ok := named[key]; ok {
		return c.Named(key)
	}
	specs, err := dice.ParseNotation(key)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCatalogUnknownDie, "unknown die", err).
			With(apperrors.MetaName, name)
	}
	return dice.FromSpecs(specs...)
}

func numbered(key string) (int, bool) {
	digits, ok := strings.CutPrefix(key, "d")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > MaxSides {
		return 0, false
	}
	return n, true
}
