package catalog

import (
	"sort"

	"github.com/louisbranch/fairdice/internal/core/dice"
	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
)

type entry struct {
	description string
	build       func(c *Catalog) (dice.Die, error)
}

// fair returns a fresh fair die. n is always a positive literal here.
func fair(n int) *dice.Leaf {
	d, err := dice.Sequential(n)
	if err != nil {
		panic(err)
	}
	return d
}

func fairs(n int, count int) []dice.Die {
	out := make([]dice.Die, count)
	for i := range out {
		out[i] = fair(n)
	}
	return out
}

func die[T dice.Die](d T, err error) (dice.Die, error) {
	if err != nil {
		return nil, err
	}
	return d, nil
}

var named = map[string]entry{
	"weird-d6": {"a d6 labelled 1, 2, 2, 3, 3, 3", func(*Catalog) (dice.Die, error) {
		return die(dice.NewLeaf(1, 2, 2, 3, 3, 3))
	}},
	"mod-d6-2": {"d6 folded onto two sides", func(*Catalog) (dice.Die, error) {
		return die(dice.Mod(fair(6), 2))
	}},
	"prime-d20": {"the d20-th prime", func(*Catalog) (dice.Die, error) {
		return die(dice.Prime(fair(20)))
	}},
	"clamp-d12-3-9": {"d12 clamped to 3..9", func(*Catalog) (dice.Die, error) {
		return die(dice.Clamp(fair(12), 3, 9))
	}},
	"factorial-d4": {"d4 factorial", func(*Catalog) (dice.Die, error) {
		return die(dice.Factorial(fair(4)))
	}},
	"sqrt-d20": {"floor of the square root of a d20", func(*Catalog) (dice.Die, error) {
		return die(dice.Sqrt(fair(20)))
	}},
	"log-d20-10": {"floor of the base 10 logarithm of a d20", func(*Catalog) (dice.Die, error) {
		return die(dice.Log(fair(20), 10))
	}},
	"exp-d6": {"floor of e to the d6", func(*Catalog) (dice.Die, error) {
		return die(dice.Exp(fair(6), 1))
	}},
	"multi-d6-d8": {"d6 and d8 as digits of a d48", func(*Catalog) (dice.Die, error) {
		return die(dice.Multi(fair(6), fair(8)))
	}},
	"positional-d10-d4": {"d10 and d4 as digits of a d40", func(*Catalog) (dice.Die, error) {
		return die(dice.Positional(fair(10), fair(4)))
	}},
	"one-extra-d12": {"a d13 made fair across draws from a d12", func(*Catalog) (dice.Die, error) {
		return die(dice.OneExtraSide(fair(12)))
	}},
	"advantage-3d20": {"best of three d20", func(*Catalog) (dice.Die, error) {
		return die(dice.Advantage(fairs(20, 3)...))
	}},
	"disadvantage-3d20": {"worst of three d20", func(*Catalog) (dice.Die, error) {
		return die(dice.Disadvantage(fairs(20, 3)...))
	}},
	"advantage-of-disadvantage-d6": {"best of a d6 and the worst of two d6", func(*Catalog) (dice.Die, error) {
		worst, err := dice.Disadvantage(fairs(6, 2)...)
		if err != nil {
			return nil, err
		}
		return die(dice.Advantage(fair(6), worst))
	}},
	"exploding-d4": {"d4 rolled again on every 4", func(c *Catalog) (dice.Die, error) {
		return die(dice.NewExplode(fair(4), c.loopCap, 4))
	}},
	"exploding-d6": {"d6 rolled again on every 6", func(c *Catalog) (dice.Die, error) {
		return die(dice.NewExplode(fair(6), c.loopCap, 6))
	}},
	"sum-d6-d8": {"d6 plus d8", func(*Catalog) (dice.Die, error) {
		return die(dice.Sum(fair(6), fair(8)))
	}},
	"product-d4-d10": {"d4 times d10", func(*Catalog) (dice.Die, error) {
		return die(dice.Product(fair(4), fair(10)))
	}},
	"exponent-d4-d3": {"d4 to the power of d3", func(*Catalog) (dice.Die, error) {
		return die(dice.Exponent(fair(4), fair(3)))
	}},
	"modulo-d20-d5": {"d20 modulo d5", func(*Catalog) (dice.Die, error) {
		return die(dice.Modulo(fair(20), fair(5)))
	}},
	"gcd-d6-d10": {"greatest common divisor of d6 and d10", func(*Catalog) (dice.Die, error) {
		return die(dice.GCD(fair(6), fair(10)))
	}},
	"lcm-d4-d8": {"least common multiple of d4 and d8", func(*Catalog) (dice.Die, error) {
		return die(dice.LCM(fair(4), fair(8)))
	}},
	"hypotenuse-d6-d8": {"hypotenuse of a d6 by d8 triangle", func(*Catalog) (dice.Die, error) {
		return die(dice.Hypotenuse(fair(6), fair(8)))
	}},
	"concat-d4-d6": {"d4 and d6 written side by side, largest first", func(*Catalog) (dice.Die, error) {
		return die(dice.Concat(fair(4), fair(6)))
	}},
	"xor-d2-d2": {"exclusive or of two coins showing 0 or 1", func(*Catalog) (dice.Die, error) {
		a, err := dice.NewLeaf(0, 1)
		if err != nil {
			return nil, err
		}
		b, err := dice.NewLeaf(0, 1)
		if err != nil {
			return nil, err
		}
		return die(dice.Xor(a, b))
	}},
	"routing-d6": {"d6 choosing among d4, d8, d10, d3, d20 and d4", func(*Catalog) (dice.Die, error) {
		return die(dice.NewRouting(fair(6), []dice.Die{fair(4), fair(8), fair(10), fair(3), fair(20), fair(4)}))
	}},
	"routing-product-d6": {"d6 choosing how many d6 to multiply", func(*Catalog) (dice.Die, error) {
		branches := []dice.Die{fair(6)}
		for k := 2; k <= 6; k++ {
			p, err := dice.Product(fairs(6, k)...)
			if err != nil {
				return nil, err
			}
			branches = append(branches, p)
		}
		return die(dice.NewRouting(fair(6), branches))
	}},
	"for-d4-d6": {"sum of d6 rolls of a d4", func(*Catalog) (dice.Die, error) {
		return die(dice.NewForLoop(fair(4), fair(6)))
	}},
	"while-d4": {"keep adding a d4 while a d4 shows 3", func(c *Catalog) (dice.Die, error) {
		return die(dice.NewWhileLoop(fair(4), fair(4), 3, c.loopCap))
	}},
	"mean-d6-d8-d10": {"mean of d6, d8 and d10", func(*Catalog) (dice.Die, error) {
		return die(dice.Mean(fair(6), fair(8), fair(10)))
	}},
	"median-d6-d8-d10": {"median of d6, d8 and d10", func(*Catalog) (dice.Die, error) {
		return die(dice.Median(fair(6), fair(8), fair(10)))
	}},
	"mode-d6-d8-d10": {"mode of d6, d8 and d10", func(*Catalog) (dice.Die, error) {
		return die(dice.Mode(fair(6), fair(8), fair(10)))
	}},
	"stddev-d6-d8-d10": {"standard deviation of d6, d8 and d10", func(*Catalog) (dice.Die, error) {
		return die(dice.StdDev(fair(6), fair(8), fair(10)))
	}},
	"range-d6-d8-d10": {"range of d6, d8 and d10", func(*Catalog) (dice.Die, error) {
		return die(dice.Range(fair(6), fair(8), fair(10)))
	}},
	"weighted-mean": {"d6, d8 and d10 weighted by three d4", func(*Catalog) (dice.Die, error) {
		return die(dice.WeightedMean(
			[]dice.Die{fair(6), fair(8), fair(10)},
			fairs(4, 3)))
	}},
	"agree-d6-d8": {"d6 and d8 rerolled until they agree", func(*Catalog) (dice.Die, error) {
		return die(dice.NewAgreement(fair(6), fair(8)))
	}},
	"running-sum-d6": {"running total of every d6 drawn", func(*Catalog) (dice.Die, error) {
		return die(dice.RunningSum(fair(6)))
	}},
	"deck-d6": {"a d6 whose faces are used up as they are drawn", func(*Catalog) (dice.Die, error) {
		return die(dice.NewRemovePool(1, 2, 3, 4, 5, 6))
	}},
	"polya-d6": {"a d6 that adds another copy of every face drawn", func(*Catalog) (dice.Die, error) {
		return die(dice.NewAppendPool(1, 2, 3, 4, 5, 6))
	}},
	"carousel-d4-d6-d8": {"d4, d6 and d8 taking turns", func(*Catalog) (dice.Die, error) {
		return die(dice.NewCarousel(fair(4), fair(6), fair(8)))
	}},
}

// Named builds a fresh named die.
func (c *Catalog) Named(name string) (dice.Die, error) {
	e, ok := named[name]
	if !ok {
		return nil, ErrUnknownDie.With(apperrors.MetaName, name)
	}
	return e.build(c)
}

// Describe returns the one-line description of a named die.
func Describe(name string) (string, bool) {
	e, ok := named[name]
	return e.description, ok
}

// Names lists the named dice, sorted.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
