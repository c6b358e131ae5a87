package dice

import (
	"math/rand"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
)

// Notation limits. Counts add up across every term of one notation.
const (
	MaxDiceCount = 1000
	MaxDiceSides = 1000
)

var (
	// ErrMissingDice indicates a roll request without any dice.
	ErrMissingDice = apperrors.New(apperrors.CodeDieInvalid, "at least one die must be provided").
			With(apperrors.MetaNode, "roll").
			With(apperrors.MetaOperand, "dice")
	// ErrInvalidDiceSpec indicates a spec with non-positive sides or count, or
	// one past MaxDiceCount or MaxDiceSides.
	ErrInvalidDiceSpec = apperrors.New(apperrors.CodeDieInvalid, "dice spec must have positive sides and count").
				With(apperrors.MetaNode, "roll").
				With(apperrors.MetaOperand, "spec")
)

// Spec describes Count fair dice of Sides sides, as in "2d6".
type Spec struct {
	Sides int
	Count int
}

// String formats the spec in dice notation.
func (s Spec) String() string {
	return strconv.Itoa(s.Count) + "d" + strconv.Itoa(s.Sides)
}

// Roll holds the draws made for one Spec.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Result holds every Roll of a request and their grand total.
type Result struct {
	Rolls []Roll
	Total int
}

// Request asks for the dice in Dice to be rolled from Seed.
type Request struct {
	Dice []Spec
	Seed int64
}

// RollDice rolls dice based on the provided request.
//
// # Determinism
//
// RollDice is deterministic with respect to the Seed field on Request.
// Given the same Seed and the same Dice slice (including order and values),
// RollDice will always produce the same Result.
//
// # Ordering
//
// Specs are processed in slice order and Result.Rolls follows that order.
//
// # Errors
//
//   - At least one Spec must be provided, otherwise ErrMissingDice.
//   - Each Spec must have Sides in 1..MaxDiceSides and Count > 0, and the
//     counts together must not pass MaxDiceCount, otherwise ErrInvalidDiceSpec.
func RollDice(request Request) (Result, error) {
	return RollWithRng(rand.New(rand.NewSource(request.Seed)), request.Dice)
}

// RollWithRng rolls dice using a provided random source.
func RollWithRng(rng *rand.Rand, specs []Spec) (Result, error) {
	groups, err := buildGroups(specs)
	if err != nil {
		return Result{}, err
	}

	rolls := make([]Roll, 0, len(specs))
	total := 0
	for i, group := range groups {
		results := make([]int, len(group))
		rollTotal := 0
		for j, d := range group {
			v, err := d.Sample(rng)
			if err != nil {
				return Result{}, err
			}
			results[j] = v
			rollTotal += v
		}
		rolls = append(rolls, Roll{Sides: specs[i].Sides, Results: results, Total: rollTotal})
		total += rollTotal
	}
	return Result{Rolls: rolls, Total: total}, nil
}

// FromSpecs builds the die that sums every die named by specs.
func FromSpecs(specs ...Spec) (Die, error) {
	groups, err := buildGroups(specs)
	if err != nil {
		return nil, err
	}
	var all []Die
	for _, group := range groups {
		all = append(all, group...)
	}
	if len(all) == 1 {
		return all[0], nil
	}
	return Sum(all...)
}

func buildGroups(specs []Spec) ([][]Die, error) {
	if len(specs) == 0 {
		return nil, ErrMissingDice
	}
	total := 0
	for _, spec := range specs {
		if err := checkSpec(spec, &total); err != nil {
			return nil, err
		}
	}
	groups := make([][]Die, 0, len(specs))
	for _, spec := range specs {
		group := make([]Die, spec.Count)
		for i := range group {
			d, err := Sequential(spec.Sides)
			if err != nil {
				return nil, err
			}
			group[i] = d
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// checkSpec validates one spec and adds its count to the running total.
func checkSpec(spec Spec, total *int) error {
	if spec.Sides <= 0 || spec.Count <= 0 {
		return ErrInvalidDiceSpec
	}
	if spec.Sides > MaxDiceSides {
		return ErrInvalidDiceSpec.With(apperrors.MetaValue, strconv.Itoa(spec.Sides))
	}
	if spec.Count > MaxDiceCount-*total {
		return ErrInvalidDiceSpec.With(apperrors.MetaValue, strconv.Itoa(spec.Count))
	}
	*total += spec.Count
	return nil
}

// ParseNotation parses dice notation such as "d20", "2d6" or "2d6+1d8".
func ParseNotation(notation string) ([]Spec, error) {
	trimmed := strings.ToLower(strings.TrimSpace(notation))
	if trimmed == "" {
		return nil, ErrMissingDice
	}
	var specs []Spec
	total := 0
	for _, term := range strings.Split(trimmed, "+") {
		count, sides, ok := strings.Cut(strings.TrimSpace(term), "d")
		if !ok {
			return nil, ErrInvalidDiceSpec
		}
		spec := Spec{Count: 1}
		if count != "" {
			n, err := strconv.Atoi(count)
			if err != nil {
				return nil, ErrInvalidDiceSpec
			}
			spec.Count = n
		}
		n, err := strconv.Atoi(sides)
		if err != nil {
			return nil, ErrInvalidDiceSpec
		}
		spec.Sides = n
		if err := checkSpec(spec, &total); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
