// Package check resolves difficulty checks, either against one drawn total or
// exactly against a die's whole distribution.
package check

import (
	"math/big"
	"math/rand"

	"github.com/louisbranch/fairdice/internal/core/dice"
	"github.com/louisbranch/fairdice/internal/core/outcome"
)

// MeetsDifficulty returns true if total >= difficulty.
// This is the most common difficulty check in tabletop RPGs.
func MeetsDifficulty(total, difficulty int) bool {
	return total >= difficulty
}

// Margin calculates the margin of success or failure.
// Positive values indicate success, negative indicate failure.
func Margin(total, difficulty int) int {
	return total - difficulty
}

// Result represents the outcome of a difficulty check.
type Result struct {
	Total   int
	Success bool
	Margin  int
}

// Check performs a difficulty check and returns the result.
func Check(total, difficulty int) Result {
	return Result{
		Total:   total,
		Success: MeetsDifficulty(total, difficulty),
		Margin:  Margin(total, difficulty),
	}
}

// Roll draws d once and checks the draw.
func Roll(rng *rand.Rand, d dice.Die, difficulty int) (Result, error) {
	total, err := d.Sample(rng)
	if err != nil {
		return Result{}, err
	}
	return Check(total, difficulty), nil
}

// Odds is the exact resolution of a check over a distribution.
type Odds struct {
	Difficulty     int
	Success        *big.Rat
	Failure        *big.Rat
	ExpectedMargin *big.Rat
}

// Chance resolves a check against every value of dist.
func Chance(dist *outcome.Distribution, difficulty int) Odds {
	success := dist.AtLeast(difficulty)
	failure := new(big.Rat).Sub(big.NewRat(1, 1), success)
	if dist.Total() == 0 {
		failure = new(big.Rat)
	}
	margin := new(big.Rat).Sub(dist.Mean(), new(big.Rat).SetInt64(int64(difficulty)))
	return Odds{
		Difficulty:     difficulty,
		Success:        success,
		Failure:        failure,
		ExpectedMargin: margin,
	}
}

// ChanceOf enumerates d and resolves the check exactly.
func ChanceOf(d dice.Die, difficulty int) (Odds, error) {
	outs, err := d.Enumerate()
	if err != nil {
		return Odds{}, err
	}
	dist, err := outcome.NewDistribution(outs)
	if err != nil {
		return Odds{}, err
	}
	return Chance(dist, difficulty), nil
}
