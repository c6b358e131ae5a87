// Package dice builds composable finite dice and evaluates them two ways.
//
// A Die is either a leaf, which draws from an explicit multiset of values, or
// a combinator that derives its value from child dice it owns. Every die can
//
//   - Sample: make one stochastic draw from a caller-provided *rand.Rand,
//   - Enumerate: list its whole outcome space with exact integer weights,
//   - Bound: report a structural upper bound computed at construction.
//
// # Determinism
//
// Sampling is deterministic with respect to the random source: the same seed
// and the same tree (including internal state) always produce the same draws.
// Enumeration never consumes randomness and, except for the stateful nodes
// documented below, never changes state.
//
// # State
//
// Pool, Tracker, Carousel and Rotating keep mutable state apart from their
// structure. Sample advances that state; Enumerate describes the next draw
// given the current state; Reset restores the state a node was built with.
// ResetAll resets every stateful node of a tree.
//
// # Concurrency
//
// Dice are not safe for concurrent use. Stateless trees could be sampled
// concurrently with separate sources, but a stateful node requires every draw
// to complete before the next begins.
//
// # Errors
//
// Construction fails with ErrInvalidDie. A draw whose operand falls outside an
// operation's domain fails with ErrDrawDomain. An exhausted pool or use limit
// fails with ErrExhausted. Enumeration that would grow past MaxOutcomes fails
// with outcome.ErrTooManyOutcomes.
package dice
