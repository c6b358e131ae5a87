// Package report compares a die's exact distribution with a seeded run of
// samples, and renders the comparison.
package report

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/fairdice/internal/core/check"
	"github.com/louisbranch/fairdice/internal/core/dice"
	"github.com/louisbranch/fairdice/internal/core/matrix"
	"github.com/louisbranch/fairdice/internal/core/outcome"
	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
	"github.com/louisbranch/fairdice/internal/random"
)

const tracerName = "fairdice/report"

// ErrInvalidSamples indicates a negative sample count.
var ErrInvalidSamples = apperrors.New(apperrors.CodeReportInvalidSamples, "sample count must not be negative")

// Options controls the sampled half of a report.
type Options struct {
	Samples int
	Seed    int64
	// Difficulty adds the exact chance to meet it when non-zero.
	Difficulty int
}

// Row is one value of the report table.
type Row struct {
	Value           int     `json:"value" yaml:"value"`
	Weight          uint64  `json:"weight" yaml:"weight"`
	Exact           string  `json:"exact" yaml:"exact"`
	ExactPercent    float64 `json:"exact_percent" yaml:"exact_percent"`
	Observed        int     `json:"observed" yaml:"observed"`
	ObservedPercent float64 `json:"observed_percent" yaml:"observed_percent"`
}

// Chance is the exact resolution of a difficulty check.
type Chance struct {
	Difficulty     int     `json:"difficulty" yaml:"difficulty"`
	Success        string  `json:"success" yaml:"success"`
	Percent        float64 `json:"percent" yaml:"percent"`
	ExpectedMargin string  `json:"expected_margin" yaml:"expected_margin"`
}

// FirstDraw is the share and conditional mean of the outcomes that start
// with one first draw.
type FirstDraw struct {
	Draw  int    `json:"draw" yaml:"draw"`
	Share string `json:"share" yaml:"share"`
	Mean  string `json:"mean" yaml:"mean"`
}

// maxFirstDraws caps the breakdown; wider first draws are left out.
const maxFirstDraws = 20

// Report is the exact and sampled view of one die.
type Report struct {
	Die      string `json:"die" yaml:"die"`
	Kind     string `json:"kind" yaml:"kind"`
	Bound    int    `json:"bound" yaml:"bound"`
	Outcomes int    `json:"outcomes" yaml:"outcomes"`
	Mean     string `json:"mean" yaml:"mean"`
	Samples  int    `json:"samples" yaml:"samples"`
	// Drawn is lower than Samples when the die ran out of values.
	Drawn int   `json:"drawn" yaml:"drawn"`
	Seed  int64 `json:"seed" yaml:"seed"`
	// Window is set for rotating and carousel dice, whose exact column then
	// covers a full cycle of draws instead of the next one.
	Window        bool  `json:"window" yaml:"window"`
	WindowUniform *bool `json:"window_uniform,omitempty" yaml:"window_uniform,omitempty"`
	// Snapshot is set when the exact column only describes the die's state
	// at the start of the run, which later draws move away from.
	Snapshot   bool        `json:"snapshot" yaml:"snapshot"`
	Chance     *Chance     `json:"chance,omitempty" yaml:"chance,omitempty"`
	FirstDraws []FirstDraw `json:"first_draws,omitempty" yaml:"first_draws,omitempty"`
	Rows       []Row       `json:"rows" yaml:"rows"`
}

// windowed dice expose the distribution of a full cycle of draws.
type windowed interface {
	WindowDistribution() (*outcome.Distribution, error)
}

// Build enumerates d, samples it opts.Samples times from opts.Seed and
// assembles the report. Stateful dice are reset before and after sampling.
func Build(ctx context.Context, name string, d dice.Die, opts Options) (*Report, error) {
	if opts.Samples < 0 {
		return nil, ErrInvalidSamples.With(apperrors.MetaValue, strconv.Itoa(opts.Samples))
	}

	outs, dist, window, err := exact(ctx, name, d)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Die:      name,
		Kind:     d.Kind().String(),
		Bound:    d.Bound(),
		Outcomes: len(outs),
		Mean:     dist.Mean().RatString(),
		Samples:  opts.Samples,
		Seed:     opts.Seed,
		Window:   window,
		Snapshot: snapshot(d, window),
	}
	if _, ok := d.(*dice.Rotating); ok {
		uniform := dist.IsUniform()
		r.WindowUniform = &uniform
	}
	if opts.Difficulty != 0 {
		odds := check.Chance(dist, opts.Difficulty)
		percent, _ := new(big.Rat).Mul(odds.Success, big.NewRat(100, 1)).Float64()
		r.Chance = &Chance{
			Difficulty:     odds.Difficulty,
			Success:        odds.Success.RatString(),
			Percent:        percent,
			ExpectedMargin: odds.ExpectedMargin.RatString(),
		}
	}

	if !window {
		if r.FirstDraws, err = firstDraws(outs); err != nil {
			return nil, err
		}
	}

	observed, drawn, err := sample(ctx, name, d, opts)
	if err != nil {
		return nil, err
	}
	r.Drawn = drawn
	r.Rows = rows(dist, observed, drawn)
	return r, nil
}

func exact(ctx context.Context, name string, d dice.Die) (outcome.Outcomes, *outcome.Distribution, bool, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "dice.enumerate",
		trace.WithAttributes(
			attribute.String("die", name),
			attribute.String("kind", d.Kind().String()),
		),
	)
	defer span.End()

	outs, err := d.Enumerate()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enumerate failed")
		return nil, nil, false, err
	}

	var dist *outcome.Distribution
	w, window := d.(windowed)
	if window {
		dist, err = w.WindowDistribution()
	} else {
		dist, err = outcome.NewDistribution(outs)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "distribution failed")
		return nil, nil, false, err
	}
	span.SetAttributes(
		attribute.Int("outcomes", len(outs)),
		attribute.Bool("window", window),
	)
	return outs, dist, window, nil
}

// firstDraws splits the next-draw enumeration by the first recorded draw.
// Single-draw dice have nothing to split.
func firstDraws(outs outcome.Outcomes) ([]FirstDraw, error) {
	m := matrix.Project(outs)
	cells := m.Children()
	if m.Depth() < 2 || len(cells) > maxFirstDraws {
		return nil, nil
	}
	total, err := m.Weight()
	if err != nil {
		return nil, err
	}
	out := make([]FirstDraw, 0, len(cells))
	for _, cell := range cells {
		w, err := cell.Weight()
		if err != nil {
			return nil, err
		}
		dist, err := cell.Distribution()
		if err != nil {
			return nil, err
		}
		share := new(big.Rat).SetFrac(new(big.Int).SetUint64(w), new(big.Int).SetUint64(total))
		out = append(out, FirstDraw{
			Draw:  cell.Coordinate(),
			Share: share.RatString(),
			Mean:  dist.Mean().RatString(),
		})
	}
	return out, nil
}

// snapshot reports whether the exact column is tied to the starting state.
// A window root already accounts for its own position, so only its children
// count.
func snapshot(d dice.Die, window bool) bool {
	if !window {
		return dice.Stateful(d)
	}
	for _, child := range dice.Children(d) {
		if dice.Stateful(child) {
			return true
		}
	}
	return false
}

func sample(ctx context.Context, name string, d dice.Die, opts Options) (map[int]int, int, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dice.sample",
		trace.WithAttributes(
			attribute.String("die", name),
			attribute.Int("samples", opts.Samples),
			attribute.Int64("seed", opts.Seed),
		),
	)
	defer span.End()

	dice.ResetAll(d)
	defer dice.ResetAll(d)

	rng := random.New(opts.Seed)
	observed := map[int]int{}
	drawn := 0
	for ; drawn < opts.Samples; drawn++ {
		if drawn%4096 == 0 {
			if err := ctx.Err(); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "sampling cancelled")
				return nil, 0, err
			}
		}
		v, err := d.Sample(rng)
		if errors.Is(err, dice.ErrExhausted) {
			span.SetAttributes(attribute.Bool("exhausted", true))
			break
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "sample failed")
			return nil, 0, err
		}
		observed[v]++
	}
	span.SetAttributes(attribute.Int("drawn", drawn))
	return observed, drawn, nil
}

// rows merges the exact masses with the observed counts. Sampling can reach
// values enumeration cuts off, such as long loop chains; those rows carry an
// exact weight of zero.
func rows(dist *outcome.Distribution, observed map[int]int, drawn int) []Row {
	byValue := map[int]*Row{}
	for _, m := range dist.Masses() {
		p := dist.Probability(m.Value)
		percent, _ := new(big.Rat).Mul(p, big.NewRat(100, 1)).Float64()
		byValue[m.Value] = &Row{Value: m.Value, Weight: m.Weight, Exact: p.RatString(), ExactPercent: percent}
	}
	for v, n := range observed {
		row, ok := byValue[v]
		if !ok {
			row = &Row{Value: v, Exact: "0"}
			byValue[v] = row
		}
		row.Observed = n
		if drawn > 0 {
			row.ObservedPercent = float64(n) * 100 / float64(drawn)
		}
	}
	out := make([]Row, 0, len(byValue))
	for _, row := range byValue {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
