// Package dice parses fairdice command flags and runs one report.
package dice

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	"google.golang.org/grpc/codes"

	"github.com/louisbranch/fairdice/internal/catalog"
	coredice "github.com/louisbranch/fairdice/internal/core/dice"
	entrypoint "github.com/louisbranch/fairdice/internal/platform/cmd"
	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
	"github.com/louisbranch/fairdice/internal/random"
	"github.com/louisbranch/fairdice/internal/report"
)

// Config holds dice command configuration.
type Config struct {
	Die        string `env:"FAIRDICE_DIE"        envDefault:"d6"`
	Samples    int    `env:"FAIRDICE_SAMPLES"    envDefault:"10000"`
	Seed       int64  `env:"FAIRDICE_SEED"`
	Format     string `env:"FAIRDICE_FORMAT"     envDefault:"text"`
	Locale     string `env:"FAIRDICE_LOCALE"     envDefault:"en-US"`
	LoopCap    int    `env:"FAIRDICE_LOOP_CAP"   envDefault:"8"`
	Difficulty int    `env:"FAIRDICE_DIFFICULTY"`
	List       bool
	Recipes    bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Die, "die", cfg.Die, "die to report: d1..d100, a named die or dice notation such as 2d6+1d8")
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "number of draws to sample")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducibility (0 = random)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format (text, json, yaml)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for text output and errors")
	fs.IntVar(&cfg.LoopCap, "loop-cap", cfg.LoopCap, "enumeration cap for looping named dice")
	fs.IntVar(&cfg.Difficulty, "difficulty", cfg.Difficulty, "report the chance to meet this total (0 = off)")
	fs.BoolVar(&cfg.List, "list", false, "list named dice")
	fs.BoolVar(&cfg.Recipes, "recipes", false, "list how d1..d100 are built")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run lists dice or builds and renders a single report to out. Progress goes
// to errOut.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger := log.New(errOut, "", 0)

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	cat, err := catalog.New(cfg.LoopCap)
	if err != nil {
		return err
	}
	if cfg.List {
		return listNamed(out)
	}
	if cfg.Recipes {
		return listRecipes(out, cat)
	}

	d, err := cat.Lookup(cfg.Die)
	if err != nil {
		return err
	}
	seed, err := random.SeedOrNew(cfg.Seed)
	if err != nil {
		return err
	}
	if seed != cfg.Seed {
		logger.Printf("seed %d", seed)
	}
	if coredice.Stateful(d) {
		logger.Printf("%s keeps state between draws", cfg.Die)
	}

	r, err := report.Build(ctx, cfg.Die, d, report.Options{
		Samples:    cfg.Samples,
		Seed:       seed,
		Difficulty: cfg.Difficulty,
	})
	if err != nil {
		return err
	}
	return report.Render(out, r, format, cfg.Locale)
}

// RunWithTelemetry runs the command with tracing configured from env.
func RunWithTelemetry(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDice, func(ctx context.Context) error {
		return Run(ctx, cfg, out, errOut)
	})
}

// Fail writes err to errOut in the configured format and locale and returns
// the process exit status for it. An unsupported format falls back to text.
func Fail(errOut io.Writer, cfg Config, err error) int {
	format, ferr := report.ParseFormat(cfg.Format)
	if ferr != nil {
		format = report.FormatText
	}
	if rerr := report.RenderError(errOut, err, format, cfg.Locale); rerr != nil {
		log.Printf("render error: %v", rerr)
	}
	return ExitCode(err)
}

// ExitCode maps err to an exit status through its gRPC code: 2 for bad
// input, 3 for dice that cannot be drawn or enumerated, 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch apperrors.GetCode(err).GRPCCode() {
	case codes.InvalidArgument, codes.NotFound:
		return 2
	case codes.OutOfRange, codes.ResourceExhausted:
		return 3
	default:
		return 1
	}
}

func listNamed(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range catalog.Names() {
		desc, _ := catalog.Describe(name)
		fmt.Fprintf(tw, "%s\t%s\n", name, desc)
	}
	return tw.Flush()
}

func listRecipes(out io.Writer, cat *catalog.Catalog) error {
	for _, r := range cat.Recipes() {
		if _, err := fmt.Fprintln(out, r); err != nil {
			return err
		}
	}
	return nil
}
