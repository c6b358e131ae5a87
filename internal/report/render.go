package report

import (
	"io"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/fairdice/internal/platform/errors"
	i18ncatalog "github.com/louisbranch/fairdice/internal/platform/i18n/catalog"
)

// Format is an output format for Render.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrInvalidFormat indicates an unsupported output format.
var ErrInvalidFormat = apperrors.New(apperrors.CodeReportInvalidFormat, "unsupported report format")

// ParseFormat accepts text, json and yaml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", ErrInvalidFormat.With(apperrors.MetaValue, s)
	}
}

// Render writes r to w. Text labels and numbers follow locale; json and yaml
// are locale independent.
func Render(w io.Writer, r *Report, format Format, locale string) error {
	if format == FormatText {
		return renderText(w, r, locale)
	}
	return encode(w, r, format)
}

func encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return ErrInvalidFormat.With(apperrors.MetaValue, string(format))
	}
}

// ErrorDocument is the structured form of a failed run, read back from the
// gRPC status the error maps to.
type ErrorDocument struct {
	Status   string            `json:"status" yaml:"status"`
	Reason   string            `json:"reason" yaml:"reason"`
	Message  string            `json:"message" yaml:"message"`
	Locale   string            `json:"locale,omitempty" yaml:"locale,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewErrorDocument describes err in locale. Errors outside the domain keep
// their own text and report an internal status.
func NewErrorDocument(err error, locale string) ErrorDocument {
	st := status.Convert(apperrors.HandleError(err, locale))
	doc := ErrorDocument{
		Status:  st.Code().String(),
		Reason:  string(apperrors.CodeUnknown),
		Message: apperrors.Localize(err, locale),
	}
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			doc.Reason = d.GetReason()
			if len(d.GetMetadata()) > 0 {
				doc.Metadata = d.GetMetadata()
			}
		case *errdetails.LocalizedMessage:
			doc.Message = d.GetMessage()
			doc.Locale = d.GetLocale()
		}
	}
	return doc
}

// RenderError writes err to w in format. Text is a single localized line.
func RenderError(w io.Writer, err error, format Format, locale string) error {
	if err == nil {
		return nil
	}
	doc := NewErrorDocument(err, locale)
	if format == FormatText {
		p := i18ncatalog.Default().Printer(locale)
		p.Fprintf(w, "report.error", doc.Message)
		_, werr := p.Fprintln(w)
		return werr
	}
	return encode(w, doc, format)
}

func renderText(w io.Writer, r *Report, locale string) error {
	p := i18ncatalog.Default().Printer(locale)

	p.Fprintf(w, "report.title", r.Die)
	p.Fprintln(w)
	p.Fprintf(w, "report.bound", r.Bound)
	p.Fprintln(w)
	p.Fprintf(w, "report.outcomes", r.Outcomes)
	p.Fprintln(w)
	p.Fprintf(w, "report.mean", r.Mean)
	p.Fprintln(w)
	p.Fprintf(w, "report.samples", r.Drawn, r.Seed)
	p.Fprintln(w)
	if r.Window {
		p.Fprintf(w, "report.windowed")
		p.Fprintln(w)
	}
	if r.WindowUniform != nil {
		p.Fprintf(w, "report.window", *r.WindowUniform)
		p.Fprintln(w)
	}
	if r.Snapshot {
		p.Fprintf(w, "report.snapshot")
		p.Fprintln(w)
	}
	if r.Chance != nil {
		p.Fprintf(w, "report.difficulty", r.Chance.Difficulty, r.Chance.Success, r.Chance.Percent)
		p.Fprintln(w)
	}
	for _, fd := range r.FirstDraws {
		p.Fprintf(w, "report.first_draw", fd.Draw, fd.Share, fd.Mean)
		p.Fprintln(w)
	}
	p.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	p.Fprintf(tw, "report.header")
	p.Fprintln(tw, "\t")
	for _, row := range r.Rows {
		p.Fprintf(tw, "%d\t%d\t%s\t%.2f\t%d\t%.2f\t\n",
			row.Value, row.Weight, row.Exact, row.ExactPercent, row.Observed, row.ObservedPercent)
	}
	return tw.Flush()
}
