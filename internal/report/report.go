package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/zjy-dev/lcovsum/internal/coverage"
	"github.com/zjy-dev/lcovsum/internal/lcov"
)

// Renderer presents parsed traces to the user.
type Renderer interface {
	// Files writes one row per source file followed by the trace total.
	Files(doc *lcov.Document) error

	// Summary writes the trace total only.
	Summary(doc *lcov.Document) error

	// Compare writes the totals of both traces and their difference. With
	// perFile set, a per-file comparison precedes the totals.
	Compare(base, other *lcov.Document, perFile bool) error
}

// Options configures a TableRenderer.
type Options struct {
	Color bool

	// Percentages below Low are red, below High yellow, green otherwise.
	Low  float64
	High float64

	// TrimAt shortens file names to the part after the first occurrence of
	// this marker, e.g. "/home/me/crate/src/lib.rs" -> "src/lib.rs".
	TrimAt string
}

// TableRenderer renders clean, column-aligned tables.
type TableRenderer struct {
	out  io.Writer
	opts Options

	red    *color.Color
	yellow *color.Color
	green  *color.Color
	faint  *color.Color
}

var _ Renderer = (*TableRenderer)(nil)

// NewTableRenderer creates a renderer writing to out.
func NewTableRenderer(out io.Writer, opts Options) *TableRenderer {
	r := &TableRenderer{
		out:    out,
		opts:   opts,
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		faint:  color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{r.red, r.yellow, r.green, r.faint} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Files writes one row per source file followed by the trace total.
func (r *TableRenderer) Files(doc *lcov.Document) error {
	t := newTable("Hit", "Total", "H/T")
	for _, f := range doc.Files {
		t.AppendRow(r.summaryRow(r.shorten(f.Path), coverage.SummarizeFile(f)))
	}
	t.AppendFooter(r.summaryRow(doc.Name, coverage.Summarize(doc)))
	return render(r.out, t)
}

// Summary writes the trace total only.
func (r *TableRenderer) Summary(doc *lcov.Document) error {
	t := newTable("Hit", "Total", "H/T")
	t.AppendFooter(r.summaryRow(doc.Name, coverage.Summarize(doc)))
	return render(r.out, t)
}

// Compare writes the totals of both traces and their difference.
func (r *TableRenderer) Compare(base, other *lcov.Document, perFile bool) error {
	if perFile {
		if err := r.compareFiles(base, other); err != nil {
			return err
		}
		if _, err := io.WriteString(r.out, "\n"); err != nil {
			return err
		}
	}

	baseSum := coverage.Summarize(base)
	otherSum := coverage.Summarize(other)

	t := newTable("Hit", "Total", "H/T")
	t.AppendFooter(r.summaryRow(base.Name, baseSum))
	t.AppendFooter(r.summaryRow(other.Name, otherSum))
	t.AppendFooter(r.diffRow("diff", coverage.Diff(baseSum, otherSum)))
	return render(r.out, t)
}

// compareFiles writes the other side's counters for every file with the
// percentage change next to them.
func (r *TableRenderer) compareFiles(base, other *lcov.Document) error {
	t := newTable("Hit", "Total", "H/T", "Δ")
	for _, fd := range coverage.DiffFiles(base, other) {
		name := r.shorten(fd.Path)
		side := fd.Other
		switch fd.Status {
		case coverage.Added:
			name += " (new)"
		case coverage.Removed:
			name += " (removed)"
			side = fd.Base
		}
		t.AppendRow(table.Row{
			name, "│",
			side.TotalLinesHit,
			side.TotalLinesFound,
			r.percentCell(side.LinesPercentage()),
			r.percentDiffCell(fd.Diff.Lines.Percentage),
			"│",
			side.TotalFunctionsHit,
			side.TotalFunctionsFound,
			r.percentCell(side.FunctionsPercentage()),
			r.percentDiffCell(fd.Diff.Functions.Percentage),
		})
	}
	return render(r.out, t)
}

func (r *TableRenderer) summaryRow(name string, s coverage.Summary) table.Row {
	return table.Row{
		name, "│",
		s.TotalLinesHit,
		s.TotalLinesFound,
		r.percentCell(s.LinesPercentage()),
		"│",
		s.TotalFunctionsHit,
		s.TotalFunctionsFound,
		r.percentCell(s.FunctionsPercentage()),
	}
}

func (r *TableRenderer) diffRow(name string, d coverage.SummaryDiff) table.Row {
	return table.Row{
		name, "│",
		signed(d.Lines.Hit),
		signed(d.Lines.Found),
		r.percentDiffCell(d.Lines.Percentage),
		"│",
		signed(d.Functions.Hit),
		signed(d.Functions.Found),
		r.percentDiffCell(d.Functions.Percentage),
	}
}

func (r *TableRenderer) percentCell(p coverage.Percent) string {
	switch {
	case !p.Defined():
		return r.faint.Sprint(p.String())
	case float64(p) < r.opts.Low:
		return r.red.Sprint(p.String())
	case float64(p) < r.opts.High:
		return r.yellow.Sprint(p.String())
	default:
		return r.green.Sprint(p.String())
	}
}

func (r *TableRenderer) percentDiffCell(p coverage.Percent) string {
	switch {
	case !p.Defined():
		return r.faint.Sprint(p.String())
	case p == 0:
		return r.yellow.Sprint("= 0.00%")
	case p > 0:
		return r.green.Sprint("+ " + p.String())
	default:
		return r.red.Sprint("- " + (-p).String())
	}
}

// signed formats a count delta; zero is left blank.
func signed(n int) string {
	switch {
	case n > 0:
		return fmt.Sprintf("+ %d", n)
	case n < 0:
		return fmt.Sprintf("- %d", -n)
	default:
		return ""
	}
}

func (r *TableRenderer) shorten(path string) string {
	if r.opts.TrimAt == "" {
		return path
	}
	if i := strings.Index(path, r.opts.TrimAt); i >= 0 {
		return strings.TrimPrefix(path[i:], "/")
	}
	return path
}
