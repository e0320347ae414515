package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// groups are the metric groups every table shows side by side.
var groups = []string{"Lines", "Functions"}

// newTable returns a borderless table whose header names the metric groups
// above their columns. Each group has a "│" separator column followed by
// one column per metric. Data rows go in the body; trace totals go in the
// footer, where the name column is right aligned.
func newTable(metrics ...string) table.Writer {
	t := table.NewWriter()

	style := table.StyleDefault
	style.Options = table.OptionsNoBordersAndSeparators
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)

	title := table.Row{""}
	names := table.Row{""}
	configs := []table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignFooter: text.AlignRight},
	}
	for _, g := range groups {
		title = append(title, "")
		names = append(names, "│")
		configs = append(configs, table.ColumnConfig{Number: len(names), Align: text.AlignLeft})
		for _, m := range metrics {
			title = append(title, g)
			names = append(names, m)
			configs = append(configs, table.ColumnConfig{
				Number:      len(names),
				Align:       text.AlignRight,
				AlignHeader: text.AlignRight,
				AlignFooter: text.AlignRight,
			})
		}
	}

	t.AppendHeader(title, table.RowConfig{AutoMerge: true, AutoMergeAlign: text.AlignCenter})
	t.AppendHeader(names)
	t.SetColumnConfigs(configs)
	return t
}

func render(w io.Writer, t table.Writer) error {
	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}
