package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Format string

const (
	FormatTable    = Format("table")
	FormatCSV      = Format("csv")
	FormatMarkdown = Format("markdown")
	FormatHTML     = Format("html")
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatCSV, FormatMarkdown, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, csv, markdown or html)", s)
}

// Render writes the rows table followed by the summary table.
func Render(w io.Writer, r Report, f Format) error {
	rows := buildRowsWriter(r, f)
	summary := buildSummaryWriter(r)

	var out []string
	for _, tw := range []table.Writer{rows, summary} {
		switch f {
		case FormatTable:
			out = append(out, tw.Render())
		case FormatCSV:
			out = append(out, tw.RenderCSV())
		case FormatMarkdown:
			out = append(out, tw.RenderMarkdown())
		case FormatHTML:
			out = append(out, tw.RenderHTML())
		default:
			return fmt.Errorf("unknown format %q", f)
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(out, "\n\n"))
	return err
}

func buildRowsWriter(r Report, f Format) table.Writer {
	t := table.NewWriter()
	if f == FormatTable {
		t.SetTitle(r.Title)
	}
	t.AppendHeader(toRow(r.Header))
	for _, row := range r.Rows {
		t.AppendRow(toRow(row))
	}
	if len(r.Rows) == 0 {
		empty := make(table.Row, len(r.Header))
		for i := range empty {
			empty[i] = "-"
		}
		t.AppendRow(empty)
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	return t
}

func buildSummaryWriter(r Report) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Summary", ""})
	for _, line := range r.Summary {
		t.AppendRow(table.Row{line.Label, line.Value})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	return t
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
