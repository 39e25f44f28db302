package coverage

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ColumnAlignment sets how a table column is aligned.
type ColumnAlignment int

const (
	AlignLeft ColumnAlignment = iota
	AlignRight
	AlignCenter // mark columns
)

func (a ColumnAlignment) text() text.Align {
	switch a {
	case AlignRight:
		return text.AlignRight
	case AlignCenter:
		return text.AlignCenter
	default:
		return text.AlignLeft
	}
}

// TableOptions shapes a rendered table.
type TableOptions struct {
	Aligns []ColumnAlignment
	// Footer is a totals row, written as given rather than upper-cased.
	Footer []string
}

// RenderTable draws rows in a rounded box. Short rows are padded with blanks.
func RenderTable(headers []string, rows [][]string, opts TableOptions) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault

	tw.AppendHeader(padRow(headers, columns))
	for _, row := range rows {
		tw.AppendRow(padRow(row, columns))
	}
	if len(opts.Footer) > 0 {
		tw.AppendFooter(padRow(opts.Footer, columns))
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := AlignLeft
		if i < len(opts.Aligns) {
			align = opts.Aligns[i]
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align.text(),
			AlignFooter: align.text(),
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func padRow(cells []string, columns int) table.Row {
	r := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		if i < len(cells) {
			r[i] = cells[i]
		} else {
			r[i] = ""
		}
	}
	return r
}
