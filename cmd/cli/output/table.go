package output

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable prints a pretty table to stdout. Columns named Rate or
// Amount hold STX figures and are right-aligned.
func RenderTable(headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	headerRow := table.Row{}
	var configs []table.ColumnConfig
	for i, h := range headers {
		headerRow = append(headerRow, h)
		if h == "Rate" || h == "Amount" {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	t.AppendHeader(headerRow)
	t.SetColumnConfigs(configs)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.Render()
}
