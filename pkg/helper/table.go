package helper

import (
	"bytes"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable draws header and rows as a rounded text table.
func RenderTable(header []string, rows [][]string) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(toRow(header))
	for _, r := range rows {
		t.AppendRow(toRow(r))
	}
	t.Render()
	return b.String()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
