package render

import (
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Result is one query's full rendered output, ready for printing.
type Result struct {
	Columns []Column
	Rows    [][]any
}

// Table renders a Result as a bordered text table using the teacher's
// table-writer library, matching the header/index-row layout spec.md §4.6
// describes.
func Table(r Result, showDataTypes bool) string {
	var sb strings.Builder
	w := tablewriter.NewWriter(&sb)
	w.SetHeader(Header(r.Columns, showDataTypes))
	w.SetAutoFormatHeaders(false)
	for i, row := range r.Rows {
		w.Append(Row(r.Columns, row, i))
	}
	w.Render()
	return sb.String()
}
