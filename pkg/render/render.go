// Package render implements the TypedRowRenderer (spec.md §4.6): it turns
// a query result into a table of header + indexed rows, dispatching each
// cell's text form by its declared PostgreSQL type family, and turns a
// command result into a one-line row-count summary.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Column describes one result column: its name and the PostgreSQL type
// family name lib/pq reports for it (e.g. "int4", "numeric", "uuid").
type Column struct {
	Name string
	Type string
}

// cellRenderer formats one cell's raw scanned value into its display text.
type cellRenderer func(v any) string

var dispatch = map[string]cellRenderer{
	"int2": decimalIntCell, "smallint": decimalIntCell, "smallserial": decimalIntCell,
	"int4": decimalIntCell, "int": decimalIntCell, "serial": decimalIntCell, "xid": decimalIntCell,
	"int8": decimalIntCell, "bigint": decimalIntCell, "bigserial": decimalIntCell,
	"oid": decimalIntCell,
	"decimal": decimalCell, "numeric": decimalCell,
	"real": floatCell, "float4": floatCell,
	"double precision": floatCell, "float8": floatCell,
	"varchar": stringCell, "text": stringCell, "bpchar": stringCell, "character": stringCell, "char": stringCell,
	"bool": boolCell, "boolean": boolCell,
	"uuid": uuidCell,
	"timestamp": timeCell, "timestamptz": timeCell, "date": timeCell, "time": timeCell, "timetz": timeCell,
	"inet": stringCell,
	"money": placeholder("?money?"), "bytea": placeholder("?bytea?"), "interval": placeholder("?interval?"),
}

func placeholder(s string) cellRenderer { return func(any) string { return s } }

func decimalIntCell(v any) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case []byte:
		return string(n)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func decimalCell(v any) string {
	switch n := v.(type) {
	case []byte:
		d, err := decimal.NewFromString(string(n))
		if err != nil {
			return string(n)
		}
		return d.String()
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return n
		}
		return d.String()
	case float64:
		return decimal.NewFromFloat(n).String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func floatCell(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'g', -1, 32)
	case []byte:
		return string(n)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func stringCell(v any) string {
	switch n := v.(type) {
	case []byte:
		return string(n)
	case string:
		return n
	default:
		return fmt.Sprintf("%v", v)
	}
}

func boolCell(v any) string {
	switch n := v.(type) {
	case bool:
		if n {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func uuidCell(v any) string {
	var raw string
	switch n := v.(type) {
	case []byte:
		raw = string(n)
	case string:
		raw = n
	default:
		return fmt.Sprintf("%v", v)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return raw
	}
	return id.String()
}

func timeCell(v any) string {
	switch n := v.(type) {
	case []byte:
		return string(n)
	case string:
		return n
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Cell renders one value according to its column's declared type family,
// case-folding the family name (lib/pq reports these upper-cased) and
// falling back to the literal "?" for anything not in the dispatch table.
func Cell(colType string, v any) string {
	if v == nil {
		return "<null>"
	}
	fn, ok := dispatch[strings.ToLower(colType)]
	if !ok {
		return "?"
	}
	return fn(v)
}

// Header builds the header row: a leading blank cell, then one cell per
// column, each "<name>:<type>" when showDataTypes is set or bare "<name>"
// otherwise.
func Header(cols []Column, showDataTypes bool) []string {
	out := make([]string, 0, len(cols)+1)
	out = append(out, "")
	for _, c := range cols {
		if showDataTypes {
			out = append(out, c.Name+":"+c.Type)
		} else {
			out = append(out, c.Name)
		}
	}
	return out
}

// Row renders one data row, prefixed with its zero-based index.
func Row(cols []Column, values []any, index int) []string {
	out := make([]string, 0, len(cols)+1)
	out = append(out, strconv.Itoa(index))
	for i, c := range cols {
		out = append(out, Cell(c.Type, values[i]))
	}
	return out
}

// CommandSummary renders a command result's one-line form (spec.md §4.6).
func CommandSummary(host, dbname string, rowsAffected int64) string {
	return fmt.Sprintf("[%s:%s]: rows %d", host, dbname, rowsAffected)
}
