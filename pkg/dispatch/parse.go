// Package dispatch implements the RequestDispatcher (spec.md §4.5): it
// parses a REPL line into a group and a query/command/macro body, resolves
// the group against the fleet, and fans the resulting statements out to
// every member node concurrently.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/tacoconsole/taco/pkg/fleet"
	"github.com/tacoconsole/taco/pkg/macro"
)

// Separator identifies which of the three request kinds a line names.
type Separator byte

const (
	SepQuery   Separator = '?'
	SepCommand Separator = '!'
	SepMacro   Separator = '$'
)

// ParsedLine is one REPL line split into its dispatch-relevant parts.
type ParsedLine struct {
	Group     fleet.GroupName
	Sep       Separator
	Body      string // trimmed, original case — what gets sent to the database
	BodyLower string // trimmed, lower-cased — used for macro name lookup
}

// ErrNotADispatchLine reports that the line carries none of ?, !, $ and so
// is not a dispatch line at all — it belongs to the REPL's own session
// command handling instead (spec.md §4.7).
var ErrNotADispatchLine = fmt.Errorf("line is not a group dispatch (missing ?, !, or $)")

// Parse splits line at the first occurrence of whichever of ?, !, $
// appears first, lower-cases and trims the group half, and trims (without
// lower-casing) the body half so the original statement text survives for
// transmission (spec.md §4.5).
func Parse(line string) (ParsedLine, error) {
	idx := strings.IndexAny(line, "?!$")
	if idx < 0 {
		return ParsedLine{}, ErrNotADispatchLine
	}
	group := strings.ToLower(strings.TrimSpace(line[:idx]))
	body := strings.TrimSpace(line[idx+1:])
	return ParsedLine{
		Group:     fleet.GroupName(group),
		Sep:       Separator(line[idx]),
		Body:      body,
		BodyLower: strings.ToLower(body),
	}, nil
}

// Kind maps a parsed line's separator to the request kind statements
// derived from it carry, for non-macro lines.
func (p ParsedLine) Kind() macro.RequestKind {
	if p.Sep == SepCommand {
		return macro.Command
	}
	return macro.Query
}
