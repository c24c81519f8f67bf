package dispatch

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/tacoconsole/taco/pkg/fleet"
	"github.com/tacoconsole/taco/pkg/macro"
	"github.com/tacoconsole/taco/pkg/render"
)

// Outcome is one (node, statement) task's result: rendered text ready to
// print, plus the row count the "Total rows" tally adds up.
type Outcome struct {
	Host string
	Text string
	Rows int64
	Err  error
}

// StatementRunner executes a single statement against a single node. The
// production implementation, SQLRunner, opens a real lib/pq connection;
// tests substitute a fake so the fan-out/concurrency logic in Dispatcher
// can be verified without a live database.
type StatementRunner interface {
	Run(ctx context.Context, n fleet.Node, stmt string, kind macro.RequestKind) Outcome
}

// SQLRunner is the production StatementRunner.
type SQLRunner struct {
	ShowDataTypes func() bool
}

// Run opens its own connection (per spec.md §4.5 step 4: "each task opens
// its own connection"), runs stmt as a query or an exec depending on kind,
// and renders the result.
func (r SQLRunner) Run(ctx context.Context, n fleet.Node, stmt string, kind macro.RequestKind) Outcome {
	db, err := sql.Open("postgres", n.ConnString(""))
	if err != nil {
		return Outcome{Host: n.Host, Text: fmt.Sprintf("[%s]: %v", n.Host, err), Err: err}
	}
	defer db.Close()

	if kind == macro.Command {
		res, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return Outcome{Host: n.Host, Text: fmt.Sprintf("[%s:%s]: %v", n.Host, n.DBName, err), Err: err}
		}
		affected, _ := res.RowsAffected()
		return Outcome{Host: n.Host, Text: render.CommandSummary(n.Host, n.DBName, affected), Rows: affected}
	}

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return Outcome{Host: n.Host, Text: fmt.Sprintf("[%s:%s]: %v", n.Host, n.DBName, err), Err: err}
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return Outcome{Host: n.Host, Text: fmt.Sprintf("[%s:%s]: %v", n.Host, n.DBName, err), Err: err}
	}
	cols := make([]render.Column, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = render.Column{Name: ct.Name(), Type: ct.DatabaseTypeName()}
	}

	var result render.Result
	result.Columns = cols
	count := 0
	for rows.Next() {
		scanTargets := make([]any, len(cols))
		scanPtrs := make([]any, len(cols))
		for i := range scanTargets {
			scanPtrs[i] = &scanTargets[i]
		}
		if err := rows.Scan(scanPtrs...); err != nil {
			return Outcome{Host: n.Host, Text: fmt.Sprintf("[%s:%s]: %v", n.Host, n.DBName, err), Err: err}
		}
		result.Rows = append(result.Rows, scanTargets)
		count++
	}

	showTypes := true
	if r.ShowDataTypes != nil {
		showTypes = r.ShowDataTypes()
	}
	return Outcome{Host: n.Host, Text: render.Table(result, showTypes), Rows: int64(count)}
}
