package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/tacoconsole/taco/pkg/fleet"
	"github.com/tacoconsole/taco/pkg/macro"
)

// resultChanCapacity is the dispatched result channel's buffer size. Senders
// block once it fills, which is the dispatcher's only backpressure
// mechanism (spec.md §5: "bounded capacity (≥32)").
const resultChanCapacity = 32

// maxConcurrentTasks bounds how many (node, statement) tasks run at once,
// mirroring the teacher's executor semaphore pattern.
const maxConcurrentTasks = 16

// ValuePrompter supplies a value for a macro placeholder, prompting the
// operator once per distinct token (spec.md §4.5 step 2).
type ValuePrompter func(placeholder string) (string, error)

// Dispatcher resolves REPL dispatch lines against the fleet and fans
// statements out across the matched nodes.
type Dispatcher struct {
	Fleet    *fleet.Fleet
	Settings *fleet.Settings
	Macros   *macro.Registry
	Runner   StatementRunner
}

// New builds a Dispatcher wired to the production SQL runner.
func New(f *fleet.Fleet, settings *fleet.Settings, macros *macro.Registry) *Dispatcher {
	return &Dispatcher{
		Fleet:    f,
		Settings: settings,
		Macros:   macros,
		Runner: SQLRunner{ShowDataTypes: func() bool {
			return settings.Bool(fleet.SettingShowDataTypes, true)
		}},
	}
}

// Statement is one unit of dispatch work: a single query/command/macro
// expansion line bound to the request kind it carries.
type Statement struct {
	Text string
	Kind macro.RequestKind
}

// Dispatch resolves a parsed line's group, expands a macro body if
// present, and fans every (node, statement) pair out to Runner
// concurrently. print is called once per completed task, in completion
// order (spec.md §4.5 step 4); the returned total is the sum of every
// task's row count.
func (d *Dispatcher) Dispatch(ctx context.Context, line ParsedLine, prompt ValuePrompter, print func(string)) (int64, error) {
	nodes, err := d.Fleet.Resolve(line.Group)
	if err != nil {
		return 0, err
	}

	statements, err := d.statementsFor(line, prompt)
	if err != nil {
		return 0, err
	}

	dbName := d.Settings.String(fleet.SettingCurrentDB, "")

	sem := make(chan struct{}, maxConcurrentTasks)
	resultCh := make(chan Outcome, resultChanCapacity)
	var wg sync.WaitGroup

	for _, n := range nodes {
		for _, stmt := range statements {
			wg.Add(1)
			go func(node fleet.Node, s Statement) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				task := node.Clone()
				if dbName != "" {
					task.DBName = dbName
				}
				resultCh <- d.Runner.Run(ctx, task, s.Text, s.Kind)
			}(n, stmt)
		}
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var total int64
	for r := range resultCh {
		print(r.Text)
		total += r.Rows
	}
	return total, nil
}

func (d *Dispatcher) statementsFor(line ParsedLine, prompt ValuePrompter) ([]Statement, error) {
	if line.Sep != SepMacro {
		return []Statement{{Text: line.Body, Kind: line.Kind()}}, nil
	}

	name := line.BodyLower
	if !d.Macros.Exists(name) {
		return nil, fmt.Errorf("unknown macro: %q", name)
	}
	kind, _ := d.Macros.Kind(name)

	params, err := d.Macros.Parameters(name)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(params))
	for _, p := range params {
		v, err := prompt(p)
		if err != nil {
			return nil, fmt.Errorf("read value for macro parameter %s: %w", p, err)
		}
		values[p] = v
	}

	bodies, err := d.Macros.Expand(name, values)
	if err != nil {
		return nil, err
	}
	out := make([]Statement, len(bodies))
	for i, b := range bodies {
		out[i] = Statement{Text: b, Kind: kind}
	}
	return out, nil
}
