// Package repl implements the ReplLoop (spec.md §4.7): it reads operator
// input with github.com/chzyer/readline, recognises the session verbs,
// and hands everything else to pkg/dispatch.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/tacoconsole/taco/pkg/dispatch"
	"github.com/tacoconsole/taco/pkg/fleet"
	"github.com/tacoconsole/taco/pkg/macro"
)

var errColor = color.New(color.FgRed, color.Bold)

const usage = `Session commands:
  exit                    terminate the session
  help                    print this message
  history                 print previously dispatched lines, in order
  use <name>              set the current database
  show datatypes <bool>   toggle column type annotations in result headers
  show macro              list registered macros

Anything else is parsed as <group><sep><body>, sep one of ? (query), ! (command), $ (macro).`

// Loop drives the interactive console until the operator types "exit" or
// input is exhausted (EOF).
type Loop struct {
	Settings   *fleet.Settings
	Macros     *macro.Registry
	Dispatcher *dispatch.Dispatcher
	Out        io.Writer
	In         *bufio.Reader

	history []string
}

// NewLoop builds a Loop wired to the given fleet state. in supplies macro
// placeholder values (normally os.Stdin).
func NewLoop(settings *fleet.Settings, macros *macro.Registry, d *dispatch.Dispatcher, out io.Writer, in io.Reader) *Loop {
	return &Loop{Settings: settings, Macros: macros, Dispatcher: d, Out: out, In: bufio.NewReader(in)}
}

// Run starts the read-dispatch-print cycle. It returns nil on a clean
// "exit" or at end of input (EOF), or the underlying readline error
// otherwise.
func (l *Loop) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          l.prompt(),
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initialise readline: %w", err)
	}
	defer rl.Close()

	for {
		rl.SetPrompt(l.prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if l.processLine(ctx, line) {
			return nil
		}
	}
}

// processLine handles one input line's session-verb or dispatch logic and
// reports whether the loop should terminate (an "exit" was typed).
func (l *Loop) processLine(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	switch {
	case lower == "":
		fmt.Fprintln(l.Out, "unknown request type")
	case lower == "exit":
		return true
	case lower == "help":
		fmt.Fprintln(l.Out, usage)
	case lower == "history":
		l.printHistory()
	case strings.HasPrefix(lower, "use "):
		name := strings.TrimSpace(trimmed[len("use "):])
		l.Settings.Set(fleet.SettingCurrentDB, name)
	case strings.HasPrefix(lower, "show datatypes"):
		l.handleShowDataTypes(lower)
	case lower == "show macro":
		l.printMacros()
	case strings.ContainsAny(trimmed, "?!$"):
		l.dispatchLine(ctx, trimmed)
	default:
		fmt.Fprintln(l.Out, "unknown request type")
	}
	return false
}

func (l *Loop) prompt() string {
	return fmt.Sprintf("[%s] > ", l.Settings.String(fleet.SettingCurrentDB, ""))
}

func (l *Loop) handleShowDataTypes(lower string) {
	fields := strings.Fields(lower)
	if len(fields) != 3 {
		fmt.Fprintln(l.Out, errColor.Sprint("show datatypes requires exactly one boolean argument"))
		return
	}
	b, err := strconv.ParseBool(fields[2])
	if err != nil {
		fmt.Fprintln(l.Out, errColor.Sprint("show datatypes argument must be true or false"))
		return
	}
	l.Settings.Set(fleet.SettingShowDataTypes, strconv.FormatBool(b))
}

func (l *Loop) dispatchLine(ctx context.Context, line string) {
	l.history = append(l.history, line)

	parsed, err := dispatch.Parse(line)
	if err != nil {
		fmt.Fprintln(l.Out, errColor.Sprint(err))
		return
	}

	prompt := func(placeholder string) (string, error) {
		fmt.Fprintf(l.Out, "value for %s: ", placeholder)
		v, err := l.In.ReadString('\n')
		if err != nil && v == "" {
			return "", err
		}
		return strings.TrimSpace(v), nil
	}

	total, err := l.Dispatcher.Dispatch(ctx, parsed, prompt, func(s string) {
		fmt.Fprintln(l.Out, s)
	})
	if err != nil {
		fmt.Fprintln(l.Out, errColor.Sprint(err))
		return
	}
	fmt.Fprintln(l.Out, strings.Repeat("-", 40))
	fmt.Fprintf(l.Out, "Total rows: %d\n", total)
}

func (l *Loop) printHistory() {
	for _, h := range l.history {
		fmt.Fprintln(l.Out, h)
	}
}

func (l *Loop) printMacros() {
	w := tablewriter.NewWriter(l.Out)
	w.SetHeader([]string{"name", "kind", "description"})
	for _, m := range l.Macros.List() {
		w.Append([]string{m.Name, m.Kind.String(), m.Description})
	}
	w.Render()
}
