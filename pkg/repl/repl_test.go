package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tacoconsole/taco/pkg/dispatch"
	"github.com/tacoconsole/taco/pkg/fleet"
	"github.com/tacoconsole/taco/pkg/macro"
)

func newTestLoop() (*Loop, *bytes.Buffer) {
	settings := fleet.NewSettings()
	f := fleet.New()
	f.Set("all", []fleet.Node{{Host: "h1"}})
	d := &dispatch.Dispatcher{Fleet: f, Settings: settings, Macros: macro.New(), Runner: nil}
	var out bytes.Buffer
	return NewLoop(settings, macro.New(), d, &out, strings.NewReader("")), &out
}

func TestProcessLine_ExitStopsLoop(t *testing.T) {
	l, _ := newTestLoop()
	if !l.processLine(context.Background(), "exit") {
		t.Fatal("expected exit to signal loop termination")
	}
}

func TestProcessLine_UseSetsCurrentDB(t *testing.T) {
	l, _ := newTestLoop()
	l.processLine(context.Background(), "use orders")
	if got := l.Settings.String(fleet.SettingCurrentDB, ""); got != "orders" {
		t.Fatalf("expected current_db=orders, got %q", got)
	}
}

func TestProcessLine_ShowDataTypesTogglesSetting(t *testing.T) {
	l, _ := newTestLoop()
	l.processLine(context.Background(), "show datatypes false")
	if l.Settings.Bool(fleet.SettingShowDataTypes, true) {
		t.Fatal("expected show_data_types to be false")
	}
}

func TestProcessLine_EmptyLineIsUnknownRequest(t *testing.T) {
	l, out := newTestLoop()
	l.processLine(context.Background(), "")
	if !strings.Contains(out.String(), "unknown request type") {
		t.Fatalf("expected unknown request type message, got %q", out.String())
	}
}

func TestProcessLine_ShowMacroListsBuiltins(t *testing.T) {
	l, out := newTestLoop()
	l.processLine(context.Background(), "show macro")
	if !strings.Contains(out.String(), "drop_db") {
		t.Fatalf("expected drop_db in macro listing, got %q", out.String())
	}
}

func TestProcessLine_UnknownGroupDispatchPrintsError(t *testing.T) {
	l, out := newTestLoop()
	l.processLine(context.Background(), "nosuchgroup?SELECT 1")
	if !strings.Contains(out.String(), "unknown server group name") {
		t.Fatalf("expected unknown group error, got %q", out.String())
	}
}

func TestProcessLine_HistoryRecordsDispatchLinesEvenOnError(t *testing.T) {
	l, _ := newTestLoop()
	l.processLine(context.Background(), "nosuchgroup?SELECT 1")
	if len(l.history) != 1 || l.history[0] != "nosuchgroup?SELECT 1" {
		t.Fatalf("expected the dispatch line to be recorded despite the error, got %v", l.history)
	}
}
