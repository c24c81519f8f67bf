// Command taco is the interactive console for inspecting and driving a
// Postgres/Citus replication cluster (spec.md §1).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tacoconsole/taco/pkg/consistency"
	"github.com/tacoconsole/taco/pkg/dispatch"
	"github.com/tacoconsole/taco/pkg/facts"
	"github.com/tacoconsole/taco/pkg/fleet"
	"github.com/tacoconsole/taco/pkg/groups"
	"github.com/tacoconsole/taco/pkg/inventory"
	"github.com/tacoconsole/taco/pkg/macro"
	"github.com/tacoconsole/taco/pkg/repl"
)

var (
	flagInventory string
	flagDebug     bool
)

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taco",
		Short: "Interactive console for a Postgres/Citus replication cluster",
		Long: `taco loads a declared inventory of database servers, probes each node's
replication and high-availability state, classifies the cluster's role
consistency, and drops into a REPL for dispatching ad-hoc queries,
commands, and macros across named server groups.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&flagInventory, "inventory", "i", "inventory.taco.yml", "path to the inventory YAML file")
	root.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug logging")

	return root
}

func runConsole(ctx context.Context) error {
	log := newLogger()

	deployment, err := inventory.Load(flagInventory)
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}

	f, profile, err := inventory.Materialize(deployment)
	if err != nil {
		return fmt.Errorf("materialize inventory: %w", err)
	}
	log.Info("inventory materialized", "groups", len(f.GroupNames()))

	settings := fleet.NewSettings()
	settings.Set(fleet.SettingCollectPostgresFacts, "true")
	settings.Set(fleet.SettingCollectCitusFacts, "true")
	settings.Set(fleet.SettingCollectPatroniFacts, "true")
	settings.Set(fleet.SettingCheckClusterConsistency, "true")

	staticGroups := groups.StaticHosts(f)

	prober := facts.New()
	nodes := facts.Collect(ctx, prober, f.All(), profile.DistributedDBName, settings)

	if settings.Bool(fleet.SettingCheckClusterConsistency, true) {
		classified, consistent := consistency.ClassifyFleet(nodes)
		nodes = classified
		log.Info("cluster consistency classified", "consistent", consistent)
	}

	f.UpdateAll(nodes)
	groups.Synthesize(f, nodes, staticGroups)

	macros := macro.New()
	dispatcher := dispatch.New(f, settings, macros)

	loop := repl.NewLoop(settings, macros, dispatcher, os.Stdout, os.Stdin)
	return loop.Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
