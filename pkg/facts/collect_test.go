package facts

import (
	"context"
	"net/http"
	"testing"

	"github.com/tacoconsole/taco/pkg/fleet"
)

func allFactsEnabled() *fleet.Settings {
	s := fleet.NewSettings()
	s.Set(fleet.SettingCollectPostgresFacts, "true")
	s.Set(fleet.SettingCollectCitusFacts, "true")
	s.Set(fleet.SettingCollectPatroniFacts, "true")
	return s
}

func TestCollect_SkipsDistributedProbeWhenNoNodeOnline(t *testing.T) {
	db := fakeSQLDB{errByQuery: map[string]error{
		"SELECT * FROM pg_stat_replication;": context.DeadlineExceeded,
	}}
	p := &Prober{SQL: fakeOpener{db: db}, HTTP: fakeDoer{}}
	nodes := []fleet.Node{{Host: "h1"}, {Host: "h2"}}

	out := Collect(context.Background(), p, nodes, "citus_catalog", allFactsEnabled())

	for _, n := range out {
		if n.IsOnline.Bool() {
			t.Fatalf("expected every node offline, got %+v", n)
		}
		if n.DistGroupIDSet {
			t.Fatal("expected no distributed facts when no node is online")
		}
	}
}

func TestCollect_SkipsEachProbeFamilyWhenGateIsOff(t *testing.T) {
	db := fakeSQLDB{rowsByQuery: map[string][][]any{
		"SELECT * FROM pg_stat_replication;":                   {{int64(1)}},
		"SELECT * FROM pg_stat_wal_receiver;":                  {},
		"SELECT * FROM citus_get_active_worker_nodes();":       {},
		"SELECT nodename, groupid, noderole FROM pg_dist_node;": {},
	}}
	p := &Prober{SQL: fakeOpener{db: db}, HTTP: fakeDoer{statusByPath: map[string]int{"/primary": http.StatusOK}}}
	nodes := []fleet.Node{{Host: "h1"}}

	settings := fleet.NewSettings()
	out := Collect(context.Background(), p, nodes, "citus_catalog", settings)

	n := out[0]
	if n.IsOnline.IsSet() {
		t.Fatal("expected is_online unset when collect_postgres_facts is off")
	}
	if n.HAIsPrimary.IsSet() {
		t.Fatal("expected ha_is_primary unset when collect_patroni_facts is off")
	}
	if n.DistGroupIDSet {
		t.Fatal("expected no distributed facts when collect_citus_facts is off")
	}
}

func TestCollect_ProbesEveryNodeIndependently(t *testing.T) {
	db := fakeSQLDB{rowsByQuery: map[string][][]any{
		"SELECT * FROM pg_stat_replication;":                      {{int64(1)}},
		"SELECT * FROM pg_stat_wal_receiver;":                     {},
		"SELECT * FROM citus_get_active_worker_nodes();":          {},
		"SELECT nodename, groupid, noderole FROM pg_dist_node;":   {},
	}}
	p := &Prober{SQL: fakeOpener{db: db}, HTTP: fakeDoer{statusByPath: map[string]int{"/primary": http.StatusOK}}}
	nodes := []fleet.Node{{Host: "h1"}, {Host: "h2"}, {Host: "h3"}}

	out := Collect(context.Background(), p, nodes, "citus_catalog", allFactsEnabled())

	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}
	for _, n := range out {
		if !n.IsOnline.Bool() {
			t.Fatalf("expected node %s online", n.Host)
		}
		if !n.HAIsPrimary.Bool() {
			t.Fatalf("expected node %s ha_is_primary", n.Host)
		}
	}
}
