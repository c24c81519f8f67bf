package facts

import (
	"context"
	"sync"

	"github.com/tacoconsole/taco/pkg/fleet"
)

// Collect runs probe_postgres then probe_ha for every node concurrently —
// one goroutine per node, each serialising its own two probes — then runs
// probe_distributed once, sequentially, against the first node that came
// up online (spec.md §4.1 orchestration). It never aborts on a single
// node's failure; each node's facts are independent.
//
// Each probe family is gated by its settings toggle (spec.md §6:
// collect_postgres_facts, collect_citus_facts, collect_patroni_facts),
// matching facts_collector.rs:16-64's read-then-skip behaviour: a gate
// absent from settings, or set to anything other than "true", disables
// that probe family entirely and leaves its facts Unset.
func Collect(ctx context.Context, p *Prober, nodes []fleet.Node, distributedDBName string, settings *fleet.Settings) []fleet.Node {
	out := make([]fleet.Node, len(nodes))

	collectPostgres := settings.Bool(fleet.SettingCollectPostgresFacts, false)
	collectPatroni := settings.Bool(fleet.SettingCollectPatroniFacts, false)
	collectCitus := settings.Bool(fleet.SettingCollectCitusFacts, false)

	var wg sync.WaitGroup
	for i, n := range nodes {
		wg.Add(1)
		go func(i int, n fleet.Node) {
			defer wg.Done()
			if collectPostgres {
				n = p.ProbePostgres(ctx, n)
			}
			if collectPatroni {
				n = p.ProbeHA(ctx, n)
			}
			out[i] = n
		}(i, n)
	}
	wg.Wait()

	if !collectCitus {
		return out
	}

	var anchor *fleet.Node
	for i := range out {
		if out[i].IsOnline.Bool() {
			anchor = &out[i]
			break
		}
	}
	if anchor == nil {
		return out
	}

	result, err := p.ProbeDistributed(ctx, *anchor, distributedDBName)
	if err != nil {
		return out
	}
	ApplyDistributedFacts(out, result)
	return out
}

// ApplyDistributedFacts sets dist_is_active_worker for every node whose
// host appears in result.ActiveWorkers, and — for every host the node
// catalogue maps to a (group_id, role) — sets exactly one of the four
// coordinator/worker role flags and false for the other three, per the
// group_id/role table in spec.md §4.1, and records dist_group_id.
func ApplyDistributedFacts(nodes []fleet.Node, result DistResult) {
	for i := range nodes {
		n := &nodes[i]
		n.DistIsActiveWorker = fleet.TriFromBool(result.ActiveWorkers[n.Host])

		info, known := result.NodeInfo[n.Host]
		if !known {
			continue
		}
		n.DistGroupID = info.GroupID
		n.DistGroupIDSet = true

		isCoordinatorGroup := info.GroupID == 0
		isPrimary := info.Role == "primary"

		n.DistIsLeaderCoordinator = fleet.TriFromBool(isCoordinatorGroup && isPrimary)
		n.DistIsReplicaCoordinator = fleet.TriFromBool(isCoordinatorGroup && !isPrimary)
		n.DistIsLeaderWorker = fleet.TriFromBool(!isCoordinatorGroup && isPrimary)
		n.DistIsReplicaWorker = fleet.TriFromBool(!isCoordinatorGroup && !isPrimary)
	}
}
