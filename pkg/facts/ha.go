package facts

import (
	"context"
	"net/http"
	"sync"

	"github.com/tacoconsole/taco/pkg/fleet"
)

// haEndpoints lists every HA agent endpoint this probe checks, paired with
// the setter that records its result onto the node. All of them are
// queried with HEAD and classified purely by a 200 status (spec.md §4.1,
// original_source/src/facts_collector/patroni_facts_collector.rs). The
// last four extend beyond the four facts spec.md's probe_ha names —
// supplemental Patroni surface, stored on the node but never fed into the
// consistency mask.
var haEndpoints = []struct {
	path string
	set  func(n *fleet.Node, v fleet.Tri)
}{
	{"primary", func(n *fleet.Node, v fleet.Tri) { n.HAIsPrimary = v }},
	{"replica", func(n *fleet.Node, v fleet.Tri) { n.HAIsReplica = v }},
	{"read-write", func(n *fleet.Node, v fleet.Tri) { n.HAIsReadWrite = v }},
	{"read-only", func(n *fleet.Node, v fleet.Tri) { n.HAIsReadOnly = v }},
	{"standby-leader", func(n *fleet.Node, v fleet.Tri) { n.HAIsStandbyLeader = v }},
	{"synchronous", func(n *fleet.Node, v fleet.Tri) { n.HAIsSyncStandby = v }},
	{"asynchronous", func(n *fleet.Node, v fleet.Tri) { n.HAIsAsyncStandby = v }},
	{"replica?lag=1MB", func(n *fleet.Node, v fleet.Tri) { n.HAReplicaHasNoLag = v }},
}

// ProbeHA issues a HEAD request against every HA agent endpoint
// concurrently and records whether each answered 200 OK. A network
// failure on any single endpoint leaves only that fact Unset; it never
// aborts the others (spec.md §4.1 failure isolation).
func (p *Prober) ProbeHA(ctx context.Context, n fleet.Node) fleet.Node {
	base := n.HABaseURL()

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, ep := range haEndpoints {
		wg.Add(1)
		go func(path string, set func(n *fleet.Node, v fleet.Tri)) {
			defer wg.Done()
			req, err := http.NewRequestWithContext(ctx, http.MethodHead, base+"/"+path, nil)
			if err != nil {
				return
			}
			resp, err := p.HTTP.Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()
			v := fleet.TriFromBool(resp.StatusCode == http.StatusOK)
			mu.Lock()
			set(&n, v)
			mu.Unlock()
		}(ep.path, ep.set)
	}
	wg.Wait()
	return n
}
