// Package groups implements the DynamicGroupSynthesiser (spec.md §4.3):
// it derives named, always-fresh groups from the current fact snapshot and
// re-keys declared static groups by host against that same snapshot.
package groups

import "github.com/tacoconsole/taco/pkg/fleet"

// Dynamic group names, in the order spec.md §4.3 lists them.
const (
	All        fleet.GroupName = "all"
	Online     fleet.GroupName = "online"
	Consistent fleet.GroupName = "cons"
	PGLeader   fleet.GroupName = "pgl"
	PGReplica  fleet.GroupName = "pgr"
	DistLeaderCoord   fleet.GroupName = "clc"
	DistReplicaCoord  fleet.GroupName = "crc"
	DistLeaderWorker  fleet.GroupName = "clw"
	DistReplicaWorker fleet.GroupName = "crw"
	DistActiveWorker  fleet.GroupName = "caw"
	HAPrimary   fleet.GroupName = "pp"
	HAReplica   fleet.GroupName = "pr"
	HAReadWrite fleet.GroupName = "prw"
)

// HAProxyReadWrite and HAProxyReadOnly are reserved group names for
// operator-declared HAProxy backends. They are never synthesised —
// spec.md §4.3 and §9 fix them as empty-until-declared, so they are
// ordinary static groups re-keyed like any other, not members of
// DynamicNames.
const (
	HAProxyReadWrite fleet.GroupName = "haproxy_rw"
	HAProxyReadOnly  fleet.GroupName = "haproxy_r"
)

// DynamicNames lists every dynamic group name this package manages, used to
// tell static groups apart from synthesised ones.
var DynamicNames = map[fleet.GroupName]bool{
	All: true, Online: true, Consistent: true,
	PGLeader: true, PGReplica: true,
	DistLeaderCoord: true, DistReplicaCoord: true,
	DistLeaderWorker: true, DistReplicaWorker: true, DistActiveWorker: true,
	HAPrimary: true, HAReplica: true, HAReadWrite: true,
}

func match(predicate func(fleet.Node) bool, nodes []fleet.Node) []fleet.Node {
	var out []fleet.Node
	for _, n := range nodes {
		if predicate(n) {
			out = append(out, n)
		}
	}
	return out
}

// Synthesize recomputes every dynamic group from nodes and re-keys every
// static group (identified by staticNames, host-addressed) against the same
// snapshot, then installs all of it into f. It overwrites whatever dynamic
// groups f previously held — recomputation is never additive (spec.md §8:
// idempotent across repeated runs).
func Synthesize(f *fleet.Fleet, nodes []fleet.Node, staticGroups map[fleet.GroupName][]string) {
	f.Set(All, nodes)
	f.Set(Online, match(func(n fleet.Node) bool { return n.IsOnline.Bool() }, nodes))
	f.Set(Consistent, match(func(n fleet.Node) bool { return n.IsConsistent.Bool() }, nodes))
	f.Set(PGLeader, match(func(n fleet.Node) bool { return n.PostgresIsLeader.Bool() }, nodes))
	f.Set(PGReplica, match(func(n fleet.Node) bool { return n.PostgresIsReplica.Bool() }, nodes))
	f.Set(DistLeaderCoord, match(func(n fleet.Node) bool { return n.DistIsLeaderCoordinator.Bool() }, nodes))
	f.Set(DistReplicaCoord, match(func(n fleet.Node) bool { return n.DistIsReplicaCoordinator.Bool() }, nodes))
	f.Set(DistLeaderWorker, match(func(n fleet.Node) bool { return n.DistIsLeaderWorker.Bool() }, nodes))
	f.Set(DistReplicaWorker, match(func(n fleet.Node) bool { return n.DistIsReplicaWorker.Bool() }, nodes))
	f.Set(DistActiveWorker, match(func(n fleet.Node) bool { return n.DistIsActiveWorker.Bool() }, nodes))
	f.Set(HAPrimary, match(func(n fleet.Node) bool { return n.HAIsPrimary.Bool() }, nodes))
	f.Set(HAReplica, match(func(n fleet.Node) bool { return n.HAIsReplica.Bool() }, nodes))
	f.Set(HAReadWrite, match(func(n fleet.Node) bool { return n.HAIsReadWrite.Bool() }, nodes))

	byHost := make(map[string]fleet.Node, len(nodes))
	for _, n := range nodes {
		byHost[n.Host] = n
	}
	for name, hosts := range staticGroups {
		rekeyed := make([]fleet.Node, 0, len(hosts))
		for _, h := range hosts {
			if n, ok := byHost[h]; ok {
				rekeyed = append(rekeyed, n)
			}
		}
		f.Set(name, rekeyed)
	}
}

// StaticHosts extracts the host list for every group not in DynamicNames,
// taking a fleet snapshot before a recompute so the same static membership
// (by host) can be re-keyed against fresh facts afterwards.
func StaticHosts(f *fleet.Fleet) map[fleet.GroupName][]string {
	out := make(map[fleet.GroupName][]string)
	for _, name := range f.StaticGroupNames(DynamicNames) {
		gn := fleet.GroupName(name)
		nodes, _ := f.Get(gn)
		hosts := make([]string, len(nodes))
		for i, n := range nodes {
			hosts[i] = n.Host
		}
		out[gn] = hosts
	}
	return out
}
