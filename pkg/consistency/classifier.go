// Package consistency implements the 9-bit role-consistency classifier
// (the ConsistencyClassifier component, spec.md §4.2), ported from
// original_source/src/cluster_consistency_checker/cluster_consistency_checker.rs.
package consistency

import "github.com/tacoconsole/taco/pkg/fleet"

// Mask is the 9-bit role bitmask built from a node's facts, MSB first:
// postgres_leader, postgres_replica, dist_leader_coord, dist_replica_coord,
// dist_leader_worker, dist_replica_worker, dist_active_worker, ha_primary,
// ha_replica.
type Mask uint16

const (
	bitPostgresLeader = 1 << 8
	bitPostgresReplica = 1 << 7
	bitDistLeaderCoord = 1 << 6
	bitDistReplicaCoord = 1 << 5
	bitDistLeaderWorker = 1 << 4
	bitDistReplicaWorker = 1 << 3
	bitDistActiveWorker = 1 << 2
	bitHAPrimary = 1 << 1
	bitHAReplica = 1 << 0
)

// Patterns for the four recognized consistent roles (spec.md §4.2 table).
const (
	PatternLeaderCoordinator  Mask = bitPostgresLeader | bitDistLeaderCoord | bitHAPrimary
	PatternReplicaCoordinator Mask = bitPostgresReplica | bitDistReplicaCoord | bitHAReplica
	PatternLeaderWorker       Mask = bitPostgresLeader | bitDistLeaderWorker | bitDistActiveWorker | bitHAPrimary
	PatternReplicaWorker      Mask = bitPostgresReplica | bitDistReplicaWorker | bitHAReplica
)

var patterns = [...]Mask{
	PatternLeaderCoordinator,
	PatternReplicaCoordinator,
	PatternLeaderWorker,
	PatternReplicaWorker,
}

// BuildMask computes the 9-bit mask from a node's facts. Unset facts
// contribute 0, same as known-false (spec.md §3 invariant).
func BuildMask(n fleet.Node) Mask {
	var m Mask
	if n.PostgresIsLeader.Bool() {
		m |= bitPostgresLeader
	}
	if n.PostgresIsReplica.Bool() {
		m |= bitPostgresReplica
	}
	if n.DistIsLeaderCoordinator.Bool() {
		m |= bitDistLeaderCoord
	}
	if n.DistIsReplicaCoordinator.Bool() {
		m |= bitDistReplicaCoord
	}
	if n.DistIsLeaderWorker.Bool() {
		m |= bitDistLeaderWorker
	}
	if n.DistIsReplicaWorker.Bool() {
		m |= bitDistReplicaWorker
	}
	if n.DistIsActiveWorker.Bool() {
		m |= bitDistActiveWorker
	}
	if n.HAIsPrimary.Bool() {
		m |= bitHAPrimary
	}
	if n.HAIsReplica.Bool() {
		m |= bitHAReplica
	}
	return m
}

// Matches reports whether mask satisfies any of the four role patterns:
// mask & pattern == pattern for at least one pattern. Pure function of the
// mask alone — identical masks always classify identically.
func Matches(m Mask) bool {
	for _, p := range patterns {
		if m&p == p {
			return true
		}
	}
	return false
}

// ClassifyNode sets IsConsistent on a single node and returns the result.
// is_online = false forces is_consistent = false with no further checks
// (spec.md §3, §4.2).
func ClassifyNode(n fleet.Node) fleet.Node {
	if !n.IsOnline.Bool() {
		n.IsConsistent = fleet.False
		return n
	}
	n.IsConsistent = fleet.TriFromBool(Matches(BuildMask(n)))
	return n
}

// ClassifyFleet classifies every node in nodes and reports whether the
// fleet is globally consistent — the conjunction of all per-node results.
// The single-node-standalone edge case (spec.md §4.2: exactly one node,
// both postgres role flags known-false) is treated as consistent even
// though it matches none of the four patterns.
func ClassifyFleet(nodes []fleet.Node) ([]fleet.Node, bool) {
	out := make([]fleet.Node, len(nodes))
	allConsistent := true

	if len(nodes) == 1 {
		n := nodes[0]
		if n.IsOnline.Bool() && n.PostgresIsLeader == fleet.False && n.PostgresIsReplica == fleet.False {
			n.IsConsistent = fleet.True
			out[0] = n
			return out, true
		}
	}

	for i, n := range nodes {
		classified := ClassifyNode(n)
		out[i] = classified
		if !classified.IsConsistent.Bool() {
			allConsistent = false
		}
	}
	return out, allConsistent
}
