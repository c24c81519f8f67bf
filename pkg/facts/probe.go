// Package facts implements the NodeFactsProbe (spec.md §4.1): it queries
// each node's Postgres instance, its HA agent, and (for one online node)
// the distributed-extension catalogue, and writes the results back onto
// fleet.Node values. Grounded in
// original_source/src/facts_collector/{postgres_facts_collector.rs,
// patroni_facts_collector.rs,citus_facts_collector.rs}.
package facts

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"

	"github.com/tacoconsole/taco/pkg/fleet"
)

// SQLOpener abstracts database/sql.Open so probes can be driven by a fake
// in tests instead of a live Postgres server. The production implementation
// is pqOpener, backed by github.com/lib/pq.
type SQLOpener interface {
	Open(connString string) (SQLDB, error)
}

// SQLDB is the subset of *sql.DB the probes need.
type SQLDB interface {
	QueryContext(ctx context.Context, query string, args ...any) (Rows, error)
	Close() error
}

// Rows is the subset of *sql.Rows the probes need, matching its method
// signatures exactly so the real driver satisfies this interface without
// an adapter and a fake can implement it without touching database/sql/driver.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// HTTPDoer abstracts the HTTP client the HA probe issues requests through.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Prober collects facts for nodes using an injected SQL and HTTP backend.
type Prober struct {
	SQL  SQLOpener
	HTTP HTTPDoer
}

// New builds a Prober backed by the real lib/pq driver and http.DefaultClient.
func New() *Prober {
	return &Prober{SQL: pqOpener{}, HTTP: http.DefaultClient}
}

// ProbePostgres runs the two replication-catalog queries against a node
// and sets PostgresIsLeader / PostgresIsReplica from whether each returned
// any rows. Any connection or query failure sets IsOnline = False and
// leaves both role facts unset; any success sets IsOnline = True
// (spec.md §4.1).
func (p *Prober) ProbePostgres(ctx context.Context, n fleet.Node) fleet.Node {
	db, err := p.SQL.Open(n.ConnString(""))
	if err != nil {
		n.IsOnline = fleet.False
		return n
	}
	defer db.Close()

	leaderRows, err := db.QueryContext(ctx, "SELECT * FROM pg_stat_replication;")
	if err != nil {
		n.IsOnline = fleet.False
		return n
	}
	hasLeaderRows := leaderRows.Next()
	leaderRows.Close()

	replicaRows, err := db.QueryContext(ctx, "SELECT * FROM pg_stat_wal_receiver;")
	if err != nil {
		n.IsOnline = fleet.False
		return n
	}
	hasReplicaRows := replicaRows.Next()
	replicaRows.Close()

	n.IsOnline = fleet.True
	n.PostgresIsLeader = fleet.TriFromBool(hasLeaderRows)
	n.PostgresIsReplica = fleet.TriFromBool(hasReplicaRows)
	return n
}

// DistResult is probe_distributed's return value: the set of hosts the
// worker-discovery function reports active, plus the node catalogue's
// host → (group_id, role) mapping (spec.md §4.1).
type DistResult struct {
	ActiveWorkers map[string]bool
	NodeInfo      map[string]DistNodeInfo
}

// DistNodeInfo is one node catalogue entry.
type DistNodeInfo struct {
	GroupID int64
	Role    string // "primary" or "secondary"
}

// ProbeDistributed queries the worker-discovery function and the node
// catalogue against one online node, with db_name temporarily overridden
// to the cluster's distributed database (spec.md §4.1, §5).
func (p *Prober) ProbeDistributed(ctx context.Context, n fleet.Node, distributedDBName string) (DistResult, error) {
	db, err := p.SQL.Open(n.ConnString(distributedDBName))
	if err != nil {
		return DistResult{}, fmt.Errorf("open distributed-catalogue connection to %s: %w", n.Host, err)
	}
	defer db.Close()

	activeWorkers := make(map[string]bool)
	workerRows, err := db.QueryContext(ctx, "SELECT * FROM citus_get_active_worker_nodes();")
	if err != nil {
		return DistResult{}, fmt.Errorf("query citus_get_active_worker_nodes on %s: %w", n.Host, err)
	}
	for workerRows.Next() {
		var host string
		var port int64
		if err := workerRows.Scan(&host, &port); err != nil {
			workerRows.Close()
			return DistResult{}, fmt.Errorf("scan active worker row from %s: %w", n.Host, err)
		}
		activeWorkers[host] = true
	}
	if err := workerRows.Err(); err != nil {
		workerRows.Close()
		return DistResult{}, err
	}
	workerRows.Close()

	nodeInfo := make(map[string]DistNodeInfo)
	catalogRows, err := db.QueryContext(ctx, "SELECT nodename, groupid, noderole FROM pg_dist_node;")
	if err != nil {
		return DistResult{}, fmt.Errorf("query pg_dist_node on %s: %w", n.Host, err)
	}
	defer catalogRows.Close()
	for catalogRows.Next() {
		var host, role string
		var groupID int64
		if err := catalogRows.Scan(&host, &groupID, &role); err != nil {
			return DistResult{}, fmt.Errorf("scan node catalogue row from %s: %w", n.Host, err)
		}
		nodeInfo[host] = DistNodeInfo{GroupID: groupID, Role: role}
	}
	return DistResult{ActiveWorkers: activeWorkers, NodeInfo: nodeInfo}, catalogRows.Err()
}

type pqOpener struct{}

func (pqOpener) Open(connString string) (SQLDB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}
	return sqlDBAdapter{db}, nil
}

type sqlDBAdapter struct{ db *sql.DB }

func (a sqlDBAdapter) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	return a.db.QueryContext(ctx, query, args...)
}

func (a sqlDBAdapter) Close() error { return a.db.Close() }
