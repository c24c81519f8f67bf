package fleet

import "fmt"

// Node is a connectable database endpoint: a declared connection identity
// plus whatever facts the probes have discovered about it so far.
type Node struct {
	// Identity and connection attributes. Host is unique within a fleet.
	Host              string
	Port              int
	DBName            string
	User              string
	Password          string
	ConnectTimeoutSec int

	// Observed facts. All start Unset and are populated by pkg/facts.
	IsOnline Tri

	PostgresIsLeader  Tri
	PostgresIsReplica Tri

	DistIsLeaderCoordinator  Tri
	DistIsReplicaCoordinator Tri
	DistIsLeaderWorker       Tri
	DistIsReplicaWorker      Tri
	DistIsActiveWorker       Tri
	DistGroupID              int64
	DistGroupIDSet           bool

	HAIsPrimary       Tri
	HAIsReplica       Tri
	HAIsReadWrite     Tri
	HAIsReadOnly      Tri
	HAIsStandbyLeader Tri
	HAIsSyncStandby   Tri
	HAIsAsyncStandby  Tri
	HAReplicaHasNoLag Tri

	// Derived by pkg/consistency.
	IsConsistent Tri
}

// Clone returns a value copy of the node. Dispatch hands a clone to every
// task so that no goroutine shares mutable node state with another.
func (n Node) Clone() Node {
	return n
}

// ConnString builds the libpq keyword/value connection string used by
// every Postgres probe and every dispatched statement, per spec.md §6.
// dbNameOverride, when non-empty, replaces the node's own DBName (used
// for the distributed-catalogue probe; the REPL's "use" verb instead sets
// DBName on the node clone each dispatched task receives).
func (n Node) ConnString(dbNameOverride string) string {
	db := n.DBName
	if dbNameOverride != "" {
		db = dbNameOverride
	}
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s connect_timeout=%d application_name=taco",
		n.Host, n.Port, db, n.User, n.Password, n.ConnectTimeoutSec,
	)
}

// HABaseURL is the base URL for the node's HA REST agent (spec.md §6).
func (n Node) HABaseURL() string {
	return fmt.Sprintf("http://%s:8008", n.Host)
}
