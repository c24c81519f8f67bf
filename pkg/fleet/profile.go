package fleet

// ClusterProfile exposes the cluster-level defaults and the distinguished
// distributed-extension database name, derived from the declared
// inventory at materialisation time (spec.md §3).
type ClusterProfile struct {
	DefaultPort              int
	DefaultDBName            string
	DefaultUser              string
	DefaultPassword          string
	DefaultConnectTimeoutSec int

	// DistributedDBName is the database to connect to when probing the
	// distributed extension's catalogue (pg_dist_node, worker-discovery
	// functions), which may differ from a node's own default database.
	DistributedDBName string
}
