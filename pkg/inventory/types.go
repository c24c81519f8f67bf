// Package inventory loads the declarative fleet description from YAML
// (spec.md §6) and materialises it into fleet.Node values filled in with
// cluster-level defaults. The core treats the inventory file itself as an
// external collaborator; this package is the validated-tree provider that
// satisfies that interface.
package inventory

// Deployment is the root of an inventory document.
type Deployment struct {
	Name                   string        `yaml:"name"`
	DefaultEnvironmentName string        `yaml:"default_environment_name"`
	Environments           []Environment `yaml:"environments"`
}

// Environment groups clusters under a named deployment environment.
type Environment struct {
	Name               string    `yaml:"name"`
	DefaultClusterName string    `yaml:"default_cluster_name"`
	Clusters           []Cluster `yaml:"clusters"`
}

// Cluster carries the connection defaults every server in it inherits,
// plus the database name to use when probing the distributed extension's
// catalogue.
type Cluster struct {
	Name                     string        `yaml:"name"`
	DefaultPort              *int          `yaml:"default_port"`
	DefaultDBName            *string       `yaml:"default_db_name"`
	DefaultUser              *string       `yaml:"default_user"`
	DefaultPassword          *string       `yaml:"default_password"`
	DefaultConnectTimeoutSec *int          `yaml:"default_connect_timeout_sec"`
	DistributedDBName        string        `yaml:"distributed_db_name"`
	ServerGroups             []ServerGroup `yaml:"server_groups"`
}

// ServerGroup is a named, declared collection of servers.
type ServerGroup struct {
	Name    string   `yaml:"name"`
	Servers []Server `yaml:"servers"`
}

// Server is one declared endpoint. Every pointer field is optional and
// inherits its cluster's default at materialisation time.
type Server struct {
	Host              string  `yaml:"host"`
	Port              *int    `yaml:"port"`
	DBName            *string `yaml:"db_name"`
	User              *string `yaml:"user"`
	Password          *string `yaml:"password"`
	ConnectTimeoutSec *int    `yaml:"connect_timeout_sec"`
}
