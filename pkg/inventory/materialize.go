package inventory

import (
	"fmt"

	"github.com/tacoconsole/taco/pkg/fleet"
)

// Materialize selects the default environment and cluster from a
// deployment, fills every server's missing connection attributes from the
// cluster's defaults, and returns both the resulting fleet (populated with
// every declared static group plus "all") and the cluster's connection
// profile (spec.md §3, §6).
func Materialize(d *Deployment) (*fleet.Fleet, fleet.ClusterProfile, error) {
	env, err := d.DefaultEnvironment()
	if err != nil {
		return nil, fleet.ClusterProfile{}, err
	}
	cluster, err := env.DefaultCluster()
	if err != nil {
		return nil, fleet.ClusterProfile{}, err
	}

	profile := fleet.ClusterProfile{
		DefaultPort:              intOr(cluster.DefaultPort, 5432),
		DefaultDBName:            strOr(cluster.DefaultDBName, "postgres"),
		DefaultUser:              strOr(cluster.DefaultUser, "postgres"),
		DefaultPassword:          strOr(cluster.DefaultPassword, ""),
		DefaultConnectTimeoutSec: intOr(cluster.DefaultConnectTimeoutSec, 5),
		DistributedDBName:        cluster.DistributedDBName,
	}

	if len(cluster.ServerGroups) == 0 {
		return nil, fleet.ClusterProfile{}, fmt.Errorf("no static groups declared in cluster %q", cluster.Name)
	}

	f := fleet.New()
	seen := make(map[string]fleet.Node)
	var all []fleet.Node

	for _, sg := range cluster.ServerGroups {
		nodes := make([]fleet.Node, 0, len(sg.Servers))
		for _, srv := range sg.Servers {
			n, ok := seen[srv.Host]
			if !ok {
				n = materializeServer(srv, profile)
				seen[srv.Host] = n
				all = append(all, n)
			}
			nodes = append(nodes, n)
		}
		f.Set(fleet.GroupName(sg.Name), nodes)
	}

	f.Set("all", all)
	return f, profile, nil
}

func materializeServer(s Server, profile fleet.ClusterProfile) fleet.Node {
	return fleet.Node{
		Host:              s.Host,
		Port:              intOr(s.Port, profile.DefaultPort),
		DBName:            strOr(s.DBName, profile.DefaultDBName),
		User:              strOr(s.User, profile.DefaultUser),
		Password:          strOr(s.Password, profile.DefaultPassword),
		ConnectTimeoutSec: intOr(s.ConnectTimeoutSec, profile.DefaultConnectTimeoutSec),
	}
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func strOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
