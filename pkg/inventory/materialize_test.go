package inventory

import "testing"

func ptrInt(i int) *int       { return &i }
func ptrStr(s string) *string { return &s }

func sampleDeployment() *Deployment {
	return &Deployment{
		Name:                   "demo",
		DefaultEnvironmentName: "prod",
		Environments: []Environment{
			{
				Name:               "prod",
				DefaultClusterName: "main",
				Clusters: []Cluster{
					{
						Name:                     "main",
						DefaultPort:              ptrInt(5432),
						DefaultDBName:            ptrStr("app"),
						DefaultUser:              ptrStr("postgres"),
						DefaultConnectTimeoutSec: ptrInt(5),
						DistributedDBName:        "citus_catalog",
						ServerGroups: []ServerGroup{
							{
								Name: "leaders",
								Servers: []Server{
									{Host: "h1"},
									{Host: "h2", Port: ptrInt(5433)},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestMaterialize_FillsDefaults(t *testing.T) {
	f, profile, err := Materialize(sampleDeployment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.DistributedDBName != "citus_catalog" {
		t.Fatalf("expected distributed db name citus_catalog, got %s", profile.DistributedDBName)
	}

	all := f.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 nodes in all, got %d", len(all))
	}

	byHost := map[string]int{}
	for _, n := range all {
		byHost[n.Host] = n.Port
	}
	if byHost["h1"] != 5432 {
		t.Fatalf("expected h1 to inherit default port 5432, got %d", byHost["h1"])
	}
	if byHost["h2"] != 5433 {
		t.Fatalf("expected h2 to keep its own port 5433, got %d", byHost["h2"])
	}

	leaders, ok := f.Get("leaders")
	if !ok || len(leaders) != 2 {
		t.Fatalf("expected static group 'leaders' with 2 nodes, got %v ok=%v", leaders, ok)
	}
}

func TestMaterialize_NoStaticGroupsErrors(t *testing.T) {
	d := sampleDeployment()
	d.Environments[0].Clusters[0].ServerGroups = nil
	if _, _, err := Materialize(d); err == nil {
		t.Fatal("expected error for cluster with no server groups")
	}
}

func TestMaterialize_UnknownEnvironmentErrors(t *testing.T) {
	d := sampleDeployment()
	d.DefaultEnvironmentName = "missing"
	if _, _, err := Materialize(d); err == nil {
		t.Fatal("expected error for missing default environment")
	}
}
