package inventory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses an inventory file from disk.
func Load(path string) (*Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory file %s: %w", path, err)
	}
	var d Deployment
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse inventory file %s: %w", path, err)
	}
	return &d, nil
}

// Save re-serialises a deployment back to YAML, restoring the original's
// save_inventory_to_file behaviour (original_source/src/inventory/inventory_manager.rs).
// Not part of any write-path guarantee — it is an operator convenience for
// snapshotting the resolved inventory, not transactional persistence.
func Save(path string, d *Deployment) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("serialize deployment: %w", err)
	}
	out := append([]byte("---\n"), data...)
	out = append(out, []byte("...\n")...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write inventory file %s: %w", path, err)
	}
	return nil
}

// DefaultEnvironment returns the environment named by
// DefaultEnvironmentName, per spec.md §6.
func (d *Deployment) DefaultEnvironment() (*Environment, error) {
	for i := range d.Environments {
		if d.Environments[i].Name == d.DefaultEnvironmentName {
			return &d.Environments[i], nil
		}
	}
	return nil, fmt.Errorf("no environment found matching default environment name: %s", d.DefaultEnvironmentName)
}

// DefaultCluster returns the cluster named by the environment's
// DefaultClusterName.
func (e *Environment) DefaultCluster() (*Cluster, error) {
	for i := range e.Clusters {
		if e.Clusters[i].Name == e.DefaultClusterName {
			return &e.Clusters[i], nil
		}
	}
	return nil, fmt.Errorf("no cluster found matching default cluster name: %s", e.DefaultClusterName)
}
