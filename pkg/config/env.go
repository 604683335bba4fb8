package config

import "github.com/gnatci/gprstep/pkg/api"

type ConfigMap map[string]interface{}

// EnvConfig contains the environment configuration. It is populated by
// coalescing values from these sources, in descending order of precedence:
//
//  1. environment variables.
//  2. .env.toml.
//  3. default fallbacks.
type EnvConfig struct {
	dirs Directories

	Daemon   DaemonConfig         `toml:"daemon"`
	Client   ClientConfig         `toml:"client"`
	Registry RegistryConfig       `toml:"registry"`
	Nodes    map[string]*api.Node `toml:"nodes"`
	// Step holds default build step fields, coalesced under the fields given
	// on each invocation.
	Step ConfigMap `toml:"step"`
}

func (e EnvConfig) Dirs() Directories {
	return e.dirs
}

// Node returns the configured node called name. Unknown names yield a node
// with no tool location overrides.
func (e EnvConfig) Node(name string) *api.Node {
	if n, ok := e.Nodes[name]; ok && n != nil {
		c := *n
		c.Name = name
		return &c
	}
	return &api.Node{Name: name}
}

type DaemonConfig struct {
	Listen string `toml:"listen"`
}

type ClientConfig struct {
	Endpoint string `toml:"endpoint"`
}

type RegistryConfig struct {
	// Store is the installation store backend: "toml" or "leveldb".
	Store string `toml:"store"`
}
