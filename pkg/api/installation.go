package api

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// BinDirectory holds the toolchain executables, gprbuild among them.
	BinDirectory = "bin"
	// LibDirectory holds the toolchain runtime libraries.
	LibDirectory = "lib"
)

// NodeSpecific is implemented by values that can be materialized for an
// execution node.
type NodeSpecific interface {
	ForNode(n *Node) Installation
}

// EnvironmentSpecific is implemented by values that can be materialized for
// a build environment.
type EnvironmentSpecific interface {
	ForEnvironment(env EnvVars) Installation
}

// Installation is a named GNAT toolchain installation.
type Installation struct {
	Name       string            `toml:"name" json:"name" mapstructure:"name" validate:"required"`
	Home       string            `toml:"home" json:"home" mapstructure:"home" validate:"required"`
	Properties map[string]string `toml:"properties,omitempty" json:"properties,omitempty" mapstructure:"properties"`
}

var (
	_ NodeSpecific        = Installation{}
	_ EnvironmentSpecific = Installation{}
)

// NewInstallation trims name and home, and copies props.
func NewInstallation(name, home string, props map[string]string) Installation {
	return Installation{
		Name:       strings.TrimSpace(name),
		Home:       strings.TrimSpace(home),
		Properties: cloneProps(props),
	}
}

// ForNode returns a copy of i whose home is translated for node n.
func (i Installation) ForNode(n *Node) Installation {
	return NewInstallation(i.Name, n.TranslateFor(i.Name, i.Home), i.Properties)
}

// ForEnvironment returns a copy of i whose home has env's variables expanded.
func (i Installation) ForEnvironment(env EnvVars) Installation {
	return NewInstallation(i.Name, env.Expand(i.Home), i.Properties)
}

// BinDir returns the absolute path of the installation's bin directory.
func (i Installation) BinDir() (string, error) {
	dir, err := filepath.Abs(filepath.Join(i.Home, BinDirectory))
	if err != nil {
		return "", fmt.Errorf("failed to resolve bin directory of installation %s: %w", i.Name, err)
	}
	return dir, nil
}

// Validate performs structural validation of the installation record; it
// does not touch the filesystem.
func (i Installation) Validate() error {
	return validate.Struct(i)
}

func cloneProps(props map[string]string) map[string]string {
	if props == nil {
		return nil
	}
	out := make(map[string]string, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
