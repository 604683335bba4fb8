package api

import "strings"

// Node is an execution node a build step runs on. ToolLocations maps an
// installation name to the home directory of that installation on this
// node, when it differs from the globally configured one.
type Node struct {
	Name          string            `toml:"-" json:"name"`
	OS            string            `toml:"os" json:"os"`
	ToolLocations map[string]string `toml:"tool_locations" json:"tool_locations,omitempty"`
}

// Platform returns the platform conventions of this node. Nodes that don't
// declare an OS are assumed to be Unix-like.
func (n *Node) Platform() Platform {
	if n != nil && strings.EqualFold(n.OS, "windows") {
		return PlatformWindows
	}
	return PlatformUnix
}

// TranslateFor returns the home of the named installation on this node,
// falling back to home when the node has no override.
func (n *Node) TranslateFor(name, home string) string {
	if n == nil {
		return home
	}
	if h, ok := n.ToolLocations[name]; ok && strings.TrimSpace(h) != "" {
		return strings.TrimSpace(h)
	}
	return home
}
