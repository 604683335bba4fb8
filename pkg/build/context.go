package build

import (
	"errors"

	"github.com/gnatci/gprstep/pkg/api"
	"github.com/gnatci/gprstep/pkg/launcher"
	"github.com/gnatci/gprstep/pkg/rpc"
)

// Context is the environment a build step executes in.
type Context struct {
	// Run is the overarching build; a failed step marks it as failed.
	Run *api.Run
	// Workspace is the working directory of the build tool.
	Workspace string
	// Env is the environment of the build. It is never modified.
	Env api.EnvVars
	// Node is the execution node, or nil for the local machine with no tool
	// location overrides.
	Node *api.Node
	// Launcher starts the build tool on the execution node.
	Launcher launcher.Launcher
	// Log receives step diagnostics and the output of the build tool.
	Log *rpc.OutputWriter
}

// ErrNoLauncher is returned by Check when a context has no launcher.
var ErrNoLauncher = errors.New("build context has no launcher")

// Check reports whether bc is complete enough to invoke a build in.
func (bc *Context) Check() error {
	if bc.Launcher == nil {
		return ErrNoLauncher
	}
	if bc.Workspace == "" {
		return errors.New("build context has no workspace")
	}
	return nil
}
