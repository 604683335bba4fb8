// Package build runs gprbuild build steps against a configured GNAT
// installation.
package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gnatci/gprstep/pkg/api"
	"github.com/gnatci/gprstep/pkg/launcher"
	"github.com/gnatci/gprstep/pkg/rpc"
	"github.com/gnatci/gprstep/pkg/tools"
)

const (
	// Executable is the base name of the build driver in an installation's
	// bin directory.
	Executable = "gprbuild"

	// PathOverride prepends the installation's bin directory to PATH.
	PathOverride = "PATH+GNAT"

	// MsgExecutableMissing is reported both for unknown installations and for
	// installations without the build driver.
	MsgExecutableMissing = "gprbuild executable is missing: check the GNAT installation configured for this step"
)

// Resolver finds the bin directory of an installation.
type Resolver interface {
	ResolveFor(name string, node *api.Node, env api.EnvVars) (string, error)
}

var _ Resolver = (*tools.Registry)(nil)

// Invoker runs gprbuild.
type Invoker struct {
	Resolver Resolver
}

func NewInvoker(r Resolver) *Invoker {
	return &Invoker{Resolver: r}
}

// Invoke runs one build step. Configuration problems abort with an
// *api.AbortError before anything is launched. A non-zero exit status marks
// the run as failed and returns the result together with an *api.AbortError
// of kind ExecutionError. Any other error comes from the launcher and is
// returned as-is.
func (i *Invoker) Invoke(ctx context.Context, req *api.BuildRequest, bc *Context) (*api.InvocationResult, error) {
	if err := bc.Check(); err != nil {
		return nil, err
	}

	ow := bc.Log
	if ow == nil {
		ow = rpc.Discard()
	}
	if bc.Run != nil {
		ow = ow.With("run_id", bc.Run.ID)
	}
	ow = ow.With("installation", req.InstallationName)

	platform := api.PlatformOf(bc.Launcher.IsUnix())

	ow.Debugw("resolving installation", "node", nodeName(bc.Node))
	binDir, err := i.Resolver.ResolveFor(req.InstallationName, bc.Node, bc.Env)
	switch {
	case errors.Is(err, tools.ErrNotFound):
		ow.Debugw("aborting: installation is not configured")
		return nil, api.Abortf(api.ConfigurationError, MsgExecutableMissing)
	case err != nil:
		return nil, err
	}

	exe := filepath.Join(binDir, platform.Executable(Executable))
	ow.Debugw("checking executable", "path", exe)
	if fi, err := os.Stat(exe); err != nil || !fi.Mode().IsRegular() {
		ow.Debugw("aborting: executable is not a regular file", "path", exe)
		return nil, api.Abortf(api.ConfigurationError, MsgExecutableMissing)
	}

	args := NewArgumentList(exe)
	if req.Proj != "" {
		args.Add(req.Proj)
	}
	if err := args.AddTokenized(req.Switches); err != nil {
		return nil, api.Abortf(api.ConfigurationError, "invalid switches: %s", err)
	}
	if err := args.AddTokenized(req.Names); err != nil {
		return nil, api.Abortf(api.ConfigurationError, "invalid names: %s", err)
	}

	env := bc.Env.Clone()
	env.Override(platform, PathOverride, binDir)

	proc := &launcher.Proc{
		Cmds:   args.Args(),
		Env:    env.Environ(),
		Dir:    bc.Workspace,
		Stdout: ow.StdoutWriter(),
	}
	if !platform.IsUnix() {
		wc := args.ToWindowsCommand()
		proc.Cmds = wc.Args()
		proc.CmdLine = wc.NativeCommandLine()
	}

	ow.Infow("launching gprbuild", "cmd", args.String(), "dir", bc.Workspace)
	start := time.Now()

	status, err := bc.Launcher.Launch(ctx, proc)
	if err != nil {
		return nil, err
	}

	ow.Infow("gprbuild exited", "status", status, "took", strings.TrimSpace(humanize.RelTime(start, time.Now(), "", "")))

	if status != 0 {
		if bc.Run != nil {
			bc.Run.SetResult(api.ResultFailure)
		}
		res := &api.InvocationResult{ExitStatus: status, Outcome: api.ResultFailure}
		return res, api.Abortf(api.ExecutionError, "gprbuild failed with exit status %d", status)
	}
	return &api.InvocationResult{ExitStatus: 0, Outcome: api.ResultSuccess}, nil
}

func nodeName(n *api.Node) string {
	if n == nil || n.Name == "" {
		return "local"
	}
	return n.Name
}
