// Package launcher starts the external processes of build steps.
package launcher

import (
	"context"
	"io"
)

// Proc describes a process to launch.
type Proc struct {
	// Cmds is the argument vector; Cmds[0] is the executable.
	Cmds []string
	// CmdLine, when set, is passed verbatim as the native command line on
	// Windows. It is ignored elsewhere.
	CmdLine string
	// Env is the complete environment of the process, as KEY=VALUE pairs.
	Env []string
	// Dir is the working directory.
	Dir string
	// Stdout receives the output of the process as it is produced. Both the
	// standard output and standard error streams are forwarded to it.
	Stdout io.Writer
}

// Launcher starts processes on the machine a build step executes on.
type Launcher interface {
	// IsUnix reports whether processes launch on a Unix-like platform.
	IsUnix() bool

	// Launch runs p to completion and returns its exit status. An error is
	// only returned when the process could not be started or waited for.
	Launch(ctx context.Context, p *Proc) (int, error)
}
