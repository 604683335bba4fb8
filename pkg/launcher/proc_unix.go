//go:build !windows
// +build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// prepare puts the process in its own group, so that the compilers it
// spawns can be killed along with it.
func prepare(cmd *exec.Cmd, _ string) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killTree(cmd *exec.Cmd) {
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
