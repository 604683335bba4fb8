package launcher

import (
	"os/exec"
	"strconv"
	"syscall"

	"golang.org/x/sys/execabs"
)

func prepare(cmd *exec.Cmd, cmdline string) {
	if cmdline == "" {
		return
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: cmdline}
}

// killTree terminates cmd.exe together with gprbuild and its compilers.
func killTree(cmd *exec.Cmd) {
	_ = execabs.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid)).Run()
}
