//go:build unix

package execspawn

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup places the child in its own process group so that
// shutdown can signal an entire subtree, such as a shell stage that
// forked further children of its own.
func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

func killProcessGroup(cmd *exec.Cmd) error {
	pid := cmd.Process.Pid
	if err := unix.Kill(-pid, unix.SIGTERM); err != nil {
		return cmd.Process.Kill()
	}
	return nil
}
