//go:build !unix

package execspawn

import "os/exec"

// setProcessGroup is a no-op on platforms without POSIX process groups;
// shutdown falls back to killing the direct child only.
func setProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
