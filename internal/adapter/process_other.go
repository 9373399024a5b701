//go:build !unix

package adapter

import (
	"os/exec"
)

func setProcessGroup(_ *exec.Cmd) {}

// killProcessGroup falls back to killing the direct child where process
// groups are not available.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}

	_ = cmd.Process.Kill()
}
