//go:build unix

package mcptools

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup starts the script in its own process group so cancellation
// also reaches anything the script spawned.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
