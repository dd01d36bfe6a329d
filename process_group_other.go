//go:build !unix

package mcptools

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}
