package mcptools

import (
	"context"
	"os/exec"
)

// CommandExecutor interface for executing commands
type CommandExecutor interface {
	// RunCommand starts cmd and waits for it to exit. Output wiring is left to the caller.
	RunCommand(ctx context.Context, cmd *exec.Cmd) error
}

// RealCommandExecutor implements CommandExecutor for real command execution
type RealCommandExecutor struct{}

func (e *RealCommandExecutor) RunCommand(ctx context.Context, cmd *exec.Cmd) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return cmd.Run()
}
