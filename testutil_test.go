package mcptools

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCommandExecutor is a testify mock for CommandExecutor
type MockCommandExecutor struct {
	mock.Mock
}

func (m *MockCommandExecutor) RunCommand(ctx context.Context, cmd *exec.Cmd) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

// shellInterpreter returns a POSIX shell to stand in for the Python interpreter; the
// runner does not care what the interpreter is, so shell scripts named *.py work.
func shellInterpreter(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	abs, err := filepath.Abs(sh)
	require.NoError(t, err)
	return abs
}

func pythonInterpreter(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"python3", "python"} {
		if p, err := exec.LookPath(name); err == nil {
			abs, err := filepath.Abs(p)
			require.NoError(t, err)
			return abs
		}
	}
	t.Skip("python interpreter not available")
	return ""
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestRunner(t *testing.T, config PythonConfig) (*ScriptRunner, *MockLogger) {
	t.Helper()
	logger := NewMockLogger()
	runner, err := NewScriptRunner(logger, config)
	require.NoError(t, err)
	return runner, logger
}
