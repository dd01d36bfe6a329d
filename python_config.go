package mcptools

import (
	"fmt"
	"runtime"
	"time"
)

// CaptureMode selects how the output of a script run is captured.
type CaptureMode string

const (
	// CaptureInline captures stdout and stderr separately and returns them in the tool result.
	CaptureInline CaptureMode = "inline"
	// CaptureFile redirects stdout and stderr into a timestamped output artifact next to the script.
	CaptureFile CaptureMode = "file"
)

// DefaultFileModeTimeout is the wall-clock limit applied in file mode when none is configured.
const DefaultFileModeTimeout = 30 * time.Second

// PythonConfig holds the configuration for the ExecutePython tool
type PythonConfig struct {
	DefaultInterpreter string        // Interpreter used when the caller does not pass one
	Mode               CaptureMode   // inline or file
	Timeout            time.Duration // 0 disables the limit in inline mode
	OutputEncoding     string        // Charset of the interpreter output; empty passes bytes through
}

// DefaultInterpreterPath returns the platform's default Python interpreter location.
func DefaultInterpreterPath() string {
	if runtime.GOOS == "windows" {
		return `C:\Python312\python.exe`
	}
	return "/usr/bin/python3"
}

// DefaultPythonConfig returns the configuration the server starts with when nothing is overridden.
func DefaultPythonConfig() PythonConfig {
	return PythonConfig{
		DefaultInterpreter: DefaultInterpreterPath(),
		Mode:               CaptureInline,
	}
}

// Validate checks the configuration and fills in mode dependent defaults.
func (c PythonConfig) Validate() (PythonConfig, error) {
	if c.Mode == "" {
		c.Mode = CaptureInline
	}
	switch c.Mode {
	case CaptureInline, CaptureFile:
	default:
		return c, fmt.Errorf("unknown capture mode %q (want %q or %q)", c.Mode, CaptureInline, CaptureFile)
	}
	if c.Timeout < 0 {
		return c, fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Mode == CaptureFile && c.Timeout == 0 {
		c.Timeout = DefaultFileModeTimeout
	}
	if c.DefaultInterpreter == "" {
		c.DefaultInterpreter = DefaultInterpreterPath()
	}
	if _, err := lookupEncoding(c.OutputEncoding); err != nil {
		return c, err
	}
	return c, nil
}
