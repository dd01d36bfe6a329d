package mcptools

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrorKind classifies why a script run did not produce a normal result.
type ErrorKind int

const (
	ErrUnexpected ErrorKind = iota
	ErrFileNotFound
	ErrInvalidExtension
	ErrInterpreterNotFound
	ErrLaunchFailure
	ErrTimeoutExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case ErrFileNotFound:
		return "file_not_found"
	case ErrInvalidExtension:
		return "invalid_extension"
	case ErrInterpreterNotFound:
		return "interpreter_not_found"
	case ErrLaunchFailure:
		return "launch_failure"
	case ErrTimeoutExceeded:
		return "timeout_exceeded"
	default:
		return "unexpected_failure"
	}
}

// ScriptError is returned by ScriptRunner.Run for every failed invocation.
type ScriptError struct {
	Kind    ErrorKind
	Path    string        // script or interpreter path the error refers to
	Ext     string        // extension found, for ErrInvalidExtension
	Timeout time.Duration // limit that fired, for ErrTimeoutExceeded
	Err     error
}

func (e *ScriptError) Error() string {
	switch e.Kind {
	case ErrFileNotFound:
		return fmt.Sprintf("Error: File not found at %s", e.Path)
	case ErrInvalidExtension:
		ext := e.Ext
		if ext == "" {
			ext = "(none)"
		}
		return fmt.Sprintf("Error: File must be a Python script (%s), got %s", pythonExt, ext)
	case ErrInterpreterNotFound:
		return fmt.Sprintf("Error: Python interpreter not found at %s", e.Path)
	case ErrTimeoutExceeded:
		return fmt.Sprintf("Error: Script execution timed out after %s", formatSeconds(e.Timeout))
	default:
		return fmt.Sprintf("Error executing script: %v", e.Err)
	}
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *ScriptError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *ScriptError
	return errors.As(err, &se) && se.Kind == kind
}

// Render turns a run outcome into the single descriptive string returned to the tool caller.
func Render(res Result, err error) string {
	if err == nil {
		if res.ArtifactPath != "" {
			return fmt.Sprintf("Script executed successfully. Output written to: %s", res.ArtifactPath)
		}
		if res.Output == "" {
			return noOutputMessage
		}
		return res.Output
	}

	var se *ScriptError
	if !errors.As(err, &se) {
		se = &ScriptError{Kind: ErrUnexpected, Err: err}
	}
	if se.Kind == ErrTimeoutExceeded {
		if res.ArtifactPath != "" {
			return fmt.Sprintf("%s. Partial output written to: %s", se.Error(), res.ArtifactPath)
		}
		if res.Output != "" {
			return se.Error() + "\n\n" + res.Output
		}
	}
	return se.Error()
}

func formatSeconds(d time.Duration) string {
	s := d.Seconds()
	if s == math.Trunc(s) {
		return fmt.Sprintf("%d seconds", int64(s))
	}
	return fmt.Sprintf("%g seconds", s)
}
