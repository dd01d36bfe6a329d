package mcptools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shaharia-lab/goai/observability"
	"golang.org/x/text/encoding"
)

const (
	pythonExt       = ".py"
	noOutputMessage = "Script executed successfully with no output."

	// Grace period for Wait once the script is gone but a child of it still holds the
	// output pipes open. Only applied when a timeout is configured.
	killWaitDelay = 2 * time.Second
)

// Result describes a finished (or timed out) script run.
type Result struct {
	Mode         CaptureMode
	ScriptPath   string
	Interpreter  string
	Stdout       string // inline mode only
	Stderr       string // inline mode only
	Output       string // inline mode: stdout and stderr combined as returned to the caller
	ArtifactPath string // file mode only
	ExitCode     int
	TimedOut     bool
	Duration     time.Duration
}

// ScriptRunner validates a script path, resolves the interpreter and runs the script as a
// child process with the script's directory as working directory.
type ScriptRunner struct {
	logger      observability.Logger
	config      PythonConfig
	encoding    encoding.Encoding
	cmdExecutor CommandExecutor
	now         func() time.Time
}

// NewScriptRunner creates a ScriptRunner. The configuration is validated once here.
func NewScriptRunner(logger observability.Logger, config PythonConfig) (*ScriptRunner, error) {
	cfg, err := config.Validate()
	if err != nil {
		return nil, err
	}
	enc, err := lookupEncoding(cfg.OutputEncoding)
	if err != nil {
		return nil, err
	}
	return &ScriptRunner{
		logger:      logger,
		config:      cfg,
		encoding:    enc,
		cmdExecutor: &RealCommandExecutor{},
		now:         time.Now,
	}, nil
}

// Config returns the validated configuration the runner uses.
func (r *ScriptRunner) Config() PythonConfig {
	return r.config
}

// Run executes filePath with interpreterPath, or with the configured default interpreter
// when interpreterPath is empty. Every failure is reported as a *ScriptError; a script that
// exits non-zero is not a failure.
func (r *ScriptRunner) Run(ctx context.Context, filePath, interpreterPath string) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ScriptError{Kind: ErrUnexpected, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	scriptPath, err := r.validateScript(filePath)
	if err != nil {
		return Result{}, err
	}
	interpreter, err := r.resolveInterpreter(interpreterPath)
	if err != nil {
		return Result{}, err
	}

	res = Result{
		Mode:        r.config.Mode,
		ScriptPath:  scriptPath,
		Interpreter: interpreter,
	}

	runCtx := ctx
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, interpreter, scriptPath)
	cmd.Dir = filepath.Dir(scriptPath)
	setProcessGroup(cmd)
	if r.config.Timeout > 0 {
		cmd.WaitDelay = killWaitDelay
	}

	r.logger.WithFields(map[string]interface{}{
		"script":      scriptPath,
		"interpreter": interpreter,
		"mode":        string(r.config.Mode),
		"timeout":     r.config.Timeout.String(),
	}).Debug("Running python script")

	if r.config.Mode == CaptureFile {
		return r.runToFile(ctx, runCtx, cmd, res)
	}
	return r.runInline(ctx, runCtx, cmd, res)
}

func (r *ScriptRunner) validateScript(filePath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		if isNotExist(err) {
			return "", &ScriptError{Kind: ErrFileNotFound, Path: filePath, Err: err}
		}
		return "", &ScriptError{Kind: ErrUnexpected, Path: filePath, Err: err}
	}
	if ext := filepath.Ext(filePath); ext != pythonExt {
		return "", &ScriptError{Kind: ErrInvalidExtension, Path: filePath, Ext: ext}
	}
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", &ScriptError{Kind: ErrUnexpected, Path: filePath, Err: err}
	}
	return abs, nil
}

func (r *ScriptRunner) resolveInterpreter(interpreterPath string) (string, error) {
	interpreter := interpreterPath
	if interpreter == "" {
		interpreter = r.config.DefaultInterpreter
	}
	if _, err := os.Stat(interpreter); err != nil {
		if isNotExist(err) {
			return "", &ScriptError{Kind: ErrInterpreterNotFound, Path: interpreter, Err: err}
		}
		return "", &ScriptError{Kind: ErrUnexpected, Path: interpreter, Err: err}
	}
	// cmd.Dir changes the working directory, so a relative interpreter must be pinned first.
	if !filepath.IsAbs(interpreter) {
		abs, err := filepath.Abs(interpreter)
		if err != nil {
			return "", &ScriptError{Kind: ErrUnexpected, Path: interpreter, Err: err}
		}
		interpreter = abs
	}
	return interpreter, nil
}

func (r *ScriptRunner) runInline(ctx, runCtx context.Context, cmd *exec.Cmd, res Result) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := r.now()
	runErr := r.cmdExecutor.RunCommand(runCtx, cmd)
	res.Duration = r.now().Sub(start)

	res.Stdout = decodeOutput(r.encoding, stdout.Bytes())
	res.Stderr = decodeOutput(r.encoding, stderr.Bytes())
	res.Output = combineOutput(res.Stdout, res.Stderr)
	res.ExitCode = exitCode(cmd)

	if err := r.classifyRunError(ctx, runCtx, cmd, runErr); err != nil {
		res.TimedOut = IsKind(err, ErrTimeoutExceeded)
		return res, err
	}
	return res, nil
}

func (r *ScriptRunner) runToFile(ctx, runCtx context.Context, cmd *exec.Cmd, res Result) (Result, error) {
	started := r.now()
	f, err := createArtifact(res.ScriptPath, started)
	if err != nil {
		return res, &ScriptError{Kind: ErrUnexpected, Path: res.ScriptPath, Err: err}
	}
	defer f.Close()
	res.ArtifactPath = f.Name()

	if err := writeArtifactHeader(f, res.ScriptPath, res.Interpreter, started); err != nil {
		return res, &ScriptError{Kind: ErrUnexpected, Path: res.ArtifactPath, Err: err}
	}

	// One descriptor for both streams keeps stdout and stderr interleaved in write order.
	cmd.Stdout = f
	cmd.Stderr = f

	runErr := r.cmdExecutor.RunCommand(runCtx, cmd)
	completed := r.now()
	res.Duration = completed.Sub(started)
	res.ExitCode = exitCode(cmd)

	if err := r.classifyRunError(ctx, runCtx, cmd, runErr); err != nil {
		switch {
		case IsKind(err, ErrTimeoutExceeded):
			res.TimedOut = true
			if werr := writeArtifactTimeout(f, r.config.Timeout); werr != nil {
				r.logger.WithFields(map[string]interface{}{
					observability.ErrorLogField: werr,
					"artifact":                  res.ArtifactPath,
				}).Error("Failed to write timeout notice")
			}
		case IsKind(err, ErrLaunchFailure):
			// Nothing ran, so the header-only artifact is not worth keeping.
			f.Close()
			if rmErr := os.Remove(res.ArtifactPath); rmErr == nil {
				res.ArtifactPath = ""
			}
		}
		return res, err
	}

	if err := writeArtifactFooter(f, res.ExitCode, completed); err != nil {
		return res, &ScriptError{Kind: ErrUnexpected, Path: res.ArtifactPath, Err: err}
	}
	if err := f.Close(); err != nil {
		return res, &ScriptError{Kind: ErrUnexpected, Path: res.ArtifactPath, Err: err}
	}
	return res, nil
}

// classifyRunError maps the error returned by the command executor to a *ScriptError.
// A non-zero exit status is a normal outcome and yields nil.
func (r *ScriptRunner) classifyRunError(ctx, runCtx context.Context, cmd *exec.Cmd, runErr error) error {
	if runErr == nil {
		return nil
	}
	if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return &ScriptError{Kind: ErrTimeoutExceeded, Path: cmd.Path, Timeout: r.config.Timeout, Err: runErr}
	}
	if ctx.Err() != nil {
		return &ScriptError{Kind: ErrUnexpected, Path: cmd.Path, Err: ctx.Err()}
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return nil
	}
	// The script exited but a background child kept the pipes open past WaitDelay.
	if errors.Is(runErr, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		r.logger.WithFields(map[string]interface{}{"interpreter": cmd.Path}).Warn("Output pipes still held open after script exited")
		return nil
	}
	if cmd.ProcessState == nil {
		return &ScriptError{Kind: ErrLaunchFailure, Path: cmd.Path, Err: runErr}
	}
	return &ScriptError{Kind: ErrUnexpected, Path: cmd.Path, Err: runErr}
}

// isNotExist reports whether a stat error means nothing can be found at the path.
// A path that walks through a regular file or loops through symlinks counts as missing.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.ELOOP)
}

// combineOutput joins stdout and stderr with a single newline between them when both are present.
func combineOutput(stdout, stderr string) string {
	out := stdout
	if stderr != "" {
		if out != "" {
			out += "\n"
		}
		out += stderr
	}
	return out
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}
