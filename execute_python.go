package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shaharia-lab/goai/mcp"
	"github.com/shaharia-lab/goai/observability"
	"go.opentelemetry.io/otel/attribute"
)

const ExecutePythonToolName = "execute_python"

// ExecutePython represents a tool that runs a Python script file with a chosen interpreter
type ExecutePython struct {
	logger observability.Logger
	runner *ScriptRunner
}

// NewExecutePython creates a new instance of the ExecutePython tool
func NewExecutePython(logger observability.Logger, config PythonConfig) (*ExecutePython, error) {
	runner, err := NewScriptRunner(logger, config)
	if err != nil {
		return nil, fmt.Errorf("invalid python config: %w", err)
	}
	return &ExecutePython{
		logger: logger,
		runner: runner,
	}, nil
}

// Runner returns the script runner behind the tool.
func (p *ExecutePython) Runner() *ScriptRunner {
	return p.runner
}

// ExecutePythonTool returns a mcp.Tool that executes a Python script and returns its output
func (p *ExecutePython) ExecutePythonTool() mcp.Tool {
	return mcp.Tool{
		Name: ExecutePythonToolName,
		Description: "Executes a Python script using the specified or default interpreter. " +
			"Returns the complete terminal output including prints, errors, and tracebacks, " +
			"or the path of the file the output was written to.",
		InputSchema: json.RawMessage(`{
            "type": "object",
            "properties": {
                "file_path": {
                    "type": "string",
                    "description": "The path to the .py file to execute"
                },
                "interpreter_path": {
                    "type": "string",
                    "description": "Optional path to a specific Python interpreter. Defaults to the configured interpreter"
                }
            },
            "required": ["file_path"]
        }`),
		Handler: func(ctx context.Context, params mcp.CallToolParams) (mcp.CallToolResult, error) {
			ctx, span := observability.StartSpan(ctx, fmt.Sprintf("%s.Handler", params.Name))
			span.SetAttributes(
				attribute.String("tool_name", params.Name),
				attribute.String("tool_argument", string(params.Arguments)),
				attribute.String("capture_mode", string(p.runner.config.Mode)),
			)
			defer span.End()

			logger := p.logger.WithFields(map[string]interface{}{
				"tool":          ExecutePythonToolName,
				"invocation_id": uuid.NewString(),
			})

			var input struct {
				FilePath        string `json:"file_path"`
				InterpreterPath string `json:"interpreter_path"`
			}

			if err := json.Unmarshal(params.Arguments, &input); err != nil {
				logger.WithFields(map[string]interface{}{
					observability.ErrorLogField: err,
					"raw_input":                 string(params.Arguments),
				}).Error("Failed to unmarshal input parameters")

				span.RecordError(err)
				return returnTextOutput(fmt.Sprintf("Error executing script: failed to parse input: %v", err), true), nil
			}

			logger.WithFields(map[string]interface{}{
				"file_path":        input.FilePath,
				"interpreter_path": input.InterpreterPath,
			}).Info("Executing python script")

			res, err := p.runner.Run(ctx, input.FilePath, input.InterpreterPath)
			text := Render(res, err)

			if err != nil {
				kind := ErrUnexpected
				var se *ScriptError
				if errors.As(err, &se) {
					kind = se.Kind
				}
				span.SetAttributes(attribute.String("error_kind", kind.String()))
				span.RecordError(err)
				logger.WithFields(map[string]interface{}{
					observability.ErrorLogField: err,
					"error_kind":                kind.String(),
					"file_path":                 input.FilePath,
					"artifact":                  res.ArtifactPath,
				}).Error("Python script execution failed")
				return returnTextOutput(text, true), nil
			}

			span.SetAttributes(attribute.Int("exit_code", res.ExitCode))
			logger.WithFields(map[string]interface{}{
				"file_path":     res.ScriptPath,
				"interpreter":   res.Interpreter,
				"exit_code":     res.ExitCode,
				"duration":      res.Duration.String(),
				"output_length": len(text),
				"artifact":      res.ArtifactPath,
			}).Info("Python script executed")

			return returnTextOutput(text, false), nil
		},
	}
}
