// Package gateway serves goai tools to MCP clients through the official MCP Go SDK.
//
// Tools are defined the goai way (raw JSON input schema plus a handler taking
// CallToolParams); the gateway registers each of them on an SDK server and translates
// requests and results in both directions. Handler errors never surface as protocol
// errors: they are returned as tool results with isError set.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shaharia-lab/goai/mcp"
	"github.com/shaharia-lab/goai/observability"
)

var (
	ErrNoTools       = errors.New("gateway: at least one tool is required")
	ErrDuplicateTool = errors.New("gateway: duplicate tool name")
	ErrInvalidSchema = errors.New("gateway: invalid input schema")
)

// Info identifies the server to connecting clients.
type Info struct {
	Name    string
	Version string
}

// Server exposes a fixed set of goai tools over MCP.
type Server struct {
	logger observability.Logger
	server *sdkmcp.Server
	tools  []string
}

// New registers tools on a new MCP server.
func New(info Info, logger observability.Logger, tools ...mcp.Tool) (*Server, error) {
	if len(tools) == 0 {
		return nil, ErrNoTools
	}

	s := &Server{
		logger: logger,
		server: sdkmcp.NewServer(&sdkmcp.Implementation{Name: info.Name, Version: info.Version}, nil),
	}

	seen := make(map[string]struct{}, len(tools))
	for _, tool := range tools {
		if _, dup := seen[tool.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name)
		}
		seen[tool.Name] = struct{}{}

		schema, err := decodeSchema(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", tool.Name, err)
		}

		s.server.AddTool(&sdkmcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: schema,
		}, s.bridge(tool))
		s.tools = append(s.tools, tool.Name)
	}

	return s, nil
}

// Tools returns the names of the registered tools in registration order.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// Connect attaches the server to a single transport and returns the live session.
func (s *Server) Connect(ctx context.Context, transport sdkmcp.Transport) (*sdkmcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

// Run serves requests on transport until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, transport sdkmcp.Transport) error {
	s.logger.WithFields(map[string]interface{}{
		"tools": s.tools,
	}).Info("MCP gateway serving")

	err := s.server.Run(ctx, transport)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WithFields(map[string]interface{}{
			observability.ErrorLogField: err,
		}).Error("MCP gateway stopped")
		return err
	}

	s.logger.Info("MCP gateway stopped")
	return nil
}

// RunStdio serves on the process's stdin and stdout.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) bridge(tool mcp.Tool) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		args := req.Params.Arguments
		if len(args) == 0 {
			args = json.RawMessage(`{}`)
		}

		res, err := tool.Handler(ctx, mcp.CallToolParams{
			Name:      req.Params.Name,
			Arguments: args,
		})
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				observability.ErrorLogField: err,
				"tool":                      tool.Name,
			}).Error("Tool handler returned an error")
			return &sdkmcp.CallToolResult{
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil
		}

		return toSDKResult(res), nil
	}
}

func toSDKResult(res mcp.CallToolResult) *sdkmcp.CallToolResult {
	out := &sdkmcp.CallToolResult{
		Content: make([]sdkmcp.Content, 0, len(res.Content)),
		IsError: res.IsError,
	}
	for _, c := range res.Content {
		out.Content = append(out.Content, &sdkmcp.TextContent{Text: c.Text})
	}
	return out
}

func decodeSchema(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{"type": "object"}, nil
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if schema["type"] != "object" {
		return nil, fmt.Errorf("%w: type must be \"object\", got %v", ErrInvalidSchema, schema["type"])
	}
	return schema, nil
}
