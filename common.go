package mcptools

import "github.com/shaharia-lab/goai/mcp"

func returnTextOutput(text string, isError bool) mcp.CallToolResult {
	return mcp.CallToolResult{
		Content: []mcp.ToolResultContent{
			{
				Type: "text",
				Text: text,
			},
		},
		IsError: isError,
	}
}
