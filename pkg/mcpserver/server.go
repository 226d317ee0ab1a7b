// Package mcpserver exposes the Figma to markup conversion as an MCP tool.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	figmamarkup "github.com/kataras/figma-markup"
	"github.com/kataras/figma-markup/pkg/figma"
)

// ToolName is the name of the conversion tool.
const ToolName = "figma_to_markup"

// ConvertFunc runs a conversion for a Figma design URL.
type ConvertFunc func(ctx context.Context, url string) (*figmamarkup.Result, error)

// ConvertRequest holds the arguments of the figma_to_markup tool.
type ConvertRequest struct {
	URL string `json:"url"` // Figma design URL with a node-id parameter
}

// ConvertResponse is the JSON text returned by a successful tool call.
type ConvertResponse struct {
	FileKey string `json:"fileKey"`
	NodeID  string `json:"nodeId"`
	HTML    string `json:"html"`
	CSS     string `json:"css"`
	Calls   int64  `json:"calls"`
}

// NewServer creates a new MCP server with the figma_to_markup tool.
func NewServer(convert ConvertFunc) *server.MCPServer {
	s := server.NewMCPServer(
		"Figma Markup MCP",
		figma.Version,
		server.WithToolCapabilities(false),
	)

	tool := mcp.NewTool(ToolName,
		mcp.WithDescription("Generate HTML and CSS for a node of a Figma design"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Figma design URL, e.g. https://www.figma.com/design/<fileKey>/<name>?node-id=<nodeId>"),
		),
	)
	s.AddTool(tool, mcp.NewTypedToolHandler(convertHandler(convert)))

	return s
}

func convertHandler(convert ConvertFunc) func(ctx context.Context, request mcp.CallToolRequest, args ConvertRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ConvertRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		if _, ok := figma.ParseReference(args.URL); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("not a Figma design URL with a node-id: %s", args.URL)), nil
		}

		result, err := convert(ctx, args.URL)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to convert design: %v", err)), nil
		}

		response := ConvertResponse{
			FileKey: result.Reference.FileKey,
			NodeID:  result.Reference.NodeID,
			HTML:    result.Markup.HTML,
			CSS:     result.Markup.CSS,
			Calls:   result.Calls,
		}

		responseBytes, err := json.Marshal(response)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}

		return mcp.NewToolResultText(string(responseBytes)), nil
	}
}
