package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	figmamarkup "github.com/kataras/figma-markup"
	"github.com/kataras/figma-markup/pkg/figma"
	"github.com/kataras/figma-markup/pkg/markup"
)

func request(args ConvertRequest) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params: mcp.CallToolParams{
			Name:      ToolName,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content type %T", res.Content[0])
	return text.Text
}

func TestNewServer(t *testing.T) {
	s := NewServer(func(context.Context, string) (*figmamarkup.Result, error) { return nil, nil })
	require.NotNil(t, s)
}

func TestConvertHandler(t *testing.T) {
	const url = "https://www.figma.com/design/FILE/Shop?node-id=1-2"

	var gotURL string
	handler := convertHandler(func(_ context.Context, u string) (*figmamarkup.Result, error) {
		gotURL = u
		return &figmamarkup.Result{
			Reference: figma.Reference{FileKey: "FILE", NodeID: "1-2"},
			Markup:    markup.Markup{HTML: "<div></div>", CSS: "div{}"},
			Calls:     2,
		}, nil
	})

	args := ConvertRequest{URL: url}
	res, err := handler(context.Background(), request(args), args)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, url, gotURL)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &resp))
	assert.Equal(t, ConvertResponse{FileKey: "FILE", NodeID: "1-2", HTML: "<div></div>", CSS: "div{}", Calls: 2}, resp)
}

func TestConvertHandlerErrors(t *testing.T) {
	failing := convertHandler(func(context.Context, string) (*figmamarkup.Result, error) {
		return nil, errors.New("error fetching Figma nodes: 403 Forbidden")
	})

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"missing url", "", "url is required"},
		{"not a design url", "https://figma.com/file/xyz", "not a Figma design URL"},
		{"conversion failure", "https://www.figma.com/design/F/N?node-id=1-2", "403 Forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := ConvertRequest{URL: tt.url}
			res, err := failing(context.Background(), request(args), args)
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}
