package api

import (
	"github.com/hazyhaar/catmatch/pkg/kit"
	"github.com/hazyhaar/catmatch/pkg/rank"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the catmatch MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, reg *rank.Registry, opts Options) {
	eps := newEndpoints(reg, opts)

	kit.RegisterMCPTool(srv, mcp.NewTool("search_category",
		mcp.WithDescription("Find the industry categories matching a short Korean business-type query (e.g. 카페, 스시, 국밥). Returns code, category and full category path, best match first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Business type typed by the user, at least 2 characters")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 8)")),
	), eps.search, decodeSearch)

	kit.RegisterMCPTool(srv, mcp.NewTool("explain_score",
		mcp.WithDescription("Show how a query scores against one category, rule by rule."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The search query")),
		mcp.WithString("code", mcp.Required(), mcp.Description("Category code (e.g. I21201)")),
	), eps.explain, decodeExplain)

	kit.RegisterMCPTool(srv, mcp.NewTool("list_categories",
		mcp.WithDescription("List every category in the loaded catalog with its keywords."),
	), eps.listCategories, func(mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}

func decodeSearch(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	limit := 0
	switch v := args["limit"].(type) {
	case float64:
		limit = int(v)
	case int:
		limit = v
	}
	return &kit.MCPDecodeResult{Request: &searchReq{Query: query, Limit: limit}}, nil
}

func decodeExplain(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	code, _ := args["code"].(string)
	return &kit.MCPDecodeResult{Request: &explainReq{Query: query, Code: code}}, nil
}
