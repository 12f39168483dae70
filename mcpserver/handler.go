// Package mcpserver exposes the text metrics as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/seo-optimizer/content-engine/analyzer"
	"github.com/seo-optimizer/content-engine/schema"
	"github.com/seo-optimizer/content-engine/textmetrics"
)

const Version = "1.0.0"

type AnalyzeContentRequest struct {
	Content       string `json:"content"`
	Title         string `json:"title"`
	TargetKeyword string `json:"targetKeyword"`
}

type ExtractKeywordsRequest struct {
	Content string `json:"content"`
}

type RelatedKeywordsRequest struct {
	Seed  string `json:"seed"`
	Limit int    `json:"limit"` // 0 means no limit
}

type MetaTagsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type SchemaRequest struct {
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields"`
}

type SchemaResponse struct {
	Markup    string `json:"markup"`
	ScriptTag string `json:"scriptTag"`
}

// NewServer creates an MCP server with the analysis tools
func NewServer(a *analyzer.Analyzer) *server.MCPServer {
	s := server.NewMCPServer(
		"SEO Content Engine",
		Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("analyze_content",
		mcp.WithDescription("Run a full SEO analysis of a text: readability, score, tips, suggestions, keywords and meta tags"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The text to analyze, markdown headings allowed"),
		),
		mcp.WithString("title",
			mcp.Description("The page title"),
		),
		mcp.WithString("targetKeyword",
			mcp.Description("The keyword the content should rank for"),
		),
	), mcp.NewTypedToolHandler(getAnalyzeContentHandler(a)))

	s.AddTool(mcp.NewTool("extract_keywords",
		mcp.WithDescription("List the most frequent meaningful words of a text"),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The text to extract keywords from"),
		),
	), mcp.NewTypedToolHandler(extractKeywordsHandler))

	s.AddTool(mcp.NewTool("related_keywords",
		mcp.WithDescription("Suggest keyword phrases related to a seed keyword"),
		mcp.WithString("seed",
			mcp.Required(),
			mcp.Description("The seed keyword"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of phrases to return"),
		),
	), mcp.NewTypedToolHandler(relatedKeywordsHandler))

	s.AddTool(mcp.NewTool("generate_meta_tags",
		mcp.WithDescription("Generate a meta title, description and keywords for a page"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The page title"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The page content"),
		),
	), mcp.NewTypedToolHandler(metaTagsHandler))

	types := make([]string, 0, len(schema.Types))
	for _, t := range schema.Types {
		types = append(types, string(t))
	}
	s.AddTool(mcp.NewTool("generate_schema",
		mcp.WithDescription("Render schema.org JSON-LD markup from form fields"),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Enum(types...),
			mcp.Description("The schema template"),
		),
		mcp.WithObject("fields",
			mcp.Description("Template fields, e.g. headline, author, datePublished for an article"),
		),
	), mcp.NewTypedToolHandler(schemaHandler))

	return s
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	responseBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseBytes)), nil
}

func getAnalyzeContentHandler(a *analyzer.Analyzer) func(ctx context.Context, request mcp.CallToolRequest, args AnalyzeContentRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args AnalyzeContentRequest) (*mcp.CallToolResult, error) {
		if args.Content == "" {
			return mcp.NewToolResultError("content is required"), nil
		}
		report := a.AnalyzeContent(ctx, textmetrics.ContentDocument{
			Text:          args.Content,
			Title:         args.Title,
			TargetKeyword: args.TargetKeyword,
		})
		return jsonResult(report)
	}
}

func extractKeywordsHandler(ctx context.Context, request mcp.CallToolRequest, args ExtractKeywordsRequest) (*mcp.CallToolResult, error) {
	if args.Content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}
	return jsonResult(map[string][]string{"keywords": textmetrics.ExtractKeywords(args.Content)})
}

func relatedKeywordsHandler(ctx context.Context, request mcp.CallToolRequest, args RelatedKeywordsRequest) (*mcp.CallToolResult, error) {
	if args.Seed == "" {
		return mcp.NewToolResultError("seed is required"), nil
	}
	related := textmetrics.GenerateRelatedKeywords(args.Seed)
	if args.Limit > 0 && args.Limit < len(related) {
		related = related[:args.Limit]
	}
	return jsonResult(map[string][]string{"keywords": related})
}

func metaTagsHandler(ctx context.Context, request mcp.CallToolRequest, args MetaTagsRequest) (*mcp.CallToolResult, error) {
	if args.Title == "" || args.Content == "" {
		return mcp.NewToolResultError("title and content are required"), nil
	}
	return jsonResult(textmetrics.GenerateMetaTags(args.Title, args.Content))
}

func schemaHandler(ctx context.Context, request mcp.CallToolRequest, args SchemaRequest) (*mcp.CallToolResult, error) {
	t := schema.Type(args.Type)
	if !t.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown schema type %q", args.Type)), nil
	}
	markup, err := schema.Generate(t, args.Fields)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate schema: %v", err)), nil
	}
	return jsonResult(SchemaResponse{Markup: markup, ScriptTag: schema.ScriptTag(markup)})
}
