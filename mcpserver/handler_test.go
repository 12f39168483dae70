package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/content-engine/analyzer"
	"github.com/seo-optimizer/content-engine/config"
	"github.com/seo-optimizer/content-engine/textmetrics"
)

func request(name string, args any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params:  mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestNewServer(t *testing.T) {
	a := analyzer.New(config.Default().Analyzer, analyzer.Options{})
	defer a.Shutdown()
	assert.NotNil(t, NewServer(a))
	assert.NotNil(t, NewHTTPServer(NewServer(a), ""))
}

func TestAnalyzeContentHandler(t *testing.T) {
	a := analyzer.New(config.Default().Analyzer, analyzer.Options{})
	defer a.Shutdown()
	handler := getAnalyzeContentHandler(a)

	args := AnalyzeContentRequest{Content: "Coffee beans are roasted. Coffee is brewed.", Title: "Coffee", TargetKeyword: "coffee"}
	result, err := handler(context.Background(), request("analyze_content", args), args)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var report analyzer.Report
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.Equal(t, "coffee", report.TargetKeyword)
	assert.Equal(t, 7, report.Readability.WordCount)

	args = AnalyzeContentRequest{}
	result, err = handler(context.Background(), request("analyze_content", args), args)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "content is required", resultText(t, result))
}

func TestKeywordHandlers(t *testing.T) {
	ctx := context.Background()

	extract := ExtractKeywordsRequest{Content: "Coffee roasting and coffee brewing for coffee lovers"}
	result, err := extractKeywordsHandler(ctx, request("extract_keywords", extract), extract)
	require.NoError(t, err)
	var out map[string][]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, "coffee", out["keywords"][0])

	related := RelatedKeywordsRequest{Seed: "coffee", Limit: 2}
	result, err = relatedKeywordsHandler(ctx, request("related_keywords", related), related)
	require.NoError(t, err)
	out = nil
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, textmetrics.GenerateRelatedKeywords("coffee")[:2], out["keywords"])

	related = RelatedKeywordsRequest{}
	result, err = relatedKeywordsHandler(ctx, request("related_keywords", related), related)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMetaTagsHandler(t *testing.T) {
	args := MetaTagsRequest{Title: "Coffee Guide", Content: "Coffee is a brewed drink."}
	result, err := metaTagsHandler(context.Background(), request("generate_meta_tags", args), args)
	require.NoError(t, err)

	var tags textmetrics.MetaTags
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &tags))
	assert.Equal(t, "Coffee Guide", tags.Title)

	args = MetaTagsRequest{Title: "only title"}
	result, err = metaTagsHandler(context.Background(), request("generate_meta_tags", args), args)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSchemaHandler(t *testing.T) {
	args := SchemaRequest{Type: "product", Fields: map[string]string{"name": "Grinder"}}
	result, err := schemaHandler(context.Background(), request("generate_schema", args), args)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var resp SchemaResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.Contains(t, resp.Markup, `"@type": "Product"`)
	assert.Contains(t, resp.ScriptTag, resp.Markup)

	args = SchemaRequest{Type: "recipe"}
	result, err = schemaHandler(context.Background(), request("generate_schema", args), args)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
