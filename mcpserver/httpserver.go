package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// DefaultEndpoint is where the streamable HTTP transport listens
const DefaultEndpoint = "/mcp"

// NewHTTPServer serves s over streamable HTTP at endpoint
func NewHTTPServer(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return server.NewStreamableHTTPServer(s, server.WithEndpointPath(endpoint))
}

// ServeStdio serves s over stdin and stdout until stdin closes
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
