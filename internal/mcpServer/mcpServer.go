package mcpServer

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/SemanticSearchAPI/internal/domain/searchModel"
	"github.com/akolanti/SemanticSearchAPI/pkg/logger_i"
)

const serverVersion = "1.0.0"

// SearchService is the slice of the query engine the MCP tools call.
type SearchService interface {
	Query(ctx context.Context, text string, indexId string, topK int) ([]searchModel.SearchResult, error)
}

type IndexLister interface {
	List(ctx context.Context) ([]searchModel.IndexManifest, error)
}

// Server exposes semantic search to MCP clients over streamable HTTP,
// sharing the same engine and registry as the REST surface.
type Server struct {
	engine   SearchService
	registry IndexLister
	server   *mcp.Server
	logger   *logger_i.Logger
}

func NewServer(engine SearchService, registry IndexLister) *Server {
	s := &Server{
		engine:   engine,
		registry: registry,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "semantic-search-api",
			Version: serverVersion,
		}, nil),
		logger: logger_i.NewLogger("McpServer"),
	}
	s.registerTools()
	return s
}

// Handler returns the http.Handler to mount on the router.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
